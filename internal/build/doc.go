// Package build provides the canonical build execution pipeline for docsite.
//
// A build prepares the output directory, copies static assets, walks the
// source tree into pages and finally promotes the configured index page.
// The CLI and tests both route through Service.
package build
