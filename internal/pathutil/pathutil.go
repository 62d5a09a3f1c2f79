// Package pathutil holds the slash-path helpers shared by the walker and the menu builder.
//
// All helpers operate on URI-style paths ("/" separated) regardless of the host OS.
package pathutil

import (
	"path"
	"strings"
)

// TrimExtension returns p without the extension of its final segment.
// Paths whose final segment has no dot, or ends in a bare dot, are returned unchanged.
func TrimExtension(p string) string {
	ext := path.Ext(p)
	if len(ext) <= 1 {
		return p
	}
	return p[:len(p)-len(ext)]
}

// ExtensionOf returns the lowercase text after the last dot of name.
// Names with fewer than two dot-delimited parts have no extension.
func ExtensionOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// BaseWithoutExtension strips "."+ext from the end of name. The comparison is
// case-insensitive because ext is usually the lowercased form returned by ExtensionOf.
func BaseWithoutExtension(name, ext string) string {
	if ext == "" {
		return name
	}
	cut := len(name) - len(ext) - 1
	if cut < 0 || name[cut] != '.' || !strings.EqualFold(name[cut+1:], ext) {
		return name
	}
	return name[:cut]
}

// JoinURI joins non-empty parts with "/" and never leaves a trailing slash.
// The result keeps a leading slash when the first part had one.
func JoinURI(parts ...string) string {
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i > 0 || b.Len() > 0 {
			p = strings.TrimLeft(p, "/")
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "/") {
				b.WriteByte('/')
			}
		}
		b.WriteString(p)
	}
	return strings.TrimRight(b.String(), "/")
}
