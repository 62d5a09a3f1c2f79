// Package frontmatter separates a leading YAML header from page sources.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnterminated is returned when a source opens a header but never closes it.
var ErrUnterminated = errors.New("front matter opened with --- but not closed")

// Document is a page source split into its header fields and body.
type Document struct {
	Fields map[string]any
	Body   []byte
	Had    bool
}

// Parse splits content at the closing "---" line. Sources without an opening
// delimiter on the first line are returned whole with Had false. Both LF and
// CRLF line endings are accepted.
func Parse(content []byte) (Document, error) {
	nl := newline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return Document{Fields: map[string]any{}, Body: content}, nil
	}

	rest := content[len(open):]
	var header, body []byte
	switch {
	case bytes.HasPrefix(rest, open):
		body = rest[len(open):]
	default:
		sep := []byte(nl + "---" + nl)
		idx := bytes.Index(rest, sep)
		if idx < 0 {
			// a header closing at end of file has no trailing newline
			if bytes.HasSuffix(rest, []byte(nl+"---")) {
				idx = len(rest) - len(nl) - 3
				header, body = rest[:idx], nil
				break
			}
			return Document{}, ErrUnterminated
		}
		header, body = rest[:idx], rest[idx+len(sep):]
	}

	fields := map[string]any{}
	if len(bytes.TrimSpace(header)) > 0 {
		if err := yaml.Unmarshal(header, &fields); err != nil {
			return Document{}, fmt.Errorf("parse front matter: %w", err)
		}
		if fields == nil {
			fields = map[string]any{}
		}
	}
	return Document{Fields: fields, Body: body, Had: true}, nil
}

// Strip returns content without its header.
func Strip(content []byte) ([]byte, error) {
	doc, err := Parse(content)
	if err != nil {
		return nil, err
	}
	return doc.Body, nil
}

func newline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
