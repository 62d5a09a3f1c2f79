package transform

import (
	"bytes"
	"fmt"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/docsite/internal/frontmatter"
)

// goldmark.Markdown is safe for concurrent Convert calls.
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	// Sources are trusted project documents; inline HTML is passed through.
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Markdown returns a transformation rendering CommonMark (with GFM tables,
// strikethrough, task lists and autolinks) to HTML. A leading YAML front
// matter block is dropped before conversion.
func Markdown() Transform {
	return Custom(NameMarkdown, renderMarkdown)
}

func renderMarkdown(fsys afero.Fs, path string) ([]byte, error) {
	src, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	src, err = frontmatter.Strip(src)
	if err != nil {
		return nil, fmt.Errorf("markdown %s: %w", path, err)
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown %s: %w", path, err)
	}
	return buf.Bytes(), nil
}
