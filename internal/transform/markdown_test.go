package transform

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	fs := afero.NewMemMapFs()
	src := "# Getting Started\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n<div class=\"note\">kept</div>\n"
	require.NoError(t, afero.WriteFile(fs, "/docs/start.md", []byte(src), 0o644))

	out, err := Markdown().Apply(fs, "/docs/start.md")
	require.NoError(t, err)

	html := string(out)
	require.Contains(t, html, `<h1 id="getting-started">Getting Started</h1>`)
	require.Contains(t, html, "<table>")
	require.Contains(t, html, `<div class="note">kept</div>`)
}

func TestMarkdown_MissingFile(t *testing.T) {
	_, err := Markdown().Apply(afero.NewMemMapFs(), "/nope.md")
	require.Error(t, err)
}

func TestMarkdown_StripsFrontMatter(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.md", []byte("---\ntitle: A\n---\n# A\n"), 0o644))

	out, err := Markdown().Apply(fs, "/a.md")
	require.NoError(t, err)
	require.NotContains(t, string(out), "title: A")
	require.NotContains(t, string(out), "<hr")
	require.Contains(t, string(out), `<h1 id="a">A</h1>`)
}

func TestMarkdown_UnterminatedFrontMatter(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.md", []byte("---\ntitle: A\n# A\n"), 0o644))

	_, err := Markdown().Apply(fs, "/a.md")
	require.Error(t, err)
}
