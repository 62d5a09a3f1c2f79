package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/layout"
	"git.home.luguber.info/inful/docsite/internal/menu"
	"git.home.luguber.info/inful/docsite/internal/transform"
)

func writeFile(t *testing.T, fsys afero.Fs, name, body string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, name, []byte(body), 0o644))
}

func readFile(t *testing.T, fsys afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, name)
	require.NoError(t, err)
	return string(data)
}

func newContext(fsys afero.Fs, entries ...transform.Entry) BuildContext {
	r := layout.NewRenderer(fsys)
	return BuildContext{
		Fs:               fsys,
		WebsiteDirectory: "out",
		SourceDirectory:  "src",
		Renderer:         r,
		Registry:         transform.NewRegistry(r, entries...),
	}
}

func TestWalkCustomTransformRoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/a.txt", "hello")
	writeFile(t, fsys, "layout.tmpl", "{{ .content }}|{{ .uri }}|{{ .baseHref }}")

	upper := transform.Custom("upper", func(fsys afero.Fs, p string) ([]byte, error) {
		data, err := afero.ReadFile(fsys, p)
		return bytes.ToUpper(data), err
	})
	bc := newContext(fsys, transform.Keyed("txt", upper))
	bc.LayoutPath = "layout.tmpl"
	bc.BaseHref = "/base"

	report, err := Walk(context.Background(), bc)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pages)
	assert.Equal(t, "HELLO|/a.html|/base", readFile(t, fsys, "out/a.html"))
}

func TestWalkSkipsUnregisteredExtensions(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/logo.png", "png")
	writeFile(t, fsys, "src/Makefile", "all:")
	writeFile(t, fsys, "src/page.html", "<p>x</p>")

	report, err := Walk(context.Background(), newContext(fsys))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pages)
	assert.Equal(t, 2, report.Skipped)

	for _, name := range []string{"out/logo.html", "out/logo.png", "out/Makefile.html"} {
		ok, _ := afero.Exists(fsys, name)
		assert.False(t, ok, name)
	}
	assert.Contains(t, readFile(t, fsys, "out/page.html"), "<p>x</p>")
}

func TestWalkExcludesDotfilesAndPatterns(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/.hidden.html", "h")
	writeFile(t, fsys, "src/drafts/wip.html", "w")
	writeFile(t, fsys, "src/notes.bak.html", "n")
	writeFile(t, fsys, "src/keep.html", "k")

	excludes, err := CompileExcludes([]string{"drafts", "*.bak.html"})
	require.NoError(t, err)
	bc := newContext(fsys)
	bc.Excludes = excludes

	report, err := Walk(context.Background(), bc)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pages)
	assert.Equal(t, 3, report.Excluded)

	ok, _ := afero.DirExists(fsys, "out/drafts")
	assert.False(t, ok)
	ok, _ = afero.Exists(fsys, "out/keep.html")
	assert.True(t, ok)
}

func TestCompileExcludesRejectsInvalidPattern(t *testing.T) {
	_, err := CompileExcludes([]string{"[unclosed"})
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
}

func TestWalkMissingSourceIsNotAnError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	report, err := Walk(context.Background(), newContext(fsys))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Pages)
}

func TestWalkUsesPlaceholderWithoutMenuIndex(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/index.html", "<p>home</p>")

	_, err := Walk(context.Background(), newContext(fsys))
	require.NoError(t, err)
	out := readFile(t, fsys, "out/index.html")
	assert.Contains(t, out, menu.Placeholder)
	assert.Contains(t, out, "<p>home</p>")
	assert.Contains(t, out, "<title>index</title>")
}

func TestWalkTemplateTransform(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/page.tpl", `{{ printf "%s!" "hi" }}`)
	writeFile(t, fsys, "layout.tmpl", "{{ .content }}")

	entry, err := transform.Named("tpl", "evaluate-as-template")
	require.NoError(t, err)
	bc := newContext(fsys, entry)
	bc.LayoutPath = "layout.tmpl"

	_, err = Walk(context.Background(), bc)
	require.NoError(t, err)
	assert.Equal(t, "hi!", readFile(t, fsys, "out/page.html"))
}

// strongTexts returns the text of every <strong> element in doc.
func strongTexts(t *testing.T, doc string) []string {
	t.Helper()
	root, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	var out []string
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "strong" && n.FirstChild != nil {
			out = append(out, n.FirstChild.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(root)
	return out
}

func TestWalkEndToEndMenuSelection(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/index.rst", "Welcome")
	writeFile(t, fsys, "src/guide/start.rst", "Start here")
	writeFile(t, fsys, "src/.index.yaml", "- {path: /index, name: index}\n- {path: /guide/start, name: start}\n")

	report, err := Walk(context.Background(), newContext(fsys, transform.Default("rst")))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Pages)

	start := readFile(t, fsys, "out/guide/start.html")
	assert.Contains(t, start, "Start here")
	assert.Contains(t, start, `<a href="/index.html" title="index">index</a>`)
	assert.Equal(t, []string{"start"}, strongTexts(t, start))

	index := readFile(t, fsys, "out/index.html")
	assert.Equal(t, []string{"index"}, strongTexts(t, index))
}

func buildTree(t *testing.T, fsys afero.Fs) {
	t.Helper()
	writeFile(t, fsys, "src/.index.yaml", "- {path: /a/, name: A, directory: true}\n")
	writeFile(t, fsys, "src/a/.index.yaml", "- {path: p0, name: P0}\n- {path: p1, name: P1}\n")
	for i := 0; i < 20; i++ {
		writeFile(t, fsys, fmt.Sprintf("src/a/p%d.html", i), fmt.Sprintf("<p>%d</p>", i))
		writeFile(t, fsys, fmt.Sprintf("src/b/q%d.html", i), fmt.Sprintf("<p>q%d</p>", i))
	}
}

func TestWalkIsIdempotent(t *testing.T) {
	fsys := afero.NewMemMapFs()
	buildTree(t, fsys)
	bc := newContext(fsys)

	_, err := Walk(context.Background(), bc)
	require.NoError(t, err)
	first := readFile(t, fsys, "out/a/p1.html")

	_, err = Walk(context.Background(), bc)
	require.NoError(t, err)
	assert.Equal(t, first, readFile(t, fsys, "out/a/p1.html"))
}

func TestWalkParallelMatchesSequential(t *testing.T) {
	fsys := afero.NewMemMapFs()
	buildTree(t, fsys)

	seq := newContext(fsys)
	seq.Concurrency = 1
	seq.WebsiteDirectory = "seq"
	par := newContext(fsys)
	par.Concurrency = 8
	par.WebsiteDirectory = "par"

	r1, err := Walk(context.Background(), seq)
	require.NoError(t, err)
	r2, err := Walk(context.Background(), par)
	require.NoError(t, err)
	assert.Equal(t, 40, r1.Pages)
	assert.Equal(t, r1.Pages, r2.Pages)

	for i := 0; i < 20; i++ {
		for _, rel := range []string{fmt.Sprintf("/a/p%d.html", i), fmt.Sprintf("/b/q%d.html", i)} {
			assert.Equal(t, readFile(t, fsys, "seq"+rel), readFile(t, fsys, "par"+rel), rel)
		}
	}
}

// The default layout carries an inline <style>, so every page drives the CSS
// minifier from its own worker. Run with -race.
func TestWalkParallelMinified(t *testing.T) {
	fsys := afero.NewMemMapFs()
	buildTree(t, fsys)

	seq := newContext(fsys)
	seq.Concurrency = 1
	seq.Minify = true
	seq.WebsiteDirectory = "seq"
	par := newContext(fsys)
	par.Concurrency = 8
	par.Minify = true
	par.WebsiteDirectory = "par"

	r1, err := Walk(context.Background(), seq)
	require.NoError(t, err)
	r2, err := Walk(context.Background(), par)
	require.NoError(t, err)
	assert.Equal(t, 40, r2.Pages)
	assert.Equal(t, r1.Pages, r2.Pages)

	for i := 0; i < 20; i++ {
		rel := fmt.Sprintf("/a/p%d.html", i)
		page := readFile(t, fsys, "par"+rel)
		assert.Equal(t, readFile(t, fsys, "seq"+rel), page, rel)
		assert.NotContains(t, page, "}\nnav", "inline style minified")
	}
}

var errBroken = errors.New("broken source")

func failingEntry() transform.Entry {
	return transform.Keyed("txt", transform.Custom("fragile", func(fsys afero.Fs, p string) ([]byte, error) {
		if strings.HasSuffix(p, "bad.txt") {
			return nil, errBroken
		}
		return afero.ReadFile(fsys, p)
	}))
}

func TestWalkContinueOnError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, n := range []string{"a", "bad", "c"} {
		writeFile(t, fsys, "src/"+n+".txt", n)
	}

	report, err := Walk(context.Background(), newContext(fsys, failingEntry()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBroken))
	assert.True(t, derrors.IsCategory(err, derrors.CategoryBuild))

	assert.Equal(t, 2, report.Pages)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, StageTransform, report.Errors[0].Stage)
	assert.Equal(t, "/bad.html", report.Errors[0].URI)

	ok, _ := afero.Exists(fsys, "out/c.html")
	assert.True(t, ok)
}

func TestWalkAbortOnError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, n := range []string{"a", "bad", "c"} {
		writeFile(t, fsys, "src/"+n+".txt", n)
	}
	bc := newContext(fsys, failingEntry())
	bc.Policy = AbortOnError
	bc.Concurrency = 1

	report, err := Walk(context.Background(), bc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBroken))
	assert.Equal(t, 1, report.Failed)

	ok, _ := afero.Exists(fsys, "out/a.html")
	assert.True(t, ok)
	ok, _ = afero.Exists(fsys, "out/c.html")
	assert.False(t, ok)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, ContinueOnError, p)

	p, err = ParsePolicy("ABORT")
	require.NoError(t, err)
	assert.Equal(t, AbortOnError, p)

	_, err = ParsePolicy("retry")
	assert.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
}
