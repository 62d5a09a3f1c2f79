package menu

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xhtml "golang.org/x/net/html"
)

const topYAML = `
- path: /index
  name: Home
- path: /guide/
  name: Guide
  directory: true
`

const guideYAML = `
- path: index
  name: Overview
  index: true
- path: start.rst
  name: Start
- path: secret
  name: Secret
  hidden: true
`

func TestBuildPlaceholderWithoutIndex(t *testing.T) {
	fsys := afero.NewMemMapFs()
	assert.Equal(t, Placeholder, Build(fsys, "/index.html", "src", ""))
}

func TestBuildPlaceholderOnMalformedIndex(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/.index.xml", "<menu><file>")
	assert.Equal(t, Placeholder, Build(fsys, "/index.html", "src", ""))
}

func TestBuildTopLevel(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/.index.yaml", topYAML)

	got := Build(fsys, "/index.html", "src", "")
	assert.Equal(t,
		`<li><a href="/index.html" title="Home"><strong>Home</strong></a></li>`+
			`<li><a href="/guide/index.html" title="Guide">Guide</a></li>`,
		got)
}

func TestBuildBaseHrefPrefixesLinks(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/.index.yaml", topYAML)

	got := Build(fsys, "/other.html", "src", "/docs")
	assert.Contains(t, got, `href="/docs/index.html"`)
	assert.Contains(t, got, `href="/docs/guide/index.html"`)
	assert.NotContains(t, got, "<strong>")
}

func TestBuildExpandsSelectedDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/.index.yaml", topYAML)
	writeFile(t, fsys, "src/guide/.index.yaml", guideYAML)

	got := Build(fsys, "/guide/start.html", "src", "")
	assert.Equal(t,
		`<li><a href="/index.html" title="Home">Home</a></li>`+
			`<li><a href="/guide/index.html" title="Guide"><strong>Guide</strong></a>`+
			`<ul><li><a href="/guide/start.html" title="Start"><strong>Start</strong></a></li></ul>`+
			`</li>`,
		got)
}

func TestBuildSubMenuConditions(t *testing.T) {
	tests := []struct {
		name     string
		subIndex bool
		uri      string
		wantList bool
	}{
		{"selected with sub-index", true, "/guide/index.html", true},
		{"not selected", true, "/index.html", false},
		{"selected without sub-index", false, "/guide/index.html", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			writeFile(t, fsys, "src/.index.yaml", topYAML)
			if tt.subIndex {
				writeFile(t, fsys, "src/guide/.index.yaml", guideYAML)
			}
			got := Build(fsys, tt.uri, "src", "")
			assert.Equal(t, tt.wantList, strings.Contains(got, "<ul>"))
		})
	}
}

func TestBuildFileNodeIsNeverExpanded(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/.index.yaml", "- {path: guide/, name: Guide}\n")
	writeFile(t, fsys, "src/guide/.index.yaml", guideYAML)

	got := Build(fsys, "/guide/.html", "src", "")
	assert.NotContains(t, got, "<ul>")
}

func TestBuildPrefixSelectionIsLiteral(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/.index.yaml", "- {path: /foo, name: Foo, directory: true}\n")

	tests := []struct {
		uri      string
		selected bool
	}{
		{"/foo/page.html", true},
		{"/foobar/page.html", true},
		{"/bar/foo.html", false},
		{"/fo.html", false},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got := Build(fsys, tt.uri, "src", "")
			assert.Equal(t, tt.selected, strings.Contains(got, "<strong>Foo</strong>"))
		})
	}
}

func TestBuildXMLWithSubMenu(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/.index.xml", `<menu>
  <file><path>/index</path><name>Home</name></file>
  <directory><path>api/</path><name>API</name></directory>
  <file display="false"><path>/draft</path><name>Draft</name></file>
  <file><path>/about</path><name>About &amp; Team</name></file>
</menu>`)
	writeFile(t, fsys, "src/api/.index.xml", `<menu>
  <file index="true"><path>index</path><name>API</name></file>
  <file><path>/v1</path><name>V1</name></file>
</menu>`)

	got := Build(fsys, "/api/v1.html", "src", "")
	assert.Equal(t,
		`<li><a href="/index.html" title="Home">Home</a></li>`+
			`<li><a href="/api/index.html" title="API"><strong>API</strong></a>`+
			`<ul><li><a href="/api/v1.html" title="V1"><strong>V1</strong></a></li></ul>`+
			`</li>`+
			`<li><a href="/about.html" title="About &amp; Team">About &amp; Team</a></li>`,
		got)
}

func TestBuildEscapesLabels(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/.index.yaml", "- {path: /x, name: \"<b>x</b>\"}\n")

	got := Build(fsys, "/y.html", "src", "")
	assert.Equal(t, `<li><a href="/x.html" title="&lt;b&gt;x&lt;/b&gt;">&lt;b&gt;x&lt;/b&gt;</a></li>`, got)
}

func TestLink(t *testing.T) {
	root, link := Link("/guide/", true)
	assert.Equal(t, "/guide/", root)
	assert.Equal(t, "/guide/index.html", link)

	root, link = Link("/guide/start.rst", false)
	assert.Equal(t, "/guide/start.html", root)
	assert.Equal(t, root, link)
}

func TestBuilderIsReusable(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/.index.yaml", topYAML)
	b := NewBuilder(fsys)

	first := b.Build("/index.html", "src", "")
	require.Equal(t, first, b.Build("/index.html", "src", ""))
	assert.NotEqual(t, first, b.Build("/guide/index.html", "src", ""))
}

// hrefs returns the anchor hrefs of a menu fragment with entities decoded.
func hrefs(t *testing.T, fragment string) []string {
	t.Helper()
	var out []string
	z := xhtml.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return out
		case xhtml.StartTagToken:
			tok := z.Token()
			if tok.Data != "a" {
				continue
			}
			for _, a := range tok.Attr {
				if a.Key == "href" {
					out = append(out, a.Val)
				}
			}
		}
	}
}

func TestBuildDecodedHrefIsBaseHrefPlusPath(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "src/.index.yaml", `
- {path: "/q&a", name: "Q&A"}
- {path: "/it's/", name: "It's", directory: true}
`)
	writeFile(t, fsys, "src/it's/.index.yaml", `- {path: "a&b", name: "A&B"}`)

	got := Build(fsys, "/it's/a&b.html", "src", "/docs")

	assert.Contains(t, got, `href="/docs/q&amp;a.html"`)
	assert.Equal(t, []string{
		"/docs/q&a.html",
		"/docs/it's/index.html",
		"/docs/it's/a&b.html",
	}, hrefs(t, got))
}
