package menu

import (
	"errors"
	"html"
	"log/slog"
	"strings"

	"github.com/spf13/afero"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/pathutil"
)

// Placeholder is emitted in place of a menu when the source root has no
// navigation descriptor.
const Placeholder = "<!-- Menu index not found. -->"

// Builder renders navigation fragments from descriptors on a filesystem.
// It holds no per-page state and is safe for concurrent use.
type Builder struct {
	fs afero.Fs
}

// NewBuilder returns a Builder reading descriptors from fsys.
func NewBuilder(fsys afero.Fs) *Builder {
	return &Builder{fs: fsys}
}

// Build renders the menu for the page at currentURI.
func Build(fsys afero.Fs, currentURI, sourceDir, baseHref string) string {
	return NewBuilder(fsys).Build(currentURI, sourceDir, baseHref)
}

// Build renders the menu for the page at currentURI. A missing descriptor
// yields Placeholder; a malformed one is logged and also yields Placeholder.
func (b *Builder) Build(currentURI, sourceDir, baseHref string) string {
	idx, err := LoadIndex(b.fs, sourceDir)
	if err != nil {
		if !errors.Is(err, ErrIndexNotFound) {
			slog.Warn("Menu index unreadable",
				logfields.URI(currentURI),
				logfields.Error(derrors.MenuIndexInvalid(sourceDir, err)))
		}
		return Placeholder
	}

	var sb strings.Builder
	for _, node := range idx.Nodes {
		if node.Hidden {
			continue
		}
		p := strings.TrimLeft(node.Path, "/")
		selected := writeItem(&sb, node, "/"+p, currentURI, baseHref)
		if selected && node.IsDirectory {
			b.writeSubMenu(&sb, p, currentURI, sourceDir, baseHref, idx.Format)
		}
		sb.WriteString("</li>")
	}
	return sb.String()
}

func (b *Builder) writeSubMenu(sb *strings.Builder, parent, currentURI, sourceDir, baseHref string, f Format) {
	sub, err := LoadSubIndex(b.fs, sourceDir, parent, f)
	if err != nil {
		if !errors.Is(err, ErrIndexNotFound) {
			slog.Warn("Sub-menu index unreadable",
				logfields.URI(currentURI),
				logfields.Path(parent),
				logfields.Error(err))
		}
		return
	}

	sb.WriteString("<ul>")
	for _, node := range sub.Nodes {
		if node.IsIndexEntry || node.Hidden {
			continue
		}
		href := "/" + parent + strings.TrimLeft(node.Path, "/")
		writeItem(sb, node, href, currentURI, baseHref)
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
}

// writeItem writes an unterminated list item for node and reports whether
// it is selected.
func writeItem(sb *strings.Builder, node Node, href, currentURI, baseHref string) bool {
	root, link := Link(href, node.IsDirectory)
	selected := strings.HasPrefix(currentURI, root)

	name := html.EscapeString(node.Name)
	sb.WriteString(`<li><a href="`)
	sb.WriteString(html.EscapeString(baseHref + link))
	sb.WriteString(`" title="`)
	sb.WriteString(name)
	sb.WriteString(`">`)
	if selected {
		sb.WriteString("<strong>" + name + "</strong>")
	} else {
		sb.WriteString(name)
	}
	sb.WriteString("</a>")
	return selected
}

// Link returns the selection root and link target for a normalized href.
// Directories select on the href itself and link to its index.html; files
// select and link on the href with its extension replaced by .html.
func Link(href string, directory bool) (root, link string) {
	if directory {
		return href, href + "index.html"
	}
	root = pathutil.TrimExtension(href) + ".html"
	return root, root
}
