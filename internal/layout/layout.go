// Package layout renders pages through layout templates.
//
// A layout is a Go text/template invoked with exactly four values: content,
// menu, uri and baseHref. The same engine evaluates source files that are
// registered with the template transformation.
package layout

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"text/template"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/docsite/internal/pathutil"
)

//go:embed default.html.tmpl
var defaultLayout string

// DefaultLayoutName identifies the embedded layout in logs and reports.
const DefaultLayoutName = "embedded:default.html.tmpl"

// Context is the data handed to a layout.
type Context struct {
	Content  string
	Menu     string
	URI      string
	BaseHref string
}

func (c Context) data() map[string]any {
	return map[string]any{
		"content":  c.Content,
		"menu":     c.Menu,
		"uri":      c.URI,
		"baseHref": c.BaseHref,
	}
}

// Evaluator executes a template file with the given locals and returns its output.
type Evaluator interface {
	Evaluate(fsys afero.Fs, path string, locals map[string]any) (string, error)
}

// Renderer renders layouts and evaluates template source files.
// It is safe for concurrent use.
type Renderer struct {
	fs afero.Fs

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewRenderer returns a renderer that reads layout files from fsys.
func NewRenderer(fsys afero.Fs) *Renderer {
	return &Renderer{fs: fsys, cache: make(map[string]*template.Template)}
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"trimExtension": pathutil.TrimExtension,
		"relURL": func(baseHref, p string) string {
			return pathutil.JoinURI(baseHref, p)
		},
		"pageTitle": func(uri string) string {
			return path.Base(pathutil.TrimExtension(uri))
		},
	}
}

func parse(name, body string) (*template.Template, error) {
	tpl, err := template.New(name).Funcs(funcMap()).Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return tpl, nil
}

// Exists reports whether layoutPath names a regular file.
func (r *Renderer) Exists(layoutPath string) bool {
	if layoutPath == "" {
		return false
	}
	fi, err := r.fs.Stat(layoutPath)
	return err == nil && !fi.IsDir()
}

// Resolve returns the parsed layout for layoutPath, falling back to the embedded
// default when the path is empty or does not exist. The second return value
// names the layout that was used.
func (r *Renderer) Resolve(layoutPath string) (*template.Template, string, error) {
	name := layoutPath
	if !r.Exists(layoutPath) {
		name = DefaultLayoutName
	}

	r.mu.RLock()
	tpl, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return tpl, name, nil
	}

	body := defaultLayout
	if name != DefaultLayoutName {
		data, err := afero.ReadFile(r.fs, layoutPath)
		if err != nil {
			return nil, name, fmt.Errorf("read layout: %w", err)
		}
		body = string(data)
	}
	tpl, err := parse(name, body)
	if err != nil {
		return nil, name, err
	}

	r.mu.Lock()
	if cached, ok := r.cache[name]; ok {
		tpl = cached
	} else {
		r.cache[name] = tpl
	}
	r.mu.Unlock()
	return tpl, name, nil
}

// Render executes the layout at layoutPath (or the default) with ctx.
func (r *Renderer) Render(layoutPath string, ctx Context) (string, error) {
	tpl, name, err := r.Resolve(layoutPath)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, ctx.data()); err != nil {
		return "", fmt.Errorf("render layout %s: %w", name, err)
	}
	return buf.String(), nil
}

// Evaluate executes the template file at p. Source files are parsed on every
// call; only layouts are cached.
func (r *Renderer) Evaluate(fsys afero.Fs, p string, locals map[string]any) (string, error) {
	if fsys == nil {
		fsys = r.fs
	}
	data, err := afero.ReadFile(fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("template %s: %w", p, fs.ErrNotExist)
		}
		return "", fmt.Errorf("read template %s: %w", p, err)
	}
	tpl, err := parse(p, string(data))
	if err != nil {
		return "", err
	}
	if locals == nil {
		locals = map[string]any{}
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, locals); err != nil {
		return "", fmt.Errorf("render template %s: %w", p, err)
	}
	return buf.String(), nil
}

// IsDefault reports whether name refers to the embedded layout.
func IsDefault(name string) bool {
	return strings.HasPrefix(name, "embedded:")
}
