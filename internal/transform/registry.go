package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/layout"
)

// Transformation names accepted in configuration files.
const (
	NameRaw      = "raw"
	NameTemplate = "template"
	NameMarkdown = "markdown"
)

// aliases for the template sentinel kept for existing configurations.
var templateAliases = map[string]struct{}{
	NameTemplate:           {},
	"evaluate-as-template": {},
	"file_eval":            {},
}

// Entry binds an extension to a transformation.
type Entry struct {
	Extension string
	Transform Transform
}

// Default registers ext with the raw-read transformation.
func Default(ext string) Entry {
	return Entry{Extension: ext, Transform: RawRead()}
}

// Keyed registers ext with an explicit transformation.
func Keyed(ext string, t Transform) Entry {
	return Entry{Extension: ext, Transform: t}
}

// Named resolves a configuration identifier to an entry. An empty name means raw read.
func Named(ext, name string) (Entry, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" || n == NameRaw {
		return Default(ext), nil
	}
	if _, ok := templateAliases[n]; ok {
		return Keyed(ext, TemplateEval()), nil
	}
	if n == NameMarkdown {
		return Keyed(ext, Markdown()), nil
	}
	return Entry{}, derrors.UnknownTransform(ext, name)
}

// Registry maps lowercase extensions to transformations. It is built once per
// build and read concurrently afterwards.
type Registry struct {
	entries map[string]Transform
}

// NewRegistry seeds html with the raw-read transformation and then applies
// entries in order; later entries overwrite earlier ones, so callers can
// override html. Template transformations are bound to evaluator.
func NewRegistry(evaluator layout.Evaluator, entries ...Entry) *Registry {
	r := &Registry{entries: make(map[string]Transform, len(entries)+1)}
	r.set("html", RawRead(), evaluator)
	for _, e := range entries {
		r.set(e.Extension, e.Transform, evaluator)
	}
	return r
}

func (r *Registry) set(ext string, t Transform, evaluator layout.Evaluator) {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "" {
		return
	}
	if t.Kind == KindTemplateEval && evaluator != nil {
		t.fn = func(fsys afero.Fs, path string) ([]byte, error) {
			out, err := evaluator.Evaluate(fsys, path, nil)
			if err != nil {
				return nil, err
			}
			return []byte(out), nil
		}
	}
	r.entries[ext] = t
}

// Resolve looks up ext case-insensitively. A false result means files with
// this extension are not eligible and must be skipped.
func (r *Registry) Resolve(ext string) (Transform, bool) {
	if ext == "" {
		return Transform{}, false
	}
	t, ok := r.entries[strings.ToLower(ext)]
	return t, ok
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.entries))
	for ext := range r.entries {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// String lists ext=transform pairs, for logs.
func (r *Registry) String() string {
	parts := make([]string, 0, len(r.entries))
	for _, ext := range r.Extensions() {
		parts = append(parts, fmt.Sprintf("%s=%s", ext, r.entries[ext].Name))
	}
	return strings.Join(parts, ",")
}
