// Package transform maps source file extensions to the transformation that
// turns a source file into page content.
//
// Transformations come in three kinds: RawRead returns the file bytes as-is,
// TemplateEval runs the file through the layout template engine with no locals,
// and Custom wraps a caller-supplied function. The kind is fixed when the
// registry is built; dispatch never compares names.
package transform

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
)

// Func converts one source file into page content.
type Func func(fsys afero.Fs, path string) ([]byte, error)

// Kind identifies how a Transform produces content.
type Kind int

const (
	KindRawRead Kind = iota
	KindTemplateEval
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindRawRead:
		return "raw"
	case KindTemplateEval:
		return "template"
	case KindCustom:
		return "custom"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Transform is a resolved transformation.
type Transform struct {
	Kind Kind
	Name string
	fn   Func
}

var errUnbound = errors.New("transformation has no implementation bound")

// Apply runs the transformation against path on fsys.
func (t Transform) Apply(fsys afero.Fs, path string) ([]byte, error) {
	if t.fn == nil {
		return nil, fmt.Errorf("%s: %w", t.Name, errUnbound)
	}
	return t.fn(fsys, path)
}

// RawRead returns the transformation that reads the file unchanged.
func RawRead() Transform {
	return Transform{Kind: KindRawRead, Name: NameRaw, fn: readRaw}
}

// TemplateEval returns the template-evaluation transformation. Its
// implementation is bound to the registry's evaluator by NewRegistry.
func TemplateEval() Transform {
	return Transform{Kind: KindTemplateEval, Name: NameTemplate}
}

// Custom wraps a caller-supplied function; it is used as-is.
func Custom(name string, fn Func) Transform {
	return Transform{Kind: KindCustom, Name: name, fn: fn}
}

func readRaw(fsys afero.Fs, path string) ([]byte, error) {
	return afero.ReadFile(fsys, path)
}
