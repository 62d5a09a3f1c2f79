// Package site walks a source tree and turns every eligible file into a
// published page.
package site

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/layout"
	"git.home.luguber.info/inful/docsite/internal/menu"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/publisher"
	"git.home.luguber.info/inful/docsite/internal/transform"
)

// Policy decides what a per-file failure does to the rest of the walk.
type Policy int

const (
	// ContinueOnError records the failure and keeps building other pages.
	ContinueOnError Policy = iota
	// AbortOnError stops scheduling new pages after the first failure.
	AbortOnError
)

func (p Policy) String() string {
	if p == AbortOnError {
		return "abort"
	}
	return "continue"
}

// ParsePolicy accepts "continue" (or empty) and "abort".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continue":
		return ContinueOnError, nil
	case "abort":
		return AbortOnError, nil
	default:
		return ContinueOnError, derrors.ValidationFailed("on_error", fmt.Sprintf("unknown policy %q (want continue or abort)", s))
	}
}

// BuildContext carries everything a walk needs. It is read-only for the
// duration of the walk.
type BuildContext struct {
	Fs               afero.Fs
	WebsiteDirectory string
	SourceDirectory  string
	BaseHref         string
	LayoutPath       string
	Registry         *transform.Registry

	// Excludes are matched against the slash-separated path relative to
	// SourceDirectory.
	Excludes    []glob.Glob
	Policy      Policy
	Concurrency int
	Minify      bool

	Renderer  *layout.Renderer
	Menu      *menu.Builder
	Publisher publisher.Publisher
	Recorder  metrics.Recorder
}

// CompileExcludes compiles glob patterns with '/' as the separator.
func CompileExcludes(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, derrors.ValidationFailed("exclude", fmt.Sprintf("invalid pattern %q: %v", p, err))
		}
		out = append(out, g)
	}
	return out, nil
}

func (bc BuildContext) withDefaults() BuildContext {
	if bc.Fs == nil {
		bc.Fs = afero.NewOsFs()
	}
	if bc.Concurrency <= 0 {
		bc.Concurrency = runtime.NumCPU()
	}
	if bc.Renderer == nil {
		bc.Renderer = layout.NewRenderer(bc.Fs)
	}
	if bc.Registry == nil {
		bc.Registry = transform.NewRegistry(bc.Renderer)
	}
	if bc.Menu == nil {
		bc.Menu = menu.NewBuilder(bc.Fs)
	}
	if bc.Publisher == nil {
		bc.Publisher = publisher.NewDestinationPublisher(bc.Fs)
	}
	if bc.Recorder == nil {
		bc.Recorder = metrics.NoopRecorder{}
	}
	return bc
}

func (bc BuildContext) excluded(rel string) bool {
	for _, g := range bc.Excludes {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
