// Package observability carries per-build logging context (build id, stage,
// page) through context.Context so deep call sites can log without extra
// plumbing.
package observability

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// Scope is the logging context attached to a build.
type Scope struct {
	BuildID string
	Stage   string
	URI     string
}

type scopeKey struct{}

// ScopeFrom returns the scope stored in ctx, or the zero Scope.
func ScopeFrom(ctx context.Context) Scope {
	if ctx == nil {
		return Scope{}
	}
	s, _ := ctx.Value(scopeKey{}).(Scope)
	return s
}

func withScope(ctx context.Context, fn func(*Scope)) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	s := ScopeFrom(ctx)
	fn(&s)
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithBuildID tags ctx with a build id.
func WithBuildID(ctx context.Context, id string) context.Context {
	return withScope(ctx, func(s *Scope) { s.BuildID = id })
}

// WithStage tags ctx with a pipeline stage. The page URI is cleared.
func WithStage(ctx context.Context, stage string) context.Context {
	return withScope(ctx, func(s *Scope) { s.Stage, s.URI = stage, "" })
}

// WithPage tags ctx with the URI of the page being rendered.
func WithPage(ctx context.Context, uri string) context.Context {
	return withScope(ctx, func(s *Scope) { s.URI = uri })
}

func (s Scope) attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 3)
	if s.BuildID != "" {
		attrs = append(attrs, logfields.BuildID(s.BuildID))
	}
	if s.Stage != "" {
		attrs = append(attrs, logfields.Stage(s.Stage))
	}
	if s.URI != "" {
		attrs = append(attrs, logfields.URI(s.URI))
	}
	return attrs
}

func log(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.Default()
	if !logger.Enabled(ctx, level) {
		return
	}
	logger.LogAttrs(ctx, level, msg, append(ScopeFrom(ctx).attrs(), attrs...)...)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelDebug, msg, attrs)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelInfo, msg, attrs)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelWarn, msg, attrs)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelError, msg, attrs)
}

// StageObserver receives stage timings. metrics.Recorder satisfies it.
type StageObserver interface {
	ObserveStageDuration(stage string, d time.Duration)
}

// BeginStage tags ctx with stage and returns a func that records the elapsed
// time on obs and logs it at debug level. obs may be nil.
func BeginStage(ctx context.Context, stage string, obs StageObserver) (context.Context, func()) {
	ctx = WithStage(ctx, stage)
	start := time.Now()
	return ctx, func() {
		d := time.Since(start)
		if obs != nil {
			obs.ObserveStageDuration(stage, d)
		}
		DebugContext(ctx, "Stage finished", logfields.DurationMS(float64(d.Microseconds())/1000))
	}
}
