package metrics

import "time"

// PageResult enumerates per-file outcomes for counters.
type PageResult string

const (
	PageRendered PageResult = "rendered"
	PageSkipped  PageResult = "skipped"  // no transformation registered for the extension
	PageExcluded PageResult = "excluded" // dotfile or exclude pattern
	PageFailed   PageResult = "failed"
)

// Build outcome labels.
const (
	BuildOutcomeSuccess  = "success"
	BuildOutcomeFailed   = "failed"
	BuildOutcomeCanceled = "canceled"
)

// Recorder defines observability hooks for build and page metrics. Implementations
// may forward to Prometheus, OpenTelemetry, etc. Implementations must be safe for
// concurrent use because pages are processed by a worker pool.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	ObservePageDuration(d time.Duration)
	IncPageResult(result PageResult)
	IncBuildOutcome(outcome string) // one of the BuildOutcome labels
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) ObservePageDuration(time.Duration)          {}
func (NoopRecorder) IncPageResult(PageResult)                   {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
