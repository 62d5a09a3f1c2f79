package site

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// FileError records a failure to build one page.
type FileError struct {
	Path  string
	URI   string
	Stage string
	Err   error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e FileError) Unwrap() error { return e.Err }

// Report summarises a walk.
type Report struct {
	Pages    int
	Skipped  int
	Excluded int
	Failed   int
	Errors   []FileError
	Duration time.Duration
}

// collector accumulates counts from worker goroutines.
type collector struct {
	pages    atomic.Int64
	skipped  atomic.Int64
	excluded atomic.Int64
	failed   atomic.Int64

	mu     sync.Mutex
	errors []FileError
}

func (c *collector) addError(fe FileError) {
	c.failed.Inc()
	c.mu.Lock()
	c.errors = append(c.errors, fe)
	c.mu.Unlock()
}

func (c *collector) report(start time.Time) *Report {
	c.mu.Lock()
	errs := append([]FileError(nil), c.errors...)
	c.mu.Unlock()
	sort.Slice(errs, func(i, j int) bool { return errs[i].Path < errs[j].Path })

	return &Report{
		Pages:    int(c.pages.Load()),
		Skipped:  int(c.skipped.Load()),
		Excluded: int(c.excluded.Load()),
		Failed:   int(c.failed.Load()),
		Errors:   errs,
		Duration: time.Since(start),
	}
}

// String renders a one-line summary for logs.
func (r *Report) String() string {
	return fmt.Sprintf("pages=%d skipped=%d excluded=%d failed=%d duration=%s",
		r.Pages, r.Skipped, r.Excluded, r.Failed, r.Duration.Round(time.Millisecond))
}
