package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// Service is the canonical interface for executing site builds.
type Service interface {
	// Run executes the build pipeline: output → assets → pages → index.
	// The Result is returned even when err is non-nil.
	Run(ctx context.Context, req Request) (*Result, error)
}

// Request contains all inputs required to execute a build.
type Request struct {
	// Config is the merged configuration (file plus flags) for this build.
	Config *config.Config
}

// Result contains the outcome of a build execution.
type Result struct {
	// Status indicates overall build outcome.
	Status Status

	// BuildID identifies this build in logs.
	BuildID string

	// Report contains per-page counts and failures; nil when no source
	// directory was walked.
	Report *site.Report

	// OutputPath is the website directory that was written.
	OutputPath string

	// AssetsCopied is the number of asset files published.
	AssetsCopied int

	// IndexPromoted reports whether the configured index replaced index.html.
	IndexPromoted bool

	// Layout names the layout that pages were rendered with.
	Layout string

	Duration  time.Duration
	StartTime time.Time
	EndTime   time.Time
}

// Status represents the outcome of a build execution.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsSuccess returns true if the build completed successfully.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}
