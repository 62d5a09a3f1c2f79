package build

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/layout"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/menu"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/observability"
	"git.home.luguber.info/inful/docsite/internal/publisher"
	"git.home.luguber.info/inful/docsite/internal/site"
	"git.home.luguber.info/inful/docsite/internal/transform"
)

// DefaultService is the standard implementation of Service.
type DefaultService struct {
	fs       afero.Fs
	recorder metrics.Recorder
	newID    func() string
}

// NewService creates a DefaultService on the OS filesystem.
func NewService() *DefaultService {
	return &DefaultService{
		fs:       afero.NewOsFs(),
		recorder: metrics.NoopRecorder{},
		newID:    uuid.NewString,
	}
}

// WithFs replaces the filesystem (for testing).
func (s *DefaultService) WithFs(fsys afero.Fs) *DefaultService {
	s.fs = fsys
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultService) WithRecorder(r metrics.Recorder) *DefaultService {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithIDGenerator overrides build id generation (for testing).
func (s *DefaultService) WithIDGenerator(fn func() string) *DefaultService {
	s.newID = fn
	return s
}

// Run executes the complete build pipeline.
func (s *DefaultService) Run(ctx context.Context, req Request) (*Result, error) {
	startTime := time.Now()
	result := &Result{StartTime: startTime, BuildID: s.newID()}
	ctx = observability.WithBuildID(ctx, result.BuildID)

	finish := func(status Status, err error) (*Result, error) {
		result.Status = status
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		switch status {
		case StatusSuccess:
			s.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
		case StatusCancelled:
			s.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
		default:
			s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		}
		s.recorder.ObserveBuildDuration(result.Duration)
		return result, err
	}

	if req.Config == nil {
		return finish(StatusFailed, derrors.ValidationFailed("config", "config required"))
	}
	cfg := req.Config
	result.OutputPath = cfg.WebsiteDirectory

	bc, err := s.buildContext(cfg)
	if err != nil {
		return finish(StatusFailed, err)
	}

	// Stage 1: output directory
	ctx, done := observability.BeginStage(ctx, "output", s.recorder)
	if err := s.initOutput(cfg.WebsiteDirectory, cfg.Clean); err != nil {
		return finish(StatusFailed, err)
	}
	done()

	// Stage 2: layout
	ctx = observability.WithStage(ctx, "layout")
	name, err := s.checkLayout(ctx, bc.Renderer, cfg)
	if err != nil {
		return finish(StatusFailed, err)
	}
	result.Layout = name

	// Stage 3: assets
	ctx, done = observability.BeginStage(ctx, "assets", s.recorder)
	if isDir(s.fs, cfg.AssetsDirectory) {
		n, err := copyAssets(s.fs, bc.Publisher, cfg.AssetsDirectory, cfg.WebsiteDirectory, cfg.Minify)
		result.AssetsCopied = n
		if err != nil {
			return finish(StatusFailed, derrors.Wrap(err, derrors.CategoryFileSystem, derrors.SeverityFatal, "failed to copy assets").
				WithContext("path", cfg.AssetsDirectory))
		}
		observability.DebugContext(ctx, "Assets copied", logfields.Count(n))
	} else {
		observability.DebugContext(ctx, "Assets directory not found, skipped", logfields.Path(cfg.AssetsDirectory))
	}
	done()

	// Stage 4: pages
	var walkErr error
	ctx, done = observability.BeginStage(ctx, "pages", s.recorder)
	if isDir(s.fs, cfg.SourceDirectory) {
		observability.DebugContext(ctx, "Building pages",
			logfields.Path(cfg.SourceDirectory),
			slog.String("extensions", bc.Registry.String()))
		result.Report, walkErr = site.Walk(ctx, bc)
	} else {
		observability.DebugContext(ctx, "Source directory not found, skipped", logfields.Path(cfg.SourceDirectory))
	}
	done()

	if ctx.Err() != nil {
		return finish(StatusCancelled, ctx.Err())
	}

	// Stage 5: index promotion
	if cfg.Index != "" {
		ctx = observability.WithStage(ctx, "index")
		promoted, err := promoteIndex(s.fs, cfg.WebsiteDirectory, cfg.Index)
		if err != nil {
			return finish(StatusFailed, derrors.Wrap(err, derrors.CategoryFileSystem, derrors.SeverityError, "failed to promote index").
				WithContext("index", cfg.Index))
		}
		if promoted {
			observability.DebugContext(ctx, "Copying index", logfields.File(cfg.Index))
		} else {
			observability.WarnContext(ctx, "Index page not found in website directory", logfields.File(cfg.Index))
		}
		result.IndexPromoted = promoted
	}

	if walkErr != nil {
		return finish(StatusFailed, walkErr)
	}
	return finish(StatusSuccess, nil)
}

func (s *DefaultService) buildContext(cfg *config.Config) (site.BuildContext, error) {
	policy, err := site.ParsePolicy(cfg.OnError)
	if err != nil {
		return site.BuildContext{}, err
	}
	excludes, err := site.CompileExcludes(cfg.Exclude)
	if err != nil {
		return site.BuildContext{}, err
	}
	entries, err := cfg.Extensions.Entries()
	if err != nil {
		return site.BuildContext{}, err
	}

	renderer := layout.NewRenderer(s.fs)
	return site.BuildContext{
		Fs:               s.fs,
		WebsiteDirectory: cfg.WebsiteDirectory,
		SourceDirectory:  cfg.SourceDirectory,
		BaseHref:         cfg.BaseHref,
		LayoutPath:       cfg.Layout,
		Registry:         transform.NewRegistry(renderer, entries...),
		Excludes:         excludes,
		Policy:           policy,
		Concurrency:      cfg.Concurrency,
		Minify:           cfg.Minify,
		Renderer:         renderer,
		Menu:             menu.NewBuilder(s.fs),
		Publisher:        publisher.NewDestinationPublisher(s.fs),
		Recorder:         s.recorder,
	}, nil
}

// initOutput removes (when clean) and recreates the website directory.
func (s *DefaultService) initOutput(dir string, clean bool) error {
	if c := filepath.Clean(dir); c == "/" || c == "." {
		return derrors.OutputRootFailed(dir, errors.New("refusing to use the filesystem root or working directory as output"))
	}
	if clean {
		if err := s.fs.RemoveAll(dir); err != nil {
			return derrors.OutputRootFailed(dir, err)
		}
	}
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return derrors.OutputRootFailed(dir, err)
	}
	return nil
}

// checkLayout resolves the configured layout once before any page is built.
func (s *DefaultService) checkLayout(ctx context.Context, r *layout.Renderer, cfg *config.Config) (string, error) {
	if cfg.Layout != "" && !r.Exists(cfg.Layout) {
		if cfg.LayoutRequired {
			return "", derrors.LayoutFailed(cfg.Layout, errors.New("layout file not found"))
		}
		observability.WarnContext(ctx, "Layout not found, using embedded default", logfields.Path(cfg.Layout))
	}
	_, name, err := r.Resolve(cfg.Layout)
	if err != nil {
		if cfg.LayoutRequired || layout.IsDefault(name) {
			return name, derrors.LayoutFailed(name, err)
		}
		observability.WarnContext(ctx, "Layout does not parse, pages will fail", logfields.Path(name), logfields.Error(err))
	}
	return name, nil
}

func isDir(fsys afero.Fs, p string) bool {
	if p == "" {
		return false
	}
	ok, _ := afero.DirExists(fsys, p)
	return ok
}
