package site

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/layout"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/observability"
	"git.home.luguber.info/inful/docsite/internal/pathutil"
	"git.home.luguber.info/inful/docsite/internal/publisher"
	"git.home.luguber.info/inful/docsite/internal/transform"
)

// Stages reported in FileError.Stage.
const (
	StageList      = "list"
	StageTransform = "transform"
	StageLayout    = "layout"
	StagePublish   = "publish"
)

type job struct {
	src       string
	rel       string
	base      string
	transform transform.Transform
}

func (j job) uri() string { return j.rel + "/" + j.base + ".html" }

type walker struct {
	bc  BuildContext
	col *collector
	g   *errgroup.Group
}

// Walk builds a page for every eligible file under bc.SourceDirectory.
// Directory entries are visited in lexical order; pages are rendered by up
// to bc.Concurrency workers. A missing source directory yields an empty
// report. With ContinueOnError the returned error summarises all failures
// after the walk; with AbortOnError it is the first failure.
func Walk(ctx context.Context, bc BuildContext) (*Report, error) {
	start := time.Now()
	bc = bc.withDefaults()
	ctx = observability.WithStage(ctx, "pages")
	col := &collector{}

	if ok, _ := afero.DirExists(bc.Fs, bc.SourceDirectory); !ok {
		observability.DebugContext(ctx, "Source directory not found, no pages built",
			logfields.Path(bc.SourceDirectory))
		return col.report(start), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bc.Concurrency)
	w := &walker{bc: bc, col: col, g: g}

	scanErr := w.scan(gctx, "")
	waitErr := g.Wait()
	report := col.report(start)

	observability.DebugContext(ctx, "Walk complete",
		logfields.Count(report.Pages),
		slog.Int("failed", report.Failed),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))

	if waitErr != nil {
		return report, derrors.BuildFailed(report.Failed, waitErr)
	}
	if scanErr != nil {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		return report, derrors.BuildFailed(report.Failed, scanErr)
	}
	if report.Failed > 0 {
		errs := make([]error, len(report.Errors))
		for i, fe := range report.Errors {
			errs[i] = fe
		}
		return report, derrors.BuildFailed(report.Failed, errors.Join(errs...))
	}
	return report, nil
}

// scan lists one directory relative to the source root and schedules jobs.
func (w *walker) scan(ctx context.Context, rel string) error {
	dir := w.bc.SourceDirectory + rel
	entries, err := afero.ReadDir(w.bc.Fs, dir)
	if err != nil {
		return w.fail(ctx, job{src: dir, rel: rel}, StageList, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := entry.Name()
		relPath := strings.TrimPrefix(rel+"/"+name, "/")
		if strings.HasPrefix(name, ".") || w.bc.excluded(relPath) {
			w.col.excluded.Inc()
			w.bc.Recorder.IncPageResult(metrics.PageExcluded)
			continue
		}

		if entry.IsDir() {
			if err := w.scan(ctx, rel+"/"+name); err != nil {
				return err
			}
			continue
		}

		ext := pathutil.ExtensionOf(name)
		t, ok := w.bc.Registry.Resolve(ext)
		if !ok {
			w.col.skipped.Inc()
			w.bc.Recorder.IncPageResult(metrics.PageSkipped)
			observability.DebugContext(ctx, "No transformation registered, skipping",
				logfields.File(relPath), logfields.Extension(ext))
			continue
		}

		j := job{
			src:       dir + "/" + name,
			rel:       rel,
			base:      pathutil.BaseWithoutExtension(name, ext),
			transform: t,
		}
		w.g.Go(func() error { return w.render(ctx, j) })
	}
	return nil
}

func (w *walker) render(ctx context.Context, j job) error {
	if ctx.Err() != nil {
		return nil
	}
	start := time.Now()
	bc := w.bc
	uri := j.uri()
	ctx = observability.WithPage(ctx, uri)

	content, err := j.transform.Apply(bc.Fs, j.src)
	if err != nil {
		return w.fail(ctx, j, StageTransform, err)
	}

	page, err := bc.Renderer.Render(bc.LayoutPath, layout.Context{
		Content:  string(content),
		Menu:     bc.Menu.Build(uri, bc.SourceDirectory, bc.BaseHref),
		URI:      uri,
		BaseHref: bc.BaseHref,
	})
	if err != nil {
		return w.fail(ctx, j, StageLayout, err)
	}

	err = bc.Publisher.Publish(publisher.Descriptor{
		TargetPath: bc.WebsiteDirectory + uri,
		Src:        strings.NewReader(page),
		MediaType:  "text/html",
		Minify:     bc.Minify,
	})
	if err != nil {
		return w.fail(ctx, j, StagePublish, err)
	}

	w.col.pages.Inc()
	bc.Recorder.IncPageResult(metrics.PageRendered)
	bc.Recorder.ObservePageDuration(time.Since(start))
	observability.DebugContext(ctx, "Page built", logfields.Transform(j.transform.Name))
	return nil
}

// fail records a per-file failure. The returned error is non-nil only under
// AbortOnError, which cancels the group.
func (w *walker) fail(ctx context.Context, j job, stage string, err error) error {
	fe := FileError{Path: j.src, Stage: stage, Err: err}
	if stage != StageList {
		fe.URI = j.uri()
	}
	w.col.addError(fe)
	w.bc.Recorder.IncPageResult(metrics.PageFailed)
	observability.ErrorContext(ctx, "Page failed",
		logfields.Path(j.src), logfields.Phase(stage), logfields.Error(err))

	if w.bc.Policy == AbortOnError {
		return derrors.FileFailed(stage, j.src, err)
	}
	return nil
}
