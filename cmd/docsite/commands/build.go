package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docsite/internal/build"
	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	WebsiteDirectory string `arg:"" optional:"" name:"websiteDirectory" help:"Output directory (recreated on every build)"`
	AssetsDirectory  string `arg:"" optional:"" name:"assetsDirectory" help:"Static files copied verbatim into the output"`
	SourceDirectory  string `arg:"" optional:"" name:"sourceDirectory" help:"Source tree to transform into pages"`

	BaseHref       string   `name:"base-href" help:"Prefix for every menu link"`
	Index          string   `name:"index" help:"Page copied over index.html after the build"`
	Layout         string   `name:"layout" help:"Layout template (embedded default when empty or missing)"`
	LayoutRequired bool     `name:"layout-required" help:"Fail when the layout is missing or invalid"`
	Ext            []string `name:"ext" help:"Register an extension as ext or ext=transform (repeatable)"`
	Exclude        []string `name:"exclude" help:"Glob of source paths to skip (repeatable)"`
	Minify         bool     `name:"minify" help:"Minify pages and assets"`
	Concurrency    int      `name:"concurrency" help:"Pages rendered in parallel (0 = number of CPUs)"`
	OnError        string   `name:"on-error" help:"continue or abort on page failures"`
	MetricsFile    string   `name:"metrics-file" help:"Write Prometheus textfile metrics here"`
	NoClean        bool     `name:"no-clean" help:"Keep existing files in the website directory"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root.Config)
	if err != nil {
		return err
	}
	if err := b.Apply(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunBuild(ctx, cfg, os.Stdout)
}

// Apply overrides cfg with the values given on the command line.
func (b *BuildCmd) Apply(cfg *config.Config) error {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.WebsiteDirectory, b.WebsiteDirectory)
	set(&cfg.AssetsDirectory, b.AssetsDirectory)
	set(&cfg.SourceDirectory, b.SourceDirectory)
	set(&cfg.BaseHref, b.BaseHref)
	set(&cfg.Index, b.Index)
	set(&cfg.Layout, b.Layout)
	set(&cfg.OnError, b.OnError)
	set(&cfg.MetricsFile, b.MetricsFile)

	if b.LayoutRequired {
		cfg.LayoutRequired = true
	}
	if b.Minify {
		cfg.Minify = true
	}
	if b.NoClean {
		cfg.Clean = false
	}
	if b.Concurrency != 0 {
		cfg.Concurrency = b.Concurrency
	}
	cfg.Exclude = append(cfg.Exclude, b.Exclude...)

	for _, e := range b.Ext {
		entry, err := parseExt(e)
		if err != nil {
			return err
		}
		cfg.Extensions = append(cfg.Extensions, entry)
	}
	return nil
}

func parseExt(v string) (config.ExtensionSpec, error) {
	ext, name, _ := strings.Cut(v, "=")
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return config.ExtensionSpec{}, derrors.ValidationFailed("ext", fmt.Sprintf("invalid extension %q", v))
	}
	return config.ExtensionSpec{Extension: ext, Transform: strings.TrimSpace(name)}, nil
}

// RunBuild executes one build and prints "Build finished." to stdout once the
// pipeline has run to the end, even when some pages failed.
func RunBuild(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	var rec metrics.Recorder = metrics.NoopRecorder{}
	var prec *metrics.PrometheusRecorder
	if cfg.MetricsFile != "" {
		prec = metrics.NewPrometheusRecorder(prom.NewRegistry())
		rec = prec
	}

	result, err := build.NewService().WithRecorder(rec).Run(ctx, build.Request{Config: cfg})

	if result != nil {
		attrs := []any{
			logfields.BuildID(result.BuildID),
			slog.String("status", string(result.Status)),
			logfields.DurationMS(float64(result.Duration.Milliseconds())),
		}
		if result.Report != nil {
			attrs = append(attrs, slog.String("pages", result.Report.String()))
		}
		level := slog.LevelDebug
		if !result.Status.IsSuccess() {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "Build summary", attrs...)
	}

	if prec != nil {
		if werr := prec.WriteTextfile(cfg.MetricsFile); werr != nil {
			slog.Warn("Could not write metrics file", logfields.Path(cfg.MetricsFile), logfields.Error(werr))
		}
	}

	if err == nil || !derrors.IsFatal(err) {
		fmt.Fprintln(stdout, "Build finished.")
	}
	return err
}
