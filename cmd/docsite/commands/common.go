package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/errors"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default docsite.yaml if present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Build the website from a source tree"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file"`
	Serve ServeCmd `cmd:"" help:"Serve a built website directory for preview"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadConfig loads the named config file. With no name the default file is
// used when present, otherwise built-in defaults apply.
func LoadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, err := config.Load(config.DefaultFile)
	if err == nil {
		return cfg, nil
	}
	if se, ok := derrors.As(err); ok && se.Category == derrors.CategoryConfig && se.Cause == nil {
		slog.Debug("No configuration file, using defaults", slog.String("path", config.DefaultFile))
		return config.Default(), nil
	}
	return nil, err
}
