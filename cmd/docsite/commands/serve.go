package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/afero"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/server"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	WebsiteDirectory string `arg:"" name:"websiteDirectory" help:"Built website directory"`
	Addr             string `name:"addr" help:"Listen address" default:":8080"`
	Metrics          bool   `name:"metrics" help:"Expose Prometheus metrics on /metrics"`
}

func (s *ServeCmd) Run(_ *Global, _ *CLI) error {
	fsys := afero.NewOsFs()
	if ok, _ := afero.DirExists(fsys, s.WebsiteDirectory); !ok {
		return derrors.ValidationFailed("websiteDirectory", "directory does not exist: "+s.WebsiteDirectory)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := s.newServer(fsys).Run(ctx); err != nil {
		return derrors.Wrap(err, derrors.CategoryRuntime, derrors.SeverityFatal, "preview server failed")
	}
	return nil
}

func (s *ServeCmd) newServer(fsys afero.Fs) *server.Server {
	var opts []server.Option
	if s.Metrics {
		reg := prom.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, server.WithMetrics(reg))
	}
	return server.New(fsys, s.Addr, s.WebsiteDirectory, opts...)
}
