package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/docsite/internal/config"
)

// InitCmd writes an example configuration file.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	path := root.Config
	if path == "" {
		path = config.DefaultFile
	}
	return RunInit(os.Stdout, path, i.Force)
}

// RunInit writes the example configuration to path and prints the next step.
func RunInit(w io.Writer, path string, force bool) error {
	if err := config.Init(path, force); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Wrote %s\n", path)
	if path == config.DefaultFile {
		_, _ = fmt.Fprintln(w, "Next: docsite build")
	} else {
		_, _ = fmt.Fprintf(w, "Next: docsite --config %s build\n", path)
	}
	return nil
}
