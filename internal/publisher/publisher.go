// Package publisher writes rendered pages and assets into the output tree.
package publisher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/locker"
	"github.com/spf13/afero"
)

// Publisher publishes a result file.
type Publisher interface {
	Publish(d Descriptor) error
}

// Descriptor describes one item to publish.
type Descriptor struct {
	// The content to publish.
	Src io.Reader

	// Where to publish this content. This is a filesystem-relative path.
	TargetPath string

	// Media type of the content. When empty it is derived from TargetPath.
	MediaType string

	// Minify the content if a minifier is registered for its media type.
	Minify bool
}

// DestinationPublisher writes items to a filesystem, creating parent
// directories on demand. It is safe for concurrent use.
type DestinationPublisher struct {
	fs   afero.Fs
	min  Client
	dirs *locker.Locker
}

// NewDestinationPublisher creates a DestinationPublisher writing to fsys.
func NewDestinationPublisher(fsys afero.Fs) DestinationPublisher {
	return DestinationPublisher{fs: fsys, min: NewClient(), dirs: locker.NewLocker()}
}

// Publish minifies the content when requested and writes it to its
// destination.
func (p DestinationPublisher) Publish(d Descriptor) error {
	if d.TargetPath == "" {
		return errors.New("publish: must provide a TargetPath")
	}
	if d.Src == nil {
		return fmt.Errorf("publish %q: no content", d.TargetPath)
	}

	f, err := p.openFileForWriting(d.TargetPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if d.Minify {
		mt := d.MediaType
		if mt == "" {
			mt = MediaTypeFor(d.TargetPath)
		}
		if p.min.Supports(mt) {
			if err := p.min.Minify(mt, f, d.Src); err != nil {
				return fmt.Errorf("failed to minify %q: %w", d.TargetPath, err)
			}
			return nil
		}
	}

	_, err = io.Copy(f, d.Src)
	return err
}

// openFileForWriting opens or creates filename. If the target directory does
// not exist it gets created; creation of a given directory is serialized.
func (p DestinationPublisher) openFileForWriting(filename string) (afero.File, error) {
	filename = filepath.Clean(filename)
	f, err := p.fs.Create(filename)
	if err == nil || !os.IsNotExist(err) {
		return f, err
	}

	dir := filepath.Dir(filename)
	p.dirs.Lock(dir)
	err = p.fs.MkdirAll(dir, 0o755)
	p.dirs.Unlock(dir)
	if err != nil {
		return nil, err
	}
	return p.fs.Create(filename)
}

// MediaTypeFor maps a file name to the media type used for minification.
func MediaTypeFor(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return mediaTypes[ext]
}

var mediaTypes = map[string]string{
	"html": "text/html",
	"htm":  "text/html",
	"css":  "text/css",
	"js":   "application/javascript",
	"json": "application/json",
	"svg":  "image/svg+xml",
	"xml":  "text/xml",
}
