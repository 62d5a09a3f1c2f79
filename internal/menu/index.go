// Package menu loads navigation descriptors and renders the two-level
// navigation fragment embedded in every page.
//
// A directory may describe its navigation in .index.yaml or .index.xml (YAML
// wins when both exist). A directory entry at path P can carry a second-level
// descriptor at <source>/P.index.<ext>, in the same format as the top level.
package menu

import (
	"errors"
	"fmt"
	"path"

	"github.com/spf13/afero"
)

// ErrIndexNotFound is returned when a directory has no navigation descriptor.
var ErrIndexNotFound = errors.New("menu index not found")

// Format identifies a descriptor file format.
type Format int

const (
	FormatYAML Format = iota
	FormatXML
)

// formats lists descriptor formats in lookup precedence.
var formats = []Format{FormatYAML, FormatXML}

// Ext returns the descriptor file extension for f.
func (f Format) Ext() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatXML:
		return "xml"
	default:
		return ""
	}
}

func (f Format) String() string { return f.Ext() }

func (f Format) parse(data []byte) ([]Node, int, error) {
	switch f {
	case FormatYAML:
		return parseYAML(data)
	case FormatXML:
		return parseXML(data)
	default:
		return nil, 0, fmt.Errorf("unsupported menu format %d", int(f))
	}
}

// Node is one navigation entry.
type Node struct {
	Path         string
	Name         string
	IsDirectory  bool
	Hidden       bool
	IsIndexEntry bool
}

// Index is an ordered list of navigation entries read from one descriptor.
type Index struct {
	Nodes  []Node
	Format Format
	File   string
	// Skipped counts entries dropped because path or name was missing.
	Skipped int
}

// IndexFile returns the top-level descriptor path for dir in format f.
func IndexFile(dir string, f Format) string {
	return path.Join(dir, ".index."+f.Ext())
}

// SubIndexFile returns the descriptor path for the directory entry at p.
// p is appended verbatim, so "guide/" resolves to "guide/.index.yaml" and
// "guide" to "guide.index.yaml".
func SubIndexFile(sourceDir, p string, f Format) string {
	return sourceDir + "/" + p + ".index." + f.Ext()
}

// LoadIndex reads the first descriptor found in dir.
func LoadIndex(fsys afero.Fs, dir string) (*Index, error) {
	for _, f := range formats {
		file := IndexFile(dir, f)
		if ok, _ := afero.Exists(fsys, file); ok {
			return loadFile(fsys, file, f)
		}
	}
	return nil, ErrIndexNotFound
}

// LoadSubIndex reads the second-level descriptor for the entry at p, using
// the same format as the top-level index.
func LoadSubIndex(fsys afero.Fs, sourceDir, p string, f Format) (*Index, error) {
	file := SubIndexFile(sourceDir, p, f)
	if ok, _ := afero.Exists(fsys, file); !ok {
		return nil, ErrIndexNotFound
	}
	return loadFile(fsys, file, f)
}

func loadFile(fsys afero.Fs, file string, f Format) (*Index, error) {
	data, err := afero.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	nodes, skipped, err := f.parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return &Index{Nodes: nodes, Format: f, File: file, Skipped: skipped}, nil
}
