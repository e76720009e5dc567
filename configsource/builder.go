package configsource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies how a configuration document is parsed.
type Format string

const (
	FormatJSON Format = "json" // JSON, comments and trailing commas allowed
	FormatYAML Format = "yaml"
)

// extensions maps recognised file extensions to their format.
var extensions = map[string]Format{
	".json":  FormatJSON,
	".jsonc": FormatJSON,
	".yaml":  FormatYAML,
	".yml":   FormatYAML,
}

// FormatOf returns the format for path based on its extension.
func FormatOf(path string) (Format, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Supported reports whether path has a recognised configuration extension.
func Supported(path string) bool {
	_, ok := FormatOf(path)
	return ok
}

// FileSystem reads configuration files. It allows tests to supply an
// in-memory file system such as fstest.MapFS.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

// OSFS reads files from the operating system, accepting absolute paths.
type OSFS struct{}

// ReadFile implements FileSystem.
func (OSFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// layer is one pending document of a Builder.
type layer struct {
	name   string
	format Format
	data   []byte // nil for files read at Build time
	file   bool
}

// Builder assembles a Source from layered documents. Later layers
// override duplicate keys of earlier ones.
type Builder struct {
	fs     FileSystem
	layers []layer
}

// NewBuilder creates a Builder that reads files from the OS.
func NewBuilder() *Builder {
	return &Builder{fs: OSFS{}}
}

// NewBuilderFS creates a Builder that reads files from fsys.
func NewBuilderFS(fsys FileSystem) *Builder {
	return &Builder{fs: fsys}
}

// AddFile queues a configuration file. The file is read by Build; a file
// that does not exist is skipped.
func (b *Builder) AddFile(path string) *Builder {
	b.layers = append(b.layers, layer{name: path, file: true})
	return b
}

// AddFiles queues several files in order. Blank names are ignored.
func (b *Builder) AddFiles(paths ...string) *Builder {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		b.AddFile(p)
	}
	return b
}

// AddJSON queues an in-memory JSON or JSONC document.
func (b *Builder) AddJSON(name string, data []byte) *Builder {
	b.layers = append(b.layers, layer{name: name, format: FormatJSON, data: data})
	return b
}

// AddYAML queues an in-memory YAML document.
func (b *Builder) AddYAML(name string, data []byte) *Builder {
	b.layers = append(b.layers, layer{name: name, format: FormatYAML, data: data})
	return b
}

// Build reads and merges every queued layer in order.
func (b *Builder) Build() (*Source, error) {
	s := newSource()
	for _, l := range b.layers {
		if err := b.merge(s, l); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (b *Builder) merge(s *Source, l layer) error {
	format, data := l.format, l.data

	if l.file {
		f, ok := FormatOf(l.name)
		if !ok {
			return fmt.Errorf("%s: %w", l.name, ErrUnsupportedFormat)
		}
		content, err := b.fs.ReadFile(l.name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil // Missing files are skipped
			}
			return fmt.Errorf("reading config file %s: %w", l.name, err)
		}
		format, data = f, content
	}

	switch format {
	case FormatJSON:
		return mergeJSON(s, l.name, data)
	case FormatYAML:
		return mergeYAML(s, l.name, data)
	default:
		return fmt.Errorf("%s: %w", l.name, ErrUnsupportedFormat)
	}
}
