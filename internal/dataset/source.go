package dataset

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"

	"heatmap/internal/config"
)

//go:embed static/*.csv
var static embed.FS

// ErrUnknownEmbedded is returned for an embedded dataset name that is not bundled.
var ErrUnknownEmbedded = errors.New("embedded dataset not found")

// Source yields the raw bytes of one dataset.
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// EmbeddedSource reads a sample dataset compiled into the binary.
type EmbeddedSource struct {
	name string
}

// NewEmbeddedSource returns the bundled dataset with the given file name.
func NewEmbeddedSource(name string) (*EmbeddedSource, error) {
	if _, err := fs.Stat(static, path.Join("static", name)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEmbedded, name)
	}

	return &EmbeddedSource{name: name}, nil
}

func (s *EmbeddedSource) Name() string { return "embedded:" + s.name }

func (s *EmbeddedSource) Open(_ context.Context) (io.ReadCloser, error) {
	return static.Open(path.Join("static", s.name))
}

// EmbeddedNames lists the bundled dataset files.
func EmbeddedNames() []string {
	entries, err := static.ReadDir("static")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	return names
}

// FileSource reads a dataset from disk.
type FileSource struct {
	path string
}

// NewFileSource returns a source for the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return s.path }

func (s *FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}

	return f, nil
}

// URLSource downloads a dataset, falling back to mirrors in order.
type URLSource struct {
	urls    []string
	fetcher *Fetcher
}

// NewURLSource returns a source trying each URL in turn.
func NewURLSource(fetcher *Fetcher, urls ...string) *URLSource {
	return &URLSource{urls: urls, fetcher: fetcher}
}

func (s *URLSource) Name() string {
	if len(s.urls) == 0 {
		return ""
	}

	return s.urls[0]
}

func (s *URLSource) Open(ctx context.Context) (io.ReadCloser, error) {
	var errs []error

	for _, u := range s.urls {
		body, err := s.fetcher.Fetch(ctx, u)
		if err == nil {
			return io.NopCloser(bytes.NewReader(body)), nil
		}

		errs = append(errs, err)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, errors.Join(errs...)
}

// NewSource builds the source a dataset configuration names.
func NewSource(ds config.DatasetConfig, fetcher *Fetcher) (Source, error) {
	switch {
	case ds.Embedded != "":
		src, err := NewEmbeddedSource(ds.Embedded)
		if err != nil {
			return nil, err
		}

		return src, nil
	case ds.IsLocalFile():
		return NewFileSource(ds.File), nil
	case ds.URL != "":
		return NewURLSource(fetcher, ds.GetAllURLs()...), nil
	}

	return nil, fmt.Errorf("%w: %s", config.ErrDatasetSource, ds.Name)
}
