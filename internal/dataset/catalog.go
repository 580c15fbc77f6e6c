package dataset

import (
	"context"
	"fmt"
	"io"

	"heatmap/internal/config"
	"heatmap/internal/logger"
	"heatmap/pkg/checksum"
)

// Entry is one configured dataset and the outcome of loading it.
// Exactly one of Snapshot and Err is set.
type Entry struct {
	Config   config.DatasetConfig
	Snapshot *Snapshot
	Err      error
}

// Healthy reports whether the dataset loaded.
func (e *Entry) Healthy() bool {
	return e.Err == nil
}

// Catalog is the set of enabled datasets, loaded once.
type Catalog struct {
	entries []*Entry
	byName  map[string]*Entry
}

// Load reads every enabled dataset in cfg. A dataset that fails to load is
// kept with its error so only its own endpoint reports the failure.
func Load(ctx context.Context, cfg *config.Config, log *logger.Logger) *Catalog {
	if log == nil {
		log = logger.Discard()
	}

	fetcher := NewFetcher(cfg.Retry, log)
	c := &Catalog{byName: make(map[string]*Entry)}

	for _, ds := range cfg.GetEnabledDatasets() {
		entry := &Entry{Config: ds}

		entry.Snapshot, entry.Err = LoadDataset(ctx, ds, fetcher)
		if entry.Err != nil {
			log.Error("failed to load dataset", "dataset", ds.Name, "source", ds.GetSource(), "error", entry.Err)
		} else {
			log.Info("loaded dataset", "dataset", ds.Name, "source", ds.GetSource(),
				"bytes", len(entry.Snapshot.Data), "checksum", entry.Snapshot.Sum)
		}

		c.entries = append(c.entries, entry)
		c.byName[ds.Name] = entry
	}

	return c
}

// LoadDataset reads one dataset through its source and verifies its checksum
// when one is configured.
func LoadDataset(ctx context.Context, ds config.DatasetConfig, fetcher *Fetcher) (*Snapshot, error) {
	src, err := NewSource(ds, fetcher)
	if err != nil {
		return nil, err
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", src.Name(), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src.Name(), err)
	}

	if ds.Checksum != "" {
		if err := checksum.Verify(data, ds.Checksum); err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name(), err)
		}
	}

	return NewSnapshot(ds, data)
}

// Entries returns the datasets in configuration order.
func (c *Catalog) Entries() []*Entry {
	return c.entries
}

// Get returns the named dataset.
func (c *Catalog) Get(name string) (*Entry, error) {
	entry, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDataset, name)
	}

	return entry, nil
}

// LoadNamed loads one dataset from cfg by name, whether or not it is enabled.
func LoadNamed(ctx context.Context, cfg *config.Config, name string, log *logger.Logger) (*Snapshot, error) {
	ds, err := cfg.Dataset(name)
	if err != nil {
		return nil, err
	}

	return LoadDataset(ctx, ds, NewFetcher(cfg.Retry, log))
}
