// Package dataset loads the published datasets once at startup and decodes
// them on demand into normalized records.
package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"heatmap/internal/config"
	"heatmap/internal/logger"
	"heatmap/internal/normalizer"
	"heatmap/internal/tabular"
	"heatmap/pkg/checksum"
)

// ErrKindMismatch is returned when a snapshot is decoded as the wrong record kind.
var ErrKindMismatch = errors.New("dataset kind mismatch")

// Snapshot holds the raw bytes of one dataset. It is never modified after
// NewSnapshot returns, so concurrent readers need no locking.
type Snapshot struct {
	Name     string
	Kind     string
	Label    string
	Source   string
	Mode     tabular.Mode
	Data     []byte
	Sum      string
	ETag     string
	LoadedAt time.Time
}

// NewSnapshot wraps data for the dataset described by ds.
func NewSnapshot(ds config.DatasetConfig, data []byte) (*Snapshot, error) {
	mode, err := ds.DecodeMode()
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Name:     ds.Name,
		Kind:     ds.Kind,
		Label:    ds.DisplayLabel(),
		Source:   ds.GetSource(),
		Mode:     mode,
		Data:     data,
		Sum:      checksum.Sum(data),
		ETag:     checksum.ETag(data),
		LoadedAt: time.Now().UTC(),
	}, nil
}

// Result is one decode of a snapshot.
type Result struct {
	// Items is the typed output slice, ready for JSON encoding.
	Items   any
	Records []normalizer.Record
	Report  *tabular.Report
}

// Normalize decodes the snapshot according to its kind.
func (s *Snapshot) Normalize(log *logger.Logger) (*Result, error) {
	switch s.Kind {
	case config.KindFacility:
		out, report, err := s.Facilities(log)
		if err != nil {
			return nil, err
		}

		return &Result{Items: out, Records: normalizer.Records(out), Report: report}, nil
	case config.KindRegistrant:
		out, report, err := s.Registrants(log)
		if err != nil {
			return nil, err
		}

		return &Result{Items: out, Records: normalizer.Records(out), Report: report}, nil
	case config.KindInspection:
		out, report, err := s.Inspections(log)
		if err != nil {
			return nil, err
		}

		return &Result{Items: out, Records: normalizer.Records(out), Report: report}, nil
	}

	return nil, fmt.Errorf("%w: %s has kind %q", ErrKindMismatch, s.Name, s.Kind)
}

// Facilities decodes a facility snapshot.
func (s *Snapshot) Facilities(log *logger.Logger) ([]normalizer.FacilityOutput, *tabular.Report, error) {
	if err := s.expect(config.KindFacility); err != nil {
		return nil, nil, err
	}

	return s.processor(log).ProcessFacilities(bytes.NewReader(s.Data), s.Mode)
}

// Registrants decodes a registrant snapshot.
func (s *Snapshot) Registrants(log *logger.Logger) ([]normalizer.RegistrantOutput, *tabular.Report, error) {
	if err := s.expect(config.KindRegistrant); err != nil {
		return nil, nil, err
	}

	return s.processor(log).ProcessRegistrants(bytes.NewReader(s.Data), s.Mode)
}

// Inspections decodes an inspection snapshot.
func (s *Snapshot) Inspections(log *logger.Logger) ([]normalizer.InspectionOutput, *tabular.Report, error) {
	if err := s.expect(config.KindInspection); err != nil {
		return nil, nil, err
	}

	return s.processor(log).ProcessInspections(bytes.NewReader(s.Data), s.Mode)
}

func (s *Snapshot) expect(kind string) error {
	if s.Kind != kind {
		return fmt.Errorf("%w: %s is %q, not %q", ErrKindMismatch, s.Name, s.Kind, kind)
	}

	return nil
}

func (s *Snapshot) processor(log *logger.Logger) *normalizer.Processor {
	if log == nil {
		return normalizer.NewProcessor(nil)
	}

	return normalizer.NewProcessor(log.With("dataset", s.Name))
}
