// Package normalizer turns decoded facility, registrant and inspection rows
// into the records served by the API, deriving the species summaries.
package normalizer

import (
	"fmt"
	"io"

	"heatmap/internal/logger"
	"heatmap/internal/models"
	"heatmap/internal/tabular"
)

// Processor decodes a raw dataset and normalizes its records.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	log         *logger.Logger
}

// NewProcessor creates a new processor instance. log may be nil.
func NewProcessor(log *logger.Logger) *Processor {
	if log == nil {
		log = logger.Discard()
	}

	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
		log:         log,
	}
}

// ProcessFacilities decodes a facility dataset and derives its species summaries.
func (p *Processor) ProcessFacilities(r io.Reader, mode tabular.Mode) ([]FacilityOutput, *tabular.Report, error) {
	rows, report, err := decode[models.Facility](p, r, mode, models.FacilityColumns)
	if err != nil {
		return nil, report, err
	}

	return transformAll(rows, p.transformer.Facility), report, nil
}

// ProcessRegistrants decodes a registrant dataset and derives the tested-animal summary.
func (p *Processor) ProcessRegistrants(r io.Reader, mode tabular.Mode) ([]RegistrantOutput, *tabular.Report, error) {
	rows, report, err := decode[models.Registrant](p, r, mode, models.RegistrantColumns)
	if err != nil {
		return nil, report, err
	}

	return transformAll(rows, p.transformer.Registrant), report, nil
}

// ProcessInspections decodes an inspection dataset.
func (p *Processor) ProcessInspections(r io.Reader, mode tabular.Mode) ([]InspectionOutput, *tabular.Report, error) {
	rows, report, err := decode[models.Inspection](p, r, mode, models.InspectionColumns)
	if err != nil {
		return nil, report, err
	}

	return transformAll(rows, p.transformer.Inspection), report, nil
}

// Facilities normalizes decoded facility rows.
func Facilities(rows []models.Facility) []FacilityOutput {
	return transformAll(rows, NewTransformer().Facility)
}

// Registrants normalizes decoded registrant rows.
func Registrants(rows []models.Registrant) []RegistrantOutput {
	return transformAll(rows, NewTransformer().Registrant)
}

// Inspections normalizes decoded inspection rows.
func Inspections(rows []models.Inspection) []InspectionOutput {
	return transformAll(rows, NewTransformer().Inspection)
}

func transformAll[In, Out any](rows []In, fn func(In) Out) []Out {
	out := make([]Out, 0, len(rows))
	for _, row := range rows {
		out = append(out, fn(row))
	}

	return out
}

func decode[T any, PT interface {
	*T
	tabular.Unmarshaler
}](p *Processor, r io.Reader, mode tabular.Mode, declared []string) ([]T, *tabular.Report, error) {
	rows, report, err := tabular.Decode[T, PT](r, mode, p.log)

	if report != nil && len(report.Header.Names()) > 0 {
		if verr := p.validator.Validate(report.Header, declared); verr != nil {
			p.log.Warn("dataset header is incomplete", "mode", mode.String(), "error", verr)
		}
	}

	if err != nil {
		return nil, report, fmt.Errorf("decode failed: %w", err)
	}

	if len(report.Skipped) > 0 {
		p.log.Info("dataset decoded with skipped rows",
			"rows", report.Rows, "decoded", report.Decoded, "skipped", len(report.Skipped))
	}

	return rows, report, nil
}
