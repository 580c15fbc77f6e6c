package normalizer

import (
	"strconv"
	"strings"

	"heatmap/internal/models"
	"heatmap/internal/tabular"
)

// Sentinels emitted when no underlying flag or count qualifies.
const (
	NoneProcessed = "N/A"
	UnknownTested = "Unknown"
)

const listSeparator = ", "

// Transformer decorates decoded records with their derived summary fields.
type Transformer struct{}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Facility derives animals_slaughtered and animals_processed.
func (t *Transformer) Facility(f models.Facility) FacilityOutput {
	return FacilityOutput{
		Facility:           f,
		AnimalsSlaughtered: SlaughteredAnimals(&f),
		AnimalsProcessed:   ProcessedAnimals(&f),
	}
}

// Registrant derives the tested-animal summary.
func (t *Transformer) Registrant(r models.Registrant) RegistrantOutput {
	return RegistrantOutput{
		Registrant:    r,
		AnimalsTested: TestedAnimals(&r),
	}
}

// Inspection passes the record through unchanged.
func (t *Transformer) Inspection(in models.Inspection) InspectionOutput {
	return InspectionOutput{Inspection: in}
}

// SlaughteredAnimals lists the coarse species buckets with at least one flag
// set, in table order. It returns "" when no slaughter flag is set.
func SlaughteredAnimals(f *models.Facility) string {
	var labels []string

	for _, b := range slaughterBuckets {
		if f.Flags.Any(b.columns...) {
			labels = append(labels, b.label)
		}
	}

	return strings.Join(labels, listSeparator)
}

// ProcessedAnimals lists one label per processing flag set, or "N/A".
func ProcessedAnimals(f *models.Facility) string {
	var labels []string

	for _, species := range processedSpecies {
		if f.Flags[species.column] {
			labels = append(labels, species.label)
		}
	}

	if len(labels) == 0 {
		return NoneProcessed
	}

	return strings.Join(labels, listSeparator)
}

// TestedAnimals lists "<count> <species>" for every positive count, or "Unknown".
func TestedAnimals(r *models.Registrant) string {
	var entries []string

	for _, species := range testedSpecies {
		if n, ok := tabular.PositiveCount(r.Count(species)); ok {
			entries = append(entries, strconv.FormatInt(n, 10)+" "+species)
		}
	}

	if len(entries) == 0 {
		return UnknownTested
	}

	return strings.Join(entries, listSeparator)
}
