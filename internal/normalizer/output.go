package normalizer

import "heatmap/internal/models"

// Record is a normalized record that can be laid out as a table row.
type Record interface {
	Columns() []string
	Values() []string
}

// FacilityOutput is a facility with its derived species summaries.
type FacilityOutput struct {
	models.Facility
	AnimalsSlaughtered string `json:"animals_slaughtered"`
	AnimalsProcessed   string `json:"animals_processed"`
}

var facilityOutputColumns = append(append([]string{}, models.FacilityColumns...),
	"animals_slaughtered", "animals_processed")

// Columns returns the facility header followed by the derived fields.
func (o FacilityOutput) Columns() []string { return facilityOutputColumns }

// Values returns the row in Columns order.
func (o FacilityOutput) Values() []string {
	return append(o.Facility.MarshalRow(), o.AnimalsSlaughtered, o.AnimalsProcessed)
}

// AnimalsTestedColumn names the derived registrant field. It follows the
// registrant column naming rather than the snake_case facility fields.
const AnimalsTestedColumn = "Animals Tested On"

// RegistrantOutput is a registrant with its tested-animal summary.
type RegistrantOutput struct {
	models.Registrant
	AnimalsTested string `json:"Animals Tested On"`
}

var registrantOutputColumns = append(append([]string{}, models.RegistrantColumns...), AnimalsTestedColumn)

// Columns returns the registrant header followed by AnimalsTestedColumn.
func (o RegistrantOutput) Columns() []string { return registrantOutputColumns }

// Values returns the row in Columns order.
func (o RegistrantOutput) Values() []string {
	return append(o.Registrant.MarshalRow(), o.AnimalsTested)
}

// InspectionOutput is an inspection site. It carries no derived fields.
type InspectionOutput struct {
	models.Inspection
}

// Columns returns the inspection header.
func (o InspectionOutput) Columns() []string { return models.InspectionColumns }

// Values returns the row in Columns order.
func (o InspectionOutput) Values() []string { return o.Inspection.MarshalRow() }

// Records converts a typed output slice for table renderers.
func Records[T Record](items []T) []Record {
	out := make([]Record, len(items))
	for i, item := range items {
		out[i] = item
	}

	return out
}
