// Package models defines the record kinds published by the heatmap API and
// how each one binds itself from a dataset row.
package models

import (
	"strconv"

	"heatmap/internal/tabular"
)

// SlaughterColumns are the livestock then poultry slaughter flags, in dataset order.
var SlaughterColumns = []string{
	"beef_cow_slaughter",
	"steer_slaughter",
	"heifer_slaughter",
	"bull_stag_slaughter",
	"dairy_cow_slaughter",
	"heavy_calf_slaughter",
	"bob_veal_slaughter",
	"formula_fed_veal_slaughter",
	"non_formula_fed_veal_slaughter",
	"market_swine_slaughter",
	"sow_slaughter",
	"roaster_swine_slaughter",
	"boar_stag_swine_slaughter",
	"stag_swine_slaughter",
	"feral_swine_slaughter",
	"goat_slaughter",
	"young_goat_slaughter",
	"adult_goat_slaughter",
	"sheep_slaughter",
	"lamb_slaughter",
	"deer_reindeer_slaughter",
	"antelope_slaughter",
	"elk_slaughter",
	"bison_slaughter",
	"buffalo_slaughter",
	"water_buffalo_slaughter",
	"cattalo_slaughter",
	"yak_slaughter",
	"other_voluntary_livestock_slaughter",
	"rabbit_slaughter",
	"young_chicken_slaughter",
	"light_fowl_slaughter",
	"heavy_fowl_slaughter",
	"capon_slaughter",
	"young_turkey_slaughter",
	"young_breeder_turkey_slaughter",
	"old_breeder_turkey_slaughter",
	"fryer_roaster_turkey_slaughter",
	"duck_slaughter",
	"goose_slaughter",
	"pheasant_slaughter",
	"quail_slaughter",
	"guinea_slaughter",
	"ostrich_slaughter",
	"emu_slaughter",
	"rhea_slaughter",
	"squab_slaughter",
	"other_voluntary_poultry_slaughter",
}

// ProcessingColumns are the per-species processing flags, livestock first.
var ProcessingColumns = []string{
	"beef_processing",
	"pork_processing",
	"antelope_processing",
	"bison_processing",
	"buffalo_processing",
	"deer_processing",
	"elk_processing",
	"goat_processing",
	"other_voluntary_livestock_processing",
	"rabbit_processing",
	"reindeer_processing",
	"sheep_processing",
	"yak_processing",
	"chicken_processing",
	"duck_processing",
	"goose_processing",
	"pigeon_processing",
	"ratite_processing",
	"turkey_processing",
	"exotic_poultry_processing",
	"other_voluntary_poultry_processing",
}

// Facility is one USDA-inspected establishment.
type Facility struct {
	EstablishmentID     string  `json:"establishment_id"`
	EstablishmentNumber string  `json:"establishment_number"`
	EstablishmentName   string  `json:"establishment_name"`
	DunsNumber          string  `json:"duns_number"`
	Street              string  `json:"street"`
	City                string  `json:"city"`
	State               string  `json:"state"`
	Zip                 string  `json:"zip"`
	Phone               string  `json:"phone"`
	GrantDate           string  `json:"grant_date"`
	Activities          string  `json:"activities"`
	Dbas                string  `json:"dbas"`
	District            string  `json:"district"`
	Circuit             string  `json:"circuit"`
	Size                string  `json:"size"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	County              string  `json:"county"`
	FipsCode            string  `json:"fips_code"`

	MeatExemptionCustomSlaughter    string `json:"meat_exemption_custom_slaughter"`
	PoultryExemptionCustomSlaughter string `json:"poultry_exemption_custom_slaughter"`
	Slaughter                       string `json:"slaughter"`
	MeatSlaughter                   string `json:"meat_slaughter"`
	PoultrySlaughter                string `json:"poultry_slaughter"`
	SlaughterOrProcessingOnly       string `json:"slaughter_or_processing_only"`
	SlaughterOnlyClass              string `json:"slaughter_only_class"`
	SlaughterOnlySpecies            string `json:"slaughter_only_species"`
	MeatSlaughterOnlySpecies        string `json:"meat_slaughter_only_species"`
	PoultrySlaughterOnlySpecies     string `json:"poultry_slaughter_only_species"`
	SlaughterVolumeCategory         string `json:"slaughter_volume_category"`
	ProcessingVolumeCategory        string `json:"processing_volume_category"`

	// Flags holds every slaughter and processing flag keyed by column name.
	Flags Flags `json:"-"`
}

// Flags is the set of flag columns marked "Yes" on a row.
type Flags map[string]bool

// Any reports whether at least one of the columns is set.
func (f Flags) Any(columns ...string) bool {
	for _, col := range columns {
		if f[col] {
			return true
		}
	}

	return false
}

// FacilityColumns is the full facility header in dataset order.
var FacilityColumns = facilityColumns()

func facilityColumns() []string {
	var f Facility

	cols := make([]string, 0, 40+len(SlaughterColumns)+len(ProcessingColumns))
	for _, field := range f.leading() {
		cols = append(cols, field.column)
	}

	cols = append(cols, "latitude", "longitude")

	for _, field := range f.location() {
		cols = append(cols, field.column)
	}

	cols = append(cols, "slaughter", "meat_slaughter")
	cols = append(cols, SlaughterColumns[:livestockFlags]...)
	cols = append(cols, "poultry_slaughter")
	cols = append(cols, SlaughterColumns[livestockFlags:]...)

	for _, field := range f.categories() {
		cols = append(cols, field.column)
	}

	return append(cols, ProcessingColumns...)
}

// livestockFlags counts the slaughter flags that precede poultry_slaughter.
const livestockFlags = 30

type textField struct {
	column string
	value  *string
}

func (f *Facility) leading() []textField {
	return []textField{
		{"establishment_id", &f.EstablishmentID},
		{"establishment_number", &f.EstablishmentNumber},
		{"establishment_name", &f.EstablishmentName},
		{"duns_number", &f.DunsNumber},
		{"street", &f.Street},
		{"city", &f.City},
		{"state", &f.State},
		{"zip", &f.Zip},
		{"phone", &f.Phone},
		{"grant_date", &f.GrantDate},
		{"type", &f.Activities},
		{"dbas", &f.Dbas},
		{"district", &f.District},
		{"circuit", &f.Circuit},
		{"size", &f.Size},
	}
}

func (f *Facility) location() []textField {
	return []textField{
		{"county", &f.County},
		{"fips_code", &f.FipsCode},
		{"meat_exemption_custom_slaughter", &f.MeatExemptionCustomSlaughter},
		{"poultry_exemption_custom_slaughter", &f.PoultryExemptionCustomSlaughter},
	}
}

func (f *Facility) categories() []textField {
	return []textField{
		{"slaughter_or_processing_only", &f.SlaughterOrProcessingOnly},
		{"slaughter_only_class", &f.SlaughterOnlyClass},
		{"slaughter_only_species", &f.SlaughterOnlySpecies},
		{"meat_slaughter_only_species", &f.MeatSlaughterOnlySpecies},
		{"poultry_slaughter_only_species", &f.PoultrySlaughterOnlySpecies},
		{"slaughter_volume_category", &f.SlaughterVolumeCategory},
		{"processing_volume_category", &f.ProcessingVolumeCategory},
	}
}

func (f *Facility) text() []textField {
	fields := append(f.leading(), f.location()...)
	fields = append(fields,
		textField{"slaughter", &f.Slaughter},
		textField{"meat_slaughter", &f.MeatSlaughter},
		textField{"poultry_slaughter", &f.PoultrySlaughter},
	)

	return append(fields, f.categories()...)
}

// UnmarshalRow binds a facility from a dataset row.
func (f *Facility) UnmarshalRow(r tabular.Row) error {
	b := tabular.Bind(r)

	for _, field := range f.text() {
		*field.value = b.String(field.column)
	}

	f.Latitude = b.Float("latitude")
	f.Longitude = b.Float("longitude")

	f.Flags = make(Flags, len(SlaughterColumns)+len(ProcessingColumns))
	for _, cols := range [][]string{SlaughterColumns, ProcessingColumns} {
		for _, col := range cols {
			if b.Flag(col) {
				f.Flags[col] = true
			}
		}
	}

	return b.Err()
}

// MarshalRow renders the facility in FacilityColumns order.
func (f *Facility) MarshalRow() []string {
	values := make(map[string]string, len(FacilityColumns))
	for _, field := range f.text() {
		values[field.column] = *field.value
	}

	values["latitude"] = formatFloat(f.Latitude)
	values["longitude"] = formatFloat(f.Longitude)

	row := make([]string, len(FacilityColumns))
	for i, col := range FacilityColumns {
		if v, ok := values[col]; ok {
			row[i] = v
		} else if f.Flags[col] {
			row[i] = tabular.FlagSet
		}
	}

	return row
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
