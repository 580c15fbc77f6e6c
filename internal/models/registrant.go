package models

import "heatmap/internal/tabular"

// Registrant is one APHIS-registered research facility for a reporting year.
// Species counts are kept as the text found in the dataset.
type Registrant struct {
	AccountName       string `json:"Account Name"`
	CustomerNumberX   string `json:"Customer Number_x"`
	CertificateNumber string `json:"Certificate Number"`
	RegistrationType  string `json:"Registration Type"`
	CertificateStatus string `json:"Certificate Status"`
	StatusDate        string `json:"Status Date"`
	AddressLine1      string `json:"Address Line 1"`
	AddressLine2      string `json:"Address Line 2"`
	CityStateZip      string `json:"City-State-Zip"`
	County            string `json:"County"`
	CustomerNumberY   string `json:"Customer Number_y"`
	Year              string `json:"Year"`

	Dogs             string `json:"Dogs"`
	Cats             string `json:"Cats"`
	GuineaPigs       string `json:"Guinea Pigs"`
	Hamsters         string `json:"Hamsters"`
	Rabbits          string `json:"Rabbits"`
	NonHumanPrimates string `json:"Non-Human Primates"`
	Sheep            string `json:"Sheep"`
	Pigs             string `json:"Pigs"`
	OtherFarmAnimals string `json:"Other Farm Animals"`
	AllOtherAnimals  string `json:"All Other Animals"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RegistrantCountColumns are the per-species count columns in report order.
var RegistrantCountColumns = []string{
	"Dogs",
	"Cats",
	"Guinea Pigs",
	"Hamsters",
	"Rabbits",
	"Non-Human Primates",
	"Sheep",
	"Pigs",
	"Other Farm Animals",
	"All Other Animals",
}

// RegistrantColumns is the full registrant header.
var RegistrantColumns = func() []string {
	var r Registrant

	cols := make([]string, 0, 24)
	for _, field := range r.text() {
		cols = append(cols, field.column)
	}

	return append(cols, "latitude", "longitude")
}()

func (r *Registrant) text() []textField {
	return []textField{
		{"Account Name", &r.AccountName},
		{"Customer Number_x", &r.CustomerNumberX},
		{"Certificate Number", &r.CertificateNumber},
		{"Registration Type", &r.RegistrationType},
		{"Certificate Status", &r.CertificateStatus},
		{"Status Date", &r.StatusDate},
		{"Address Line 1", &r.AddressLine1},
		{"Address Line 2", &r.AddressLine2},
		{"City-State-Zip", &r.CityStateZip},
		{"County", &r.County},
		{"Customer Number_y", &r.CustomerNumberY},
		{"Year", &r.Year},
		{"Dogs", &r.Dogs},
		{"Cats", &r.Cats},
		{"Guinea Pigs", &r.GuineaPigs},
		{"Hamsters", &r.Hamsters},
		{"Rabbits", &r.Rabbits},
		{"Non-Human Primates", &r.NonHumanPrimates},
		{"Sheep", &r.Sheep},
		{"Pigs", &r.Pigs},
		{"Other Farm Animals", &r.OtherFarmAnimals},
		{"All Other Animals", &r.AllOtherAnimals},
	}
}

// Count returns the raw count text of a species column, or "" for an unknown column.
func (r *Registrant) Count(column string) string {
	for _, field := range r.text()[12:] {
		if field.column == column {
			return *field.value
		}
	}

	return ""
}

// UnmarshalRow binds a registrant from a dataset row.
func (r *Registrant) UnmarshalRow(row tabular.Row) error {
	b := tabular.Bind(row)

	for _, field := range r.text() {
		*field.value = b.String(field.column)
	}

	r.Latitude = b.Float("latitude")
	r.Longitude = b.Float("longitude")

	return b.Err()
}

// MarshalRow renders the registrant in RegistrantColumns order.
func (r *Registrant) MarshalRow() []string {
	row := make([]string, 0, len(RegistrantColumns))
	for _, field := range r.text() {
		row = append(row, *field.value)
	}

	return append(row, formatFloat(r.Latitude), formatFloat(r.Longitude))
}
