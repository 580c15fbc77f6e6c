package models

import "heatmap/internal/tabular"

// Inspection is one site from the APHIS inspection reports. It is published as-is.
type Inspection struct {
	AccountName       string  `json:"Account Name"`
	CustomerNumber    string  `json:"Customer Number"`
	CertificateNumber string  `json:"Certificate Number"`
	LicenseType       string  `json:"License Type"`
	CertificateStatus string  `json:"Certificate Status"`
	StatusDate        string  `json:"Status Date"`
	AddressLine1      string  `json:"Address Line 1"`
	AddressLine2      string  `json:"Address Line 2"`
	CityStateZip      string  `json:"City-State-Zip"`
	County            string  `json:"County"`
	City              string  `json:"City"`
	State             string  `json:"State"`
	Zip               string  `json:"Zip"`
	Latitude          float64 `json:"Geocodio Latitude"`
	Longitude         float64 `json:"Geocodio Longitude"`
}

// InspectionColumns is the full inspection header.
var InspectionColumns = func() []string {
	var in Inspection

	cols := make([]string, 0, 15)
	for _, field := range in.text() {
		cols = append(cols, field.column)
	}

	return append(cols, "Geocodio Latitude", "Geocodio Longitude")
}()

func (in *Inspection) text() []textField {
	return []textField{
		{"Account Name", &in.AccountName},
		{"Customer Number", &in.CustomerNumber},
		{"Certificate Number", &in.CertificateNumber},
		{"License Type", &in.LicenseType},
		{"Certificate Status", &in.CertificateStatus},
		{"Status Date", &in.StatusDate},
		{"Address Line 1", &in.AddressLine1},
		{"Address Line 2", &in.AddressLine2},
		{"City-State-Zip", &in.CityStateZip},
		{"County", &in.County},
		{"City", &in.City},
		{"State", &in.State},
		{"Zip", &in.Zip},
	}
}

func (in *Inspection) UnmarshalRow(row tabular.Row) error {
	b := tabular.Bind(row)

	for _, field := range in.text() {
		*field.value = b.String(field.column)
	}

	in.Latitude = b.Float("Geocodio Latitude")
	in.Longitude = b.Float("Geocodio Longitude")

	return b.Err()
}

func (in *Inspection) MarshalRow() []string {
	row := make([]string, 0, len(InspectionColumns))
	for _, field := range in.text() {
		row = append(row, *field.value)
	}

	return append(row, formatFloat(in.Latitude), formatFloat(in.Longitude))
}
