// Package convert turns third-party establishment registers into facility
// datasets the API can serve.
package convert

import (
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"heatmap/internal/models"
	"heatmap/pkg/utils"
)

// ErrUnknownIndustry is returned for a kept row whose industry has no activity mapping.
var ErrUnknownIndustry = errors.New("unknown industry")

// DanishCounty is the county recorded for every converted establishment.
const DanishCounty = "Denmark"

const (
	slaughterAndProcessing = "Meat Processing; Meat Slaughter"
	processingOnly         = "Meat Processing"
)

var danishActivities = map[string]string{
	"Fremstilling af animalske produkter - Fisk og muslinger m.v.": slaughterAndProcessing,
	"Fremstilling af animalske produkter - Kød":                    slaughterAndProcessing,
	"Slagterier":                                                   slaughterAndProcessing,
	"Specialforretning - Slagter m.v.":                             slaughterAndProcessing,
	"Virksomhed, foreløbig AUT: Slagteri, slagteri med fremstilli": slaughterAndProcessing,
	"Virksomhed, foreløbig: Slagter, slagterafdeling":              slaughterAndProcessing,
	"Fremstilling af animalske produkter - Andre produkter":        processingOnly,
	"Fremstilling af animalske produkter - Mælk og ost":            processingOnly,
	"Fremstilling af animalske produkter - Æg":                     processingOnly,
}

// DanishEstablishment is one <row> of the Danish food authority's register.
type DanishEstablishment struct {
	ID           string `xml:"navnelbnr"`
	CVR          string `xml:"cvrnr"`
	PNumber      string `xml:"pnr"`
	IndustryCode string `xml:"brancheKode"`
	Industry     string `xml:"branche"`
	CompanyType  string `xml:"virksomhedstype"`
	Name         string `xml:"navn1"`
	Address      string `xml:"adresse1"`
	Zip          string `xml:"postnr"`
	City         string `xml:"By"`
	Longitude    string `xml:"Geo_Lng"`
	Latitude     string `xml:"Geo_Lat"`
}

// Relevant reports whether the establishment produces animal products or slaughters.
func (e DanishEstablishment) Relevant() bool {
	industry := strings.ToLower(strings.TrimSpace(e.Industry))

	return strings.HasPrefix(industry, "fremstilling af animalske produkter") ||
		strings.Contains(industry, "slagter")
}

// Activities maps the industry to facility activities.
func (e DanishEstablishment) Activities() (string, error) {
	activities, ok := danishActivities[strings.TrimSpace(e.Industry)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownIndustry, e.Industry)
	}

	return activities, nil
}

// ReadDanish streams <row> elements out of the register.
func ReadDanish(r io.Reader) ([]DanishEstablishment, error) {
	dec := xml.NewDecoder(r)

	var rows []DanishEstablishment

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read register: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "row" {
			continue
		}

		var row DanishEstablishment
		if err := dec.DecodeElement(&row, &start); err != nil {
			return nil, fmt.Errorf("failed to decode row %d: %w", len(rows)+1, err)
		}

		rows = append(rows, row)
	}
}

// DanishFacilities keeps the relevant establishments and numbers them from 0
// in register order.
func DanishFacilities(rows []DanishEstablishment) ([]models.Facility, error) {
	strs := utils.NewStringHelper()

	var out []models.Facility

	for _, row := range rows {
		if !row.Relevant() {
			continue
		}

		activities, err := row.Activities()
		if err != nil {
			return nil, err
		}

		out = append(out, models.Facility{
			EstablishmentID:   strconv.Itoa(len(out)),
			EstablishmentName: strs.NormalizeWhitespace(row.Name),
			Street:            strs.NormalizeWhitespace(row.Address),
			City:              strs.NormalizeWhitespace(row.City),
			Zip:               strings.TrimSpace(row.Zip),
			Activities:        activities,
			County:            DanishCounty,
			Latitude:          lenientFloat(row.Latitude),
			Longitude:         lenientFloat(row.Longitude),
		})
	}

	return out, nil
}

// WriteFacilities writes facilities as a CSV with the full facility header.
func WriteFacilities(w io.Writer, facilities []models.Facility) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(models.FacilityColumns); err != nil {
		return err
	}

	for i := range facilities {
		if err := cw.Write(facilities[i].MarshalRow()); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// Danish converts a register read from r into a facility CSV on w and
// returns the number of facilities written.
func Danish(r io.Reader, w io.Writer) (int, error) {
	rows, err := ReadDanish(r)
	if err != nil {
		return 0, err
	}

	facilities, err := DanishFacilities(rows)
	if err != nil {
		return 0, err
	}

	return len(facilities), WriteFacilities(w, facilities)
}

func lenientFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}

	return v
}
