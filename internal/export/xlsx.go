// Package export writes normalized records to spreadsheet workbooks.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"heatmap/internal/normalizer"
)

// ErrNoSheets is returned when a workbook would have no sheets.
var ErrNoSheets = errors.New("no sheets to export")

const maxSheetName = 31

// Sheet is one worksheet. Columns defaults to the columns of the first record.
type Sheet struct {
	Name    string
	Columns []string
	Records []normalizer.Record
}

// SaveXLSX writes sheets to a workbook at path, creating parent directories.
func SaveXLSX(path string, sheets []Sheet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := WriteXLSX(out, sheets); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}

// WriteXLSX writes sheets as a workbook to w.
func WriteXLSX(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return ErrNoSheets
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, sheet := range sheets {
		name := sheetName(sheet.Name, i)

		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}

		if err := writeSheet(f, name, sheet, bold); err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
	}

	f.SetActiveSheet(0)

	return f.Write(w)
}

func writeSheet(f *excelize.File, name string, sheet Sheet, headerStyle int) error {
	columns := sheet.Columns
	if len(columns) == 0 && len(sheet.Records) > 0 {
		columns = sheet.Records[0].Columns()
	}

	if len(columns) == 0 {
		return nil
	}

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}

	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
		return err
	}

	pick, err := positions(sheet.Records, columns)
	if err != nil {
		return err
	}

	for r, rec := range sheet.Records {
		values := rec.Values()
		row := make([]any, len(columns))

		for i, pos := range pick {
			if pos < len(values) {
				row[i] = cellValue(columns[i], values[pos])
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

func positions(records []normalizer.Record, columns []string) ([]int, error) {
	pick := make([]int, len(columns))
	if len(records) == 0 {
		return pick, nil
	}

	index := make(map[string]int)
	for i, col := range records[0].Columns() {
		index[col] = i
	}

	for i, col := range columns {
		pos, ok := index[col]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", col)
		}

		pick[i] = pos
	}

	return pick, nil
}

// cellValue stores geocodes as numbers and everything else as text.
func cellValue(column, value string) any {
	lower := strings.ToLower(column)
	if strings.Contains(lower, "latitude") || strings.Contains(lower, "longitude") {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}

	return value
}

func sheetName(name string, i int) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}

		return r
	}, strings.TrimSpace(name))

	if name == "" {
		name = "Sheet" + strconv.Itoa(i+1)
	}

	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}

	return name
}
