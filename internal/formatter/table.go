// Package formatter renders normalized records as aligned markdown tables.
package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"heatmap/internal/normalizer"
	"heatmap/pkg/utils"
)

// ErrUnknownColumn is returned when a selected column is not part of the records.
var ErrUnknownColumn = errors.New("unknown column")

// Table lays out header and rows as a markdown table. Cells are collapsed to
// a single line and cut to maxCellWidth display columns (0 means no limit).
// Rows shorter than the header are padded with empty cells.
func Table(header []string, rows [][]string, maxCellWidth int) string {
	if len(header) == 0 {
		return ""
	}

	strs := utils.NewStringHelper()

	clean := func(s string) string {
		s = strs.NormalizeWhitespace(s)
		s = strs.TruncateString(s, maxCellWidth)

		return strings.ReplaceAll(s, "|", `\|`)
	}

	table := make([][]string, 0, len(rows)+1)

	head := make([]string, len(header))
	for i, h := range header {
		head[i] = clean(h)
	}

	table = append(table, head)

	for _, row := range rows {
		cells := make([]string, len(header))
		for i := 0; i < len(row) && i < len(header); i++ {
			cells[i] = clean(row[i])
		}

		table = append(table, cells)
	}

	// Widths are display widths so wide runes stay aligned.
	widths := make([]int, len(header))
	for i := range widths {
		widths[i] = 3
	}

	for _, row := range table {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder

	writeRow := func(cells []string) {
		sb.WriteString("|")

		for i, cell := range cells {
			sb.WriteString(" ")
			sb.WriteString(cell)
			sb.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
			sb.WriteString(" |")
		}

		sb.WriteString("\n")
	}

	writeRow(table[0])

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}

	writeRow(sep)

	for _, row := range table[1:] {
		writeRow(row)
	}

	return sb.String()
}

// Records renders records as a table. With no columns selected every column
// of the first record is shown.
func Records(records []normalizer.Record, columns []string, maxCellWidth int) (string, error) {
	if len(records) == 0 {
		return Table(columns, nil, maxCellWidth), nil
	}

	all := records[0].Columns()
	if len(columns) == 0 {
		columns = all
	}

	index := make(map[string]int, len(all))
	for i, col := range all {
		index[col] = i
	}

	pick := make([]int, len(columns))

	for i, col := range columns {
		pos, ok := index[col]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}

		pick[i] = pos
	}

	rows := make([][]string, len(records))

	for r, rec := range records {
		values := rec.Values()
		row := make([]string, len(pick))

		for i, pos := range pick {
			if pos < len(values) {
				row[i] = values[pos]
			}
		}

		rows[r] = row
	}

	return Table(columns, rows, maxCellWidth), nil
}
