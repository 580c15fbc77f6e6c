// Package tabular decodes header-driven comma-separated datasets into typed records.
//
// Decoding is strict on structure (field counts, quoting, missing columns) and
// permissive on content: flag and count columns never fail a row.
package tabular

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Decoding errors.
var (
	ErrNoHeader      = errors.New("dataset has no header row")
	ErrMissingColumn = errors.New("column not present in header")
	ErrInvalidNumber = errors.New("invalid number")
)

// Header maps column names to their position in a data row.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader builds a header from the column names of the first row.
// When a name repeats, the first occurrence wins.
func NewHeader(names []string) Header {
	index := make(map[string]int, len(names))
	for i, name := range names {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	return Header{names: names, index: index}
}

// Names returns the column names in file order.
func (h Header) Names() []string {
	return h.names
}

// Has reports whether the header declares the column.
func (h Header) Has(column string) bool {
	_, ok := h.index[column]
	return ok
}

// Missing returns the columns from want that the header does not declare, in order.
func (h Header) Missing(want []string) []string {
	var missing []string

	for _, col := range want {
		if !h.Has(col) {
			missing = append(missing, col)
		}
	}

	return missing
}

// Row is one data row addressed by column name.
type Row struct {
	Line   int
	header Header
	fields []string
}

// NewRow pairs a data row with its header.
func NewRow(header Header, line int, fields []string) Row {
	return Row{Line: line, header: header, fields: fields}
}

// Get returns the raw text of a column.
func (r Row) Get(column string) (string, error) {
	i, ok := r.header.index[column]
	if !ok || i >= len(r.fields) {
		return "", fmt.Errorf("%w: %q", ErrMissingColumn, column)
	}

	return r.fields[i], nil
}

// Binder reads typed values out of a row and keeps the first error, so a
// record can bind all of its columns and check once at the end.
type Binder struct {
	row Row
	err error
}

// Bind starts binding values from r.
func Bind(r Row) *Binder {
	return &Binder{row: r}
}

// String returns the raw text of a column.
func (b *Binder) String(column string) string {
	v, err := b.row.Get(column)
	if err != nil {
		b.fail(err)
	}

	return v
}

// Flag returns whether a flag column is set. Only a missing column is an error.
func (b *Binder) Flag(column string) bool {
	return IsYes(b.String(column))
}

// Float parses a typed numeric column such as a geocode. NaN and infinities
// are rejected since they cannot be published as JSON.
func (b *Binder) Float(column string) float64 {
	raw, err := b.row.Get(column)
	if err != nil {
		b.fail(err)
		return 0
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		b.fail(fmt.Errorf("%w in column %q: %q", ErrInvalidNumber, column, raw))
		return 0
	}

	return v
}

// Err returns the first error met while binding.
func (b *Binder) Err() error {
	return b.err
}

func (b *Binder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
