package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"heatmap/internal/logger"
)

// Mode selects how a malformed row is handled.
type Mode int

const (
	// Strict aborts the whole decode on the first malformed row.
	Strict Mode = iota
	// Lenient skips a malformed row with a warning and keeps going.
	Lenient
)

// ErrUnknownMode is returned by ParseMode for an unrecognized name.
var ErrUnknownMode = errors.New("decode mode must be 'strict' or 'lenient'")

// ParseMode maps a config name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return Strict, nil
	case "lenient":
		return Lenient, nil
	}

	return Strict, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) String() string {
	if m == Lenient {
		return "lenient"
	}

	return "strict"
}

// Unmarshaler is implemented by record types that bind themselves from a row.
type Unmarshaler interface {
	UnmarshalRow(Row) error
}

// RowError reports a malformed row and the line it started on.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Report summarizes one decode run.
type Report struct {
	Header  Header
	Rows    int
	Decoded int
	Skipped []*RowError
}

// Decode reads a header row then every data row from r into records of type T.
//
// In Strict mode the first malformed row ends the decode and no records are
// returned. In Lenient mode malformed rows are logged, recorded in the report
// and left out of the result. log may be nil.
func Decode[T any, PT interface {
	*T
	Unmarshaler
}](r io.Reader, mode Mode, log *logger.Logger) ([]T, *Report, error) {
	reader := csv.NewReader(r)

	report := &Report{}

	names, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, report, ErrNoHeader
	}

	if err != nil {
		return nil, report, fmt.Errorf("failed to read header: %w", err)
	}

	if len(names) > 0 {
		names[0] = strings.TrimPrefix(names[0], "\ufeff")
	}

	report.Header = NewHeader(names)

	records := make([]T, 0)

	for {
		fields, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		report.Rows++

		var rowErr *RowError

		if readErr != nil {
			rowErr = &RowError{Line: errorLine(readErr), Err: readErr}
		} else {
			line, _ := reader.FieldPos(0)

			var rec T
			if bindErr := PT(&rec).UnmarshalRow(NewRow(report.Header, line, fields)); bindErr != nil {
				rowErr = &RowError{Line: line, Err: bindErr}
			} else {
				records = append(records, rec)
				report.Decoded++

				continue
			}
		}

		if mode == Strict {
			return nil, report, rowErr
		}

		report.Skipped = append(report.Skipped, rowErr)

		if log != nil {
			log.Warn("skipping malformed row", "line", rowErr.Line, "error", rowErr.Err)
		}
	}

	return records, report, nil
}

func errorLine(err error) int {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.StartLine
	}

	return 0
}
