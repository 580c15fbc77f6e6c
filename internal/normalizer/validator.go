package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"heatmap/internal/tabular"
)

// ErrIncompleteHeader is returned when a dataset header lacks declared columns.
var ErrIncompleteHeader = errors.New("dataset header is missing columns")

// Validator checks a decoded header against the columns a record kind declares.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns ErrIncompleteHeader listing every declared column the header lacks.
func (v *Validator) Validate(header tabular.Header, declared []string) error {
	if len(header.Names()) == 0 {
		return tabular.ErrNoHeader
	}

	missing := header.Missing(declared)
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrIncompleteHeader, strings.Join(missing, ", "))
	}

	return nil
}
