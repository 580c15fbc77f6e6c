package tabular

import (
	"math"
	"regexp"
	"strconv"
)

// FlagSet is the only text that marks a flag column as set.
const FlagSet = "Yes"

// countPattern accepts plain decimal text: optional sign, digits, optional fraction.
var countPattern = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)$`)

// IsYes reports whether a flag cell is set. Anything but the exact text "Yes" is unset.
func IsYes(s string) bool {
	return s == FlagSet
}

// PositiveCount parses a textual count. It returns the value truncated toward
// zero and true when the text is a decimal number greater than zero; any
// other text yields false.
func PositiveCount(s string) (int64, bool) {
	if !countPattern.MatchString(s) {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}

	if v >= math.MaxInt64 {
		return math.MaxInt64, true
	}

	return int64(math.Trunc(v)), true
}
