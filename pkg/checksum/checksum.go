// Package checksum fingerprints dataset bytes for cache validation and
// integrity checks.
package checksum

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ErrChecksumMismatch is returned when content does not hash to the expected value.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// Sum returns the xxHash64 of data as 16 lowercase hex digits.
func Sum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// ETag returns a strong entity tag for data.
func ETag(data []byte) string {
	return strconv.Quote(Sum(data))
}

// Verify checks data against an expected hex sum. Case and an optional
// "xxh64:" prefix are ignored.
func Verify(data []byte, expected string) error {
	want := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(expected)), "xxh64:")

	if got := Sum(data); got != want {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, want, got)
	}

	return nil
}

// MatchETag reports whether an If-None-Match header value names etag.
// A "*" matches any current representation; weak tags compare by value.
func MatchETag(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}

	return false
}
