package checksum

import (
	"errors"
	"testing"
)

func TestSum(t *testing.T) {
	// xxHash64 of the empty input with seed 0.
	if got := Sum(nil); got != "ef46db3751d8e999" {
		t.Errorf("Sum(nil) = %s", got)
	}

	a, b := Sum([]byte("establishment_id\n1\n")), Sum([]byte("establishment_id\n2\n"))
	if a == b {
		t.Error("different content produced the same sum")
	}

	if len(a) != 16 {
		t.Errorf("sum %q is not 16 hex digits", a)
	}
}

func TestETag(t *testing.T) {
	if got := ETag(nil); got != `"ef46db3751d8e999"` {
		t.Errorf("ETag(nil) = %s", got)
	}
}

func TestVerify(t *testing.T) {
	data := []byte("Account Name,Dogs\nAcme,2\n")
	sum := Sum(data)

	if err := Verify(data, sum); err != nil {
		t.Errorf("Verify with matching sum: %v", err)
	}

	if err := Verify(data, " XXH64:"+sum); err != nil {
		t.Errorf("Verify with prefixed sum: %v", err)
	}

	if err := Verify(data, "0000000000000000"); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("expected ErrChecksumMismatch, got %v", err)
	}
}

func TestMatchETag(t *testing.T) {
	etag := ETag([]byte("x"))

	tests := []struct {
		header string
		want   bool
	}{
		{etag, true},
		{"W/" + etag, true},
		{`"other", ` + etag, true},
		{"*", true},
		{`"other"`, false},
		{"", false},
	}

	for _, tt := range tests {
		if got := MatchETag(tt.header, etag); got != tt.want {
			t.Errorf("MatchETag(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
