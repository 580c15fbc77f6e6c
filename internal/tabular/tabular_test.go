package tabular

import (
	"errors"
	"strings"
	"testing"
)

type pen struct {
	Name    string
	Pigs    bool
	Count   string
	Lat     float64
	HasLine int
}

func (p *pen) UnmarshalRow(r Row) error {
	b := Bind(r)
	p.Name = b.String("name")
	p.Pigs = b.Flag("pigs")
	p.Count = b.String("count")
	p.Lat = b.Float("latitude")
	p.HasLine = r.Line

	return b.Err()
}

const penHeader = "name,pigs,count,latitude\n"

func TestIsYes(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Yes", true},
		{"", false},
		{"yes", false},
		{"YES", false},
		{" Yes", false},
		{"No", false},
		{"1", false},
	}

	for _, tt := range tests {
		if got := IsYes(tt.in); got != tt.want {
			t.Errorf("IsYes(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPositiveCount(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"3", 3, true},
		{"3.0", 3, true},
		{"2.9", 2, true},
		{"1.5", 1, true},
		{"+4", 4, true},
		{".5", 0, true},
		{"7.", 7, true},
		{"0", 0, false},
		{"0.0", 0, false},
		{"", 0, false},
		{"-1", 0, false},
		{"-0.5", 0, false},
		{"abc", 0, false},
		{"1e3", 0, false},
		{"NaN", 0, false},
		{"inf", 0, false},
		{" 3", 0, false},
		{"3 dogs", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := PositiveCount(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("PositiveCount(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("Lenient"); err != nil || m != Lenient {
		t.Errorf("ParseMode(Lenient) = %v, %v", m, err)
	}

	if m, err := ParseMode("strict"); err != nil || m != Strict {
		t.Errorf("ParseMode(strict) = %v, %v", m, err)
	}

	if _, err := ParseMode("skip"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}

	if Lenient.String() != "lenient" || Strict.String() != "strict" {
		t.Error("unexpected Mode.String output")
	}
}

func TestDecode_WellFormed(t *testing.T) {
	input := penHeader +
		"North Barn,Yes,3,40.1\n" +
		"\"Quoted, Name\",,abc,-73.5\n" +
		"South,maybe,,0\n"

	recs, report, err := Decode[pen](strings.NewReader(input), Strict, nil)
	if err != nil {
		t.Fatalf("Decode returned unexpected error: %v", err)
	}

	if len(recs) != 3 || report.Rows != 3 || report.Decoded != 3 {
		t.Fatalf("got %d records, report %+v", len(recs), report)
	}

	if recs[1].Name != "Quoted, Name" {
		t.Errorf("quoted field = %q", recs[1].Name)
	}

	if !recs[0].Pigs || recs[1].Pigs || recs[2].Pigs {
		t.Errorf("flag parse wrong: %v %v %v", recs[0].Pigs, recs[1].Pigs, recs[2].Pigs)
	}

	if recs[0].HasLine != 2 || recs[2].HasLine != 4 {
		t.Errorf("line numbers = %d, %d", recs[0].HasLine, recs[2].HasLine)
	}
}

func TestDecode_ColumnOrderIndependent(t *testing.T) {
	input := "latitude,count,pigs,name,extra\n1.5,2,Yes,Shed,ignored\n"

	recs, _, err := Decode[pen](strings.NewReader(input), Strict, nil)
	if err != nil {
		t.Fatalf("Decode returned unexpected error: %v", err)
	}

	if recs[0].Name != "Shed" || recs[0].Lat != 1.5 || !recs[0].Pigs {
		t.Errorf("unexpected record %+v", recs[0])
	}
}

func TestDecode_StripsBOM(t *testing.T) {
	input := "\ufeff" + penHeader + "A,,1,0\n"

	recs, report, err := Decode[pen](strings.NewReader(input), Strict, nil)
	if err != nil {
		t.Fatalf("Decode returned unexpected error: %v", err)
	}

	if !report.Header.Has("name") || recs[0].Name != "A" {
		t.Errorf("BOM not stripped from header: %v", report.Header.Names())
	}
}

func TestDecode_NoHeader(t *testing.T) {
	_, _, err := Decode[pen](strings.NewReader(""), Lenient, nil)
	if !errors.Is(err, ErrNoHeader) {
		t.Errorf("expected ErrNoHeader, got %v", err)
	}
}

func TestDecode_Modes(t *testing.T) {
	input := penHeader +
		"A,Yes,1,1\n" +
		"B,Yes,1\n" + // short row
		"C,,2,2\n" +
		"D,,2,not-a-number\n" +
		"E,,3,3\n"

	t.Run("strict aborts with no output", func(t *testing.T) {
		recs, report, err := Decode[pen](strings.NewReader(input), Strict, nil)
		if err == nil {
			t.Fatal("expected an error in strict mode")
		}

		var rowErr *RowError
		if !errors.As(err, &rowErr) || rowErr.Line != 3 {
			t.Errorf("expected RowError on line 3, got %v", err)
		}

		if recs != nil {
			t.Errorf("strict mode returned %d records alongside an error", len(recs))
		}

		if report.Decoded != 1 {
			t.Errorf("report.Decoded = %d, want 1", report.Decoded)
		}
	})

	t.Run("lenient skips malformed rows", func(t *testing.T) {
		recs, report, err := Decode[pen](strings.NewReader(input), Lenient, nil)
		if err != nil {
			t.Fatalf("lenient decode failed: %v", err)
		}

		if len(recs) != 3 || report.Rows != 5 || len(report.Skipped) != 2 {
			t.Fatalf("got %d records, rows=%d skipped=%d", len(recs), report.Rows, len(report.Skipped))
		}

		names := recs[0].Name + recs[1].Name + recs[2].Name
		if names != "ACE" {
			t.Errorf("kept rows = %q, want ACE", names)
		}

		if !errors.Is(report.Skipped[1], ErrInvalidNumber) {
			t.Errorf("second skip should be an invalid number, got %v", report.Skipped[1])
		}
	})
}

func TestDecode_NonFiniteGeocode(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "inf", "-Inf", "+Infinity"} {
		t.Run(raw, func(t *testing.T) {
			input := penHeader + "A,Yes,1,1\n" + "B,,2," + raw + "\n"

			_, _, err := Decode[pen](strings.NewReader(input), Strict, nil)
			if !errors.Is(err, ErrInvalidNumber) {
				t.Errorf("strict: expected ErrInvalidNumber, got %v", err)
			}

			recs, report, err := Decode[pen](strings.NewReader(input), Lenient, nil)
			if err != nil {
				t.Fatalf("lenient decode failed: %v", err)
			}

			if len(recs) != 1 || len(report.Skipped) != 1 || report.Skipped[0].Line != 3 {
				t.Errorf("got %d records, skipped=%v", len(recs), report.Skipped)
			}
		})
	}
}

func TestDecode_MissingColumnIsRowError(t *testing.T) {
	input := "name,pigs,latitude\nA,Yes,1\n"

	_, _, err := Decode[pen](strings.NewReader(input), Strict, nil)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}

	if !strings.Contains(err.Error(), `"count"`) {
		t.Errorf("error should name the column: %v", err)
	}

	recs, report, err := Decode[pen](strings.NewReader(input), Lenient, nil)
	if err != nil || len(recs) != 0 || len(report.Skipped) != 1 {
		t.Errorf("lenient: recs=%d skipped=%d err=%v", len(recs), len(report.Skipped), err)
	}
}

func TestDecode_BadQuoting(t *testing.T) {
	input := penHeader + "A,Yes,1,1\nB\"ad,,1,1\nC,,1,1\n"

	if _, _, err := Decode[pen](strings.NewReader(input), Strict, nil); err == nil {
		t.Error("expected strict decode to fail on a bare quote")
	}

	recs, report, err := Decode[pen](strings.NewReader(input), Lenient, nil)
	if err != nil {
		t.Fatalf("lenient decode failed: %v", err)
	}

	if len(recs) != 2 || len(report.Skipped) != 1 {
		t.Errorf("got %d records and %d skipped", len(recs), len(report.Skipped))
	}
}

func TestHeader_Missing(t *testing.T) {
	h := NewHeader([]string{"a", "b", "a"})

	missing := h.Missing([]string{"a", "c", "b", "d"})
	if strings.Join(missing, ",") != "c,d" {
		t.Errorf("Missing = %v", missing)
	}
}
