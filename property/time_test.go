package property_test

import (
	"errors"
	"testing"
	"time"

	jsonmodel "github.com/reoring/jsonmodel"
	"github.com/reoring/jsonmodel/jsonschema"
	"github.com/reoring/jsonmodel/property"
)

func TestDateTime_AcceptsStringsAndTimes(t *testing.T) {
	p := property.DateTime().MustBuild()

	got, err := p.Validate("2024-06-01T12:30:00Z")
	if err != nil {
		t.Fatalf("Validate(string): %v", err)
	}
	if got != "2024-06-01T12:30:00Z" {
		t.Fatalf("string value must pass through, got %v", got)
	}

	in := time.Date(2024, 6, 1, 14, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	got, err = p.Validate(in)
	if err != nil {
		t.Fatalf("Validate(time.Time): %v", err)
	}
	if got != "2024-06-01T12:30:00Z" {
		t.Fatalf("time value must canonicalize to UTC, got %v", got)
	}
}

func TestDateTime_Rejections(t *testing.T) {
	p := property.DateTime().MustBuild()

	for _, v := range []any{"not a time", "2024-13-01T00:00:00Z", "2024-06-01", 42, true} {
		if _, err := p.Validate(v); !errors.Is(err, jsonschema.ErrValidation) {
			t.Fatalf("value %v: expected validation error, got %v", v, err)
		}
	}
	if _, err := p.Validate(jsonmodel.Absent); !errors.Is(err, jsonmodel.ErrProperty) {
		t.Fatalf("required timestamp must reject absent, got %v", err)
	}
}

func TestDateTime_DefaultCanonicalized(t *testing.T) {
	def := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	p, err := property.DateTime().Named("created").Optional().Default(def).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := p.Default(); got != "2020-01-02T03:04:05Z" {
		t.Fatalf("default must be stored as its canonical string, got %v", got)
	}
}

func TestDateTime_Schema(t *testing.T) {
	p := property.DateTime().MustBuild()
	s := p.Schema()
	if s.Type != "string" || s.Format != "date-time" {
		t.Fatalf("unexpected fragment: type %q format %q", s.Type, s.Format)
	}
}

func TestTimeHelpers_RoundTrip(t *testing.T) {
	in := time.Date(2024, 6, 1, 12, 30, 0, 123000000, time.UTC)
	s := property.FormatTime(in)
	back, err := property.ParseTime(s)
	if err != nil {
		t.Fatalf("ParseTime(%q): %v", s, err)
	}
	if !back.Equal(in) {
		t.Fatalf("round trip drifted: %v != %v", back, in)
	}

	stored, err := property.Time("2024-06-01T12:30:00Z")
	if err != nil {
		t.Fatalf("Time: %v", err)
	}
	if stored.Hour() != 12 {
		t.Fatalf("unexpected hour %d", stored.Hour())
	}
	if _, err := property.Time(12); !errors.Is(err, jsonmodel.ErrProperty) {
		t.Fatalf("expected property error for non-string, got %v", err)
	}
}
