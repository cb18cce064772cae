package property

import (
	"time"

	jsonmodel "github.com/reoring/jsonmodel"
	"github.com/reoring/jsonmodel/jsonschema"
)

// timeProperty stores timestamps as RFC 3339 strings. time.Time values
// are accepted on write and canonicalized to UTC.
type timeProperty struct {
	base
	schema    *jsonschema.Schema
	validator *jsonschema.Validator
}

func (p *timeProperty) Schema() *jsonschema.Schema { return p.schema.Clone() }

func (p *timeProperty) Validate(v any) (any, error) {
	if handled, out, err := p.gate(v); handled {
		return out, err
	}
	return p.validateValue(v)
}

func (p *timeProperty) validateValue(v any) (any, error) {
	if t, ok := v.(time.Time); ok {
		v = FormatTime(t)
	}
	s, ok := v.(string)
	if !ok {
		return nil, jsonschema.Validationf("value of type %T is not an RFC 3339 timestamp", v)
	}
	if _, err := ParseTime(s); err != nil {
		return nil, jsonschema.Validationf("%q is not an RFC 3339 timestamp: %v", s, err)
	}
	if err := p.validator.Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// DateTimeBuilder builds an RFC 3339 timestamp property.
type DateTimeBuilder struct {
	common
}

// DateTime starts a timestamp property. Values are stored as RFC 3339
// strings with the date-time format constraint; time.Time values are
// converted on write.
func DateTime() *DateTimeBuilder { return &DateTimeBuilder{} }

func (b *DateTimeBuilder) Named(name string) *DateTimeBuilder { b.name, b.named = name, true; return b }
func (b *DateTimeBuilder) Optional() *DateTimeBuilder         { b.optional = true; return b }
func (b *DateTimeBuilder) Default(v any) *DateTimeBuilder     { b.def, b.hasDefault = v, true; return b }

func (b *DateTimeBuilder) Build() (Property, error) {
	s, err := jsonschema.String(jsonschema.StringConstraints{Format: "date-time"})
	if err != nil {
		return nil, err
	}
	validator, err := jsonschema.NewValidator(s)
	if err != nil {
		return nil, err
	}
	p := &timeProperty{schema: s, validator: validator}
	bs, err := newBase(b.common, p.validateValue)
	if err != nil {
		return nil, err
	}
	p.base = bs
	return p, nil
}

func (b *DateTimeBuilder) MustBuild() Property { return mustProperty(b.Build()) }

// ParseTime parses an RFC 3339 timestamp, with or without fractional
// seconds.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// FormatTime renders a timestamp as its canonical stored form: UTC,
// RFC 3339, trailing zeros trimmed.
func FormatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

// Time converts a stored timestamp value back into a time.Time.
func Time(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, jsonmodel.Propertyf("value of type %T is not a timestamp string", v)
	}
	return ParseTime(s)
}
