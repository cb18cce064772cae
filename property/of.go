package property

import (
	jsonmodel "github.com/reoring/jsonmodel"
	"github.com/reoring/jsonmodel/jsonschema"
)

type ofKind int

const (
	ofAll ofKind = iota
	ofAny
	ofOne
)

func (k ofKind) String() string {
	switch k {
	case ofAll:
		return "allOf"
	case ofAny:
		return "anyOf"
	case ofOne:
		return "oneOf"
	}
	return "of"
}

// ofProperty resolves value ownership across a fixed, ordered list of
// sub-properties.
type ofProperty struct {
	base
	kind   ofKind
	subs   []Property
	schema *jsonschema.Schema
}

func (p *ofProperty) Schema() *jsonschema.Schema { return p.schema.Clone() }

func (p *ofProperty) Validate(v any) (any, error) {
	if handled, out, err := p.gate(v); handled {
		return out, err
	}
	return p.resolve(v)
}

// resolve validates the candidate against every sub-property, then
// selects the winner from the success vector. The winner's validated
// output from the single pass is what gets returned; validation is
// never re-run after selection, so any conversion a sub-property
// performed is preserved.
func (p *ofProperty) resolve(v any) (any, error) {
	validated := make([]any, len(p.subs))
	matched := make([]bool, len(p.subs))
	for i, sub := range p.subs {
		out, err := sub.Validate(v)
		if err == nil {
			validated[i] = out
			matched[i] = true
		}
	}
	idx, err := p.choose(matched)
	if err != nil {
		return nil, err
	}
	return validated[idx], nil
}

// choose applies the kind-specific selection rule. allOf takes the
// first sub-property's output when every branch matched; if branches
// could disagree on the shape of the validated value, the first one's
// shape is what callers get.
func (p *ofProperty) choose(matched []bool) (int, error) {
	switch p.kind {
	case ofAll:
		for _, ok := range matched {
			if !ok {
				return 0, jsonschema.Validationf("value didn't match all sub-properties")
			}
		}
		return 0, nil
	case ofAny:
		for i, ok := range matched {
			if ok {
				return i, nil
			}
		}
		return 0, jsonschema.Validationf("value didn't match any sub-properties")
	default: // ofOne
		winner := -1
		for i, ok := range matched {
			if !ok {
				continue
			}
			if winner >= 0 {
				return 0, jsonschema.Validationf("value matched more than one sub-property")
			}
			winner = i
		}
		if winner < 0 {
			return 0, jsonschema.Validationf("value didn't match any sub-properties")
		}
		return winner, nil
	}
}

// OfBuilder builds a combinator property over at least two
// non-optional sub-properties.
type OfBuilder struct {
	common
	kind ofKind
	subs []Property
}

// AllOf starts a property whose value must satisfy every sub-property.
func AllOf(subs ...Property) *OfBuilder { return &OfBuilder{kind: ofAll, subs: subs} }

// AnyOf starts a property whose value must satisfy at least one
// sub-property; the lowest-index match owns the value.
func AnyOf(subs ...Property) *OfBuilder { return &OfBuilder{kind: ofAny, subs: subs} }

// OneOf starts a property whose value must satisfy exactly one
// sub-property.
func OneOf(subs ...Property) *OfBuilder { return &OfBuilder{kind: ofOne, subs: subs} }

func (b *OfBuilder) Named(name string) *OfBuilder { b.name, b.named = name, true; return b }
func (b *OfBuilder) Optional() *OfBuilder         { b.optional = true; return b }
func (b *OfBuilder) Default(v any) *OfBuilder     { b.def, b.hasDefault = v, true; return b }

func (b *OfBuilder) Build() (Property, error) {
	if len(b.subs) < 2 {
		return nil, jsonschema.Schemaf("%s requires at least two sub-properties, got %d", b.kind, len(b.subs))
	}
	frags := make([]*jsonschema.Schema, len(b.subs))
	for i, sub := range b.subs {
		if sub == nil {
			return nil, jsonmodel.Propertyf("%s sub-property %d is nil", b.kind, i)
		}
		if sub.Optional() {
			return nil, jsonmodel.Propertyf("%s sub-property %d must not be optional", b.kind, i)
		}
		frags[i] = sub.Schema()
	}

	var s *jsonschema.Schema
	var err error
	switch b.kind {
	case ofAll:
		s, err = jsonschema.AllOf(frags...)
	case ofAny:
		s, err = jsonschema.AnyOf(frags...)
	default:
		s, err = jsonschema.OneOf(frags...)
	}
	if err != nil {
		return nil, err
	}

	p := &ofProperty{kind: b.kind, subs: append([]Property(nil), b.subs...), schema: s}
	bs, err := newBase(b.common, p.resolve)
	if err != nil {
		return nil, err
	}
	p.base = bs
	return p, nil
}

func (b *OfBuilder) MustBuild() Property { return mustProperty(b.Build()) }
