package object

import (
	"fmt"
	"io"

	jsonmodel "github.com/reoring/jsonmodel"
)

// Object is one instance of a Type. Every stored value has passed its
// property, so an instance is valid at every point of its life.
// Defaults are resolved on read and never stored.
type Object struct {
	typ        *Type
	values     map[string]any
	extraOrder []string
}

func (o *Object) Type() *Type { return o.typ }

// Set validates v against the property owning name and stores the
// result. Setting Absent removes the stored value, which fails on a
// required property. Undeclared names go through the additional
// property when the type allows them.
func (o *Object) Set(name string, v any) error {
	p, declared := o.typ.byName[name]
	if !declared {
		if o.typ.additional == nil {
			return jsonmodel.Propertyf("type %q has no property %q and disallows additional properties", o.typ.name, name)
		}
		p = o.typ.additional
	}
	out, err := p.Validate(v)
	if err != nil {
		return fmt.Errorf("property %q: %w", name, err)
	}
	if jsonmodel.IsAbsent(out) {
		o.remove(name, declared)
		return nil
	}
	if !declared {
		if _, stored := o.values[name]; !stored {
			o.extraOrder = append(o.extraOrder, name)
		}
	}
	o.values[name] = out
	return nil
}

func (o *Object) remove(name string, declared bool) {
	if _, stored := o.values[name]; !stored {
		return
	}
	delete(o.values, name)
	if declared {
		return
	}
	for i, k := range o.extraOrder {
		if k == name {
			o.extraOrder = append(o.extraOrder[:i], o.extraOrder[i+1:]...)
			return
		}
	}
}

// Get returns the value under name: the stored value, else a fresh
// copy of the property's default, else Absent. Asking for an
// undeclared name fails only when the type disallows additional
// properties.
func (o *Object) Get(name string) (any, error) {
	if v, ok := o.values[name]; ok {
		return v, nil
	}
	if p, declared := o.typ.byName[name]; declared {
		return p.Default(), nil
	}
	if o.typ.additional == nil {
		return nil, jsonmodel.Propertyf("type %q has no property %q and disallows additional properties", o.typ.name, name)
	}
	return o.typ.additional.Default(), nil
}

// Stored returns the stored value under name without consulting
// defaults.
func (o *Object) Stored(name string) (any, bool) {
	v, ok := o.values[name]
	return v, ok
}

// Len returns the number of stored values.
func (o *Object) Len() int { return len(o.values) }

// Delete removes the value under name. Deleting a required property
// fails.
func (o *Object) Delete(name string) error { return o.Set(name, jsonmodel.Absent) }

// Has reports whether name is declared on the type or currently
// stored.
func (o *Object) Has(name string) bool {
	if _, ok := o.values[name]; ok {
		return true
	}
	_, declared := o.typ.byName[name]
	return declared
}

// HasValue reports whether Get would return something other than
// Absent.
func (o *Object) HasValue(name string) bool {
	if _, ok := o.values[name]; ok {
		return true
	}
	p, declared := o.typ.byName[name]
	return declared && p.HasDefault()
}

// Names returns the instance's property names: declared names first,
// required then optional in declaration order, then stored undeclared
// names in insertion order.
func (o *Object) Names() []string {
	return append(o.typ.Names(), o.extraOrder...)
}

// RawJSON projects the stored values onto a plain decoded-JSON object.
// Defaults are not materialized. With validate set, nested containers
// are validated during projection and the result is checked against
// the object schema.
func (o *Object) RawJSON(validate bool) (any, error) {
	out := make(map[string]any, len(o.values))
	for name, v := range o.values {
		raw, err := jsonmodel.ToRawJSON(v, validate)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		out[name] = raw
	}
	if validate {
		if err := o.typ.validator.Validate(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// JSON encodes the instance as compact JSON.
func (o *Object) JSON(validate bool) ([]byte, error) {
	raw, err := o.RawJSON(validate)
	if err != nil {
		return nil, err
	}
	return jsonmodel.EncodeJSON(raw)
}

// JSONIndent encodes the instance as indented JSON.
func (o *Object) JSONIndent(validate bool, indent string) ([]byte, error) {
	raw, err := o.RawJSON(validate)
	if err != nil {
		return nil, err
	}
	return jsonmodel.EncodeJSONIndent(raw, indent)
}

// WriteJSON encodes the instance to w with a trailing newline.
func (o *Object) WriteJSON(w io.Writer, validate bool) error {
	raw, err := o.RawJSON(validate)
	if err != nil {
		return err
	}
	return jsonmodel.WriteJSON(w, raw)
}

// SaveFile writes the instance as JSON to path.
func (o *Object) SaveFile(path string, validate bool) error {
	raw, err := o.RawJSON(validate)
	if err != nil {
		return err
	}
	return jsonmodel.SaveJSON(path, raw)
}

// JSONCopy returns an independent instance of the same type holding
// deep copies of the stored values.
func (o *Object) JSONCopy(validate bool) (any, error) {
	raw, err := o.RawJSON(validate)
	if err != nil {
		return nil, err
	}
	return o.typ.New(raw.(map[string]any))
}

// Copy is JSONCopy with its concrete type.
func (o *Object) Copy(validate bool) (*Object, error) {
	cp, err := o.JSONCopy(validate)
	if err != nil {
		return nil, err
	}
	return cp.(*Object), nil
}

// Equal reports structural equality of the stored values. Instances of
// different types compare by projection.
func (o *Object) Equal(other *Object) bool {
	if other == nil {
		return false
	}
	ra, err := o.RawJSON(false)
	if err != nil {
		return false
	}
	rb, err := other.RawJSON(false)
	if err != nil {
		return false
	}
	return jsonmodel.EqualRaw(ra, rb)
}

var _ jsonmodel.Value = (*Object)(nil)
