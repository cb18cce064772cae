// Package rules provides declarative checks that run against decoded
// documents after schema validation: expression predicates, collection
// rules and conditional gating, all over raw JSON values addressed by
// JSON Pointer.
package rules

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	jsonmodel "github.com/reoring/jsonmodel"
)

// Violation describes one failed check.
type Violation struct {
	Rule    string
	Path    string
	Message string
}

func (v Violation) String() string {
	if v.Path == "" || v.Path == "/" {
		return fmt.Sprintf("%s: %s", v.Rule, v.Message)
	}
	return fmt.Sprintf("%s: %s at %s", v.Rule, v.Message, v.Path)
}

// Rule inspects a raw JSON value and reports violations. A nil result
// means the document passes.
type Rule func(v any) []Violation

// Apply projects v onto its raw form and runs every rule against it,
// concatenating the violations. Container values serialize through
// their Value implementation; Absent and non-raw values are errors.
func Apply(v any, rules ...Rule) ([]Violation, error) {
	raw, err := jsonmodel.ToRawJSON(v, false)
	if err != nil {
		return nil, err
	}
	var out []Violation
	for _, r := range rules {
		if r == nil {
			continue
		}
		out = append(out, r(raw)...)
	}
	return out, nil
}

// Expr compiles an expression predicate into a rule. The expression
// sees the document bound to value and must return a boolean; numbers
// surface as int64 or float64 so ordinary arithmetic works.
func Expr(name, src string) (Rule, error) {
	prg, err := expr.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile check %q: %w", src, err)
	}
	return func(v any) []Violation {
		res, err := expr.Run(prg, map[string]any{"value": exprValue(v)})
		if err != nil {
			return []Violation{{Rule: name, Path: "/", Message: err.Error()}}
		}
		ok, isBool := res.(bool)
		if !isBool {
			return []Violation{{Rule: name, Path: "/", Message: fmt.Sprintf("returned %T, want bool", res)}}
		}
		if !ok {
			return []Violation{{Rule: name, Path: "/", Message: "predicate failed"}}
		}
		return nil
	}, nil
}

// AtLeastOne requires the array at path to hold at least one element.
// A missing path or a non-array value is not a violation.
func AtLeastOne(path string) Rule {
	p := normalizePath(path)
	return func(v any) []Violation {
		val, ok := valueAt(v, p)
		if !ok {
			return nil
		}
		if arr, isArr := val.([]any); isArr && len(arr) == 0 {
			return []Violation{{Rule: "at_least_one", Path: p, Message: "at least 1 element is required"}}
		}
		return nil
	}
}

// UniqueBy requires elements of the array at collectionPath to carry
// distinct values at keyPath (relative to each element). Keys compare
// by their printed form, so keep the key a single scalar type.
func UniqueBy(collectionPath, keyPath string) Rule {
	cp := normalizePath(collectionPath)
	kp := strings.TrimPrefix(keyPath, "/")
	return func(v any) []Violation {
		val, ok := valueAt(v, cp)
		if !ok {
			return nil
		}
		arr, isArr := val.([]any)
		if !isArr {
			return nil
		}
		seen := map[string]int{}
		var out []Violation
		for i, elem := range arr {
			kv, ok := descend(elem, kp)
			if !ok {
				continue
			}
			key := fmt.Sprint(kv)
			if first, dup := seen[key]; dup {
				out = append(out, Violation{
					Rule:    "unique_by",
					Path:    fmt.Sprintf("%s/%d", cp, i),
					Message: fmt.Sprintf("duplicate key %q (first at index %d)", key, first),
				})
			} else {
				seen[key] = i
			}
		}
		return out
	}
}

// And runs every rule and concatenates their violations.
func And(rules ...Rule) Rule {
	return func(v any) []Violation {
		var out []Violation
		for _, r := range rules {
			if r == nil {
				continue
			}
			out = append(out, r(v)...)
		}
		return out
	}
}

// Or passes when any rule passes. When all fail it reports the branch
// with the fewest violations.
func Or(rules ...Rule) Rule {
	return func(v any) []Violation {
		var best []Violation
		bestSet := false
		for _, r := range rules {
			if r == nil {
				continue
			}
			viols := r(v)
			if len(viols) == 0 {
				return nil
			}
			if !bestSet || len(viols) < len(best) {
				best = viols
				bestSet = true
			}
		}
		if bestSet {
			return best
		}
		return nil
	}
}

// Op compares the value at a path against a constant.
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional gates rules on predicates over the document.
type Conditional struct {
	path string
	op   Op
	want any
	all  []Conditional
	any  []Conditional
}

// If builds a conditional comparing the value at a JSON Pointer path
// against want. Missing paths never satisfy the condition.
func If(path string, op Op, want any) Conditional {
	return Conditional{path: normalizePath(path), op: op, want: want}
}

// IfAll requires every condition to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny requires at least one condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with further conditions, all required.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with further conditions, any sufficient.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Then attaches rules that run only when the condition holds.
func (c Conditional) Then(rules ...Rule) Rule {
	return func(v any) []Violation {
		if !c.eval(v) {
			return nil
		}
		return And(rules...)(v)
	}
}

func (c Conditional) eval(v any) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.eval(v) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.eval(v) {
				return true
			}
		}
		return false
	}
	cur, ok := valueAt(v, c.path)
	if !ok {
		return false
	}
	return satisfies(cur, c.op, c.want)
}

func satisfies(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return jsonmodel.EqualRaw(cur, want)
	case Ne:
		return !jsonmodel.EqualRaw(cur, want)
	}
	cmp, ok := jsonmodel.CompareRaw(cur, want)
	if !ok {
		return false
	}
	switch op {
	case Lt:
		return cmp < 0
	case Le:
		return cmp <= 0
	case Gt:
		return cmp > 0
	case Ge:
		return cmp >= 0
	}
	return false
}

// ---- path navigation ----

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

func valueAt(v any, pointer string) (any, bool) {
	return descend(v, strings.TrimPrefix(pointer, "/"))
}

func descend(v any, rel string) (any, bool) {
	if rel == "" {
		return v, true
	}
	cur := v
	for _, seg := range strings.Split(rel, "/") {
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		switch t := cur.(type) {
		case map[string]any:
			next, ok := t[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(t) {
				return nil, false
			}
			cur = t[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// exprValue converts json.Number into int64 or float64, recursively,
// so expression predicates can use ordinary arithmetic.
func exprValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = exprValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = exprValue(e)
		}
		return out
	default:
		return v
	}
}
