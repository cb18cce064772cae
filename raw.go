package jsonmodel

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
)

// IsRaw reports whether v is built purely from raw JSON element types:
// nil, bool, string, a numeric type, []any or map[string]any, recursively.
// Container values implementing Value are not raw; they serialize to raw
// through RawJSON.
func IsRaw(v any) bool {
	switch x := v.(type) {
	case nil, bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	case []any:
		for _, e := range x {
			if !IsRaw(e) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, e := range x {
			if !IsRaw(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// DeepCopyRaw returns a copy of a raw JSON value sharing no mutable
// containers with the input. Scalars are returned as-is. Values that are
// not raw are returned unchanged; callers gate on IsRaw first when that
// matters.
func DeepCopyRaw(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = DeepCopyRaw(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = DeepCopyRaw(e)
		}
		return out
	default:
		return v
	}
}

// EqualRaw reports structural equality of two raw JSON values. Numbers
// compare by numeric value regardless of representation, so
// json.Number("3"), int(3) and float64(3) are all equal.
func EqualRaw(a, b any) bool {
	if IsAbsent(a) || IsAbsent(b) {
		return IsAbsent(a) && IsAbsent(b)
	}
	if ra, ok := numRat(a); ok {
		rb, okb := numRat(b)
		return okb && ra.Cmp(rb) == 0
	}
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !EqualRaw(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, present := y[k]
			if !present || !EqualRaw(v, w) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// CompareRaw orders two raw scalar values: negative, zero or positive
// like strings.Compare. Numbers order numerically regardless of
// representation and strings order lexically; ok is false for any other
// combination, including two booleans.
func CompareRaw(a, b any) (cmp int, ok bool) {
	if ra, okA := numRat(a); okA {
		rb, okB := numRat(b)
		if !okB {
			return 0, false
		}
		return ra.Cmp(rb), true
	}
	sa, okA := a.(string)
	sb, okB := b.(string)
	if okA && okB {
		return strings.Compare(sa, sb), true
	}
	return 0, false
}

// numRat converts any supported numeric representation to a rational for
// exact comparison. json.Number carries its decimal text, so big.Rat
// preserves precision beyond float64.
func numRat(v any) (*big.Rat, bool) {
	switch x := v.(type) {
	case json.Number:
		if r, ok := new(big.Rat).SetString(x.String()); ok {
			return r, true
		}
		return nil, false
	case int:
		return new(big.Rat).SetInt64(int64(x)), true
	case int8:
		return new(big.Rat).SetInt64(int64(x)), true
	case int16:
		return new(big.Rat).SetInt64(int64(x)), true
	case int32:
		return new(big.Rat).SetInt64(int64(x)), true
	case int64:
		return new(big.Rat).SetInt64(x), true
	case uint:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint8:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint16:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint32:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint64:
		return new(big.Rat).SetUint64(x), true
	case float32:
		if r, ok := new(big.Rat).SetString(strconv.FormatFloat(float64(x), 'g', -1, 32)); ok {
			return r, true
		}
		return nil, false
	case float64:
		if r, ok := new(big.Rat).SetString(strconv.FormatFloat(x, 'g', -1, 64)); ok {
			return r, true
		}
		return nil, false
	default:
		return nil, false
	}
}
