package jsonmodel

// AbsentType is the type of the Absent sentinel. It is comparable, so
// values can be tested with == against Absent directly.
type AbsentType struct{}

// Absent marks "no value set" for a property slot. It is distinct from
// JSON null, which is stored as an untyped nil and is a perfectly valid
// value in its own right.
var Absent = AbsentType{}

func (AbsentType) String() string { return "absent" }

// IsAbsent reports whether v is the Absent sentinel.
func IsAbsent(v any) bool {
	_, ok := v.(AbsentType)
	return ok
}
