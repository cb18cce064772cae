package jsonmodel

// Package jsonmodel provides:
//
// - Declarative typed properties validated against derived JSON Schema fragments
// - An object container with required/optional/additional partitioning and raw-JSON round-trips
// - Combinator properties (allOf/anyOf/oneOf) with deterministic ownership resolution
// - Named-definition consolidation across composed schema trees
//
// Design policy:
// - Keep the shared kernel (Absent, raw helpers, codecs, error kinds) in the root package.
// - Place the schema fragment model under jsonschema/, the property model under
//   property/, the aggregate under object/, and the CLI under cmd/jsonmodel.
// - Everything is synchronous value semantics: no goroutines, no locks, no contexts.
//
// Typical usage:
//
//	ty := object.NewType("Person").
//		Add("name", property.String().MinLength(1).MustBuild()).
//		Add("age", property.Number().Minimum(0).Integer().Optional().MustBuild()).
//		MustBuild()
//
//	p, err := ty.FromJSON(data, true)
//	raw, err := p.RawJSON(true)
