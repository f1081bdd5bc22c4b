// Package errctx builds leveled diagnostic contexts that travel alongside
// domain errors. A context is one of four levels, each a strict superset of
// the previous one:
//
//	Minimal       operation, location
//	Standard      + inputs, error type
//	Detailed      + decisions, progress, recovery guidance
//	Comprehensive + additional data, context depth, parent context
//
// Only Comprehensive contexts reference a parent. The reference is a
// back-pointer; the parent stays owned by whoever created it further up the
// call chain.
//
// Optional-field records produced by older callers enter through FromLegacy,
// which always yields exactly one level. Format renders any context as a
// multi-line, human readable block.
package errctx
