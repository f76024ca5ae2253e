// Package errors provides structured error types for the schema compiler.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the context a schema author needs to act on it: the field
// path, the declared field type, the feature involved, the offending value and a
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindValueOutOfRange).
//		Path("stats", "2").
//		FieldType("uint8").
//		Value(300).
//		Detail("value does not fit in 8 bits").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfRange(errors.PhaseEncode, path, 300, "uint8")
//	err := errors.Incompatible("fragment-single", "fragment-multi")
//
// All errors implement the standard error interface and support errors.Is/As.
// IsKind matches on Kind alone, regardless of the phase that raised it.
package errors
