// Package errors provides structured error types for the tl-codec library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go/wire type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
//		Path("update", "pts").
//		GoType("string").
//		WireType("int").
//		Detail("cannot map string onto a 32-bit wire integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.IntCast(int32(-500), "int8")
//	err := errors.InvalidTypeID(0xdeadbeef, descriptor.TypeIDs())
//
// All errors implement the standard error interface and support errors.Is/As.
// The codec never panics on malformed input; every failure surfaces as one of
// these values.
package errors
