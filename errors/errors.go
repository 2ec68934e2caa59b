package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode  Phase = "encode"  // value to wire bytes
	PhaseDecode  Phase = "decode"  // wire bytes to value
	PhaseSize    Phase = "size"    // size prediction
	PhaseCompile Phase = "compile" // type descriptor compilation
)

// Kind categorizes the error
type Kind string

const (
	KindIO                  Kind = "io"
	KindInvalidUTF8         Kind = "invalid_utf8"
	KindIntCast             Kind = "int_cast"
	KindFloatCast           Kind = "float_cast"
	KindTooLong             Kind = "too_long"
	KindSizeOverflow        Kind = "size_overflow"
	KindUnsupported         Kind = "unsupported"
	KindExcessElements      Kind = "excess_elements"
	KindNotEnoughElements   Kind = "not_enough_elements"
	KindInvalidMapKey       Kind = "invalid_map_key"
	KindInvalidLengthPrefix Kind = "invalid_length_prefix"
	KindNonZeroPadding      Kind = "nonzero_padding"
	KindMissingHint         Kind = "missing_hint"
	KindUnknownVariant      Kind = "unknown_variant"
	KindInvalidBool         Kind = "invalid_bool"
	KindInvalidTypeID       Kind = "invalid_type_id"
	KindTypeIDMismatch      Kind = "type_id_mismatch"
	KindSizeMismatch        Kind = "size_mismatch"
	KindTypeMismatch        Kind = "type_mismatch"
	KindNilPointer          Kind = "nil_pointer"
	KindNoTypeID            Kind = "no_type_id"
	KindDuplicateTypeID     Kind = "duplicate_type_id"
)

// Error is the structured error type used throughout the codec
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	WireType string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.WireType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.WireType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", wire type ")
			b.WriteString(e.WireType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("wire type ")
			b.WriteString(e.WireType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.WireType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WireType sets the wire type name
func (b *Builder) WireType(t string) *Builder {
	b.err.WireType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// IO wraps an I/O failure from the underlying sink or source
func IO(phase Phase, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: "read/write on underlying stream",
		Cause:  cause,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error for decoded string data
func InvalidUTF8(data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// IntCast creates an error for a wire integer that does not fit the target
// width. The offending value is carried for diagnostics.
func IntCast(value any, targetType string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindIntCast,
		GoType: targetType,
		Detail: fmt.Sprintf("value %v does not fit %s", value, targetType),
		Value:  value,
	}
}

// FloatCast creates an error for a wire double that does not fit the target width
func FloatCast(value float64, targetType string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindFloatCast,
		GoType: targetType,
		Detail: fmt.Sprintf("value %v does not fit %s", value, targetType),
		Value:  value,
	}
}

// TooLong creates an error for a string, byte or generic sequence that
// exceeds the representable wire length
func TooLong(phase Phase, what string, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTooLong,
		Detail: fmt.Sprintf("%s of length %d is too long to serialize", what, length),
		Value:  length,
	}
}

// SizeOverflow creates an error for a size-hint running total that exceeds
// the 32-bit length field
func SizeOverflow(total uint64) *Error {
	return &Error{
		Phase:  PhaseSize,
		Kind:   KindSizeOverflow,
		Detail: fmt.Sprintf("predicted size %d exceeds the 32-bit length field", total),
		Value:  total,
	}
}

// Unsupported creates an unsupported-shape error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// ExcessElements creates an error for writing past a declared sequence length
func ExcessElements(phase Phase, declared uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindExcessElements,
		Detail: fmt.Sprintf("excess elements, need no more than %d", declared),
		Value:  declared,
	}
}

// NotEnoughElements creates an error for a sequence with fewer elements than declared
func NotEnoughElements(phase Phase, have, need uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotEnoughElements,
		Detail: fmt.Sprintf("not enough elements: have %d, need %d", have, need),
		Value:  have,
	}
}

// InvalidMapKey creates an error for a map key that does not match the
// expected field name during map-keyed struct decoding
func InvalidMapKey(found, expected string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidMapKey,
		Detail: fmt.Sprintf("invalid map key %q, expected %q", found, expected),
		Value:  found,
	}
}

// InvalidLengthPrefix creates an error for a malformed string length prefix:
// the reserved first byte 255, or the 0xfe form carrying a length below 254
func InvalidLengthPrefix(detail string, value any) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidLengthPrefix,
		Detail: detail,
		Value:  value,
	}
}

// NonZeroPadding creates an error for padding bytes that are not all zero
func NonZeroPadding(got byte) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindNonZeroPadding,
		Detail: fmt.Sprintf("padding byte 0x%02x, want 0x00", got),
		Value:  got,
	}
}

// MissingHint creates an error for an exhausted enum variant hint queue
func MissingHint() *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMissingHint,
		Detail: "no enum variant hint left in deserializer",
	}
}

// UnknownVariant creates an error for a hint that names no variant of the enum
func UnknownVariant(path []string, hint string, known []string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnknownVariant,
		Path:   path,
		Detail: fmt.Sprintf("variant %q not in %v", hint, known),
		Value:  hint,
	}
}

// InvalidBool creates an error for a 4-byte value that is neither bool magic id
func InvalidBool(got uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidBool,
		Detail: fmt.Sprintf("0x%08x is neither the true nor the false id", got),
		Value:  got,
	}
}

// InvalidTypeID creates an error for a boxed type id outside the expected set
func InvalidTypeID(found uint32, expected []uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidTypeID,
		Detail: fmt.Sprintf("invalid type id 0x%08x, expected one of %#x", found, expected),
		Value:  found,
	}
}

// TypeIDMismatch creates an error for a decoded value whose own id disagrees
// with the id read from the wire
func TypeIDMismatch(read, computed uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTypeIDMismatch,
		Detail: fmt.Sprintf("type id mismatch: wire has 0x%08x, value reports 0x%08x", read, computed),
		Value:  read,
	}
}

// SizeMismatch creates an error for a decoded size field that disagrees with
// the recomputed size hint
func SizeMismatch(read, computed uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindSizeMismatch,
		Detail: fmt.Sprintf("size mismatch: wire has %d, recomputed %d", read, computed),
		Value:  read,
	}
}

// TypeMismatch creates a descriptor compilation error for an unusable Go type
func TypeMismatch(path []string, goType, expected string) *Error {
	return &Error{
		Phase:    PhaseCompile,
		Kind:     KindTypeMismatch,
		Path:     path,
		GoType:   goType,
		WireType: expected,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// NoTypeID creates an error for a type that carries no type id but was used boxed
func NoTypeID(goType string) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindNoTypeID,
		GoType: goType,
		Detail: "type declares no type id",
	}
}

// DuplicateTypeID creates a compile error for an enum with two variants sharing an id
func DuplicateTypeID(goType string, id uint32) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindDuplicateTypeID,
		GoType: goType,
		Detail: fmt.Sprintf("duplicate variant id 0x%08x", id),
		Value:  id,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
