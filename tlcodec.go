package tlcodec

import (
	"io"

	"github.com/wippyai/tl-codec/codec"
	"github.com/wippyai/tl-codec/schema"
	"github.com/wippyai/tl-codec/wrap"
)

// Value types re-exported from the codec package.
type (
	// Int128 is a signed 128-bit integer as two 64-bit halves.
	Int128 = codec.Int128
	// Uint128 is an unsigned 128-bit integer as two 64-bit halves.
	Uint128 = codec.Uint128
	// UnsizedBytes is a byte blob with no length prefix, padded to a
	// 16-byte boundary.
	UnsizedBytes = codec.UnsizedBytes
)

// Marshal serializes v into its bare wire form.
func Marshal(v any) ([]byte, error) {
	return schema.MarshalBytes(v)
}

// MarshalTo serializes v's bare wire form to w.
func MarshalTo(w io.Writer, v any) error {
	return schema.Marshal(w, v)
}

// Unmarshal deserializes the bare wire form into the value v points
// at and returns the unconsumed remainder. Hints name the variant of
// each enum in the data, depth-first.
func Unmarshal(data []byte, v any, hints ...string) ([]byte, error) {
	return schema.UnmarshalBytes(data, v, hints...)
}

// UnmarshalFrom deserializes the bare wire form from r.
func UnmarshalFrom(r io.Reader, v any, hints ...string) error {
	return schema.Unmarshal(r, v, hints...)
}

// SizeOf predicts the exact byte length of v's bare wire form.
func SizeOf(v any) (uint32, error) {
	return schema.SizeOf(v)
}

// HintsFor computes the ordered enum variant hints a decoder needs to
// read back v's wire form.
func HintsFor(v any) ([]string, error) {
	return schema.HintsFor(v)
}

// MarshalBoxed serializes v as [type id][payload].
func MarshalBoxed(v any) ([]byte, error) {
	return wrap.MarshalBoxedBytes(v)
}

// UnmarshalBoxed deserializes a boxed envelope, validating the id
// before and after the payload. Boxed enums need no hints.
func UnmarshalBoxed(data []byte, v any, hints ...string) ([]byte, error) {
	return wrap.UnmarshalBoxedBytes(data, v, hints...)
}

// BoxedSizeOf predicts the byte length of the boxed form.
func BoxedSizeOf(v any) (uint32, error) {
	return wrap.BoxedSizeOf(v)
}

// MarshalWithSize serializes v as [size][payload].
func MarshalWithSize(v any) ([]byte, error) {
	return wrap.MarshalWithSizeBytes(v)
}

// UnmarshalWithSize deserializes a size-prefixed envelope, validating
// the declared size against the decoded payload.
func UnmarshalWithSize(data []byte, v any, hints ...string) ([]byte, error) {
	return wrap.UnmarshalWithSizeBytes(data, v, hints...)
}

// MarshalBoxedWithSize serializes v as [type id][size][payload].
func MarshalBoxedWithSize(v any) ([]byte, error) {
	return wrap.MarshalBoxedWithSizeBytes(v)
}

// UnmarshalBoxedWithSize deserializes the combined envelope. An id
// mismatch is reported in preference to a size mismatch.
func UnmarshalBoxedWithSize(data []byte, v any, hints ...string) ([]byte, error) {
	return wrap.UnmarshalBoxedWithSizeBytes(data, v, hints...)
}
