package wrap

import (
	"bytes"
	"io"
	"reflect"

	"github.com/wippyai/tl-codec/codec"
	tlerrors "github.com/wippyai/tl-codec/errors"
	"github.com/wippyai/tl-codec/schema"
)

// WithSize wraps a value in the [size][payload] envelope.
type WithSize[T any] struct {
	Inner T
}

// Sized wraps a value for size-prefixed serialization.
func Sized[T any](v T) WithSize[T] {
	return WithSize[T]{Inner: v}
}

// Marshal writes the size-prefixed form.
func (s WithSize[T]) Marshal(w io.Writer) error {
	return MarshalWithSize(w, s.Inner)
}

// Unmarshal reads the size-prefixed form.
func (s *WithSize[T]) Unmarshal(r io.Reader, hints ...string) error {
	return UnmarshalWithSize(r, &s.Inner, hints...)
}

// MarshalWithSize writes v prefixed with the 4-byte length of its bare
// form. The size comes from prediction, so the payload is written in
// one pass.
func MarshalWithSize(w io.Writer, v any) error {
	val, d, err := prepare(v)
	if err != nil {
		return err
	}
	s := codec.NewSizer()
	if err := schema.SizeValue(s, d, val); err != nil {
		return err
	}
	size, err := s.Total()
	if err != nil {
		return err
	}
	e := codec.NewEncoder(w)
	if err := e.PutUint32(size); err != nil {
		return err
	}
	return schema.EncodeValue(e, d, val)
}

// MarshalWithSizeBytes is MarshalWithSize into a fresh byte slice.
func MarshalWithSizeBytes(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := MarshalWithSize(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalWithSize reads a [size][payload] envelope into the value v
// points at and fails unless the size read equals the recomputed size
// of the decoded payload.
func UnmarshalWithSize(r io.Reader, v any, hints ...string) error {
	dec := codec.NewDecoder(r, hints...)
	return decodeWithSize(dec, v)
}

// UnmarshalWithSizeBytes is UnmarshalWithSize over a byte slice,
// returning the unconsumed remainder.
func UnmarshalWithSizeBytes(b []byte, v any, hints ...string) ([]byte, error) {
	dec := codec.NewBytesDecoder(b, hints...)
	if err := decodeWithSize(dec, v); err != nil {
		return nil, err
	}
	return dec.Rest(), nil
}

// WithSizeSizeOf predicts the byte length of the size-prefixed form.
func WithSizeSizeOf(v any) (uint32, error) {
	val, d, err := prepare(v)
	if err != nil {
		return 0, err
	}
	s := codec.NewSizer()
	s.Add(4)
	if err := schema.SizeValue(s, d, val); err != nil {
		return 0, err
	}
	return s.Total()
}

func decodeWithSize(dec *codec.Decoder, v any) error {
	target, d, err := prepareTarget(v)
	if err != nil {
		return err
	}

	read, err := dec.Uint32()
	if err != nil {
		return err
	}
	if err := schema.DecodeValue(dec, d, target); err != nil {
		return err
	}
	return checkSize(read, d, target)
}

func checkSize(read uint32, d *schema.Descriptor, target reflect.Value) error {
	s := codec.NewSizer()
	if err := schema.SizeValue(s, d, target); err != nil {
		return err
	}
	computed, err := s.Total()
	if err != nil {
		return err
	}
	if computed != read {
		return tlerrors.SizeMismatch(read, computed)
	}
	return nil
}
