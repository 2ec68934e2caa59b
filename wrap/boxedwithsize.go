package wrap

import (
	"bytes"
	"io"

	"github.com/wippyai/tl-codec/codec"
	tlerrors "github.com/wippyai/tl-codec/errors"
	"github.com/wippyai/tl-codec/schema"
)

// BoxedWithSize wraps a value in the [id][size][payload] envelope.
type BoxedWithSize[T any] struct {
	Inner T
}

// BoxSized wraps a value for boxed, size-prefixed serialization.
func BoxSized[T any](v T) BoxedWithSize[T] {
	return BoxedWithSize[T]{Inner: v}
}

// Marshal writes the boxed, size-prefixed form.
func (b BoxedWithSize[T]) Marshal(w io.Writer) error {
	return MarshalBoxedWithSize(w, b.Inner)
}

// Unmarshal reads the boxed, size-prefixed form.
func (b *BoxedWithSize[T]) Unmarshal(r io.Reader, hints ...string) error {
	return UnmarshalBoxedWithSize(r, &b.Inner, hints...)
}

// MarshalBoxedWithSize writes v as [id][size][payload]. The size covers
// the bare payload only, not the id or the size field itself.
func MarshalBoxedWithSize(w io.Writer, v any) error {
	val, d, err := prepare(v)
	if err != nil {
		return err
	}
	id, err := d.TypeIDOf(val)
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
	if err := e.PutTypeID(id); err != nil {
		return err
	}
	if err := e.PutUint32(size); err != nil {
		return err
	}
	return schema.EncodeValue(e, d, val)
}

// MarshalBoxedWithSizeBytes is MarshalBoxedWithSize into a fresh byte
// slice.
func MarshalBoxedWithSizeBytes(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := MarshalBoxedWithSize(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBoxedWithSize reads an [id][size][payload] envelope into the
// value v points at, validating the id set before the payload and both
// the id and the size after it. When id and size both disagree, the id
// mismatch wins.
func UnmarshalBoxedWithSize(r io.Reader, v any, hints ...string) error {
	dec := codec.NewDecoder(r, hints...)
	return decodeBoxedWithSize(dec, v)
}

// UnmarshalBoxedWithSizeBytes is UnmarshalBoxedWithSize over a byte
// slice, returning the unconsumed remainder.
func UnmarshalBoxedWithSizeBytes(b []byte, v any, hints ...string) ([]byte, error) {
	dec := codec.NewBytesDecoder(b, hints...)
	if err := decodeBoxedWithSize(dec, v); err != nil {
		return nil, err
	}
	return dec.Rest(), nil
}

// BoxedWithSizeSizeOf predicts the byte length of the full envelope.
func BoxedWithSizeSizeOf(v any) (uint32, error) {
	val, d, err := prepare(v)
	if err != nil {
		return 0, err
	}
	s := codec.NewSizer()
	s.AddTypeID()
	s.Add(4)
	if err := schema.SizeValue(s, d, val); err != nil {
		return 0, err
	}
	return s.Total()
}

func decodeBoxedWithSize(dec *codec.Decoder, v any) error {
	target, d, err := prepareTarget(v)
	if err != nil {
		return err
	}

	readID, err := dec.TypeID()
	if err != nil {
		return err
	}
	expected := d.TypeIDs()
	if len(expected) == 0 {
		return tlerrors.NoTypeID(d.GoType.String())
	}
	if !containsID(expected, readID) {
		return tlerrors.InvalidTypeID(readID, expected)
	}

	readSize, err := dec.Uint32()
	if err != nil {
		return err
	}

	if d.Kind == schema.KindEnum {
		variant, ok := d.VariantByID(readID)
		if !ok {
			return tlerrors.InvalidTypeID(readID, expected)
		}
		dec.PushHint(variant.Name)
	}

	if err := schema.DecodeValue(dec, d, target); err != nil {
		return err
	}

	// id mismatch takes precedence over size mismatch
	computedID, err := d.TypeIDOf(target)
	if err != nil {
		return err
	}
	if computedID != readID {
		return tlerrors.TypeIDMismatch(readID, computedID)
	}
	return checkSize(readSize, d, target)
}
