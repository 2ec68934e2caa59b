package wrap

import (
	"bytes"
	"io"
	"reflect"

	"github.com/wippyai/tl-codec/codec"
	tlerrors "github.com/wippyai/tl-codec/errors"
	"github.com/wippyai/tl-codec/schema"
)

// Boxed wraps a value in the [id][payload] envelope.
type Boxed[T any] struct {
	Inner T
}

// Box wraps a value for boxed serialization.
func Box[T any](v T) Boxed[T] {
	return Boxed[T]{Inner: v}
}

// Marshal writes the boxed form.
func (b Boxed[T]) Marshal(w io.Writer) error {
	return MarshalBoxed(w, b.Inner)
}

// Unmarshal reads the boxed form.
func (b *Boxed[T]) Unmarshal(r io.Reader, hints ...string) error {
	return UnmarshalBoxed(r, &b.Inner, hints...)
}

// MarshalBoxed writes v prefixed with its 4-byte type id.
func MarshalBoxed(w io.Writer, v any) error {
	val, d, err := prepare(v)
	if err != nil {
		return err
	}
	id, err := d.TypeIDOf(val)
	if err != nil {
		return err
	}
	e := codec.NewEncoder(w)
	if err := e.PutTypeID(id); err != nil {
		return err
	}
	return schema.EncodeValue(e, d, val)
}

// MarshalBoxedBytes is MarshalBoxed into a fresh byte slice.
func MarshalBoxedBytes(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := MarshalBoxed(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBoxed reads an [id][payload] envelope into the value v
// points at. The id must belong to the target type's id set before the
// payload is touched, and must equal the id the decoded value reports
// afterwards. For enum targets the variant hint is derived from the id.
func UnmarshalBoxed(r io.Reader, v any, hints ...string) error {
	dec := codec.NewDecoder(r, hints...)
	return decodeBoxed(dec, v)
}

// UnmarshalBoxedBytes is UnmarshalBoxed over a byte slice, returning
// the unconsumed remainder.
func UnmarshalBoxedBytes(b []byte, v any, hints ...string) ([]byte, error) {
	dec := codec.NewBytesDecoder(b, hints...)
	if err := decodeBoxed(dec, v); err != nil {
		return nil, err
	}
	return dec.Rest(), nil
}

// BoxedSizeOf predicts the byte length of the boxed form.
func BoxedSizeOf(v any) (uint32, error) {
	val, d, err := prepare(v)
	if err != nil {
		return 0, err
	}
	s := codec.NewSizer()
	s.AddTypeID()
	if err := schema.SizeValue(s, d, val); err != nil {
		return 0, err
	}
	return s.Total()
}

func decodeBoxed(dec *codec.Decoder, v any) error {
	target, d, err := prepareTarget(v)
	if err != nil {
		return err
	}

	read, err := dec.TypeID()
	if err != nil {
		return err
	}
	expected := d.TypeIDs()
	if len(expected) == 0 {
		return tlerrors.NoTypeID(d.GoType.String())
	}
	if !containsID(expected, read) {
		return tlerrors.InvalidTypeID(read, expected)
	}

	if d.Kind == schema.KindEnum {
		variant, ok := d.VariantByID(read)
		if !ok {
			return tlerrors.InvalidTypeID(read, expected)
		}
		dec.PushHint(variant.Name)
	}

	if err := schema.DecodeValue(dec, d, target); err != nil {
		return err
	}

	computed, err := d.TypeIDOf(target)
	if err != nil {
		return err
	}
	if computed != read {
		return tlerrors.TypeIDMismatch(read, computed)
	}
	return nil
}

func prepare(v any) (reflect.Value, *schema.Descriptor, error) {
	val := reflect.ValueOf(v)
	if !val.IsValid() {
		return reflect.Value{}, nil, tlerrors.NilPointer(tlerrors.PhaseEncode, nil, "nil")
	}
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return reflect.Value{}, nil, tlerrors.NilPointer(tlerrors.PhaseEncode, nil, val.Type().String())
		}
		val = val.Elem()
	}
	d, err := schema.Compile(val.Type())
	if err != nil {
		return reflect.Value{}, nil, err
	}
	return val, d, nil
}

func prepareTarget(v any) (reflect.Value, *schema.Descriptor, error) {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		goType := "nil"
		if val.IsValid() {
			goType = val.Type().String()
		}
		return reflect.Value{}, nil, tlerrors.NilPointer(tlerrors.PhaseDecode, nil, goType)
	}
	val = val.Elem()
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			val.Set(reflect.New(val.Type().Elem()))
		}
		val = val.Elem()
	}
	d, err := schema.Compile(val.Type())
	if err != nil {
		return reflect.Value{}, nil, err
	}
	return val, d, nil
}

func containsID(ids []uint32, id uint32) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
