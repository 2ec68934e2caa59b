package schema

import (
	"io"
	"reflect"

	"github.com/wippyai/tl-codec/codec"
	tlerrors "github.com/wippyai/tl-codec/errors"
)

// Unmarshal deserializes the bare wire form from r into the value v
// points at. Hints name the variant of each enum in the data, in
// depth-first order.
func Unmarshal(r io.Reader, v any, hints ...string) error {
	val, d, err := targetAndDescriptor(v)
	if err != nil {
		return err
	}
	return decodeValue(codec.NewDecoder(r, hints...), d, val)
}

// UnmarshalBytes deserializes from a byte slice and returns the
// unconsumed remainder.
func UnmarshalBytes(b []byte, v any, hints ...string) ([]byte, error) {
	val, d, err := targetAndDescriptor(v)
	if err != nil {
		return nil, err
	}
	dec := codec.NewBytesDecoder(b, hints...)
	if err := decodeValue(dec, d, val); err != nil {
		return nil, err
	}
	return dec.Rest(), nil
}

// UnmarshalKeyed deserializes the map-envelope form written by
// MarshalKeyed, requiring every key to match the field it precedes.
func UnmarshalKeyed(r io.Reader, v any, hints ...string) error {
	val, d, err := targetAndDescriptor(v)
	if err != nil {
		return err
	}
	if d.Kind != KindStruct {
		return tlerrors.New(tlerrors.PhaseDecode, tlerrors.KindUnsupported).
			GoType(d.GoType.String()).
			Detail("map-keyed form applies to structs only").
			Build()
	}
	dec := codec.NewDecoder(r, hints...)
	m, err := dec.Map()
	if err != nil {
		return err
	}
	if int(m.Len()) != len(d.Fields) {
		kind := tlerrors.KindNotEnoughElements
		if int(m.Len()) > len(d.Fields) {
			kind = tlerrors.KindExcessElements
		}
		return tlerrors.New(tlerrors.PhaseDecode, kind).
			GoType(d.GoType.String()).
			Detail("map envelope declares %d entries, struct has %d fields", m.Len(), len(d.Fields)).
			Build()
	}
	for _, f := range d.Fields {
		if err := m.ExpectKey(f.Name); err != nil {
			return err
		}
		if err := decodeValue(m.Value(), f.Type, val.Field(f.Index)); err != nil {
			return err
		}
	}
	return nil
}

// DecodeValue runs a descriptor-driven decode with an existing decoder.
// Envelope types use it to share one hint queue across id resolution
// and payload decoding.
func DecodeValue(dec *codec.Decoder, d *Descriptor, v reflect.Value) error {
	return decodeValue(dec, d, v)
}

func targetAndDescriptor(v any) (reflect.Value, *Descriptor, error) {
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
	d, err := Compile(val.Type())
	if err != nil {
		return reflect.Value{}, nil, err
	}
	return val, d, nil
}

func decodeValue(dec *codec.Decoder, d *Descriptor, v reflect.Value) error {
	switch d.Kind {
	case KindBool:
		b, err := dec.Bool()
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil
	case KindInt8:
		n, err := dec.Int8()
		if err != nil {
			return err
		}
		v.SetInt(int64(n))
		return nil
	case KindInt16:
		n, err := dec.Int16()
		if err != nil {
			return err
		}
		v.SetInt(int64(n))
		return nil
	case KindInt32:
		n, err := dec.Int32()
		if err != nil {
			return err
		}
		v.SetInt(int64(n))
		return nil
	case KindInt64:
		n, err := dec.Int64()
		if err != nil {
			return err
		}
		v.SetInt(n)
		return nil
	case KindUint8:
		n, err := dec.Uint8()
		if err != nil {
			return err
		}
		v.SetUint(uint64(n))
		return nil
	case KindUint16:
		n, err := dec.Uint16()
		if err != nil {
			return err
		}
		v.SetUint(uint64(n))
		return nil
	case KindUint32:
		n, err := dec.Uint32()
		if err != nil {
			return err
		}
		v.SetUint(uint64(n))
		return nil
	case KindUint64:
		n, err := dec.Uint64()
		if err != nil {
			return err
		}
		v.SetUint(n)
		return nil
	case KindInt128:
		n, err := dec.Int128()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(n))
		return nil
	case KindUint128:
		n, err := dec.Uint128()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(n))
		return nil
	case KindFloat32:
		f, err := dec.Float32()
		if err != nil {
			return err
		}
		v.SetFloat(float64(f))
		return nil
	case KindFloat64:
		f, err := dec.Float64()
		if err != nil {
			return err
		}
		v.SetFloat(f)
		return nil
	case KindString:
		s, err := dec.String()
		if err != nil {
			return err
		}
		v.SetString(s)
		return nil
	case KindBytes:
		b, err := dec.Bytes()
		if err != nil {
			return err
		}
		v.SetBytes(b)
		return nil
	case KindVector:
		return decodeVector(dec, d, v)
	case KindArray:
		return decodeArray(dec, d, v)
	case KindMap:
		return decodeMap(dec, d, v)
	case KindStruct:
		return decodeStruct(dec, d, v)
	case KindEnum:
		return decodeEnum(dec, d, v)
	case KindUnsizedBytes:
		return tlerrors.New(tlerrors.PhaseDecode, tlerrors.KindUnsupported).
			GoType(d.GoType.String()).
			Detail("unsized bytes carry no length prefix; decode them with Decoder.UnsizedBytes and an out-of-band length").
			Build()
	default:
		return tlerrors.Unsupported(tlerrors.PhaseDecode, d.Kind.String())
	}
}

// maxPrealloc bounds how many elements a decode reserves up front. The
// declared count is unvalidated input; anything past the bound grows as
// elements actually arrive.
const maxPrealloc = 4096

func preallocLen(declared uint32) int {
	if declared > maxPrealloc {
		return maxPrealloc
	}
	return int(declared)
}

func decodeVector(dec *codec.Decoder, d *Descriptor, v reflect.Value) error {
	seq, err := dec.Seq()
	if err != nil {
		return err
	}
	out := reflect.MakeSlice(d.GoType, 0, preallocLen(seq.Len()))
	for seq.More() {
		el, err := seq.Next()
		if err != nil {
			return err
		}
		item := reflect.New(d.GoType.Elem()).Elem()
		if err := decodeValue(el, d.Elem, item); err != nil {
			return err
		}
		out = reflect.Append(out, item)
	}
	v.Set(out)
	return nil
}

func decodeArray(dec *codec.Decoder, d *Descriptor, v reflect.Value) error {
	tup := dec.Tuple(uint32(d.ArrayLen))
	for i := 0; i < d.ArrayLen; i++ {
		el, err := tup.Next()
		if err != nil {
			return err
		}
		if err := decodeValue(el, d.Elem, v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func decodeMap(dec *codec.Decoder, d *Descriptor, v reflect.Value) error {
	m, err := dec.Map()
	if err != nil {
		return err
	}
	out := reflect.MakeMapWithSize(d.GoType, preallocLen(m.Len()))
	for m.More() {
		k, err := m.Key()
		if err != nil {
			return err
		}
		val := reflect.New(d.GoType.Elem()).Elem()
		if err := decodeValue(m.Value(), d.Elem, val); err != nil {
			return err
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(d.GoType.Key()), val)
	}
	v.Set(out)
	return nil
}

func decodeStruct(dec *codec.Decoder, d *Descriptor, v reflect.Value) error {
	for _, f := range d.Fields {
		if err := decodeValue(dec, f.Type, v.Field(f.Index)); err != nil {
			return err
		}
	}
	return nil
}

// decodeEnum consumes one variant hint, allocates the named variant,
// and decodes the tagless payload into it.
func decodeEnum(dec *codec.Decoder, d *Descriptor, v reflect.Value) error {
	hint, err := dec.PopHint()
	if err != nil {
		return err
	}
	variant, ok := d.VariantByName(hint)
	if !ok {
		return tlerrors.UnknownVariant(nil, hint, d.VariantNames())
	}
	for i := range d.Variants {
		if d.Variants[i].Index != variant.Index {
			v.Field(d.Variants[i].Index).Set(reflect.Zero(v.Field(d.Variants[i].Index).Type()))
		}
	}
	payload := reflect.New(v.Field(variant.Index).Type().Elem())
	if err := decodeValue(dec, variant.Type, payload.Elem()); err != nil {
		return err
	}
	v.Field(variant.Index).Set(payload)
	return nil
}
