package schema

import (
	"bytes"
	"io"
	"reflect"
	"sort"

	"github.com/wippyai/tl-codec/codec"
	tlerrors "github.com/wippyai/tl-codec/errors"
)

// Marshal serializes v to w in its bare wire form.
func Marshal(w io.Writer, v any) error {
	val, d, err := valueAndDescriptor(v)
	if err != nil {
		return err
	}
	return encodeValue(codec.NewEncoder(w), d, val)
}

// MarshalBytes serializes v into a fresh byte slice.
func MarshalBytes(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Marshal(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalKeyed serializes a struct as a map envelope: a 4-byte entry
// count followed by framed field names and values.
func MarshalKeyed(w io.Writer, v any) error {
	val, d, err := valueAndDescriptor(v)
	if err != nil {
		return err
	}
	if d.Kind != KindStruct {
		return tlerrors.New(tlerrors.PhaseEncode, tlerrors.KindUnsupported).
			GoType(d.GoType.String()).
			Detail("map-keyed form applies to structs only").
			Build()
	}
	e := codec.NewEncoder(w)
	m, err := e.Map(len(d.Fields))
	if err != nil {
		return err
	}
	for _, f := range d.Fields {
		enc, err := m.Entry(f.Name)
		if err != nil {
			return err
		}
		if err := encodeValue(enc, f.Type, val.Field(f.Index)); err != nil {
			return err
		}
	}
	return m.End()
}

// EncodeValue runs a descriptor-driven encode with an existing encoder.
// Envelope types use it to splice a payload into a larger frame.
func EncodeValue(e *codec.Encoder, d *Descriptor, v reflect.Value) error {
	return encodeValue(e, d, v)
}

func valueAndDescriptor(v any) (reflect.Value, *Descriptor, error) {
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
	d, err := Compile(val.Type())
	if err != nil {
		return reflect.Value{}, nil, err
	}
	return val, d, nil
}

func encodeValue(e *codec.Encoder, d *Descriptor, v reflect.Value) error {
	switch d.Kind {
	case KindBool:
		return e.PutBool(v.Bool())
	case KindInt8:
		return e.PutInt8(int8(v.Int()))
	case KindInt16:
		return e.PutInt16(int16(v.Int()))
	case KindInt32:
		return e.PutInt32(int32(v.Int()))
	case KindInt64:
		return e.PutInt64(v.Int())
	case KindUint8:
		return e.PutUint8(uint8(v.Uint()))
	case KindUint16:
		return e.PutUint16(uint16(v.Uint()))
	case KindUint32:
		return e.PutUint32(uint32(v.Uint()))
	case KindUint64:
		return e.PutUint64(v.Uint())
	case KindInt128:
		return e.PutInt128(v.Interface().(codec.Int128))
	case KindUint128:
		return e.PutUint128(v.Interface().(codec.Uint128))
	case KindFloat32:
		return e.PutFloat32(float32(v.Float()))
	case KindFloat64:
		return e.PutFloat64(v.Float())
	case KindString:
		return e.PutString(v.String())
	case KindBytes:
		return e.PutBytes(v.Bytes())
	case KindUnsizedBytes:
		return e.PutUnsizedBytes(codec.UnsizedBytes(v.Bytes()))
	case KindVector:
		return encodeVector(e, d, v)
	case KindArray:
		return encodeArray(e, d, v)
	case KindMap:
		return encodeMap(e, d, v)
	case KindStruct:
		return encodeStruct(e, d, v)
	case KindEnum:
		return encodeEnum(e, d, v)
	default:
		return tlerrors.Unsupported(tlerrors.PhaseEncode, d.Kind.String())
	}
}

func encodeVector(e *codec.Encoder, d *Descriptor, v reflect.Value) error {
	seq, err := e.Seq(v.Len())
	if err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		el, err := seq.Next()
		if err != nil {
			return err
		}
		if err := encodeValue(el, d.Elem, v.Index(i)); err != nil {
			return err
		}
	}
	return seq.End()
}

func encodeArray(e *codec.Encoder, d *Descriptor, v reflect.Value) error {
	tup, err := e.Tuple(d.ArrayLen)
	if err != nil {
		return err
	}
	for i := 0; i < d.ArrayLen; i++ {
		el, err := tup.Next()
		if err != nil {
			return err
		}
		if err := encodeValue(el, d.Elem, v.Index(i)); err != nil {
			return err
		}
	}
	return tup.End()
}

// encodeMap writes entries in sorted key order so output is
// deterministic across Go's randomized map iteration.
func encodeMap(e *codec.Encoder, d *Descriptor, v reflect.Value) error {
	keys := make([]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	sort.Strings(keys)

	m, err := e.Map(len(keys))
	if err != nil {
		return err
	}
	for _, k := range keys {
		enc, err := m.Entry(k)
		if err != nil {
			return err
		}
		if err := encodeValue(enc, d.Elem, v.MapIndex(reflect.ValueOf(k).Convert(d.GoType.Key()))); err != nil {
			return err
		}
	}
	return m.End()
}

func encodeStruct(e *codec.Encoder, d *Descriptor, v reflect.Value) error {
	for _, f := range d.Fields {
		if err := encodeValue(e, f.Type, v.Field(f.Index)); err != nil {
			return err
		}
	}
	return nil
}

// encodeEnum writes the active variant's payload, tagless. The variant
// identity travels out of band (hints, or the id of a boxed envelope).
func encodeEnum(e *codec.Encoder, d *Descriptor, v reflect.Value) error {
	variant, err := d.activeVariant(v)
	if err != nil {
		return err
	}
	return encodeValue(e, variant.Type, v.Field(variant.Index).Elem())
}
