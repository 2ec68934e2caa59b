package schema

import (
	"reflect"

	"github.com/wippyai/tl-codec/codec"
	tlerrors "github.com/wippyai/tl-codec/errors"
)

// SizeOf predicts the exact byte length of v's bare wire form without
// encoding it.
func SizeOf(v any) (uint32, error) {
	val, d, err := valueAndDescriptor(v)
	if err != nil {
		return 0, err
	}
	s := codec.NewSizer()
	if err := sizeValue(s, d, val); err != nil {
		return 0, err
	}
	return s.Total()
}

// SizeValue accumulates the size of a value into an existing Sizer.
func SizeValue(s *codec.Sizer, d *Descriptor, v reflect.Value) error {
	return sizeValue(s, d, v)
}

func sizeValue(s *codec.Sizer, d *Descriptor, v reflect.Value) error {
	switch d.Kind {
	case KindBool:
		s.AddBool()
		return nil
	case KindInt8, KindInt16, KindInt32, KindUint8, KindUint16, KindUint32:
		s.AddInt()
		return nil
	case KindInt64, KindUint64:
		s.AddLong()
		return nil
	case KindInt128, KindUint128:
		s.AddInt128()
		return nil
	case KindFloat32, KindFloat64:
		s.AddDouble()
		return nil
	case KindString:
		return s.AddString(v.Len())
	case KindBytes:
		return s.AddBytes(v.Len())
	case KindUnsizedBytes:
		s.AddUnsizedBytes(v.Len())
		return nil
	case KindVector:
		if err := s.AddSeqLen(v.Len()); err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if err := sizeValue(s, d.Elem, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case KindArray:
		for i := 0; i < d.ArrayLen; i++ {
			if err := sizeValue(s, d.Elem, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		if err := s.AddSeqLen(v.Len()); err != nil {
			return err
		}
		iter := v.MapRange()
		for iter.Next() {
			if err := s.AddString(iter.Key().Len()); err != nil {
				return err
			}
			if err := sizeValue(s, d.Elem, iter.Value()); err != nil {
				return err
			}
		}
		return nil
	case KindStruct:
		for _, f := range d.Fields {
			if err := sizeValue(s, f.Type, v.Field(f.Index)); err != nil {
				return err
			}
		}
		return nil
	case KindEnum:
		variant, err := d.activeVariant(v)
		if err != nil {
			return err
		}
		return sizeValue(s, variant.Type, v.Field(variant.Index).Elem())
	default:
		return tlerrors.Unsupported(tlerrors.PhaseSize, d.Kind.String())
	}
}

// KeyedSizeOf predicts the byte length of the map-envelope form written
// by MarshalKeyed.
func KeyedSizeOf(v any) (uint32, error) {
	val, d, err := valueAndDescriptor(v)
	if err != nil {
		return 0, err
	}
	if d.Kind != KindStruct {
		return 0, tlerrors.New(tlerrors.PhaseSize, tlerrors.KindUnsupported).
			GoType(d.GoType.String()).
			Detail("map-keyed form applies to structs only").
			Build()
	}
	s := codec.NewSizer()
	if err := s.AddSeqLen(len(d.Fields)); err != nil {
		return 0, err
	}
	for _, f := range d.Fields {
		if err := s.AddString(len(f.Name)); err != nil {
			return 0, err
		}
		if err := sizeValue(s, f.Type, val.Field(f.Index)); err != nil {
			return 0, err
		}
	}
	return s.Total()
}
