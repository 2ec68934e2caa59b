package schema

import (
	"reflect"

	tlerrors "github.com/wippyai/tl-codec/errors"
	"github.com/wippyai/tl-codec/ident"
)

// Kind classifies how a Go type maps onto the wire.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindInt128
	KindUint128
	KindFloat32
	KindFloat64
	KindString
	KindBytes
	KindUnsizedBytes
	KindVector
	KindArray
	KindMap
	KindStruct
	KindEnum
)

var kindNames = map[Kind]string{
	KindInvalid:      "invalid",
	KindBool:         "bool",
	KindInt8:         "int8",
	KindInt16:        "int16",
	KindInt32:        "int32",
	KindInt64:        "int64",
	KindUint8:        "uint8",
	KindUint16:       "uint16",
	KindUint32:       "uint32",
	KindUint64:       "uint64",
	KindInt128:       "int128",
	KindUint128:      "uint128",
	KindFloat32:      "float32",
	KindFloat64:      "float64",
	KindString:       "string",
	KindBytes:        "bytes",
	KindUnsizedBytes: "unsized bytes",
	KindVector:       "vector",
	KindArray:        "array",
	KindMap:          "map",
	KindStruct:       "struct",
	KindEnum:         "enum",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Field describes one serializable struct field.
type Field struct {
	Name  string
	Index int
	Type  *Descriptor
}

// Variant describes one enum variant: a pointer field carrying a wire
// name and a 32-bit id.
type Variant struct {
	Name  string
	ID    uint32
	Index int
	Type  *Descriptor
}

// Descriptor is a compiled description of how a Go type serializes.
// Descriptors are immutable once built and safe for concurrent use.
type Descriptor struct {
	GoType   reflect.Type
	Kind     Kind
	Elem     *Descriptor
	ArrayLen int
	Fields   []Field
	Variants []Variant

	typeID uint32
	hasID  bool
}

// HasTypeID reports whether values of this type carry an id for boxed
// serialization.
func (d *Descriptor) HasTypeID() bool {
	switch d.Kind {
	case KindBool, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64, KindString, KindBytes,
		KindVector, KindEnum:
		return true
	case KindStruct:
		return d.hasID
	default:
		return false
	}
}

// TypeIDs lists every id a value of this type may carry, in a fixed
// order. Bools list true first; enums list variants in declaration
// order.
func (d *Descriptor) TypeIDs() []uint32 {
	switch d.Kind {
	case KindBool:
		return ident.BoolIDs()
	case KindInt8, KindInt16, KindInt32:
		return []uint32{ident.IntID}
	case KindUint8, KindUint16, KindUint32:
		return []uint32{ident.IntID}
	case KindInt64, KindUint64:
		return []uint32{ident.LongID}
	case KindFloat32, KindFloat64:
		return []uint32{ident.DoubleID}
	case KindString, KindBytes:
		return []uint32{ident.StringID}
	case KindVector:
		return []uint32{ident.VectorID}
	case KindStruct:
		if d.hasID {
			return []uint32{d.typeID}
		}
		return nil
	case KindEnum:
		ids := make([]uint32, len(d.Variants))
		for i, v := range d.Variants {
			ids[i] = v.ID
		}
		return ids
	default:
		return nil
	}
}

// VariantNames lists the enum's variant names in declaration order, or
// nil for non-enum types.
func (d *Descriptor) VariantNames() []string {
	if d.Kind != KindEnum {
		return nil
	}
	names := make([]string, len(d.Variants))
	for i, v := range d.Variants {
		names[i] = v.Name
	}
	return names
}

// TypeIDOf returns the id a specific value would carry when boxed.
func (d *Descriptor) TypeIDOf(v reflect.Value) (uint32, error) {
	switch d.Kind {
	case KindBool:
		return ident.BoolID(v.Bool()), nil
	case KindEnum:
		variant, err := d.activeVariant(v)
		if err != nil {
			return 0, err
		}
		return variant.ID, nil
	default:
		ids := d.TypeIDs()
		if len(ids) != 1 {
			return 0, tlerrors.NoTypeID(d.GoType.String())
		}
		return ids[0], nil
	}
}

// VariantNameOf returns the name of the variant a specific enum value
// holds. A value implementing ident.VariantNamer answers for itself.
func (d *Descriptor) VariantNameOf(v reflect.Value) (string, error) {
	if v.CanInterface() {
		if namer, ok := v.Interface().(ident.VariantNamer); ok {
			return namer.VariantName(), nil
		}
	}
	if d.Kind != KindEnum {
		return "", tlerrors.New(tlerrors.PhaseEncode, tlerrors.KindUnsupported).
			GoType(d.GoType.String()).
			Detail("not an enum type").
			Build()
	}
	variant, err := d.activeVariant(v)
	if err != nil {
		return "", err
	}
	return variant.Name, nil
}

// VariantByName finds an enum variant by its wire name.
func (d *Descriptor) VariantByName(name string) (*Variant, bool) {
	for i := range d.Variants {
		if d.Variants[i].Name == name {
			return &d.Variants[i], true
		}
	}
	return nil, false
}

// VariantByID finds an enum variant by its type id.
func (d *Descriptor) VariantByID(id uint32) (*Variant, bool) {
	for i := range d.Variants {
		if d.Variants[i].ID == id {
			return &d.Variants[i], true
		}
	}
	return nil, false
}

// activeVariant returns the single non-nil variant of an enum value.
func (d *Descriptor) activeVariant(v reflect.Value) (*Variant, error) {
	var found *Variant
	for i := range d.Variants {
		f := v.Field(d.Variants[i].Index)
		if f.IsNil() {
			continue
		}
		if found != nil {
			return nil, tlerrors.New(tlerrors.PhaseEncode, tlerrors.KindUnsupported).
				GoType(d.GoType.String()).
				Detail("enum value holds both %q and %q, want exactly one variant", found.Name, d.Variants[i].Name).
				Build()
		}
		found = &d.Variants[i]
	}
	if found == nil {
		return nil, tlerrors.NilPointer(tlerrors.PhaseEncode, nil, d.GoType.String())
	}
	return found, nil
}
