// Package ident defines the type-identity capability: the well-known
// 32-bit ids of the built-in wire types and the interfaces through which
// user types declare their own ids and variant names.
package ident

// Well-known type ids of the built-in wire types.
const (
	BoolTrueID  uint32 = 0x997275b5
	BoolFalseID uint32 = 0xbc799737
	IntID       uint32 = 0xa8509bda
	LongID      uint32 = 0x22076cba
	DoubleID    uint32 = 0x2210c154
	StringID    uint32 = 0xb5286e24
	VectorID    uint32 = 0x1cb5c415
)

// BoolID returns the id encoding the given bool value.
func BoolID(v bool) uint32 {
	if v {
		return BoolTrueID
	}
	return BoolFalseID
}

// BoolIDs lists both bool ids, true first.
func BoolIDs() []uint32 {
	return []uint32{BoolTrueID, BoolFalseID}
}

// Identifiable is implemented by types that declare a 32-bit type id for
// boxed serialization. Enum types report the id of the variant currently
// held.
type Identifiable interface {
	TypeID() uint32
}

// VariantNamer is implemented by enum values to report the name of the
// variant currently held.
type VariantNamer interface {
	VariantName() string
}
