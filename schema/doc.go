// Package schema maps Go types onto the wire format through compiled
// descriptors.
//
// Compile inspects a Go type once, validates that every part of it has
// a wire form, and caches the resulting Descriptor. Marshal, Unmarshal,
// and SizeOf then walk descriptor and value together, driving the codec
// engines.
//
// Struct fields serialize in declaration order with no tags or padding
// between them. The `tl` struct tag renames a field for the map-keyed
// form and generated schemas; `tl:"-"` skips it:
//
//	type Point struct {
//		X int32 `tl:"x"`
//		Y int32 `tl:"y"`
//		cache any `tl:"-"`
//	}
//
// A struct declares its boxed type id by implementing ident.Identifiable
// with a constant return.
//
// Enums are structs whose exported fields are all pointers carrying an
// id option, exactly one non-nil at a time:
//
//	type Shape struct {
//		Circle *Circle `tl:"circle,id=0x12345678"`
//		Square *Square `tl:"square,id=0x87654321"`
//	}
//
// The payload is encoded tagless; decoding needs a variant hint per
// enum, which HintsFor computes from a value and the wrap package
// derives from boxed type ids.
//
// Maps must have string keys and encode in sorted key order, so the
// same value always produces the same bytes. Fixed-size arrays encode
// as tuples with no length prefix; slices as length-prefixed vectors;
// []byte with string framing.
package schema
