package codec

// Int128 is a signed 128-bit integer held as two 64-bit halves. On the
// wire it occupies 16 bytes, low half first, each half little-endian.
type Int128 struct {
	Hi int64
	Lo uint64
}

// Int128From64 sign-extends a 64-bit value.
func Int128From64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Hi: hi, Lo: uint64(v)}
}

// IsNegative reports whether the value is below zero.
func (v Int128) IsNegative() bool {
	return v.Hi < 0
}

// Uint128 is an unsigned 128-bit integer held as two 64-bit halves. On
// the wire it occupies 16 bytes, low half first, each half little-endian.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// Uint128From64 zero-extends a 64-bit value.
func Uint128From64(v uint64) Uint128 {
	return Uint128{Lo: v}
}
