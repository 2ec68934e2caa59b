// Package numcast provides checked narrowing conversions for values read
// from the wire. The wire carries nothing narrower than 32 bits, so
// decoding into a narrow Go type must verify the value fits.
package numcast

import (
	"math"

	tlerrors "github.com/wippyai/tl-codec/errors"
)

// Int32ToInt8 narrows a wire integer to int8.
func Int32ToInt8(v int32) (int8, error) {
	if v < math.MinInt8 || v > math.MaxInt8 {
		return 0, tlerrors.IntCast(v, "int8")
	}
	return int8(v), nil
}

// Int32ToInt16 narrows a wire integer to int16.
func Int32ToInt16(v int32) (int16, error) {
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, tlerrors.IntCast(v, "int16")
	}
	return int16(v), nil
}

// Uint32ToUint8 narrows a wire integer to uint8.
func Uint32ToUint8(v uint32) (uint8, error) {
	if v > math.MaxUint8 {
		return 0, tlerrors.IntCast(v, "uint8")
	}
	return uint8(v), nil
}

// Uint32ToUint16 narrows a wire integer to uint16.
func Uint32ToUint16(v uint32) (uint16, error) {
	if v > math.MaxUint16 {
		return 0, tlerrors.IntCast(v, "uint16")
	}
	return uint16(v), nil
}

// Float64ToFloat32 narrows a wire double to float32. A finite value
// whose magnitude exceeds the float32 range fails; NaN and infinities
// pass through.
func Float64ToFloat32(v float64) (float32, error) {
	if !math.IsInf(v, 0) && !math.IsNaN(v) {
		if v > math.MaxFloat32 || v < -math.MaxFloat32 {
			return 0, tlerrors.FloatCast(v, "float32")
		}
	}
	return float32(v), nil
}

// SeqLen validates a declared element count against the 32-bit length
// field and converts it for use as a Go length. The error carries the
// phase of the caller's walk.
func SeqLen(phase tlerrors.Phase, n int) (uint32, error) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return 0, tlerrors.TooLong(phase, "sequence", n)
	}
	return uint32(n), nil
}
