package codec

import (
	"io"
	"math"
	"unicode/utf8"

	"github.com/wippyai/tl-codec/codec/internal/numcast"
	"github.com/wippyai/tl-codec/codec/internal/wire"
	tlerrors "github.com/wippyai/tl-codec/errors"
	"github.com/wippyai/tl-codec/ident"
)

// Encoder writes wire values to an io.Writer. One Encoder serves one
// serialization pass; its methods are the primitive and compound write
// operations of the format.
//
// Integers narrower than 32 bits widen to the 4-byte wire form, floats
// always take the 8-byte form, and bools encode as their magic type id.
type Encoder struct {
	w *wire.Writer
}

// NewEncoder creates an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: wire.NewWriter(w)}
}

// Len returns the number of bytes emitted so far.
func (e *Encoder) Len() int {
	return e.w.Len()
}

// PutBool writes the 4-byte bool magic id.
func (e *Encoder) PutBool(v bool) error {
	return e.w.WriteUint32(ident.BoolID(v))
}

// PutInt8 widens to the 4-byte wire integer.
func (e *Encoder) PutInt8(v int8) error {
	return e.w.WriteUint32(uint32(int32(v)))
}

// PutInt16 widens to the 4-byte wire integer.
func (e *Encoder) PutInt16(v int16) error {
	return e.w.WriteUint32(uint32(int32(v)))
}

// PutInt32 writes a 4-byte wire integer.
func (e *Encoder) PutInt32(v int32) error {
	return e.w.WriteUint32(uint32(v))
}

// PutInt64 writes an 8-byte wire integer.
func (e *Encoder) PutInt64(v int64) error {
	return e.w.WriteUint64(uint64(v))
}

// PutInt writes a Go int as an 8-byte wire integer.
func (e *Encoder) PutInt(v int) error {
	return e.PutInt64(int64(v))
}

// PutInt128 writes a 16-byte integer, low half first.
func (e *Encoder) PutInt128(v Int128) error {
	return e.w.WriteUint128(v.Lo, uint64(v.Hi))
}

// PutUint8 widens to the 4-byte wire integer.
func (e *Encoder) PutUint8(v uint8) error {
	return e.w.WriteUint32(uint32(v))
}

// PutUint16 widens to the 4-byte wire integer.
func (e *Encoder) PutUint16(v uint16) error {
	return e.w.WriteUint32(uint32(v))
}

// PutUint32 writes a 4-byte wire integer.
func (e *Encoder) PutUint32(v uint32) error {
	return e.w.WriteUint32(v)
}

// PutUint64 writes an 8-byte wire integer.
func (e *Encoder) PutUint64(v uint64) error {
	return e.w.WriteUint64(v)
}

// PutUint writes a Go uint as an 8-byte wire integer.
func (e *Encoder) PutUint(v uint) error {
	return e.PutUint64(uint64(v))
}

// PutUint128 writes a 16-byte integer, low half first.
func (e *Encoder) PutUint128(v Uint128) error {
	return e.w.WriteUint128(v.Lo, v.Hi)
}

// PutFloat32 widens to the 8-byte double form.
func (e *Encoder) PutFloat32(v float32) error {
	return e.PutFloat64(float64(v))
}

// PutFloat64 writes an 8-byte IEEE-754 double.
func (e *Encoder) PutFloat64(v float64) error {
	return e.w.WriteUint64(math.Float64bits(v))
}

// PutString writes a framed UTF-8 string.
func (e *Encoder) PutString(s string) error {
	if len(s) > wire.MaxLongLen {
		return tlerrors.TooLong(tlerrors.PhaseEncode, "string", len(s))
	}
	if !utf8.ValidString(s) {
		return tlerrors.New(tlerrors.PhaseEncode, tlerrors.KindInvalidUTF8).
			Detail("string is not valid UTF-8").
			Build()
	}
	return e.w.WriteFramed([]byte(s))
}

// PutBytes writes a framed byte sequence.
func (e *Encoder) PutBytes(b []byte) error {
	if len(b) > wire.MaxLongLen {
		return tlerrors.TooLong(tlerrors.PhaseEncode, "byte sequence", len(b))
	}
	return e.w.WriteFramed(b)
}

// PutUnsizedBytes writes a byte blob with no length prefix, zero-padded
// to a 16-byte boundary.
func (e *Encoder) PutUnsizedBytes(b UnsizedBytes) error {
	if err := e.w.WriteRaw(b); err != nil {
		return err
	}
	return e.w.WritePadding(wire.Padding(len(b), 16))
}

// PutTypeID writes a 4-byte type id.
func (e *Encoder) PutTypeID(id uint32) error {
	return e.w.WriteUint32(id)
}

// Seq starts a length-prefixed sequence of n elements. Every element is
// written through Next and the sequence is closed with End.
func (e *Encoder) Seq(n int) (*SeqEncoder, error) {
	count, err := numcast.SeqLen(tlerrors.PhaseEncode, n)
	if err != nil {
		return nil, err
	}
	if err := e.w.WriteUint32(count); err != nil {
		return nil, err
	}
	return &SeqEncoder{e: e, declared: count}, nil
}

// Tuple starts a fixed-length run of n elements with no length prefix.
func (e *Encoder) Tuple(n int) (*SeqEncoder, error) {
	count, err := numcast.SeqLen(tlerrors.PhaseEncode, n)
	if err != nil {
		return nil, err
	}
	return &SeqEncoder{e: e, declared: count}, nil
}

// Map starts a length-prefixed map of n string-keyed entries.
func (e *Encoder) Map(n int) (*MapEncoder, error) {
	count, err := numcast.SeqLen(tlerrors.PhaseEncode, n)
	if err != nil {
		return nil, err
	}
	if err := e.w.WriteUint32(count); err != nil {
		return nil, err
	}
	return &MapEncoder{e: e, declared: count}, nil
}

// SeqEncoder guards a sequence or tuple against writing a different
// number of elements than declared.
type SeqEncoder struct {
	e        *Encoder
	declared uint32
	written  uint32
}

// Next accounts for one element and returns the encoder to write it with.
func (s *SeqEncoder) Next() (*Encoder, error) {
	if s.written == s.declared {
		return nil, tlerrors.ExcessElements(tlerrors.PhaseEncode, s.declared)
	}
	s.written++
	return s.e, nil
}

// End closes the sequence, failing if fewer elements were written than
// declared.
func (s *SeqEncoder) End() error {
	if s.written < s.declared {
		return tlerrors.NotEnoughElements(tlerrors.PhaseEncode, s.written, s.declared)
	}
	return nil
}

// MapEncoder guards a map against writing a different number of entries
// than declared.
type MapEncoder struct {
	e        *Encoder
	declared uint32
	written  uint32
}

// Entry writes the key and returns the encoder to write the value with.
func (m *MapEncoder) Entry(key string) (*Encoder, error) {
	if m.written == m.declared {
		return nil, tlerrors.ExcessElements(tlerrors.PhaseEncode, m.declared)
	}
	m.written++
	if err := m.e.PutString(key); err != nil {
		return nil, err
	}
	return m.e, nil
}

// End closes the map, failing if fewer entries were written than declared.
func (m *MapEncoder) End() error {
	if m.written < m.declared {
		return tlerrors.NotEnoughElements(tlerrors.PhaseEncode, m.written, m.declared)
	}
	return nil
}
