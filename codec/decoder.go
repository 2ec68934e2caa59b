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

// Decoder reads wire values from an io.Reader or a byte slice and
// validates every byte it consumes: bool magic ids, narrowing casts,
// padding, length prefixes, and UTF-8.
//
// Enum payloads carry no discriminant, so the Decoder holds an ordered
// queue of variant hints consumed depth-first, one per enum encountered.
type Decoder struct {
	r     *wire.Reader
	hints []string
}

// NewDecoder creates a Decoder reading from r with the given variant
// hints, in the order the enums appear in the data.
func NewDecoder(r io.Reader, hints ...string) *Decoder {
	return &Decoder{r: wire.NewReader(r), hints: hints}
}

// NewBytesDecoder creates a Decoder over a byte slice. Rest reports the
// unconsumed tail after decoding.
func NewBytesDecoder(b []byte, hints ...string) *Decoder {
	return &Decoder{r: wire.NewBytesReader(b), hints: hints}
}

// Position returns the number of bytes consumed so far.
func (d *Decoder) Position() int {
	return d.r.Position()
}

// Rest returns the unconsumed remainder of a byte-slice decoder, or nil
// for a stream decoder.
func (d *Decoder) Rest() []byte {
	return d.r.Rest()
}

// PopHint consumes the next enum variant hint.
func (d *Decoder) PopHint() (string, error) {
	if len(d.hints) == 0 {
		return "", tlerrors.MissingHint()
	}
	h := d.hints[0]
	d.hints = d.hints[1:]
	return h, nil
}

// PushHint prepends a hint, letting envelope decoders resolve a variant
// from the wire and feed it to the payload decode.
func (d *Decoder) PushHint(h string) {
	d.hints = append([]string{h}, d.hints...)
}

// Bool reads a 4-byte value that must be one of the bool magic ids.
func (d *Decoder) Bool() (bool, error) {
	v, err := d.r.ReadUint32()
	if err != nil {
		return false, err
	}
	switch v {
	case ident.BoolTrueID:
		debugf("decoded bool: true")
		return true, nil
	case ident.BoolFalseID:
		debugf("decoded bool: false")
		return false, nil
	default:
		return false, tlerrors.InvalidBool(v)
	}
}

// Int8 reads a 4-byte wire integer and narrows it, failing if the value
// does not fit.
func (d *Decoder) Int8() (int8, error) {
	v, err := d.Int32()
	if err != nil {
		return 0, err
	}
	return numcast.Int32ToInt8(v)
}

// Int16 reads a 4-byte wire integer and narrows it, failing if the
// value does not fit.
func (d *Decoder) Int16() (int16, error) {
	v, err := d.Int32()
	if err != nil {
		return 0, err
	}
	return numcast.Int32ToInt16(v)
}

// Int32 reads a 4-byte wire integer.
func (d *Decoder) Int32() (int32, error) {
	v, err := d.r.ReadUint32()
	if err != nil {
		return 0, err
	}
	debugf("decoded int32: %d", int32(v))
	return int32(v), nil
}

// Int64 reads an 8-byte wire integer.
func (d *Decoder) Int64() (int64, error) {
	v, err := d.r.ReadUint64()
	if err != nil {
		return 0, err
	}
	debugf("decoded int64: %d", int64(v))
	return int64(v), nil
}

// Int reads an 8-byte wire integer into a Go int.
func (d *Decoder) Int() (int, error) {
	v, err := d.Int64()
	return int(v), err
}

// Int128 reads a 16-byte integer, low half first.
func (d *Decoder) Int128() (Int128, error) {
	lo, hi, err := d.r.ReadUint128()
	if err != nil {
		return Int128{}, err
	}
	return Int128{Hi: int64(hi), Lo: lo}, nil
}

// Uint8 reads a 4-byte wire integer and narrows it, failing if the
// value does not fit.
func (d *Decoder) Uint8() (uint8, error) {
	v, err := d.Uint32()
	if err != nil {
		return 0, err
	}
	return numcast.Uint32ToUint8(v)
}

// Uint16 reads a 4-byte wire integer and narrows it, failing if the
// value does not fit.
func (d *Decoder) Uint16() (uint16, error) {
	v, err := d.Uint32()
	if err != nil {
		return 0, err
	}
	return numcast.Uint32ToUint16(v)
}

// Uint32 reads a 4-byte wire integer.
func (d *Decoder) Uint32() (uint32, error) {
	v, err := d.r.ReadUint32()
	if err != nil {
		return 0, err
	}
	debugf("decoded uint32: %d", v)
	return v, nil
}

// Uint64 reads an 8-byte wire integer.
func (d *Decoder) Uint64() (uint64, error) {
	v, err := d.r.ReadUint64()
	if err != nil {
		return 0, err
	}
	debugf("decoded uint64: %d", v)
	return v, nil
}

// Uint reads an 8-byte wire integer into a Go uint.
func (d *Decoder) Uint() (uint, error) {
	v, err := d.Uint64()
	return uint(v), err
}

// Uint128 reads a 16-byte integer, low half first.
func (d *Decoder) Uint128() (Uint128, error) {
	lo, hi, err := d.r.ReadUint128()
	if err != nil {
		return Uint128{}, err
	}
	return Uint128{Hi: hi, Lo: lo}, nil
}

// Float32 reads an 8-byte double and narrows it, failing if a finite
// value overflows float32.
func (d *Decoder) Float32() (float32, error) {
	v, err := d.Float64()
	if err != nil {
		return 0, err
	}
	return numcast.Float64ToFloat32(v)
}

// Float64 reads an 8-byte IEEE-754 double.
func (d *Decoder) Float64() (float64, error) {
	v, err := d.r.ReadUint64()
	if err != nil {
		return 0, err
	}
	f := math.Float64frombits(v)
	debugf("decoded float64: %v", f)
	return f, nil
}

// String reads a framed byte sequence that must be valid UTF-8.
func (d *Decoder) String() (string, error) {
	data, err := d.r.ReadFramed()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", tlerrors.InvalidUTF8(data)
	}
	debugf("decoded string of %d bytes", len(data))
	return string(data), nil
}

// Bytes reads a framed byte sequence.
func (d *Decoder) Bytes() ([]byte, error) {
	data, err := d.r.ReadFramed()
	if err != nil {
		return nil, err
	}
	debugf("decoded %d bytes", len(data))
	return data, nil
}

// UnsizedBytes reads a blob of known length with no prefix, consuming
// its zero padding up to a 16-byte boundary.
func (d *Decoder) UnsizedBytes(length int) (UnsizedBytes, error) {
	data := make([]byte, length)
	if err := d.r.ReadFull(data); err != nil {
		return nil, err
	}
	if err := d.r.ReadPadding(wire.Padding(length, 16)); err != nil {
		return nil, err
	}
	return UnsizedBytes(data), nil
}

// TypeID reads a 4-byte type id.
func (d *Decoder) TypeID() (uint32, error) {
	return d.r.ReadUint32()
}

// Seq reads a length prefix and returns a guarded element reader.
func (d *Decoder) Seq() (*SeqDecoder, error) {
	n, err := d.r.ReadUint32()
	if err != nil {
		return nil, err
	}
	debugf("decoding sequence of %d elements", n)
	return &SeqDecoder{d: d, declared: n}, nil
}

// Tuple returns a guarded reader for a fixed-length run with no prefix.
func (d *Decoder) Tuple(n uint32) *SeqDecoder {
	return &SeqDecoder{d: d, declared: n}
}

// Map reads a length prefix and returns a guarded entry reader.
func (d *Decoder) Map() (*MapDecoder, error) {
	n, err := d.r.ReadUint32()
	if err != nil {
		return nil, err
	}
	debugf("decoding map of %d entries", n)
	return &MapDecoder{d: d, declared: n}, nil
}

// SeqDecoder guards a sequence or tuple against reading past the
// declared element count.
type SeqDecoder struct {
	d        *Decoder
	declared uint32
	read     uint32
}

// Len returns the declared element count.
func (s *SeqDecoder) Len() uint32 {
	return s.declared
}

// More reports whether elements remain.
func (s *SeqDecoder) More() bool {
	return s.read < s.declared
}

// Next accounts for one element and returns the decoder to read it with.
func (s *SeqDecoder) Next() (*Decoder, error) {
	if s.read == s.declared {
		return nil, tlerrors.ExcessElements(tlerrors.PhaseDecode, s.declared)
	}
	s.read++
	return s.d, nil
}

// MapDecoder guards a map against reading past the declared entry count.
type MapDecoder struct {
	d        *Decoder
	declared uint32
	read     uint32
}

// Len returns the declared entry count.
func (m *MapDecoder) Len() uint32 {
	return m.declared
}

// More reports whether entries remain.
func (m *MapDecoder) More() bool {
	return m.read < m.declared
}

// Key accounts for one entry and reads its key.
func (m *MapDecoder) Key() (string, error) {
	if m.read == m.declared {
		return "", tlerrors.ExcessElements(tlerrors.PhaseDecode, m.declared)
	}
	m.read++
	return m.d.String()
}

// ExpectKey reads the next key and fails unless it matches want.
func (m *MapDecoder) ExpectKey(want string) error {
	got, err := m.Key()
	if err != nil {
		return err
	}
	if got != want {
		return tlerrors.InvalidMapKey(got, want)
	}
	return nil
}

// Value returns the decoder to read the current entry's value with.
func (m *MapDecoder) Value() *Decoder {
	return m.d
}
