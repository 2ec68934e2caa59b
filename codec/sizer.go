package codec

import (
	"math"

	"github.com/wippyai/tl-codec/codec/internal/numcast"
	"github.com/wippyai/tl-codec/codec/internal/wire"
	tlerrors "github.com/wippyai/tl-codec/errors"
)

// Wire sizes of the fixed-width value forms.
const (
	BoolSize   = 4
	IntSize    = 4
	LongSize   = 8
	DoubleSize = 8
	Int128Size = 16
	SeqLenSize = 4
	TypeIDSize = 4
)

// Sizer predicts the exact encoded length of a value by walking the
// same branches the Encoder takes, without producing bytes. The running
// total must fit the 32-bit length field used by sized envelopes.
type Sizer struct {
	total uint64
}

// NewSizer creates an empty Sizer.
func NewSizer() *Sizer {
	return &Sizer{}
}

// Total returns the accumulated size, failing if it overflows the
// 32-bit length field.
func (s *Sizer) Total() (uint32, error) {
	if s.total > math.MaxUint32 {
		return 0, tlerrors.SizeOverflow(s.total)
	}
	return uint32(s.total), nil
}

// Add accounts for n raw bytes.
func (s *Sizer) Add(n int) {
	s.total += uint64(n)
}

// AddBool accounts for the 4-byte bool magic id.
func (s *Sizer) AddBool() {
	s.total += BoolSize
}

// AddInt accounts for a 4-byte wire integer.
func (s *Sizer) AddInt() {
	s.total += IntSize
}

// AddLong accounts for an 8-byte wire integer.
func (s *Sizer) AddLong() {
	s.total += LongSize
}

// AddInt128 accounts for a 16-byte integer.
func (s *Sizer) AddInt128() {
	s.total += Int128Size
}

// AddDouble accounts for the 8-byte double form.
func (s *Sizer) AddDouble() {
	s.total += DoubleSize
}

// AddString accounts for a framed string of the given byte length.
func (s *Sizer) AddString(n int) error {
	if n > wire.MaxLongLen {
		return tlerrors.TooLong(tlerrors.PhaseSize, "string", n)
	}
	s.total += uint64(wire.FramedSize(n))
	return nil
}

// AddBytes accounts for a framed byte sequence of the given length.
func (s *Sizer) AddBytes(n int) error {
	if n > wire.MaxLongLen {
		return tlerrors.TooLong(tlerrors.PhaseSize, "byte sequence", n)
	}
	s.total += uint64(wire.FramedSize(n))
	return nil
}

// AddUnsizedBytes accounts for an unprefixed blob padded to a 16-byte
// boundary.
func (s *Sizer) AddUnsizedBytes(n int) {
	s.total += uint64(n + wire.Padding(n, 16))
}

// AddSeqLen accounts for a 4-byte element count prefix, validating the
// count itself.
func (s *Sizer) AddSeqLen(n int) error {
	if _, err := numcast.SeqLen(tlerrors.PhaseSize, n); err != nil {
		return err
	}
	s.total += SeqLenSize
	return nil
}

// AddTypeID accounts for a 4-byte type id.
func (s *Sizer) AddTypeID() {
	s.total += TypeIDSize
}
