package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	tlerrors "github.com/wippyai/tl-codec/errors"
)

// Reader reads wire primitives from an io.Reader or a byte slice,
// tracking the byte position. The byte-slice form additionally exposes
// the unconsumed remainder.
type Reader struct {
	r       io.Reader
	data    []byte
	pos     int
	scratch [16]byte
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// NewBytesReader creates a Reader over a byte slice. Rest reports the
// unconsumed tail.
func NewBytesReader(b []byte) *Reader {
	return &Reader{data: b}
}

// Position returns the number of bytes consumed so far.
func (r *Reader) Position() int {
	return r.pos
}

// Rest returns the unconsumed remainder of a byte-slice reader, or nil
// for a stream reader.
func (r *Reader) Rest() []byte {
	if r.data == nil {
		return nil
	}
	return r.data[r.pos:]
}

// ReadFull fills p from the source.
func (r *Reader) ReadFull(p []byte) error {
	if r.data != nil {
		if len(r.data)-r.pos < len(p) {
			return tlerrors.IO(tlerrors.PhaseDecode, io.ErrUnexpectedEOF)
		}
		copy(p, r.data[r.pos:])
		r.pos += len(p)
		return nil
	}
	n, err := io.ReadFull(r.r, p)
	r.pos += n
	if err != nil {
		return tlerrors.IO(tlerrors.PhaseDecode, err)
	}
	return nil
}

// ReadUint32 reads a little-endian 4-byte integer.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.ReadFull(r.scratch[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.scratch[:4]), nil
}

// ReadUint64 reads a little-endian 8-byte integer.
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.ReadFull(r.scratch[:8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(r.scratch[:8]), nil
}

// ReadUint128 reads a 16-byte integer written as two little-endian
// 8-byte halves, low half first.
func (r *Reader) ReadUint128() (lo, hi uint64, err error) {
	if err := r.ReadFull(r.scratch[:16]); err != nil {
		return 0, 0, err
	}
	lo = binary.LittleEndian.Uint64(r.scratch[:8])
	hi = binary.LittleEndian.Uint64(r.scratch[8:16])
	return lo, hi, nil
}

// ReadPadding consumes n bytes and fails on any nonzero byte.
func (r *Reader) ReadPadding(n int) error {
	for n > 0 {
		chunk := n
		if chunk > len(r.scratch) {
			chunk = len(r.scratch)
		}
		if err := r.ReadFull(r.scratch[:chunk]); err != nil {
			return err
		}
		for _, b := range r.scratch[:chunk] {
			if b != 0 {
				return tlerrors.NonZeroPadding(b)
			}
		}
		n -= chunk
	}
	return nil
}

// ReadFramed reads a length-prefixed byte sequence and its padding.
// The first byte 255 is rejected outright; the 0xfe long form must
// carry a length of at least 254.
func (r *Reader) ReadFramed() ([]byte, error) {
	if err := r.ReadFull(r.scratch[:1]); err != nil {
		return nil, err
	}
	first := r.scratch[0]

	var n, lead int
	switch {
	case first == InvalidPrefixByte:
		return nil, tlerrors.InvalidLengthPrefix("first length byte is 255", first)
	case first == LongPrefixByte:
		if err := r.ReadFull(r.scratch[:3]); err != nil {
			return nil, err
		}
		n = int(r.scratch[0]) | int(r.scratch[1])<<8 | int(r.scratch[2])<<16
		if n < MaxShortLen+1 {
			return nil, tlerrors.InvalidLengthPrefix(
				fmt.Sprintf("long form carries length %d, which fits the short form", n), n)
		}
		lead = 0
	default:
		n = int(first)
		lead = 1
	}

	data := make([]byte, n)
	if err := r.ReadFull(data); err != nil {
		return nil, err
	}
	if err := r.ReadPadding(Padding(lead+n, 4)); err != nil {
		return nil, err
	}
	return data, nil
}
