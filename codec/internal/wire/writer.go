// Package wire implements the byte-level layer of the codec: little-endian
// fixed-width integers, the 1-or-4-byte string length framing, and zero
// padding to 4-byte boundaries.
package wire

import (
	"encoding/binary"
	"io"

	tlerrors "github.com/wippyai/tl-codec/errors"
)

const (
	// MaxShortLen is the largest byte length representable by the
	// single-byte framing form.
	MaxShortLen = 253

	// LongPrefixByte marks the four-byte framing form.
	LongPrefixByte = 0xfe

	// InvalidPrefixByte never appears as the first byte of a valid frame.
	InvalidPrefixByte = 0xff

	// MaxLongLen is the largest byte length representable on the wire
	// (three-byte little-endian length field).
	MaxLongLen = 0xffffff
)

// Padding returns the number of zero bytes needed to bring n up to a
// multiple of align.
func Padding(n, align int) int {
	return (align - n%align) % align
}

// FramedSize returns the total wire size of a framed byte sequence of
// length n, including the length prefix and trailing padding.
func FramedSize(n int) int {
	if n <= MaxShortLen {
		return n + 1 + Padding(n+1, 4)
	}
	return 4 + n + Padding(n, 4)
}

// Writer writes wire primitives to an io.Writer, tracking the byte count.
type Writer struct {
	w       io.Writer
	n       int
	scratch [16]byte
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.n
}

// WriteRaw writes p verbatim.
func (w *Writer) WriteRaw(p []byte) error {
	n, err := w.w.Write(p)
	w.n += n
	if err != nil {
		return tlerrors.IO(tlerrors.PhaseEncode, err)
	}
	return nil
}

// WriteUint32 writes a little-endian 4-byte integer.
func (w *Writer) WriteUint32(v uint32) error {
	binary.LittleEndian.PutUint32(w.scratch[:4], v)
	return w.WriteRaw(w.scratch[:4])
}

// WriteUint64 writes a little-endian 8-byte integer.
func (w *Writer) WriteUint64(v uint64) error {
	binary.LittleEndian.PutUint64(w.scratch[:8], v)
	return w.WriteRaw(w.scratch[:8])
}

// WriteUint128 writes a 16-byte integer as two little-endian 8-byte
// halves, low half first.
func (w *Writer) WriteUint128(lo, hi uint64) error {
	binary.LittleEndian.PutUint64(w.scratch[:8], lo)
	binary.LittleEndian.PutUint64(w.scratch[8:16], hi)
	return w.WriteRaw(w.scratch[:16])
}

// WritePadding writes n zero bytes.
func (w *Writer) WritePadding(n int) error {
	var zeros [16]byte
	for n > 0 {
		chunk := n
		if chunk > len(zeros) {
			chunk = len(zeros)
		}
		if err := w.WriteRaw(zeros[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// WriteFramed writes a length-prefixed byte sequence with trailing zero
// padding to a 4-byte boundary. Sequences up to 253 bytes use a 1-byte
// prefix; longer ones a 0xfe marker plus a 3-byte little-endian length.
func (w *Writer) WriteFramed(data []byte) error {
	n := len(data)
	if n > MaxLongLen {
		return tlerrors.TooLong(tlerrors.PhaseEncode, "byte sequence", n)
	}
	if n <= MaxShortLen {
		w.scratch[0] = byte(n)
		if err := w.WriteRaw(w.scratch[:1]); err != nil {
			return err
		}
		if err := w.WriteRaw(data); err != nil {
			return err
		}
		return w.WritePadding(Padding(n+1, 4))
	}
	w.scratch[0] = LongPrefixByte
	w.scratch[1] = byte(n)
	w.scratch[2] = byte(n >> 8)
	w.scratch[3] = byte(n >> 16)
	if err := w.WriteRaw(w.scratch[:4]); err != nil {
		return err
	}
	if err := w.WriteRaw(data); err != nil {
		return err
	}
	return w.WritePadding(Padding(n, 4))
}
