package wire

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tlerrors "github.com/wippyai/tl-codec/errors"
)

func TestWriteUint32(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteUint32(0x2210c154); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x54, 0xc1, 0x10, 0x22}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}
	if w.Len() != 4 {
		t.Errorf("Len = %d, want 4", w.Len())
	}
}

func TestWriteUint128(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteUint128(0xffffffffffffffff, 0x00000000ffffffff); err != nil {
		t.Fatal(err)
	}
	want := append(bytes.Repeat([]byte{0xff}, 12), 0, 0, 0, 0)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}

	r := NewBytesReader(buf.Bytes())
	lo, hi, err := r.ReadUint128()
	if err != nil {
		t.Fatal(err)
	}
	if lo != 0xffffffffffffffff || hi != 0x00000000ffffffff {
		t.Errorf("got lo=%x hi=%x", lo, hi)
	}
}

func TestFramedRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantSize int
	}{
		{"empty", nil, 4},
		{"one byte", []byte{0x41}, 4},
		{"three bytes", []byte("abc"), 4},
		{"four bytes", []byte("abcd"), 8},
		{"max short", bytes.Repeat([]byte{0x55}, 253), 256},
		{"min long", bytes.Repeat([]byte{0x55}, 254), 260},
		{"long unaligned", bytes.Repeat([]byte{0x55}, 257), 264},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			if err := w.WriteFramed(tt.data); err != nil {
				t.Fatal(err)
			}
			if buf.Len() != tt.wantSize {
				t.Errorf("wrote %d bytes, want %d", buf.Len(), tt.wantSize)
			}
			if buf.Len()%4 != 0 {
				t.Errorf("frame not 4-byte aligned: %d", buf.Len())
			}
			if got := FramedSize(len(tt.data)); got != tt.wantSize {
				t.Errorf("FramedSize = %d, want %d", got, tt.wantSize)
			}

			r := NewBytesReader(buf.Bytes())
			got, err := r.ReadFramed()
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("round trip mismatch: got % x, want % x", got, tt.data)
			}
			if len(r.Rest()) != 0 {
				t.Errorf("%d bytes left unconsumed", len(r.Rest()))
			}
		})
	}
}

func TestWriteFramedEmptyWire(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteFramed(nil); err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 0, 0}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}
}

func TestWriteFramed254ByteLayout(t *testing.T) {
	data := bytes.Repeat([]byte{0xaa}, 254)
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteFramed(data); err != nil {
		t.Fatal(err)
	}
	out := buf.Bytes()
	if out[0] != 0xfe || out[1] != 254 || out[2] != 0 || out[3] != 0 {
		t.Errorf("prefix = % x", out[:4])
	}
	if out[4] != 0xaa || out[257] != 0xaa {
		t.Error("data bytes misplaced")
	}
	if out[258] != 0 || out[259] != 0 {
		t.Errorf("padding = % x, want zeros", out[258:])
	}
}

func TestWriteFramedTooLong(t *testing.T) {
	data := make([]byte, MaxLongLen+1)
	w := NewWriter(&bytes.Buffer{})
	err := w.WriteFramed(data)
	if !errors.Is(err, &tlerrors.Error{Phase: tlerrors.PhaseEncode, Kind: tlerrors.KindTooLong}) {
		t.Errorf("err = %v, want too_long", err)
	}
}

func TestReadFramedRejects255(t *testing.T) {
	r := NewBytesReader([]byte{0xff, 0, 0, 0})
	_, err := r.ReadFramed()
	if !errors.Is(err, &tlerrors.Error{Phase: tlerrors.PhaseDecode, Kind: tlerrors.KindInvalidLengthPrefix}) {
		t.Errorf("err = %v, want invalid_length_prefix", err)
	}
}

func TestReadFramedRejectsNonCanonicalLong(t *testing.T) {
	// 0xfe with a length of 3 must fail even though the data is present
	r := NewBytesReader([]byte{0xfe, 3, 0, 0, 'a', 'b', 'c', 0})
	_, err := r.ReadFramed()
	if !errors.Is(err, &tlerrors.Error{Phase: tlerrors.PhaseDecode, Kind: tlerrors.KindInvalidLengthPrefix}) {
		t.Fatalf("err = %v, want invalid_length_prefix", err)
	}
	if !strings.Contains(err.Error(), "short form") {
		t.Errorf("message should name the canonical form: %s", err)
	}
}

func TestReadFramedRejectsNonZeroPadding(t *testing.T) {
	// "abc" framed, then padding corrupted
	r := NewBytesReader([]byte{3, 'a', 'b', 'c'})
	if _, err := r.ReadFramed(); err != nil {
		t.Fatalf("aligned frame has no padding to corrupt: %v", err)
	}

	r = NewBytesReader([]byte{1, 'a', 0x01, 0})
	_, err := r.ReadFramed()
	if !errors.Is(err, &tlerrors.Error{Phase: tlerrors.PhaseDecode, Kind: tlerrors.KindNonZeroPadding}) {
		t.Errorf("err = %v, want nonzero_padding", err)
	}
}

func TestReadFramedTruncated(t *testing.T) {
	r := NewBytesReader([]byte{10, 'a', 'b'})
	_, err := r.ReadFramed()
	if !errors.Is(err, &tlerrors.Error{Phase: tlerrors.PhaseDecode, Kind: tlerrors.KindIO}) {
		t.Errorf("err = %v, want io", err)
	}
}

func TestReaderRest(t *testing.T) {
	r := NewBytesReader([]byte{1, 0, 0, 0, 0xde, 0xad})
	v, err := r.ReadUint32()
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Errorf("v = %d", v)
	}
	if !bytes.Equal(r.Rest(), []byte{0xde, 0xad}) {
		t.Errorf("Rest = % x", r.Rest())
	}
	if r.Position() != 4 {
		t.Errorf("Position = %d", r.Position())
	}
}

func TestPadding(t *testing.T) {
	tests := []struct {
		n, align, want int
	}{
		{0, 4, 0}, {1, 4, 3}, {2, 4, 2}, {3, 4, 1}, {4, 4, 0},
		{0, 16, 0}, {1, 16, 15}, {16, 16, 0}, {17, 16, 15},
	}
	for _, tt := range tests {
		if got := Padding(tt.n, tt.align); got != tt.want {
			t.Errorf("Padding(%d, %d) = %d, want %d", tt.n, tt.align, got, tt.want)
		}
	}
}
