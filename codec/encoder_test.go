package codec

import (
	"bytes"
	"errors"
	"math"
	"testing"

	tlerrors "github.com/wippyai/tl-codec/errors"
)

func encodeWith(t *testing.T, fn func(*Encoder) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	if err := fn(e); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestEncoder_Bool(t *testing.T) {
	got := encodeWith(t, func(e *Encoder) error { return e.PutBool(true) })
	if !bytes.Equal(got, []byte{0xb5, 0x75, 0x72, 0x99}) {
		t.Errorf("true = % x", got)
	}
	got = encodeWith(t, func(e *Encoder) error { return e.PutBool(false) })
	if !bytes.Equal(got, []byte{0x37, 0x97, 0x79, 0xbc}) {
		t.Errorf("false = % x", got)
	}
}

func TestEncoder_IntWidening(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*Encoder) error
		want []byte
	}{
		{"int8 -1", func(e *Encoder) error { return e.PutInt8(-1) }, []byte{0xff, 0xff, 0xff, 0xff}},
		{"int8 min", func(e *Encoder) error { return e.PutInt8(-128) }, []byte{0x80, 0xff, 0xff, 0xff}},
		{"int16 258", func(e *Encoder) error { return e.PutInt16(258) }, []byte{0x02, 0x01, 0, 0}},
		{"uint8 200", func(e *Encoder) error { return e.PutUint8(200) }, []byte{200, 0, 0, 0}},
		{"uint16 max", func(e *Encoder) error { return e.PutUint16(65535) }, []byte{0xff, 0xff, 0, 0}},
		{"int32", func(e *Encoder) error { return e.PutInt32(-2) }, []byte{0xfe, 0xff, 0xff, 0xff}},
		{"int64", func(e *Encoder) error { return e.PutInt64(1) }, []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{"go int is 8 bytes", func(e *Encoder) error { return e.PutInt(57) }, []byte{57, 0, 0, 0, 0, 0, 0, 0}},
		{"go uint is 8 bytes", func(e *Encoder) error { return e.PutUint(57) }, []byte{57, 0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeWith(t, tt.fn)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got % x, want % x", got, tt.want)
			}
		})
	}
}

func TestEncoder_Uint128(t *testing.T) {
	got := encodeWith(t, func(e *Encoder) error {
		return e.PutUint128(Uint128{Hi: 0x00000000ffffffff, Lo: 0xffffffffffffffff})
	})
	want := append(bytes.Repeat([]byte{0xff}, 12), 0, 0, 0, 0)
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestEncoder_Int128Negative(t *testing.T) {
	got := encodeWith(t, func(e *Encoder) error {
		return e.PutInt128(Int128From64(-1))
	})
	if !bytes.Equal(got, bytes.Repeat([]byte{0xff}, 16)) {
		t.Errorf("got % x", got)
	}
}

func TestEncoder_FloatAlwaysDouble(t *testing.T) {
	asF32 := encodeWith(t, func(e *Encoder) error { return e.PutFloat32(1.5) })
	asF64 := encodeWith(t, func(e *Encoder) error { return e.PutFloat64(1.5) })
	if len(asF32) != 8 {
		t.Fatalf("float32 encoded as %d bytes", len(asF32))
	}
	if !bytes.Equal(asF32, asF64) {
		t.Errorf("float32 1.5 = % x, float64 1.5 = % x", asF32, asF64)
	}
	bits := uint64(asF64[0]) | uint64(asF64[1])<<8 | uint64(asF64[2])<<16 | uint64(asF64[3])<<24 |
		uint64(asF64[4])<<32 | uint64(asF64[5])<<40 | uint64(asF64[6])<<48 | uint64(asF64[7])<<56
	if math.Float64frombits(bits) != 1.5 {
		t.Errorf("bits decode to %v", math.Float64frombits(bits))
	}
}

func TestEncoder_EmptyString(t *testing.T) {
	got := encodeWith(t, func(e *Encoder) error { return e.PutString("") })
	if !bytes.Equal(got, []byte{0, 0, 0, 0}) {
		t.Errorf("got % x, want 00 00 00 00", got)
	}
}

func TestEncoder_StringInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	err := e.PutString(string([]byte{0xff, 0xfe}))
	if !errors.Is(err, &tlerrors.Error{Phase: tlerrors.PhaseEncode, Kind: tlerrors.KindInvalidUTF8}) {
		t.Errorf("err = %v, want invalid_utf8", err)
	}
}

func TestEncoder_SeqGuards(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)

	seq, err := e.Seq(2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		el, err := seq.Next()
		if err != nil {
			t.Fatal(err)
		}
		if err := el.PutInt32(int32(i)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := seq.Next(); !errors.Is(err, &tlerrors.Error{Phase: tlerrors.PhaseEncode, Kind: tlerrors.KindExcessElements}) {
		t.Errorf("third Next = %v, want excess_elements", err)
	}
	if err := seq.End(); err != nil {
		t.Errorf("End after full write: %v", err)
	}

	want := []byte{2, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}
}

func TestEncoder_SeqNotEnough(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	seq, err := e.Seq(3)
	if err != nil {
		t.Fatal(err)
	}
	el, _ := seq.Next()
	_ = el.PutBool(true)
	if err := seq.End(); !errors.Is(err, &tlerrors.Error{Phase: tlerrors.PhaseEncode, Kind: tlerrors.KindNotEnoughElements}) {
		t.Errorf("End = %v, want not_enough_elements", err)
	}
}

func TestEncoder_TupleHasNoPrefix(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	tup, err := e.Tuple(2)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []int32{7, 8} {
		el, err := tup.Next()
		if err != nil {
			t.Fatal(err)
		}
		_ = el.PutInt32(v)
	}
	if err := tup.End(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 8 {
		t.Errorf("tuple of two ints = %d bytes, want 8", buf.Len())
	}
}

func TestEncoder_Map(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	m, err := e.Map(1)
	if err != nil {
		t.Fatal(err)
	}
	val, err := m.Entry("id")
	if err != nil {
		t.Fatal(err)
	}
	if err := val.PutInt32(5); err != nil {
		t.Fatal(err)
	}
	if err := m.End(); err != nil {
		t.Fatal(err)
	}
	// count(4) + framed "id"(4) + value(4)
	want := []byte{1, 0, 0, 0, 2, 'i', 'd', 0, 5, 0, 0, 0}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}
}

func TestEncoder_UnsizedBytesPadding(t *testing.T) {
	got := encodeWith(t, func(e *Encoder) error {
		return e.PutUnsizedBytes(UnsizedBytes("abc"))
	})
	if len(got) != 16 {
		t.Fatalf("3 bytes pad to %d, want 16", len(got))
	}
	if !bytes.Equal(got[:3], []byte("abc")) {
		t.Errorf("payload = % x", got[:3])
	}
	for i, b := range got[3:] {
		if b != 0 {
			t.Errorf("padding byte %d = %#x", i+3, b)
		}
	}

	aligned := encodeWith(t, func(e *Encoder) error {
		return e.PutUnsizedBytes(UnsizedBytes(bytes.Repeat([]byte{1}, 16)))
	})
	if len(aligned) != 16 {
		t.Errorf("aligned blob grew to %d bytes", len(aligned))
	}
}
