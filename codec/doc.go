// Package codec implements the low-level engines of the wire format:
// Encoder, Decoder, and Sizer.
//
// The format is little-endian throughout. No integer occupies fewer
// than 4 bytes on the wire: 8- and 16-bit values widen to the 4-byte
// form on encode and narrow back with range checks on decode. 64-bit
// integers take 8 bytes, 128-bit integers 16 bytes as two 64-bit halves
// with the low half first. Floats always take the 8-byte double form.
// Bools encode as one of two 4-byte magic ids. Strings and byte
// sequences are length-prefixed and zero-padded to a 4-byte boundary.
// Sequences and maps carry a 4-byte element count; structs, tuples, and
// enum payloads carry nothing at all.
//
// Encoder writes to an io.Writer:
//
//	var buf bytes.Buffer
//	e := codec.NewEncoder(&buf)
//	_ = e.PutInt32(42)
//	_ = e.PutString("hello")
//
// Decoder mirrors every operation and validates everything it reads.
// The byte-slice form additionally reports the unconsumed remainder:
//
//	d := codec.NewBytesDecoder(buf.Bytes())
//	v, err := d.Int32()
//	s, err := d.String()
//	rest := d.Rest()
//
// Sizer predicts the exact encoded length without producing bytes, so
// sized envelopes can be written in one pass:
//
//	s := codec.NewSizer()
//	s.AddInt()
//	_ = s.AddString(len("hello"))
//	n, err := s.Total()
//
// Because enum payloads are tagless, decoding data that contains enums
// requires variant hints, supplied in order to the Decoder constructor
// and consumed depth-first, one per enum encountered. The wrap package
// derives hints mechanically when the enum is boxed.
//
// The package never panics on malformed input; every failure is a
// structured error from the errors package.
package codec
