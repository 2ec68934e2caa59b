// Package tlcodec serializes Go values to and from the MTProto binary
// wire format.
//
// The format is little-endian with a 32-bit minimum integer width,
// 4-byte alignment through zero padding, length-prefixed strings and
// byte sequences, tagless structs and enum payloads, and optional
// envelopes that prefix a 32-bit type id and/or a 32-bit size.
//
// Basic usage:
//
//	type User struct {
//		ID   int64  `tl:"id"`
//		Name string `tl:"name"`
//	}
//
//	data, err := tlcodec.Marshal(User{ID: 1, Name: "bob"})
//	var u User
//	rest, err := tlcodec.Unmarshal(data, &u)
//
// Size prediction, boxed and size-prefixed envelopes, and enum variant
// hints are re-exported from the schema and wrap packages:
//
//	n, err := tlcodec.SizeOf(u)          // exact encoded length
//	data, err = tlcodec.MarshalBoxed(u)  // [type id][payload]
//	hints, err := tlcodec.HintsFor(v)    // ordered enum variant names
//
// The codec package underneath exposes the raw Encoder, Decoder, and
// Sizer engines for hand-written wire types, and cmd/tlgen generates Go
// declarations from TL schema text.
package tlcodec
