package codec

// UnsizedBytes is a byte blob serialized with no length prefix, zero
// padded to a 16-byte boundary. The decode side must know the payload
// length out of band.
type UnsizedBytes []byte
