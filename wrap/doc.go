// Package wrap implements the validated envelope forms around bare
// wire values.
//
// Boxed prefixes the payload with its 4-byte type id, WithSize with the
// payload's 4-byte length, and BoxedWithSize with both, id first. Each
// decode validates the envelope against the payload it frames: the id
// read from the wire must belong to the target type's id set and match
// the id the decoded value reports, and the size read must equal the
// recomputed size of the decoded value. When both checks fail, the id
// mismatch is reported.
//
// Boxed enums need no caller-supplied hints: the variant is resolved
// from the id on the wire and fed to the payload decode mechanically.
// Enums nested deeper in the payload still take hints as usual.
package wrap
