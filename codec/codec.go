// Package codec provides pluggable value serialization for backing files.
// A Codec translates between in-memory values and the encoded bytes a
// container writes to disk; the extension it reports drives backing-file
// naming, so switching codecs changes the on-disk layout without touching
// container logic.
package codec

// Codec encodes and decodes values for file-backed storage.
type Codec interface {
	// Encode serializes v into bytes.
	Encode(v any) ([]byte, error)
	// Decode deserializes data into v (must be a pointer).
	Decode(data []byte, v any) error
	// Name returns the codec identifier used for diagnostics.
	Name() string
	// Extension returns the backing-file extension, including the leading dot.
	Extension() string
}
