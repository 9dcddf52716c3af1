// Package serialize implements the value<->bytes round-trip contract the
// world layer's corpus and artifact files are written through. The core
// only ever needs `from_data(to_data(v)) == Some(v)`; file format
// specifics are intentionally external to it, so this package carries the
// two simplest shapes — raw bytes and JSON — rather than a format
// registry.
package serialize

// Serializer is the contract pkg/world writes corpus and artifact files
// through.
type Serializer[T any] interface {
	// Extension is the file suffix (without the dot) this serializer's
	// output should be written with.
	Extension() string

	// IsUTF8 reports whether ToData's output is always valid UTF-8,
	// letting callers choose a text-safe log encoding when true.
	IsUTF8() bool

	// FromData decodes data into a T, or ok=false on malformed input.
	FromData(data []byte) (value T, ok bool)

	// ToData encodes value. Must satisfy FromData(ToData(v)) == (v, true).
	ToData(value T) []byte
}
