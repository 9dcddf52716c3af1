package serialize

import "encoding/json"

// JSON serializes values of T through the standard library's
// encoding/json (see DESIGN.md for the source of this shape, minus the
// reflection-based tagging machinery layered on top there) — no
// third-party JSON library appears anywhere in the reference pack this
// module draws its stack from, and file-format specifics are external to
// the core, so the standard encoder is the correct, and only justified,
// choice here.
type JSON[T any] struct{}

// NewJSON builds a JSON serializer for T.
func NewJSON[T any]() *JSON[T] { return &JSON[T]{} }

func (j *JSON[T]) Extension() string { return "json" }

func (j *JSON[T]) IsUTF8() bool { return true }

func (j *JSON[T]) FromData(data []byte) (T, bool) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T

		return zero, false
	}

	return v, true
}

func (j *JSON[T]) ToData(value T) []byte {
	data, err := json.Marshal(value)
	if err != nil {
		return nil
	}

	return data
}
