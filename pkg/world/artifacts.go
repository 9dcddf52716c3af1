package world

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/orizon-lang/fuzzcheck/internal/errors"
	"github.com/orizon-lang/fuzzcheck/pkg/serialize"
)

// Artifacts persists failing test cases, one file per failure, to a
// directory separate from the corpus: <artifacts>/<complexity>--<hash>.<ext>.
type Artifacts[T any] struct {
	dir        string
	serializer serialize.Serializer[T]
}

// NewArtifacts opens (creating if necessary) dir as an artifacts
// directory.
func NewArtifacts[T any](dir string, serializer serialize.Serializer[T]) (*Artifacts[T], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WorldIO("create artifacts dir", dir, err)
	}

	return &Artifacts[T]{dir: dir, serializer: serializer}, nil
}

// Save writes value as a new artifact file and returns the path written.
// Called from the driver after a test predicate failure (panic, signal,
// or explicit false), never from within a signal handler itself — signal
// handlers may touch only the atomic current-test pointer and failure
// flag, deferring serialization to the driver's recovery path.
func (a *Artifacts[T]) Save(value T, complexity float64) (string, error) {
	data := a.serializer.ToData(value)

	return a.SaveRaw(data, a.serializer.Extension(), complexity)
}

// SaveRaw writes already-serialized bytes as a new artifact file. Used by
// the driver's crash-signal path, which only has the bytes snapshotCurrent
// captured through the current-test pointer's closure — not a live T to
// hand back through the serializer — and so cannot call Save directly.
func (a *Artifacts[T]) SaveRaw(data []byte, ext string, complexity float64) (string, error) {
	name := fileName(complexity, data, ext)
	path := filepath.Join(a.dir, name)

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", errors.WorldIO("write artifact file", path, err)
	}

	return path, nil
}
