package world

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/orizon-lang/fuzzcheck/internal/errors"
	"github.com/orizon-lang/fuzzcheck/pkg/pool"
	"github.com/orizon-lang/fuzzcheck/pkg/serialize"
)

// Corpus persists a pool's retained test cases to a directory, one file
// per case named "<complexity>--<hash>.<ext>", and recovers them on
// startup. It is the world-layer collaborator the driver's event_handler
// callback writes CorpusDelta values through.
type Corpus[T any] struct {
	dir        string
	serializer serialize.Serializer[T]

	mu    sync.Mutex
	paths map[pool.Index]string
}

// NewCorpus opens (creating if necessary) dir as a corpus directory keyed
// by serializer's extension.
func NewCorpus[T any](dir string, serializer serialize.Serializer[T]) (*Corpus[T], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WorldIO("create corpus dir", dir, err)
	}

	return &Corpus[T]{dir: dir, serializer: serializer, paths: make(map[pool.Index]string)}, nil
}

// LoadedCase is one test case recovered from a corpus directory, paired
// with the complexity encoded in its filename so the driver can reseed a
// pool without recomputing it.
type LoadedCase[T any] struct {
	Value      T
	Complexity float64
	Path       string
}

// Load reads every file in the corpus directory, decoding each through
// the serializer. Files that fail to decode are skipped (serializer
// decode failure: skip input) rather than treated as fatal.
func (c *Corpus[T]) Load() ([]LoadedCase[T], error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, errors.WorldIO("read corpus dir", c.dir, err)
	}

	out := make([]LoadedCase[T], 0, len(entries))

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		path := filepath.Join(c.dir, e.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		value, ok := c.serializer.FromData(data)
		if !ok {
			continue
		}

		cplx, ok := parseComplexity(e.Name())
		if !ok {
			continue
		}

		out = append(out, LoadedCase[T]{Value: value, Complexity: cplx, Path: path})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Complexity < out[j].Complexity })

	return out, nil
}

// Simplest returns the lowest-complexity recovered case, the artifact
// crash recovery prefers: parse each filename's numeric prefix, choose the
// minimum.
func (c *Corpus[T]) Simplest() (LoadedCase[T], bool) {
	cases, err := c.Load()
	if err != nil || len(cases) == 0 {
		return LoadedCase[T]{}, false
	}

	return cases[0], true
}

// Handler returns a pool.EventHandler that mirrors every CorpusDelta onto
// disk: an admitted case is serialized and written atomically, an evicted
// one is removed. Write failures propagate (I/O error writing
// corpus/artifact: propagate; the driver terminates with nonzero exit and
// prints the path) rather than being swallowed.
func (c *Corpus[T]) Handler() pool.EventHandler[T] {
	return func(delta pool.CorpusDelta[T], _ pool.Stats) error {
		c.mu.Lock()
		defer c.mu.Unlock()

		for _, idx := range delta.Remove {
			path, ok := c.paths[idx]
			if !ok {
				continue
			}

			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return errors.WorldIO("remove corpus file", path, err)
			}

			delete(c.paths, idx)
		}

		if !delta.HasAdd {
			return nil
		}

		data := c.serializer.ToData(delta.AddValue)
		name := fileName(delta.Complexity, data, c.serializer.Extension())
		path := filepath.Join(c.dir, name)

		if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
			return errors.WorldIO("write corpus file", path, err)
		}

		c.paths[delta.AddIndex] = path

		return nil
	}
}
