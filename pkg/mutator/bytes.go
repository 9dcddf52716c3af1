package mutator

import "math/rand"

// Bytes mutates []byte directly, without an element-level sub-mutator. It
// is the leaf case the higher-level Slice[byte] could also express, kept
// separate because raw-byte fuzz targets (the common case: parsers, codecs)
// want bit-level flip/insert/delete moves rather than Slice's
// element-replace moves.
type Bytes struct {
	lenRange sliceLenRange
	rng      *rand.Rand
}

// NewBytes builds a Bytes mutator bounded to [minLen, maxLen] bytes.
func NewBytes(minLen, maxLen int) *Bytes {
	if minLen < 0 || maxLen < minLen {
		panic("mutator: invalid Bytes length range")
	}

	return &Bytes{lenRange: sliceLenRange{min: minLen, max: maxLen}, rng: rand.New(rand.NewSource(1))}
}

func (m *Bytes) DefaultArbitraryStep() ArbitraryStep { return NewArbitraryStep(uint64(0)) }

func (m *Bytes) Validate(value *[]byte) (any, bool) {
	n := len(*value)
	if n < m.lenRange.min || (m.lenRange.max >= 0 && n > m.lenRange.max) {
		return nil, false
	}

	return nil, true
}

func (m *Bytes) DefaultMutationStep(_ *[]byte, _ any) MutationStep {
	return NewMutationStep(uint64(0))
}

func (m *Bytes) MinComplexity() float64 { return float64(m.lenRange.min) }

func (m *Bytes) MaxComplexity() float64 {
	if m.lenRange.max < 0 {
		return 65536
	}

	return float64(m.lenRange.max)
}

func (m *Bytes) Complexity(value *[]byte, _ any) float64 { return float64(len(*value)) }

func (m *Bytes) OrderedArbitrary(step *ArbitraryStep, maxCplx float64) ([]byte, float64, bool) {
	s, _ := step.Inner().(uint64)
	n := m.lenRange.min + int(s)

	if m.lenRange.max >= 0 && n > m.lenRange.max {
		return nil, 0, false
	}

	if float64(n) > maxCplx {
		return nil, 0, false
	}

	out := make([]byte, n)
	*step = NewArbitraryStep(s + 1)

	return out, float64(n), true
}

func (m *Bytes) RandomArbitrary(maxCplx float64) ([]byte, float64) {
	span := m.lenRange.max - m.lenRange.min
	n := m.lenRange.min

	if span > 0 {
		n += m.rng.Intn(span + 1)
	}

	if m.lenRange.max < 0 && float64(n) > maxCplx {
		n = int(maxCplx)
	}

	out := make([]byte, n)
	m.rng.Read(out)

	return out, float64(n)
}

type (
	bytesUnmutateFlip struct {
		index int
		old   byte
	}
	bytesUnmutateInsert struct{ index int }
	bytesUnmutateDelete struct {
		index int
		old   byte
	}
)

func (m *Bytes) OrderedMutate(value *[]byte, _ any, step *MutationStep, _ float64) (UnmutateToken, float64, bool) {
	s, _ := step.Inner().(uint64)
	v := *value

	if len(v) == 0 {
		return UnmutateToken{}, 0, false
	}

	idx := int(s) % len(v)
	old := v[idx]
	v[idx] = old ^ 0xFF
	*step = NewMutationStep(s + 1)

	return NewUnmutateToken(bytesUnmutateFlip{index: idx, old: old}), float64(len(v)), true
}

func (m *Bytes) RandomMutate(value *[]byte, _ any, _ float64) (UnmutateToken, float64) {
	v := *value

	if len(v) == 0 {
		if m.lenRange.max == 0 {
			return NewUnmutateToken(nil), 0
		}

		*value = []byte{byte(m.rng.Intn(256))}

		return NewUnmutateToken(bytesUnmutateInsert{index: 0}), 1
	}

	switch {
	case len(v) < m.lenRange.min, len(v) == 0:
	case m.lenRange.max >= 0 && len(v) >= m.lenRange.max:
	default:
		switch m.rng.Intn(3) {
		case 0:
			idx := m.rng.Intn(len(v))
			old := v[idx]
			v[idx] = byte(m.rng.Intn(256))

			return NewUnmutateToken(bytesUnmutateFlip{index: idx, old: old}), float64(len(v))
		case 1:
			idx := m.rng.Intn(len(v) + 1)
			nb := byte(m.rng.Intn(256))
			*value = append(v[:idx:idx], append([]byte{nb}, v[idx:]...)...)

			return NewUnmutateToken(bytesUnmutateInsert{index: idx}), float64(len(*value))
		default:
			if len(v) > m.lenRange.min {
				idx := m.rng.Intn(len(v))
				old := v[idx]
				*value = append(v[:idx], v[idx+1:]...)

				return NewUnmutateToken(bytesUnmutateDelete{index: idx, old: old}), float64(len(*value))
			}
		}
	}

	idx := m.rng.Intn(len(v))
	old := v[idx]
	v[idx] = byte(m.rng.Intn(256))

	return NewUnmutateToken(bytesUnmutateFlip{index: idx, old: old}), float64(len(v))
}

func (m *Bytes) Unmutate(value *[]byte, _ any, token UnmutateToken) {
	v := *value

	switch t := token.Inner().(type) {
	case bytesUnmutateFlip:
		v[t.index] = t.old
	case bytesUnmutateInsert:
		*value = append(v[:t.index], v[t.index+1:]...)
	case bytesUnmutateDelete:
		*value = append(v[:t.index], append([]byte{t.old}, v[t.index:]...)...)
	}
}

func (m *Bytes) DefaultRecursingPartIndex(_ *[]byte, _ any) RecursingPartIndex {
	return NewRecursingPartIndex(0)
}

func (m *Bytes) RecursingPart(_ any, _ *[]byte, _ *RecursingPartIndex) (any, bool) {
	return nil, false
}
