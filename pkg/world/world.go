// Package world persists the fuzzing loop's corpus deltas, artifacts, and
// statistics to disk, and watches a corpus-in directory for externally
// added seeds. It is the only layer that touches the filesystem; mutators,
// sensors, pools, and the driver stay pure in-memory value transformers.
package world

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// complexityPrecision fixes the number of decimal digits a complexity
// value is rendered with in filenames. %020.6f sorts lexicographically by
// numeric value among any directory's files (fixed width, zero-padded,
// six fractional digits comfortably separates any two complexities a
// mutator's Complexity method would ever produce), resolving the open
// question left by the bit-width-vs-flat-constant ambiguity in complexity
// precision: this package documents its choice rather than leaving it
// unspecified.
const complexityPrecision = "%020.6f"

// fileName builds the "<complexity>--<hash>.<ext>" name a corpus or
// artifact file is written under.
func fileName(complexity float64, data []byte, ext string) string {
	return fmt.Sprintf(complexityPrecision+"--%s.%s", complexity, digest(data), ext)
}

// parseComplexity extracts the numeric prefix of a corpus/artifact
// filename, splitting on the first "--" the way crash recovery is
// specified to: parse each filename on "--", take the numeric prefix as
// complexity, choose the minimum.
func parseComplexity(name string) (float64, bool) {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}

	prefix, _, found := strings.Cut(base, "--")
	if !found {
		return 0, false
	}

	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}
