package world

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/natefinch/atomic"
)

// corpusFormatVersion is the on-disk layout version this package writes
// and reads. Bumped whenever the filename scheme (fileName/parseComplexity)
// changes in a way that would make an older corpus directory
// misinterpreted rather than merely unreadable.
const corpusFormatVersion = "1.0.0"

// corpusFormatConstraint is the range of on-disk versions this build can
// read. Widened across a minor version bump if a future change stays
// backward-compatible.
const corpusFormatConstraint = "^1.0.0"

const versionFileName = ".fuzzcheck-version"

// CheckVersion reads dir's version marker (if any) and verifies it
// satisfies this build's corpusFormatConstraint, the same
// constraint-against-installed-version check the outdated command performs
// for package dependencies (cmd/orizon/pkg/commands/outdated.go), applied
// here to on-disk corpus compatibility instead of package versions. A
// directory with no marker is assumed to predate versioning and is
// accepted, then stamped with the current version.
func CheckVersion(dir string) error {
	constraint, err := semver.NewConstraint(corpusFormatConstraint)
	if err != nil {
		return fmt.Errorf("world: parse corpus format constraint: %w", err)
	}

	path := filepath.Join(dir, versionFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return stampVersion(path)
		}

		return fmt.Errorf("world: read corpus version marker %s: %w", path, err)
	}

	raw := strings.TrimSpace(string(data))

	version, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("world: parse corpus version marker %s: %w", path, err)
	}

	if !constraint.Check(version) {
		return fmt.Errorf("world: corpus directory %s has format version %s, incompatible with %s", dir, version, corpusFormatConstraint)
	}

	return nil
}

func stampVersion(path string) error {
	return atomic.WriteFile(path, bytes.NewReader([]byte(corpusFormatVersion+"\n")))
}
