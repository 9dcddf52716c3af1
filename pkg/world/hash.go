package world

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// digest returns a deterministic hex digest of data, used as the <hash>
// component of corpus and artifact filenames. blake2b-256 replaces the
// ad-hoc crypto/sha256 one-off in cmd/orizon-fuzz/main.go because crash
// recovery and deterministic replay both depend on this naming scheme
// being stable, and golang.org/x/crypto already sits in the dependency
// graph unused otherwise.
func digest(data []byte) string {
	sum := blake2b.Sum256(data)

	return hex.EncodeToString(sum[:])
}
