package ledger

import (
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// HashFunc is the 32-byte digest primitive behind identifier derivation.
type HashFunc func(data []byte) [32]byte

// SHA256Hash is the default identifier hash.
func SHA256Hash(data []byte) [32]byte { return sha256.Sum256(data) }

// Blake2bHash is an alternate identifier hash for deployments that prefer it.
// All participants of one ledger must agree on the primitive: switching it
// changes every derived id.
func Blake2bHash(data []byte) [32]byte { return blake2b.Sum256(data) }

// deriveID hashes the raw concatenation of parts, in order, with no length
// prefixes or separators. The concatenation order at each call site is part
// of the external contract; each caller documents its own field order. A
// strictly increasing counter is always among the parts, so two otherwise
// identical derivations never collide.
func deriveID(h HashFunc, parts ...[]byte) ID {
	var buf []byte
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return ID(h(buf))
}

func be64(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}
