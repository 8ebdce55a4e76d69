// Package identity derives deterministic settlement identifiers from
// opaque byte phrases (account names, security symbols).
//
// Derivation is pure: the same phrase always yields the same identifier,
// so transfer counter-parties reproduce byte-for-byte across independent
// runs. Feed replay and fixture-based tests depend on this.
package identity

import (
	"crypto/ed25519"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Size is the width of an Identifier in bytes.
const Size = ed25519.PublicKeySize

// Identifier is a fixed-width public key standing in for an account or
// security as a transfer counter-party. Identifiers are only produced by
// Derive; they are never hand-constructed.
type Identifier [Size]byte

// Derive maps an arbitrary byte phrase to an Identifier.
//
// The phrase is hashed with BLAKE2b-256 and the digest is used as an
// ed25519 key seed; the identifier is the resulting public key. Distinct
// phrases yield independent identifiers with overwhelming probability.
func Derive(phrase []byte) Identifier {
	seed := blake2b.Sum256(phrase)
	priv := ed25519.NewKeyFromSeed(seed[:])

	var id Identifier
	copy(id[:], priv.Public().(ed25519.PublicKey))
	return id
}

// Bytes returns the identifier as a byte slice.
func (id Identifier) Bytes() []byte {
	return id[:]
}

// String returns the hex encoding of the identifier.
func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}
