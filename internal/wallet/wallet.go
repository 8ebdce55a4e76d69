// Package wallet loads and creates the signing wallet file.
//
// A wallet file holds an ed25519 key seed sealed with NaCl secretbox
// under a key derived from the wallet password with BLAKE2b-256. The
// wallet exposes the opaque signing primitive the commitment layer
// consumes; it does not participate in classification or batching.
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/dusk-network/xsc-governance/internal/identity"
)

// FileName is the conventional wallet file name inside a profile
// directory.
const FileName = "wallet.dat"

var fileMagic = []byte("XSCW")

const (
	formatVersion = 1
	nonceSize     = 24
)

// ErrBadPassword rejects a wallet that cannot be unsealed with the
// supplied password.
var ErrBadPassword = errors.New("incorrect wallet password")

// Wallet is a loaded signing key.
type Wallet struct {
	priv ed25519.PrivateKey
}

// Create generates a fresh wallet, seals it with password and writes it
// to path with owner-only permissions.
func Create(path, password string) (*Wallet, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("generate wallet seed: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	key := blake2b.Sum256([]byte(password))
	sealed := secretbox.Seal(nil, seed, &nonce, &key)

	buf := make([]byte, 0, len(fileMagic)+1+nonceSize+len(sealed))
	buf = append(buf, fileMagic...)
	buf = append(buf, formatVersion)
	buf = append(buf, nonce[:]...)
	buf = append(buf, sealed...)

	if err := os.WriteFile(path, buf, 0o600); err != nil {
		return nil, fmt.Errorf("write wallet file: %w", err)
	}

	return &Wallet{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// Load opens and unseals a wallet file.
func Load(path, password string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wallet file: %w", err)
	}

	header := len(fileMagic) + 1 + nonceSize
	if len(data) < header || string(data[:len(fileMagic)]) != string(fileMagic) {
		return nil, fmt.Errorf("%s is not a wallet file", path)
	}
	if v := data[len(fileMagic)]; v != formatVersion {
		return nil, fmt.Errorf("unsupported wallet format version %d", v)
	}

	var nonce [nonceSize]byte
	copy(nonce[:], data[len(fileMagic)+1:])

	key := blake2b.Sum256([]byte(password))
	seed, ok := secretbox.Open(nil, data[header:], &nonce, &key)
	if !ok {
		return nil, ErrBadPassword
	}
	if len(seed) != ed25519.SeedSize {
		return nil, errors.New("wallet seed has unexpected length")
	}

	return &Wallet{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// Sign signs message with the wallet key.
func (w *Wallet) Sign(message []byte) []byte {
	return ed25519.Sign(w.priv, message)
}

// PublicKey returns the wallet's public identifier.
func (w *Wallet) PublicKey() identity.Identifier {
	var id identity.Identifier
	copy(id[:], w.priv.Public().(ed25519.PublicKey))
	return id
}
