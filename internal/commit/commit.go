// Package commit computes the content commitment (seed) of a transfer
// batch and binds it to a signature over batch kind, seed and payload.
//
// The seed is order-sensitive: transfer order within a batch is part of
// the committed content, so identical ordered lists always reproduce an
// identical seed and reordering changes it.
package commit

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/dusk-network/xsc-governance/internal/identity"
	"github.com/dusk-network/xsc-governance/internal/model"
)

// Kind tags the component of a batch being committed.
type Kind byte

const (
	KindTransfer Kind = 0x04
	KindFee      Kind = 0x05
)

func (k Kind) String() string {
	if k == KindFee {
		return "FEE"
	}
	return "TRANSFER"
}

// SeedSize is the width of a batch seed in bytes.
const SeedSize = 32

// Seed is the truncated content hash of a batch's canonical encoding.
type Seed [SeedSize]byte

// String returns the hex encoding of the seed.
func (s Seed) String() string {
	return hex.EncodeToString(s[:])
}

// fieldSize is the width of one encoded signing-field element.
const fieldSize = 32

// ErrEmptyBatch rejects commitment of a zero-length transfer list. An
// empty list is not a valid commit: such batches are never built, signed
// or submitted.
var ErrEmptyBatch = errors.New("empty transfer list is not a valid commit")

// Signer is the opaque signing collaborator. The signature scheme's
// internals are not this package's concern.
type Signer interface {
	Sign(message []byte) []byte
	PublicKey() identity.Identifier
}

// SignedBatch is the signed payload handed to submission.
type SignedBatch struct {
	Signature []byte
	Kind      Kind
	Seed      Seed
	Transfers []model.Transfer
}

// Build commits and signs one batch component.
func Build(kind Kind, transfers []model.Transfer, signer Signer) (SignedBatch, error) {
	if len(transfers) == 0 {
		return SignedBatch{}, fmt.Errorf("%s batch: %w", kind, ErrEmptyBatch)
	}

	seed := ComputeSeed(transfers)
	msg := SerializeScalars(Scalars(seed, kind, transfers))

	return SignedBatch{
		Signature: signer.Sign(msg),
		Kind:      kind,
		Seed:      seed,
		Transfers: transfers,
	}, nil
}

// ComputeSeed hashes the canonical encoding of the transfer list with
// BLAKE2b-256 and truncates the digest to the signing field's valid
// range by clearing the two highest bits of the last byte.
func ComputeSeed(transfers []model.Transfer) Seed {
	digest := blake2b.Sum256(EncodeTransfers(transfers))
	digest[SeedSize-1] &= 0x3f
	return Seed(digest)
}

// EncodeTransfers produces the canonical encoding the seed is computed
// over: a little-endian count followed by fixed-width transfer records.
// Absent from/to parties encode as all zeros, never as omission, so the
// representation is fixed-width regardless of transfer direction.
func EncodeTransfers(transfers []model.Transfer) []byte {
	const record = identity.Size*2 + 8 + 8

	buf := make([]byte, 8+record*len(transfers))
	binary.LittleEndian.PutUint64(buf, uint64(len(transfers)))

	off := 8
	for _, t := range transfers {
		if from, ok := t.From(); ok {
			copy(buf[off:], from.Bytes())
		}
		off += identity.Size
		if to, ok := t.To(); ok {
			copy(buf[off:], to.Bytes())
		}
		off += identity.Size
		binary.LittleEndian.PutUint64(buf[off:], t.Amount())
		off += 8
		binary.LittleEndian.PutUint64(buf[off:], t.Timestamp())
		off += 8
	}
	return buf
}

// Scalars builds the signing-field vector for a batch:
//
//	seed ++ kind ++ flat-map(transfer -> from, to, amount, timestamp)
//
// with each element encoded as one fixed-width field.
func Scalars(seed Seed, kind Kind, transfers []model.Transfer) [][fieldSize]byte {
	out := make([][fieldSize]byte, 0, 2+4*len(transfers))
	out = append(out, [fieldSize]byte(seed))
	out = append(out, fieldFromUint64(uint64(kind)))

	for _, t := range transfers {
		var from, to [fieldSize]byte
		if f, ok := t.From(); ok {
			copy(from[:], f.Bytes())
		}
		if tp, ok := t.To(); ok {
			copy(to[:], tp.Bytes())
		}
		out = append(out, from, to,
			fieldFromUint64(t.Amount()),
			fieldFromUint64(t.Timestamp()))
	}
	return out
}

// SerializeScalars flattens the field vector into the message handed to
// the signer.
func SerializeScalars(scalars [][fieldSize]byte) []byte {
	buf := make([]byte, 0, fieldSize*len(scalars))
	for _, s := range scalars {
		buf = append(buf, s[:]...)
	}
	return buf
}

func fieldFromUint64(v uint64) [fieldSize]byte {
	var f [fieldSize]byte
	binary.LittleEndian.PutUint64(f[:], v)
	return f
}
