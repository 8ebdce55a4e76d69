// Package contract serializes governance-contract call payloads into
// their fixed-width wire encodings.
//
// Every call starts with the caller's identifier and a signature over the
// operation body, followed by a one-byte operation identifier and the
// operation records. All integers are little-endian.
package contract

import (
	"github.com/dusk-network/xsc-governance/internal/commit"
	"github.com/dusk-network/xsc-governance/internal/model"
)

// Operation identifiers understood by the governance contract.
const (
	OpActivity  byte = 0x00
	OpWhitelist byte = 0x01
)

// TransferCall is the settlement payload for one committed batch.
type TransferCall struct {
	Signature []byte
	Seed      commit.Seed
	Kind      commit.Kind
	Transfers []model.Transfer
}

// Encode returns the wire payload: signature, seed, kind tag, then the
// canonical transfer encoding the seed was computed over.
func (c TransferCall) Encode() []byte {
	transfers := commit.EncodeTransfers(c.Transfers)

	buf := make([]byte, 0, len(c.Signature)+commit.SeedSize+1+len(transfers))
	buf = append(buf, c.Signature...)
	buf = append(buf, c.Seed[:]...)
	buf = append(buf, byte(c.Kind))
	buf = append(buf, transfers...)
	return buf
}
