package contract

import (
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/dusk-network/xsc-governance/internal/identity"
)

// AddressSize is the width of an on-chain account address.
const AddressSize = 64

// Address is a raw on-chain account address, supplied base58-encoded in
// import files.
type Address [AddressSize]byte

// ParseAddress decodes a base58 address string.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw, err := base58.Decode(s)
	if err != nil {
		return a, fmt.Errorf("decode base58 address %q: %w", s, err)
	}
	if len(raw) != AddressSize {
		return a, fmt.Errorf("address %q decodes to %d bytes, want %d", s, len(raw), AddressSize)
	}
	copy(a[:], raw)
	return a, nil
}

// String returns the base58 encoding of the address.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// WhitelistOp selects a whitelist mutation.
type WhitelistOp byte

const (
	WhitelistAdd WhitelistOp = iota
	WhitelistRemove
)

func (op WhitelistOp) String() string {
	if op == WhitelistRemove {
		return "remove"
	}
	return "add"
}

// WhitelistEntry is one address mutation.
type WhitelistEntry struct {
	Op      WhitelistOp
	Address Address
}

const whitelistRecordSize = 1 + AddressSize

// WhitelistCall mutates the contract's address whitelist.
type WhitelistCall struct {
	Caller    identity.Identifier
	Signature []byte
	Entries   []WhitelistEntry
}

// Message returns the bytes the caller signs: operation identifier,
// entry count and the entry records.
func (c WhitelistCall) Message() []byte {
	buf := make([]byte, 0, 1+8+whitelistRecordSize*len(c.Entries))
	buf = append(buf, OpWhitelist)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(c.Entries)))
	for _, e := range c.Entries {
		buf = append(buf, byte(e.Op))
		buf = append(buf, e.Address[:]...)
	}
	return buf
}

// Encode returns the wire payload: caller, signature, then the signed
// message body.
func (c WhitelistCall) Encode() []byte {
	msg := c.Message()

	buf := make([]byte, 0, identity.Size+len(c.Signature)+len(msg))
	buf = append(buf, c.Caller.Bytes()...)
	buf = append(buf, c.Signature...)
	buf = append(buf, msg...)
	return buf
}
