package model

import "fmt"

// SecurityDefinition is the closed enumeration of settleable securities.
// Each non-Cash, non-None variant maps 1:1 to a distinct on-chain contract
// through a fixed numeric code; adding a variant is an explicit migration
// of that table, never an implicit string fallback.
type SecurityDefinition int

const (
	// SecurityNone denotes "no security specified". It is only legal in
	// combination with Cash-typed changes, where it resolves to
	// SecurityCash before classification.
	SecurityNone SecurityDefinition = iota

	// SecurityCash is the cash pseudo-security.
	SecurityCash

	SecurityTSWE
	SecurityTRET
	SecurityTGBT
	SecurityTCBT
)

// securityCodes is the exhaustive mapping from security to its on-chain
// contract code. SecurityNone deliberately has no entry.
var securityCodes = map[SecurityDefinition]byte{
	SecurityCash: 0x01,
	SecurityTSWE: 0x02,
	SecurityTRET: 0x03,
	SecurityTGBT: 0x04,
	SecurityTCBT: 0x05,
}

var securityNames = map[SecurityDefinition]string{
	SecurityNone: "None",
	SecurityCash: "Cash",
	SecurityTSWE: "TSWE",
	SecurityTRET: "TRET",
	SecurityTGBT: "TGBT",
	SecurityTCBT: "TCBT",
}

// ParseSecurity maps a feed security symbol to its definition.
func ParseSecurity(s string) (SecurityDefinition, error) {
	for def, name := range securityNames {
		if name == s {
			return def, nil
		}
	}
	return SecurityNone, fmt.Errorf("unknown security %q", s)
}

// String returns the canonical symbol. The symbol is also the phrase the
// identity deriver hashes to obtain the security's settlement identifier.
func (s SecurityDefinition) String() string {
	if name, ok := securityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SecurityDefinition(%d)", int(s))
}

// ContractID returns the 32-byte on-chain contract identifier for the
// security. Calling it on SecurityNone is a programming error.
func (s SecurityDefinition) ContractID() [32]byte {
	code, ok := securityCodes[s]
	if !ok {
		panic("model: no contract for " + s.String())
	}

	var id [32]byte
	id[0] = code
	return id
}

// Settleable reports whether the security maps to an on-chain contract.
func (s SecurityDefinition) Settleable() bool {
	_, ok := securityCodes[s]
	return ok
}

// Code returns the fixed numeric contract code.
func (s SecurityDefinition) Code() byte {
	return s.ContractID()[0]
}
