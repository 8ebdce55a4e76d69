// Package money converts floating decimal amounts into unsigned
// fixed-point integers safe for hashing and on-chain arithmetic.
//
// Two normalization policies exist in the domain and are explicit rather
// than implicit: Micro scales by 1e6 for microunit precision comparable
// across prices and sizes; U32Max scales by 2^32-1 to use the full range
// of a 32-bit settlement field. Both truncate toward zero.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Policy selects a fixed-point scale.
type Policy int

const (
	// Micro scales by 1e6.
	Micro Policy = iota

	// U32Max scales by 2^32 - 1.
	U32Max
)

// ParsePolicy maps a config string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "micro":
		return Micro, nil
	case "u32max":
		return U32Max, nil
	}
	return 0, fmt.Errorf("unknown normalization policy %q", s)
}

func (p Policy) String() string {
	if p == Micro {
		return "micro"
	}
	return "u32max"
}

var (
	microScale  = decimal.NewFromInt(1_000_000)
	u32maxScale = decimal.NewFromInt(4_294_967_295)
)

// Normalize maps a non-negative magnitude to a fixed-point integer under
// the given policy. The caller strips the sign before calling; passing a
// negative magnitude is a contract violation, not a runtime condition.
func Normalize(x float64, p Policy) uint64 {
	scale := microScale
	if p == U32Max {
		scale = u32maxScale
	}
	d := decimal.NewFromFloat(x).Mul(scale).Truncate(0)
	return d.BigInt().Uint64()
}

// RenderMicro is the reporting inverse of Normalize under Micro: it maps
// the fixed-point value back to a float within 1e-6 relative tolerance.
func RenderMicro(v uint64) float64 {
	d := decimal.NewFromUint64(v).Div(microScale)
	f, _ := d.Float64()
	return f
}
