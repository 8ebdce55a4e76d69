// Package model defines the closed domain types shared across the
// reconciliation pipeline.
//
// Conventions:
//   - Amounts: unsigned fixed-point integers (see internal/money)
//   - Timestamps: uint64 TAI64 labels, derived at feed-decode time
//   - Identifiers: 32-byte derived public keys (see internal/identity)
package model
