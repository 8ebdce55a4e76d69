package model

import (
	"fmt"
	"sort"

	"github.com/dusk-network/xsc-governance/internal/identity"
)

// Direction is the settlement direction of a Transfer.
type Direction int

const (
	// DirectionDeposit credits the counter-party (`to` is set).
	DirectionDeposit Direction = iota

	// DirectionWithdrawal debits the counter-party (`from` is set).
	DirectionWithdrawal
)

func (d Direction) String() string {
	if d == DirectionDeposit {
		return "deposit"
	}
	return "withdrawal"
}

// Transfer is one ledger movement: exactly one counter-party, an unsigned
// fixed-point amount and a TAI64 timestamp. The single-party invariant is
// enforced by construction: a Transfer is built only through Deposit or
// Withdrawal, so "both set" and "neither set" are unrepresentable.
type Transfer struct {
	direction Direction
	party     identity.Identifier
	amount    uint64
	timestamp uint64
}

// Deposit builds a transfer crediting to.
func Deposit(to identity.Identifier, amount, timestamp uint64) Transfer {
	return Transfer{
		direction: DirectionDeposit,
		party:     to,
		amount:    amount,
		timestamp: timestamp,
	}
}

// Withdrawal builds a transfer debiting from.
func Withdrawal(from identity.Identifier, amount, timestamp uint64) Transfer {
	return Transfer{
		direction: DirectionWithdrawal,
		party:     from,
		amount:    amount,
		timestamp: timestamp,
	}
}

// Direction returns the settlement direction.
func (t Transfer) Direction() Direction {
	return t.direction
}

// To returns the credited identifier, if the transfer is a deposit.
func (t Transfer) To() (identity.Identifier, bool) {
	if t.direction == DirectionDeposit {
		return t.party, true
	}
	return identity.Identifier{}, false
}

// From returns the debited identifier, if the transfer is a withdrawal.
func (t Transfer) From() (identity.Identifier, bool) {
	if t.direction == DirectionWithdrawal {
		return t.party, true
	}
	return identity.Identifier{}, false
}

// Amount returns the fixed-point amount.
func (t Transfer) Amount() uint64 {
	return t.amount
}

// Timestamp returns the TAI64 timestamp.
func (t Transfer) Timestamp() uint64 {
	return t.timestamp
}

func (t Transfer) String() string {
	return fmt.Sprintf("%s %d @%d %s", t.direction, t.amount, t.timestamp, t.party)
}

// TransferBatch is the ordered transfer and fee lists of one security.
// Order within each list is insertion order: downstream commitment hashing
// is order-sensitive and must reproduce across runs.
type TransferBatch struct {
	Transfers []Transfer
	Fees      []Transfer
}

// TransferMap aggregates transfer and fee emissions per security. It is
// created empty, populated in one pass over all account events, and
// consumed exactly once by the submission pipeline.
type TransferMap struct {
	batches  map[SecurityDefinition]*TransferBatch
	consumed bool
}

// NewTransferMap returns an empty map.
func NewTransferMap() *TransferMap {
	return &TransferMap{batches: make(map[SecurityDefinition]*TransferBatch)}
}

// InsertTransfer appends t to the security's transfer list, creating an
// empty batch on first reference.
func (m *TransferMap) InsertTransfer(sec SecurityDefinition, t Transfer) {
	b := m.batch(sec)
	b.Transfers = append(b.Transfers, t)
}

// InsertFee appends t to the security's fee list, creating an empty batch
// on first reference.
func (m *TransferMap) InsertFee(sec SecurityDefinition, t Transfer) {
	b := m.batch(sec)
	b.Fees = append(b.Fees, t)
}

func (m *TransferMap) batch(sec SecurityDefinition) *TransferBatch {
	if m.consumed {
		panic("model: insert into consumed TransferMap")
	}
	b, ok := m.batches[sec]
	if !ok {
		b = &TransferBatch{}
		m.batches[sec] = b
	}
	return b
}

// Len returns the number of securities with a batch.
func (m *TransferMap) Len() int {
	return len(m.batches)
}

// Securities returns the keyed securities ordered by contract code.
func (m *TransferMap) Securities() []SecurityDefinition {
	secs := make([]SecurityDefinition, 0, len(m.batches))
	for sec := range m.batches {
		secs = append(secs, sec)
	}
	sort.Slice(secs, func(i, j int) bool { return secs[i].Code() < secs[j].Code() })
	return secs
}

// IntoBatches consumes the map and yields the final batches. The map is
// single-pass: consuming it twice, or inserting after consumption, is a
// programming error and panics.
func (m *TransferMap) IntoBatches() map[SecurityDefinition]TransferBatch {
	if m.consumed {
		panic("model: TransferMap consumed twice")
	}
	m.consumed = true

	out := make(map[SecurityDefinition]TransferBatch, len(m.batches))
	for sec, b := range m.batches {
		out[sec] = *b
	}
	m.batches = nil
	return out
}
