package model

import "fmt"

// Cause classifies why a brokerage event happened. It governs how the
// event's changes map onto transfer semantics.
type Cause int

const (
	CauseDeposit Cause = iota
	CauseWithdrawal
	CauseRebalance
	CauseFee
)

// ParseCause maps a feed cause string to its variant.
func ParseCause(s string) (Cause, error) {
	switch s {
	case "Deposit":
		return CauseDeposit, nil
	case "Withdrawal":
		return CauseWithdrawal, nil
	case "Rebalance":
		return CauseRebalance, nil
	case "Fee":
		return CauseFee, nil
	}
	return 0, fmt.Errorf("unknown cause %q", s)
}

func (c Cause) String() string {
	switch c {
	case CauseDeposit:
		return "Deposit"
	case CauseWithdrawal:
		return "Withdrawal"
	case CauseRebalance:
		return "Rebalance"
	case CauseFee:
		return "Fee"
	}
	return fmt.Sprintf("Cause(%d)", int(c))
}

// ChangeType distinguishes the kinds of per-security changes an event
// carries.
type ChangeType int

const (
	// ChangeCash is a cash movement; the change's security resolves to
	// SecurityCash regardless of the declared symbol.
	ChangeCash ChangeType = iota

	// ChangeSecurity is a movement in a named security.
	ChangeSecurity

	// ChangeReservation is an administrative entry. Reservations are
	// discarded before classification and never settle.
	ChangeReservation
)

// ParseChangeType maps a feed change-type string to its variant.
func ParseChangeType(s string) (ChangeType, error) {
	switch s {
	case "Cash":
		return ChangeCash, nil
	case "Security":
		return ChangeSecurity, nil
	case "Reservation":
		return ChangeReservation, nil
	}
	return 0, fmt.Errorf("unknown change type %q", s)
}

func (c ChangeType) String() string {
	switch c {
	case ChangeCash:
		return "Cash"
	case ChangeSecurity:
		return "Security"
	case ChangeReservation:
		return "Reservation"
	}
	return fmt.Sprintf("ChangeType(%d)", int(c))
}

// Change is a single position delta within an event. Size is signed; for
// Rebalance events the sign encodes direction.
type Change struct {
	Type     ChangeType
	Security SecurityDefinition
	Size     float64
	Price    float64
}

// Event is one brokerage event: a cause, a monotonic logical timestamp
// (TAI64 label) and an ordered list of changes.
type Event struct {
	Cause      Cause
	Occurrence uint64
	Changes    []Change
}

// AccountEvents holds the ordered event stream of one source account.
// The account name is opaque identifying bytes.
type AccountEvents struct {
	Account string
	Events  []Event
}
