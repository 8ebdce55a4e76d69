// Package classify maps brokerage events onto transfer semantics.
//
// Classification is deterministic: given identical input and an identical
// timestamp override it produces bit-identical output across runs. It
// reads no clocks and uses no randomness; the single "use current time"
// override is resolved by the caller once at pipeline start.
package classify

import (
	"fmt"
	"math"

	"github.com/dusk-network/xsc-governance/internal/identity"
	"github.com/dusk-network/xsc-governance/internal/metrics"
	"github.com/dusk-network/xsc-governance/internal/model"
	"github.com/dusk-network/xsc-governance/internal/money"
)

// Options configures a classification pass.
type Options struct {
	// AmountPolicy selects the fixed-point scale for transfer amounts.
	AmountPolicy money.Policy

	// TimestampOverride, when non-nil, replaces every event occurrence.
	// It is a TAI64 label resolved once at startup.
	TimestampOverride *uint64
}

// InconsistencyError reports an event whose security/change pairing
// violates the cash-only-causes invariant. Classification is
// all-or-nothing: the error aborts the whole pass.
type InconsistencyError struct {
	Account  string
	Event    int
	Cause    model.Cause
	Security model.SecurityDefinition
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("inconsistent security: account %q event %d: cause %s with security %s",
		e.Account, e.Event, e.Cause, e.Security)
}

// Events runs one classification pass over all account event streams and
// returns the aggregated transfer map. Each event is classified exactly
// once; emissions keep event-stream order within each security's batch.
func Events(accounts []model.AccountEvents, opts Options) (*model.TransferMap, error) {
	m := model.NewTransferMap()

	for _, account := range accounts {
		from := identity.Derive([]byte(account.Account))

		for i, ev := range account.Events {
			metrics.EventsClassified.Inc()

			ts := ev.Occurrence
			if opts.TimestampOverride != nil {
				ts = *opts.TimestampOverride
			}

			for _, ch := range ev.Changes {
				if err := emit(m, account.Account, i, ev.Cause, ch, from, ts, opts.AmountPolicy); err != nil {
					return nil, err
				}
			}
		}
	}

	return m, nil
}

func emit(m *model.TransferMap, account string, event int, cause model.Cause,
	ch model.Change, from identity.Identifier, ts uint64, policy money.Policy) error {

	var sec model.SecurityDefinition
	switch ch.Type {
	case model.ChangeReservation:
		// Administrative entry, never settles.
		return nil
	case model.ChangeCash:
		sec = model.SecurityCash
	case model.ChangeSecurity:
		sec = ch.Security
		if sec == model.SecurityNone || sec == model.SecurityCash {
			return &InconsistencyError{Account: account, Event: event, Cause: cause, Security: sec}
		}
		if cause != model.CauseRebalance {
			// Deposit, Withdrawal and Fee are cash-only causes.
			return &InconsistencyError{Account: account, Event: event, Cause: cause, Security: sec}
		}
	}

	// The normalizer takes magnitudes; direction carries the sign.
	amount := money.Normalize(math.Abs(ch.Size), policy)

	switch cause {
	case model.CauseDeposit:
		insert(m, sec, model.Deposit(securityID(sec), amount, ts))
	case model.CauseWithdrawal:
		insert(m, sec, model.Withdrawal(from, amount, ts))
	case model.CauseFee:
		m.InsertFee(model.SecurityCash, model.Withdrawal(from, amount, ts))
		metrics.FeesEmitted.Inc()
	case model.CauseRebalance:
		if ch.Size < 0 {
			insert(m, sec, model.Withdrawal(from, amount, ts))
		} else {
			// Zero is non-negative: a deposit of zero is legal and inert.
			insert(m, sec, model.Deposit(securityID(sec), amount, ts))
		}
	}
	return nil
}

func insert(m *model.TransferMap, sec model.SecurityDefinition, t model.Transfer) {
	m.InsertTransfer(sec, t)
	metrics.TransfersEmitted.WithLabelValues(sec.String(), t.Direction().String()).Inc()
}

// securityID derives the settlement identifier of a security from its
// canonical symbol.
func securityID(sec model.SecurityDefinition) identity.Identifier {
	return identity.Derive([]byte(sec.String()))
}
