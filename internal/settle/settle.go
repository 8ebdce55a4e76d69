// Package settle drives signed batches to the settlement backend and
// awaits confirmation.
//
// The pipeline is single-threaded and sequential: batches are fully
// built before any submission begins, one submission is in flight at a
// time, and the confirmation wait blocks before the next batch is
// attempted. There is no cross-security atomicity: each security's batch
// commits to an independent destination, so one security's failure never
// rolls back another's success.
package settle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dusk-network/xsc-governance/internal/commit"
	"github.com/dusk-network/xsc-governance/internal/contract"
	"github.com/dusk-network/xsc-governance/internal/metrics"
	"github.com/dusk-network/xsc-governance/internal/model"
)

// Gas bounds the cost of one contract execution.
type Gas struct {
	Limit uint64
	Price uint64
}

// Backend is the settlement backend collaborator. Retry, if any, is the
// transport's concern, not the pipeline's.
type Backend interface {
	Connect(ctx context.Context) error
	Execute(ctx context.Context, contractID [32]byte, gas Gas, payload []byte) (txID string, err error)
	IsOnline(ctx context.Context) bool
	Close() error
}

// Confirmer is the confirmation collaborator: WaitFor suspends until the
// transaction is confirmed, fails, or ctx expires.
type Confirmer interface {
	WaitFor(ctx context.Context, txID string) error
}

// Journal records batch outcomes for the run summary and out-of-band
// resumption. A nil journal disables recording.
type Journal interface {
	Record(ctx context.Context, res BatchResult) error
}

// ErrBackendUnreachable marks a failure to establish the backend
// connection. It is fatal: no batches are attempted.
var ErrBackendUnreachable = errors.New("settlement backend unreachable")

// BatchStatus is the terminal outcome of one batch submission.
type BatchStatus int

const (
	// StatusConfirmed: the batch was accepted and confirmed.
	StatusConfirmed BatchStatus = iota

	// StatusRejected: the backend refused the batch.
	StatusRejected

	// StatusTimedOut: the confirmation wait exceeded its deadline. The
	// transaction may still land out-of-band; this is deliberately not
	// conflated with rejection.
	StatusTimedOut
)

func (s BatchStatus) String() string {
	switch s {
	case StatusConfirmed:
		return "confirmed"
	case StatusRejected:
		return "rejected"
	case StatusTimedOut:
		return "timed_out"
	}
	return fmt.Sprintf("BatchStatus(%d)", int(s))
}

// BatchResult is the outcome of one per-security batch submission, with
// enough context to resume a failed security by hand.
type BatchResult struct {
	Security model.SecurityDefinition
	Kind     commit.Kind
	Seed     commit.Seed
	TxID     string
	Status   BatchStatus
	Err      error
}

// RunSummary collects every batch outcome of a run.
type RunSummary struct {
	Results []BatchResult
}

// ByStatus returns the results with the given status.
func (s RunSummary) ByStatus(status BatchStatus) []BatchResult {
	var out []BatchResult
	for _, r := range s.Results {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// AllConfirmed reports whether every submitted batch confirmed.
func (s RunSummary) AllConfirmed() bool {
	for _, r := range s.Results {
		if r.Status != StatusConfirmed {
			return false
		}
	}
	return true
}

// Pipeline submits committed batches per security.
type Pipeline struct {
	backend   Backend
	confirmer Confirmer
	signer    commit.Signer
	gas       Gas

	confirmTimeout time.Duration
	journal        Journal
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithJournal records batch outcomes to j.
func WithJournal(j Journal) Option {
	return func(p *Pipeline) {
		p.journal = j
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithConfirmTimeout caps the per-batch confirmation wait.
func WithConfirmTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.confirmTimeout = d
	}
}

// New creates a Pipeline.
func New(backend Backend, confirmer Confirmer, signer commit.Signer, gas Gas, opts ...Option) *Pipeline {
	p := &Pipeline{
		backend:        backend,
		confirmer:      confirmer,
		signer:         signer,
		gas:            gas,
		confirmTimeout: 2 * time.Minute,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run consumes the transfer map and submits every non-empty batch
// component, blocking on confirmation between batches. Submission and
// confirmation failures are scoped to the security being processed and
// collected into the summary; only a failed connection is fatal.
func (p *Pipeline) Run(ctx context.Context, m *model.TransferMap) (RunSummary, error) {
	securities := m.Securities()
	batches := m.IntoBatches()

	if err := p.backend.Connect(ctx); err != nil {
		return RunSummary{}, fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}
	defer p.backend.Close()

	if !p.backend.IsOnline(ctx) {
		return RunSummary{}, fmt.Errorf("%w: backend reports offline", ErrBackendUnreachable)
	}
	p.logger.Info("backend connected", "securities", len(securities))

	var summary RunSummary
	for _, sec := range securities {
		batch := batches[sec]

		// Zero-length components never reach the commitment step.
		if len(batch.Transfers) > 0 {
			res := p.submit(ctx, sec, commit.KindTransfer, batch.Transfers)
			summary.Results = append(summary.Results, res)
		}
		if len(batch.Fees) > 0 {
			res := p.submit(ctx, sec, commit.KindFee, batch.Fees)
			summary.Results = append(summary.Results, res)
		}
	}

	return summary, nil
}

func (p *Pipeline) submit(ctx context.Context, sec model.SecurityDefinition, kind commit.Kind, transfers []model.Transfer) BatchResult {
	res := BatchResult{Security: sec, Kind: kind}

	batch, err := commit.Build(kind, transfers, p.signer)
	if err != nil {
		res.Status, res.Err = StatusRejected, err
		return p.record(ctx, res)
	}
	res.Seed = batch.Seed

	payload := contract.TransferCall{
		Signature: batch.Signature,
		Seed:      batch.Seed,
		Kind:      batch.Kind,
		Transfers: batch.Transfers,
	}.Encode()

	p.logger.Info("submitting batch",
		"security", sec.String(),
		"kind", kind.String(),
		"transfers", len(transfers),
		"seed", batch.Seed.String(),
	)

	txID, err := p.backend.Execute(ctx, sec.ContractID(), p.gas, payload)
	if err != nil {
		p.logger.Error("batch rejected", "security", sec.String(), "kind", kind.String(), "error", err)
		metrics.BatchesSubmitted.WithLabelValues(kind.String(), StatusRejected.String()).Inc()
		res.Status, res.Err = StatusRejected, err
		return p.record(ctx, res)
	}
	res.TxID = txID

	waitStart := time.Now()
	waitCtx, cancel := context.WithTimeout(ctx, p.confirmTimeout)
	err = p.confirmer.WaitFor(waitCtx, txID)
	cancel()
	metrics.ConfirmationSeconds.Observe(time.Since(waitStart).Seconds())

	switch {
	case err == nil:
		p.logger.Info("batch confirmed", "security", sec.String(), "kind", kind.String(), "tx", txID)
		res.Status = StatusConfirmed
	case errors.Is(err, context.DeadlineExceeded):
		// Not a rejection: the transaction may still land later.
		p.logger.Warn("confirmation timed out", "security", sec.String(), "kind", kind.String(), "tx", txID)
		res.Status = StatusTimedOut
		res.Err = fmt.Errorf("confirmation of %s timed out after %s: %w", txID, p.confirmTimeout, err)
	default:
		p.logger.Error("confirmation failed", "security", sec.String(), "kind", kind.String(), "tx", txID, "error", err)
		res.Status = StatusRejected
		res.Err = err
	}
	metrics.BatchesSubmitted.WithLabelValues(kind.String(), res.Status.String()).Inc()

	return p.record(ctx, res)
}

func (p *Pipeline) record(ctx context.Context, res BatchResult) BatchResult {
	if p.journal == nil {
		return res
	}
	// Journaling is best-effort; the batch outcome stands either way.
	if err := p.journal.Record(ctx, res); err != nil {
		p.logger.Warn("journal write failed", "security", res.Security.String(), "error", err)
	}
	return res
}
