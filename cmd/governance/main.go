// Command governance settles a brokerage event feed against the XSC
// governance contracts. It reads a JSON feed, classifies the events
// into per-security transfer batches, signs each batch and submits it
// to a rusk node, then waits for on-chain confirmation.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-network/xsc-governance/internal/classify"
	"github.com/dusk-network/xsc-governance/internal/config"
	"github.com/dusk-network/xsc-governance/internal/feed"
	"github.com/dusk-network/xsc-governance/internal/gql"
	"github.com/dusk-network/xsc-governance/internal/metrics"
	"github.com/dusk-network/xsc-governance/internal/rusk"
	"github.com/dusk-network/xsc-governance/internal/settle"
	"github.com/dusk-network/xsc-governance/internal/store"
	"github.com/dusk-network/xsc-governance/internal/version"
	"github.com/dusk-network/xsc-governance/internal/wallet"
)

// Exit codes. Partial failures are distinguished so operators can
// script re-runs.
const (
	exitOK = iota
	exitUsage
	exitMalformedFeed
	exitInconsistentSecurity
	exitBackendUnreachable
	exitRejected
	exitTimedOut
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "configs/governance.yaml", "path to config file")
	profileDir := flag.String("profile", ".", "directory holding wallet.dat")
	feedPath := flag.String("feed", "", "path to the JSON event feed")
	useNow := flag.Bool("now", false, "stamp all transfers with the current time instead of event occurrences")
	ledgerPath := flag.String("ledger", "", "run ledger database path (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return exitOK
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting governance",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	if *feedPath == "" {
		logger.Error("missing required -feed flag")
		return exitUsage
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return exitUsage
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		logger.Error("failed to load secrets", "error", err)
		return exitUsage
	}

	logger.Info("configuration loaded",
		"rusk", cfg.Node.RuskAddress,
		"accounts", cfg.Feed.Accounts,
		"normalization", cfg.Feed.Normalization,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Parse and classify before touching the network so feed problems
	// surface without a node running.
	accounts, err := feed.ParseFile(*feedPath, cfg.AccountPolicy())
	if err != nil {
		logger.Error("failed to parse feed", "error", err)
		return exitMalformedFeed
	}
	logger.Info("feed parsed", "accounts", len(accounts))

	opts := classify.Options{AmountPolicy: cfg.AmountPolicy()}
	if *useNow {
		now := feed.ToTAI64(time.Now())
		opts.TimestampOverride = &now
	}

	transfers, err := classify.Events(accounts, opts)
	if err != nil {
		var inconsistent *classify.InconsistencyError
		if errors.As(err, &inconsistent) {
			logger.Error("inconsistent security in feed", "error", err)
			return exitInconsistentSecurity
		}
		logger.Error("failed to classify events", "error", err)
		return exitMalformedFeed
	}
	logger.Info("events classified",
		"transfers", transfers.Len(),
		"securities", len(transfers.Securities()),
	)

	w, err := wallet.Load(filepath.Join(*profileDir, wallet.FileName), secrets.Password)
	if err != nil {
		logger.Error("failed to load wallet", "error", err)
		return exitUsage
	}
	logger.Info("wallet loaded", "public_key", w.PublicKey())

	client := rusk.NewClient(rusk.Config{
		NodeURL:     cfg.Node.RuskAddress,
		ProverURL:   cfg.Node.ProverAddress,
		DialTimeout: cfg.Node.DialTimeout,
	}, logger)

	confirmer := gql.New(cfg.Node.GraphQLAddress,
		gql.WithInterval(cfg.Confirmation.Interval),
		gql.WithLogger(logger),
	)

	pipelineOpts := []settle.Option{
		settle.WithLogger(logger),
		settle.WithConfirmTimeout(cfg.Confirmation.Timeout),
	}
	if *ledgerPath != "" {
		cfg.Ledger.Path = *ledgerPath
	}
	if cfg.Ledger.Path != "" {
		ledger, err := store.Open(cfg.Ledger.Path)
		if err != nil {
			logger.Error("failed to open ledger", "error", err)
			return exitUsage
		}
		defer ledger.Close()
		pipelineOpts = append(pipelineOpts, settle.WithJournal(ledger))
	}

	// Metrics are served for the duration of the run.
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting metrics server", "port", cfg.Metrics.Port)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	gas := settle.Gas{Limit: cfg.Gas.Limit, Price: cfg.Gas.Price}
	pipeline := settle.New(client, confirmer, w, gas, pipelineOpts...)

	summary, runErr := pipeline.Run(gctx, transfers)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	metricsServer.Shutdown(shutdownCtx)
	if err := g.Wait(); err != nil {
		logger.Error("metrics server error", "error", err)
	}

	if runErr != nil {
		if errors.Is(runErr, settle.ErrBackendUnreachable) {
			logger.Error("settlement backend unreachable", "error", runErr)
			return exitBackendUnreachable
		}
		logger.Error("settlement run failed", "error", runErr)
		return exitUsage
	}

	return report(logger, summary)
}

// report logs the per-batch outcomes and maps them to an exit code.
// Rejections take precedence over timeouts when both occur.
func report(logger *slog.Logger, summary settle.RunSummary) int {
	for _, res := range summary.Results {
		logger.Info("batch settled",
			"security", res.Security,
			"kind", res.Kind,
			"seed", res.Seed,
			"tx_id", res.TxID,
			"status", res.Status,
			"error", res.Err,
		)
	}

	rejected := summary.ByStatus(settle.StatusRejected)
	timedOut := summary.ByStatus(settle.StatusTimedOut)
	logger.Info("run complete",
		"confirmed", len(summary.ByStatus(settle.StatusConfirmed)),
		"rejected", len(rejected),
		"timed_out", len(timedOut),
	)

	switch {
	case len(rejected) > 0:
		return exitRejected
	case len(timedOut) > 0:
		return exitTimedOut
	}
	return exitOK
}
