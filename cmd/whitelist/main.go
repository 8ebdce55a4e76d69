// Command whitelist maintains a security contract's address whitelist
// and reports trade activity from CSV import files.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dusk-network/xsc-governance/internal/config"
	"github.com/dusk-network/xsc-governance/internal/contract"
	"github.com/dusk-network/xsc-governance/internal/csvfeed"
	"github.com/dusk-network/xsc-governance/internal/gql"
	"github.com/dusk-network/xsc-governance/internal/model"
	"github.com/dusk-network/xsc-governance/internal/rusk"
	"github.com/dusk-network/xsc-governance/internal/settle"
	"github.com/dusk-network/xsc-governance/internal/wallet"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "configs/governance.yaml", "path to config file")
	profileDir := flag.String("profile", ".", "directory holding wallet.dat")
	securityName := flag.String("security", "Cash", "security contract to address")
	whitelistPath := flag.String("whitelist", "", "CSV file of whitelist mutations")
	activityPath := flag.String("activity", "", "CSV file of trade activity records")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if *whitelistPath == "" && *activityPath == "" {
		logger.Error("nothing to do: pass -whitelist and/or -activity")
		return 1
	}

	security, err := model.ParseSecurity(*securityName)
	if err != nil {
		logger.Error("invalid security", "error", err)
		return 1
	}
	if !security.Settleable() {
		logger.Error("security has no contract", "security", security)
		return 1
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		logger.Error("failed to load secrets", "error", err)
		return 1
	}

	w, err := wallet.Load(filepath.Join(*profileDir, wallet.FileName), secrets.Password)
	if err != nil {
		logger.Error("failed to load wallet", "error", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := rusk.NewClient(rusk.Config{
		NodeURL:     cfg.Node.RuskAddress,
		ProverURL:   cfg.Node.ProverAddress,
		DialTimeout: cfg.Node.DialTimeout,
	}, logger)
	if err := client.Connect(ctx); err != nil {
		logger.Error("failed to connect to node", "error", err)
		return 1
	}
	defer client.Close()

	confirmer := gql.New(cfg.Node.GraphQLAddress,
		gql.WithInterval(cfg.Confirmation.Interval),
		gql.WithLogger(logger),
	)

	gas := settle.Gas{Limit: cfg.Gas.Limit, Price: cfg.Gas.Price}

	if *whitelistPath != "" {
		entries, err := csvfeed.ParseWhitelistFile(*whitelistPath)
		if err != nil {
			logger.Error("failed to parse whitelist file", "error", err)
			return 1
		}
		call := contract.WhitelistCall{Caller: w.PublicKey(), Entries: entries}
		call.Signature = w.Sign(call.Message())

		if err := execute(ctx, client, confirmer, security, gas, call.Encode(), cfg); err != nil {
			logger.Error("whitelist call failed", "error", err)
			return 1
		}
		logger.Info("whitelist updated", "security", security, "entries", len(entries))
	}

	if *activityPath != "" {
		activities, err := csvfeed.ParseActivityFile(*activityPath)
		if err != nil {
			logger.Error("failed to parse activity file", "error", err)
			return 1
		}
		call := contract.ActivityCall{Caller: w.PublicKey(), Activities: activities}
		call.Signature = w.Sign(call.Message())

		if err := execute(ctx, client, confirmer, security, gas, call.Encode(), cfg); err != nil {
			logger.Error("activity call failed", "error", err)
			return 1
		}
		logger.Info("activity reported", "security", security, "records", len(activities))
	}

	return 0
}

// execute submits one contract call and waits for its confirmation.
func execute(ctx context.Context, client *rusk.Client, confirmer *gql.Client,
	security model.SecurityDefinition, gas settle.Gas, payload []byte, cfg *config.Config) error {

	txID, err := client.Execute(ctx, security.ContractID(), gas, payload)
	if err != nil {
		return err
	}
	slog.Info("call submitted", "tx_id", txID)

	waitCtx, cancel := context.WithTimeout(ctx, cfg.Confirmation.Timeout)
	defer cancel()
	return confirmer.WaitFor(waitCtx, txID)
}
