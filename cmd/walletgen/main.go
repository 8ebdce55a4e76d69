// Command walletgen creates an encrypted wallet file and prints its
// public key. The wallet password is read from RUSK_WALLET_PWD.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dusk-network/xsc-governance/internal/config"
	"github.com/dusk-network/xsc-governance/internal/wallet"
)

func main() {
	os.Exit(run())
}

func run() int {
	profileDir := flag.String("profile", ".", "directory to create wallet.dat in")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	secrets, err := config.LoadSecrets()
	if err != nil {
		logger.Error("failed to load secrets", "error", err)
		return 1
	}

	path := filepath.Join(*profileDir, wallet.FileName)
	if _, err := os.Stat(path); err == nil {
		logger.Error("wallet already exists", "path", path)
		return 1
	}

	w, err := wallet.Create(path, secrets.Password)
	if err != nil {
		logger.Error("failed to create wallet", "error", err)
		return 1
	}

	logger.Info("wallet created", "path", path)
	fmt.Println(w.PublicKey())
	return 0
}
