package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dusk-network/xsc-governance/internal/feed"
	"github.com/dusk-network/xsc-governance/internal/money"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
node:
  rusk_address: tcp://rusk.test:10000
  prover_address: tcp://prover.test:10001
  graphql_address: http://gql.test:9500
gas:
  limit: 700000000
  price: 2
feed:
  accounts: first
  normalization: micro
confirmation:
  interval: 1s
  timeout: 30s
`

func TestLoad(t *testing.T) {
	path := writeTempFile(t, validYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Node.RuskAddress != "tcp://rusk.test:10000" {
		t.Errorf("RuskAddress = %q", cfg.Node.RuskAddress)
	}
	if cfg.Gas.Limit != 700000000 {
		t.Errorf("Gas.Limit = %d, want 700000000", cfg.Gas.Limit)
	}
	if cfg.Confirmation.Interval != time.Second {
		t.Errorf("Confirmation.Interval = %v, want 1s", cfg.Confirmation.Interval)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_RUSK_ADDR", "tcp://from-env:10000")

	yaml := `
node:
  rusk_address: ${TEST_RUSK_ADDR}
  prover_address: tcp://prover.test:10001
  graphql_address: http://gql.test:9500
`
	cfg, err := Load(writeTempFile(t, yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Node.RuskAddress != "tcp://from-env:10000" {
		t.Errorf("RuskAddress = %q, want env value", cfg.Node.RuskAddress)
	}
}

func TestLoadAndValidateDefaults(t *testing.T) {
	yaml := `
node:
  rusk_address: tcp://rusk.test:10000
  prover_address: tcp://prover.test:10001
  graphql_address: http://gql.test:9500
`
	cfg, err := LoadAndValidate(writeTempFile(t, yaml))
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}

	if cfg.Gas.Limit != DefaultGasLimit {
		t.Errorf("Gas.Limit = %d, want default %d", cfg.Gas.Limit, uint64(DefaultGasLimit))
	}
	if cfg.AccountPolicy() != feed.AllAccounts {
		t.Errorf("AccountPolicy = %v, want all", cfg.AccountPolicy())
	}
	if cfg.AmountPolicy() != money.U32Max {
		t.Errorf("AmountPolicy = %v, want u32max", cfg.AmountPolicy())
	}
	if cfg.Confirmation.Timeout != DefaultConfirmationTimeout {
		t.Errorf("Confirmation.Timeout = %v, want default", cfg.Confirmation.Timeout)
	}
	if cfg.Metrics.Port != DefaultMetricsPort {
		t.Errorf("Metrics.Port = %d, want default", cfg.Metrics.Port)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing rusk address", func(c *Config) { c.Node.RuskAddress = "" }},
		{"missing prover address", func(c *Config) { c.Node.ProverAddress = "" }},
		{"missing graphql address", func(c *Config) { c.Node.GraphQLAddress = "" }},
		{"bad account policy", func(c *Config) { c.Feed.Accounts = "some" }},
		{"bad normalization", func(c *Config) { c.Feed.Normalization = "1e6" }},
		{"timeout below interval", func(c *Config) {
			c.Confirmation.Interval = time.Minute
			c.Confirmation.Timeout = time.Second
		}},
		{"bad metrics port", func(c *Config) { c.Metrics.Port = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeTempFile(t, validYAML))
			if err != nil {
				t.Fatal(err)
			}
			cfg.applyDefaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted invalid config")
			}
		})
	}
}

func TestLoadSecrets(t *testing.T) {
	t.Setenv("RUSK_WALLET_PWD", "hunter2")

	s, err := LoadSecrets()
	if err != nil {
		t.Fatalf("LoadSecrets failed: %v", err)
	}
	if s.Password != "hunter2" {
		t.Errorf("Password = %q, want hunter2", s.Password)
	}
}

func TestLoadSecretsMissing(t *testing.T) {
	t.Setenv("RUSK_WALLET_PWD", "")

	if _, err := LoadSecrets(); err == nil {
		t.Error("LoadSecrets accepted empty password")
	}
}
