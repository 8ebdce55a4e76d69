// Package config loads the pipeline configuration.
//
// Settings come from a YAML file with ${VAR} environment expansion;
// secrets (the wallet password) come from the environment only and never
// appear in the file. Configuration is constructed once at startup and
// passed into the pipeline; nothing reads the environment afterwards.
package config

import "time"

// Config is the root configuration for a governance run.
type Config struct {
	Node         NodeConfig         `yaml:"node"`
	Gas          GasConfig          `yaml:"gas"`
	Feed         FeedConfig         `yaml:"feed"`
	Confirmation ConfirmationConfig `yaml:"confirmation"`
	Ledger       LedgerConfig       `yaml:"ledger"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}

// NodeConfig holds the settlement backend addresses.
type NodeConfig struct {
	RuskAddress    string        `yaml:"rusk_address"`
	ProverAddress  string        `yaml:"prover_address"`
	GraphQLAddress string        `yaml:"graphql_address"`
	DialTimeout    time.Duration `yaml:"dial_timeout"`
}

// GasConfig holds gas parameters for contract execution.
type GasConfig struct {
	Limit uint64 `yaml:"limit"`
	Price uint64 `yaml:"price"`
}

// FeedConfig holds feed interpretation settings. Both are explicit,
// documented choices rather than hidden defaults.
type FeedConfig struct {
	// Accounts selects whether all accounts of a document settle or only
	// the first ("all" or "first").
	Accounts string `yaml:"accounts"`

	// Normalization selects the fixed-point scale for transfer amounts
	// ("micro" or "u32max").
	Normalization string `yaml:"normalization"`
}

// ConfirmationConfig holds transaction confirmation polling settings.
type ConfirmationConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LedgerConfig holds the local run-ledger database. An empty path
// disables journaling.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig holds the metrics endpoint served for the duration of a
// run.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// Secrets are environment-only settings.
type Secrets struct {
	// Password unlocks the wallet file.
	Password string `env:"RUSK_WALLET_PWD,notEmpty"`
}
