package config

import (
	"errors"
	"fmt"

	"github.com/dusk-network/xsc-governance/internal/feed"
	"github.com/dusk-network/xsc-governance/internal/money"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Node.RuskAddress == "" {
		return errors.New("node.rusk_address is required")
	}
	if c.Node.ProverAddress == "" {
		return errors.New("node.prover_address is required")
	}
	if c.Node.GraphQLAddress == "" {
		return errors.New("node.graphql_address is required")
	}

	if c.Gas.Limit < 1 {
		return errors.New("gas.limit must be >= 1")
	}

	if _, err := feed.ParseAccountPolicy(c.Feed.Accounts); err != nil {
		return fmt.Errorf("feed.accounts: %w", err)
	}
	if _, err := money.ParsePolicy(c.Feed.Normalization); err != nil {
		return fmt.Errorf("feed.normalization: %w", err)
	}

	if c.Confirmation.Interval <= 0 {
		return errors.New("confirmation.interval must be positive")
	}
	if c.Confirmation.Timeout <= 0 {
		return errors.New("confirmation.timeout must be positive")
	}
	if c.Confirmation.Timeout < c.Confirmation.Interval {
		return errors.New("confirmation.timeout cannot be shorter than confirmation.interval")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

// AccountPolicy returns the parsed feed account policy. Call after
// Validate.
func (c *Config) AccountPolicy() feed.AccountPolicy {
	p, _ := feed.ParseAccountPolicy(c.Feed.Accounts)
	return p
}

// AmountPolicy returns the parsed amount normalization policy. Call
// after Validate.
func (c *Config) AmountPolicy() money.Policy {
	p, _ := money.ParsePolicy(c.Feed.Normalization)
	return p
}
