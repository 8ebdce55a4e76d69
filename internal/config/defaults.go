package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultGasLimit             = 500_000_000
	DefaultGasPrice             = 1
	DefaultFeedAccounts         = "all"
	DefaultFeedNormalization    = "u32max"
	DefaultDialTimeout          = 10 * time.Second
	DefaultConfirmationInterval = 2 * time.Second
	DefaultConfirmationTimeout  = 2 * time.Minute
	DefaultMetricsPort          = 9090
	DefaultMetricsPath          = "/metrics"
)

func (c *Config) applyDefaults() {
	if c.Gas.Limit == 0 {
		c.Gas.Limit = DefaultGasLimit
	}
	if c.Gas.Price == 0 {
		c.Gas.Price = DefaultGasPrice
	}

	if c.Feed.Accounts == "" {
		c.Feed.Accounts = DefaultFeedAccounts
	}
	if c.Feed.Normalization == "" {
		c.Feed.Normalization = DefaultFeedNormalization
	}

	if c.Node.DialTimeout == 0 {
		c.Node.DialTimeout = DefaultDialTimeout
	}

	if c.Confirmation.Interval == 0 {
		c.Confirmation.Interval = DefaultConfirmationInterval
	}
	if c.Confirmation.Timeout == 0 {
		c.Confirmation.Timeout = DefaultConfirmationTimeout
	}

	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
