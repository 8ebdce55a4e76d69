// Package metrics provides Prometheus metrics for monitoring a run.
//
// Key metrics:
//   - Events classified and transfer/fee emissions
//   - Batch submissions by kind and outcome
//   - Confirmation wait latency
package metrics
