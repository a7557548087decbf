// Package metrics collects in-process monitoring metrics.
//
// Producers publish events on a buffered channel and a single goroutine folds
// them into the store:
//   - probe counts and online counts per site
//   - response latency with average, P50 and P95
//   - HTTP status code distribution and last reachability per site
//   - panel sync attempts, failures and skips
//   - completed check cycles
//
// Publishing never blocks: when the buffer is full the event is dropped and
// counted.
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//	collector.Publish(metrics.ProbeEvent(result))
//	snap := collector.Snapshot()
package metrics
