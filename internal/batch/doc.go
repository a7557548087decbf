// Package batch runs probes over a working set under a fixed concurrency
// ceiling. The set is split into consecutive chunks of at most C sites; every
// probe of a chunk runs concurrently and the next chunk starts only after the
// whole chunk has resolved. Results keep the working-set order.
package batch
