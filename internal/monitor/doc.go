// Package monitor runs check cycles: load persisted state, refresh the panel
// sites when due, probe the working set in batches, record the cycle and
// persist everything once at the end.
//
// A cycle is all-or-nothing with respect to persistence. Any write failure is
// returned to the caller and nothing else is written afterwards.
package monitor
