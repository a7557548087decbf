// Package history keeps the rolling, newest-first log of check cycles and
// derives aggregates from it.
package history
