// Package httpserver serves the monitor dashboard: the rendered status page,
// the latest cycle as JSON, the metrics snapshot and a liveness probe.
package httpserver
