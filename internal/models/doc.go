// Package models defines the monitoring data model shared by the probe,
// the site sources, the history ledger and rendering: sites, check results,
// check cycles and working-set statistics. JSON tags follow the persisted
// document format.
package models
