package sources

import "time"

const DefaultSyncInterval = time.Hour

// SyncPolicy decides whether the external list must be refreshed.
type SyncPolicy struct {
	Interval time.Duration
}

// Due reports whether a refresh is needed: never synced, or more than
// Interval elapsed since the last successful sync.
func (p SyncPolicy) Due(lastSync *time.Time, now time.Time) bool {
	if lastSync == nil {
		return true
	}

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	return now.Sub(*lastSync) > interval
}
