package history

import (
	"math"

	"github.com/angeloszaimis/site-monitor/internal/models"
)

const DefaultLimit = 100

// Ledger is an append-only, capped sequence of check cycles, newest first.
type Ledger struct {
	checks []models.CheckCycle
	limit  int
}

// New creates a Ledger seeded with checks (newest first). Seeds beyond the
// limit are dropped from the tail.
func New(checks []models.CheckCycle, limit int) *Ledger {
	if limit < 1 {
		limit = DefaultLimit
	}

	l := &Ledger{limit: limit}
	l.checks = append(l.checks, checks...)
	l.trim()
	return l
}

// Record inserts cycle at the front and evicts the oldest entries past the cap.
func (l *Ledger) Record(cycle models.CheckCycle) {
	l.checks = append([]models.CheckCycle{cycle}, l.checks...)
	l.trim()
}

// Checks returns a copy of the retained cycles, newest first.
func (l *Ledger) Checks() []models.CheckCycle {
	out := make([]models.CheckCycle, len(l.checks))
	copy(out, l.checks)
	return out
}

// Latest returns the newest cycle, if any.
func (l *Ledger) Latest() (models.CheckCycle, bool) {
	if len(l.checks) == 0 {
		return models.CheckCycle{}, false
	}
	return l.checks[0], true
}

// Len returns the number of retained cycles.
func (l *Ledger) Len() int {
	return len(l.checks)
}

// Uptime is the percentage of reachable results across every retained cycle,
// rounded to the nearest integer. It is 0 when nothing was recorded.
func (l *Ledger) Uptime() int {
	var total, online int
	for _, cycle := range l.checks {
		total += len(cycle.Results)
		online += cycle.Online()
	}

	if total == 0 {
		return 0
	}

	return int(math.Round(float64(online) / float64(total) * 100))
}

func (l *Ledger) trim() {
	if len(l.checks) > l.limit {
		l.checks = l.checks[:l.limit]
	}
}
