package render

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/angeloszaimis/site-monitor/internal/models"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// Input is everything a rendering needs. Latest is nil when no cycle has
// completed yet.
type Input struct {
	Latest   *models.CheckCycle
	Uptime   int
	LastSync *time.Time
	Now      time.Time
}

func (in Input) lastSyncText() string {
	if in.LastSync == nil {
		return "Never"
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	return in.LastSync.Format(timeLayout) + " (" + humanize.RelTime(*in.LastSync, now, "ago", "from now") + ")"
}
