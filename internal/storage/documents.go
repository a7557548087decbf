package storage

import (
	"time"

	"github.com/angeloszaimis/site-monitor/internal/models"
)

// SitesDocument is the on-disk shape of the site configuration.
type SitesDocument struct {
	ManualSites []models.Site `json:"manualSites"`
	WHMSites    []models.Site `json:"whmSites"`
	LastWHMSync *time.Time    `json:"lastWhmSync"`
	LastUpdate  time.Time     `json:"lastUpdate"`
}

// HistoryDocument is the on-disk shape of the check history, newest first.
type HistoryDocument struct {
	Checks []models.CheckCycle `json:"checks"`
}
