package monitor

import (
	"log/slog"

	"github.com/angeloszaimis/site-monitor/internal/models"
	"github.com/angeloszaimis/site-monitor/internal/sources"
)

// AddSite adds a manual site and persists the site document.
func (m *Monitor) AddSite(site models.Site) error {
	state := m.store.LoadSites()
	if err := state.AddManual(site); err != nil {
		return err
	}

	if err := m.store.SaveSites(state, m.now()); err != nil {
		return err
	}

	m.logger.Info("Manual site added", slog.String("name", site.Name), slog.String("url", site.URL))
	return nil
}

// RemoveSite removes a manual site by name and persists the site document.
func (m *Monitor) RemoveSite(name string) error {
	state := m.store.LoadSites()
	if err := state.RemoveManual(name); err != nil {
		return err
	}

	if err := m.store.SaveSites(state, m.now()); err != nil {
		return err
	}

	m.logger.Info("Manual site removed", slog.String("name", name))
	return nil
}

// Sites returns the persisted site-source state.
func (m *Monitor) Sites() *sources.State {
	return m.store.LoadSites()
}
