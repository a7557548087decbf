package sources

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/angeloszaimis/site-monitor/internal/models"
)

var (
	ErrSiteExists   = errors.New("manual site already exists")
	ErrSiteNotFound = errors.New("manual site not found")
)

// State is the site-source state of one run. Manual entries persist until an
// operator removes them; External is replaced wholesale by a refresh.
type State struct {
	Manual   []models.Site
	External []models.Site
	LastSync *time.Time
}

// WorkingSet returns manual entries followed by external entries. Sites with
// the same URL in both lists are kept twice.
func (s *State) WorkingSet() []models.Site {
	set := make([]models.Site, 0, len(s.Manual)+len(s.External))
	for _, site := range s.Manual {
		set = append(set, site.WithManualDefaults())
	}
	return append(set, s.External...)
}

// AddManual validates and appends a manual site. Names are unique within the
// manual list.
func (s *State) AddManual(site models.Site) error {
	if err := site.Validate(); err != nil {
		return fmt.Errorf("invalid site: %w", err)
	}

	if slices.ContainsFunc(s.Manual, func(m models.Site) bool { return m.Name == site.Name }) {
		return fmt.Errorf("%w: %s", ErrSiteExists, site.Name)
	}

	s.Manual = append(s.Manual, site.WithManualDefaults())
	return nil
}

// RemoveManual drops every manual site with the given name.
func (s *State) RemoveManual(name string) error {
	before := len(s.Manual)
	s.Manual = slices.DeleteFunc(s.Manual, func(m models.Site) bool { return m.Name == name })

	if len(s.Manual) == before {
		return fmt.Errorf("%w: %s", ErrSiteNotFound, name)
	}
	return nil
}
