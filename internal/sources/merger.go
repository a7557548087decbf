package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/angeloszaimis/site-monitor/internal/models"
	"github.com/angeloszaimis/site-monitor/internal/whm"
)

var ErrSyncDisabled = errors.New("external sync disabled")

// DefaultExcludePatterns skips panel infrastructure hostnames.
var DefaultExcludePatterns = []string{"cpanel.", "webmail.", "mail.", "ftp.", "autodiscover."}

// Fetcher returns the raw domain records of the hosting panel.
type Fetcher interface {
	FetchDomainRecords(ctx context.Context) (*whm.DomainInfo, error)
}

// Filters select which panel records become sites.
type Filters struct {
	ExcludeSuspended    bool
	ExcludeSubdomains   bool
	ExcludeAddonDomains bool
	OnlyMainDomains     bool
	ExcludePatterns     []string
}

// DefaultFilters mirrors the default configuration.
func DefaultFilters() Filters {
	return Filters{
		ExcludeSuspended: true,
		ExcludePatterns:  append([]string(nil), DefaultExcludePatterns...),
	}
}

// Allow reports whether a record survives every filter.
func (f Filters) Allow(rec whm.DomainRecord) bool {
	if f.ExcludeSuspended && rec.Status != whm.StatusActive {
		return false
	}

	if f.OnlyMainDomains && rec.Type != whm.TypeMain {
		return false
	}
	if f.ExcludeSubdomains && rec.Type == whm.TypeSubdomain {
		return false
	}
	if f.ExcludeAddonDomains && rec.Type == whm.TypeAddon {
		return false
	}

	name := strings.ToLower(rec.Domain)
	for _, pattern := range f.ExcludePatterns {
		if pattern == "" {
			continue
		}
		if strings.Contains(name, strings.ToLower(pattern)) {
			return false
		}
	}

	return true
}

// Apply keeps the records that pass the filters, in order.
func (f Filters) Apply(records []whm.DomainRecord) []whm.DomainRecord {
	kept := make([]whm.DomainRecord, 0, len(records))
	for _, rec := range records {
		if f.Allow(rec) {
			kept = append(kept, rec)
		}
	}
	return kept
}

// SiteFromRecord maps a panel record to a whm-category site.
func SiteFromRecord(rec whm.DomainRecord) models.Site {
	return models.Site{
		Name:     rec.Domain,
		URL:      "https://" + rec.Domain,
		Category: models.CategoryWHM,
		Priority: models.PriorityNormal,
		Origin: &models.OriginInfo{
			Type:     string(rec.Type),
			Username: rec.Username,
			Status:   rec.Status,
		},
	}
}

// RefreshResult describes one external refresh.
type RefreshResult struct {
	Fetched  int
	Kept     int
	Retained bool
}

// Merger refreshes the external half of a State from the panel.
type Merger struct {
	fetcher Fetcher
	filters Filters
	logger  *slog.Logger
}

// NewMerger creates a Merger. A nil fetcher disables refreshing.
func NewMerger(fetcher Fetcher, filters Filters, logger *slog.Logger) *Merger {
	return &Merger{
		fetcher: fetcher,
		filters: filters,
		logger:  logger,
	}
}

// Refresh replaces state.External with the filtered panel records and stamps
// state.LastSync. When nothing survives the filters the previous list is kept
// and only the timestamp advances. On error the state is left untouched.
func (m *Merger) Refresh(ctx context.Context, state *State, now time.Time) (RefreshResult, error) {
	if m.fetcher == nil {
		return RefreshResult{}, ErrSyncDisabled
	}

	info, err := m.fetcher.FetchDomainRecords(ctx)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("refresh external sites: %w", err)
	}
	if info == nil {
		info = &whm.DomainInfo{}
	}

	kept := m.filters.Apply(info.Domains)
	result := RefreshResult{Fetched: len(info.Domains), Kept: len(kept)}

	synced := now
	state.LastSync = &synced

	if len(kept) == 0 {
		result.Retained = true
		m.logger.Warn("External refresh produced no sites, keeping previous list",
			slog.Int("fetched", result.Fetched),
			slog.Int("previous", len(state.External)))
		return result, nil
	}

	sites := make([]models.Site, 0, len(kept))
	for _, rec := range kept {
		sites = append(sites, SiteFromRecord(rec))
	}
	state.External = sites

	m.logger.Info("External sites synchronized",
		slog.Int("fetched", result.Fetched),
		slog.Int("kept", result.Kept),
		slog.Int("accounts", len(info.Accounts)))

	return result, nil
}
