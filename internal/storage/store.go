package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/angeloszaimis/site-monitor/internal/history"
	"github.com/angeloszaimis/site-monitor/internal/models"
	"github.com/angeloszaimis/site-monitor/internal/sources"
)

const (
	DefaultSitesFile   = "sites-config.json"
	DefaultHistoryFile = "status.json"
	DefaultStatusPage  = "index.html"
)

type Paths struct {
	Sites      string
	History    string
	StatusPage string
}

// Store reads and writes the persisted documents of one monitor instance.
type Store struct {
	paths  Paths
	seed   []models.Site
	limit  int
	logger *slog.Logger
}

// New creates a Store. seed is the manual list used when no site document
// exists yet; limit caps the loaded history.
func New(paths Paths, seed []models.Site, limit int, logger *slog.Logger) *Store {
	if paths.Sites == "" {
		paths.Sites = DefaultSitesFile
	}
	if paths.History == "" {
		paths.History = DefaultHistoryFile
	}
	if paths.StatusPage == "" {
		paths.StatusPage = DefaultStatusPage
	}

	return &Store{
		paths:  paths,
		seed:   append([]models.Site(nil), seed...),
		limit:  limit,
		logger: logger,
	}
}

func (s *Store) Paths() Paths {
	return s.paths
}

// LoadSites returns the persisted site-source state, or the seed list when the
// document is missing or corrupt.
func (s *Store) LoadSites() *sources.State {
	var doc SitesDocument
	if err := readJSON(s.paths.Sites, &doc); err != nil {
		s.logReadFailure("sites", s.paths.Sites, err)
		return &sources.State{Manual: append([]models.Site(nil), s.seed...)}
	}

	return &sources.State{
		Manual:   doc.ManualSites,
		External: doc.WHMSites,
		LastSync: doc.LastWHMSync,
	}
}

// SaveSites writes the site-source state stamped with now as its last update.
func (s *Store) SaveSites(state *sources.State, now time.Time) error {
	doc := SitesDocument{
		ManualSites: nonNil(state.Manual),
		WHMSites:    nonNil(state.External),
		LastWHMSync: state.LastSync,
		LastUpdate:  now,
	}

	if err := writeJSON(s.paths.Sites, doc); err != nil {
		return fmt.Errorf("save sites: %w", err)
	}
	return nil
}

// LoadHistory returns the persisted history, or an empty ledger when the
// document is missing or corrupt.
func (s *Store) LoadHistory() *history.Ledger {
	var doc HistoryDocument
	if err := readJSON(s.paths.History, &doc); err != nil {
		s.logReadFailure("history", s.paths.History, err)
		return history.New(nil, s.limit)
	}

	return history.New(doc.Checks, s.limit)
}

func (s *Store) SaveHistory(ledger *history.Ledger) error {
	doc := HistoryDocument{Checks: ledger.Checks()}

	if err := writeJSON(s.paths.History, doc); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// SaveStatusPage replaces the rendered status page.
func (s *Store) SaveStatusPage(page []byte) error {
	if err := writeFileAtomic(s.paths.StatusPage, page); err != nil {
		return fmt.Errorf("save status page: %w", err)
	}
	return nil
}

func (s *Store) logReadFailure(document, path string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("No persisted document, using defaults",
			slog.String("document", document),
			slog.String("path", path))
		return
	}

	s.logger.Warn("Discarding unreadable document",
		slog.String("document", document),
		slog.String("path", path),
		slog.Any("err", err))
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func nonNil(sites []models.Site) []models.Site {
	if sites == nil {
		return []models.Site{}
	}
	return sites
}
