package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angeloszaimis/site-monitor/internal/batch"
	"github.com/angeloszaimis/site-monitor/internal/circuitbreaker"
	"github.com/angeloszaimis/site-monitor/internal/history"
	"github.com/angeloszaimis/site-monitor/internal/metrics"
	"github.com/angeloszaimis/site-monitor/internal/models"
	"github.com/angeloszaimis/site-monitor/internal/render"
	"github.com/angeloszaimis/site-monitor/internal/sources"
)

// Store persists the state a cycle loads and writes.
type Store interface {
	LoadSites() *sources.State
	SaveSites(state *sources.State, now time.Time) error
	LoadHistory() *history.Ledger
	SaveHistory(ledger *history.Ledger) error
	SaveStatusPage(page []byte) error
}

// Refresher refreshes the external half of a site-source state.
type Refresher interface {
	Refresh(ctx context.Context, state *sources.State, now time.Time) (sources.RefreshResult, error)
}

// Report is the outcome of a completed cycle.
type Report struct {
	Cycle    models.CheckCycle
	Uptime   int
	LastSync *time.Time
}

// Input converts the report into rendering input.
func (r Report) Input(now time.Time) render.Input {
	cycle := r.Cycle
	return render.Input{
		Latest:   &cycle,
		Uptime:   r.Uptime,
		LastSync: r.LastSync,
		Now:      now,
	}
}

type Monitor struct {
	store       Store
	prober      batch.Prober
	refresher   Refresher
	policy      sources.SyncPolicy
	concurrency int
	breaker     *circuitbreaker.CircuitBreaker
	collector   *metrics.Collector
	out         io.Writer
	logger      *slog.Logger
	now         func() time.Time

	mutex  sync.RWMutex
	latest *Report
}

type Option func(*Monitor)

// WithBreaker guards the panel refresh with cb.
func WithBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(m *Monitor) {
		m.breaker = cb
	}
}

// WithCollector publishes probe, sync and cycle events to c.
func WithCollector(c *metrics.Collector) Option {
	return func(m *Monitor) {
		m.collector = c
	}
}

// WithOutput writes the console summary of every cycle to w.
func WithOutput(w io.Writer) Option {
	return func(m *Monitor) {
		m.out = w
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// New creates a Monitor. A nil refresher disables the panel refresh.
func New(store Store, prober batch.Prober, refresher Refresher, policy sources.SyncPolicy, concurrency int, logger *slog.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		store:       store,
		prober:      prober,
		refresher:   refresher,
		policy:      policy,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RunCycle executes one full check cycle.
func (m *Monitor) RunCycle(ctx context.Context) (*Report, error) {
	id := uuid.NewString()
	log := m.logger.With(slog.String("cycle", id))

	state := m.store.LoadSites()
	ledger := m.store.LoadHistory()

	m.syncIfDue(ctx, state, log)

	working := state.WorkingSet()
	log.Info("Checking sites",
		slog.Int("total", len(working)),
		slog.Int("manual", len(state.Manual)),
		slog.Int("external", len(state.External)))

	scheduler := batch.NewScheduler(m.prober, m.concurrency, func(completed, total int) {
		log.Info("Batch completed", slog.Int("checked", completed), slog.Int("total", total))
	})
	results := scheduler.Run(ctx, working)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cycle interrupted: %w", err)
	}

	for _, r := range results {
		m.publish(metrics.ProbeEvent(r))
	}

	cycle := models.CheckCycle{
		ID:         id,
		ObservedAt: m.now(),
		Results:    results,
		Stats:      history.Stats(working[:len(state.Manual)], working[len(state.Manual):]),
	}
	ledger.Record(cycle)

	report := &Report{
		Cycle:    cycle,
		Uptime:   ledger.Uptime(),
		LastSync: state.LastSync,
	}

	if err := m.persist(state, ledger, report); err != nil {
		log.Error("Cycle aborted", slog.Any("err", err))
		return nil, err
	}

	m.setLatest(report)
	m.publish(metrics.MetricEvent{Type: metrics.EventCycleCompleted, Timestamp: cycle.ObservedAt})

	log.Info("Cycle completed",
		slog.Int("online", cycle.Online()),
		slog.Int("offline", len(results)-cycle.Online()),
		slog.Int("uptime", report.Uptime))

	if m.out != nil {
		if err := render.Summary(m.out, report.Input(m.now())); err != nil {
			log.Warn("Failed to write summary", slog.Any("err", err))
		}
	}

	return report, nil
}

func (m *Monitor) syncIfDue(ctx context.Context, state *sources.State, log *slog.Logger) {
	if m.refresher == nil {
		log.Debug("External sync disabled")
		return
	}

	now := m.now()
	if !m.policy.Due(state.LastSync, now) {
		log.Debug("External sync not due", slog.Any("last_sync", state.LastSync))
		return
	}

	refresh := func() error {
		_, err := m.refresher.Refresh(ctx, state, now)
		return err
	}

	var err error
	if m.breaker != nil {
		err = m.breaker.Do(refresh)
	} else {
		err = refresh()
	}

	switch {
	case errors.Is(err, circuitbreaker.ErrOpen):
		m.publish(metrics.MetricEvent{Type: metrics.EventSyncSkipped, Timestamp: now})
		log.Warn("External sync skipped, panel breaker open")
	case err != nil:
		m.publish(metrics.MetricEvent{Type: metrics.EventSyncAttempted, Timestamp: now, Failed: true})
		log.Warn("External sync failed, keeping previous sites", slog.Any("err", err))
	default:
		m.publish(metrics.MetricEvent{Type: metrics.EventSyncAttempted, Timestamp: now})
	}
}

func (m *Monitor) persist(state *sources.State, ledger *history.Ledger, report *Report) error {
	if err := m.store.SaveHistory(ledger); err != nil {
		return err
	}
	if err := m.store.SaveSites(state, m.now()); err != nil {
		return err
	}

	page, err := render.StatusPageBytes(report.Input(m.now()))
	if err != nil {
		return err
	}
	return m.store.SaveStatusPage(page)
}

// Render rewrites the status page from persisted state without probing.
func (m *Monitor) Render() (*Report, error) {
	state := m.store.LoadSites()
	ledger := m.store.LoadHistory()

	in := render.Input{LastSync: state.LastSync, Now: m.now()}

	var report *Report
	if latest, ok := ledger.Latest(); ok {
		report = &Report{Cycle: latest, Uptime: ledger.Uptime(), LastSync: state.LastSync}
		in = report.Input(m.now())
	}

	page, err := render.StatusPageBytes(in)
	if err != nil {
		return nil, err
	}
	if err := m.store.SaveStatusPage(page); err != nil {
		return nil, err
	}

	if report != nil {
		m.setLatest(report)
	}
	return report, nil
}

// Watch runs a cycle immediately and then every interval until ctx is done.
// A failed cycle stops the loop with its error.
func (m *Monitor) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := m.RunCycle(ctx); err != nil && ctx.Err() == nil {
			return err
		}

		select {
		case <-ctx.Done():
			m.logger.Info("Watch stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Latest returns the report of the most recent cycle run or rendered by this
// monitor.
func (m *Monitor) Latest() (Report, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.latest == nil {
		return Report{}, false
	}
	return *m.latest, true
}

func (m *Monitor) setLatest(r *Report) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.latest = r
}

func (m *Monitor) publish(event metrics.MetricEvent) {
	if m.collector != nil {
		m.collector.Publish(event)
	}
}
