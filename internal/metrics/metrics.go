package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxLatencySamples = 1000

type Metrics struct {
	mutex       sync.RWMutex
	probes      map[string]int64
	online      map[string]int64
	latencies   map[string][]time.Duration
	statusCodes map[string]map[int]int64
	reachable   map[string]bool
	syncStats   SyncMetrics
	cycles      int64
	lastCycle   time.Time
	dropped     int64
	startTime   time.Time
}

type Snapshot struct {
	Uptime      time.Duration          `json:"uptime"`
	Cycles      int64                  `json:"cycles"`
	LastCycle   *time.Time             `json:"last_cycle,omitempty"`
	TotalProbes int64                  `json:"total_probes"`
	Dropped     int64                  `json:"dropped_events"`
	Sync        SyncMetrics            `json:"sync"`
	Sites       map[string]SiteMetrics `json:"sites"`
}

type SyncMetrics struct {
	Attempts int64 `json:"attempts"`
	Failures int64 `json:"failures"`
	Skipped  int64 `json:"skipped"`
}

type SiteMetrics struct {
	Probes      int64         `json:"probes"`
	Online      int64         `json:"online"`
	Reachable   bool          `json:"reachable"`
	AvgLatency  time.Duration `json:"avg_latency"`
	P50Latency  time.Duration `json:"p50_latency"`
	P95Latency  time.Duration `json:"p95_latency"`
	StatusCodes map[int]int64 `json:"status_codes"`
}

// RecordProbe counts one probe of site. Latency is only sampled when the
// request produced a response.
func (m *Metrics) RecordProbe(site string, statusCode int, reachable bool, latency time.Duration, measured bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.probes[site]++
	if reachable {
		m.online[site]++
	}
	m.reachable[site] = reachable

	if measured {
		m.latencies[site] = append(m.latencies[site], latency)
		if len(m.latencies[site]) > maxLatencySamples {
			m.latencies[site] = m.latencies[site][1:]
		}
	}

	if m.statusCodes[site] == nil {
		m.statusCodes[site] = make(map[int]int64)
	}
	m.statusCodes[site][statusCode]++
}

func (m *Metrics) RecordSync(failed bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.syncStats.Attempts++
	if failed {
		m.syncStats.Failures++
	}
}

func (m *Metrics) RecordSyncSkipped() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.syncStats.Skipped++
}

func (m *Metrics) RecordCycle(at time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.cycles++
	m.lastCycle = at
}

func (m *Metrics) recordDropped() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.dropped++
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:  time.Since(m.startTime),
		Cycles:  m.cycles,
		Dropped: m.dropped,
		Sync:    m.syncStats,
		Sites:   make(map[string]SiteMetrics, len(m.probes)),
	}
	if !m.lastCycle.IsZero() {
		last := m.lastCycle
		snap.LastCycle = &last
	}

	for site, probes := range m.probes {
		snap.TotalProbes += probes

		codes := make(map[int]int64, len(m.statusCodes[site]))
		for code, n := range m.statusCodes[site] {
			codes[code] = n
		}

		sm := SiteMetrics{
			Probes:      probes,
			Online:      m.online[site],
			Reachable:   m.reachable[site],
			StatusCodes: codes,
		}

		samples := m.latencies[site]
		if len(samples) > 0 {
			sorted := make([]time.Duration, len(samples))
			copy(sorted, samples)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			sm.AvgLatency = average(sorted)
			sm.P50Latency = percentile(sorted, 0.50)
			sm.P95Latency = percentile(sorted, 0.95)
		}

		snap.Sites[site] = sm
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		probes:      make(map[string]int64),
		online:      make(map[string]int64),
		latencies:   make(map[string][]time.Duration),
		statusCodes: make(map[string]map[int]int64),
		reachable:   make(map[string]bool),
		startTime:   time.Now(),
	}
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
