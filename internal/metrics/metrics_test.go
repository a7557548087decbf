package metrics_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/site-monitor/internal/metrics"
)

var _ = Describe("Metrics", func() {
	var m *metrics.Metrics

	BeforeEach(func() {
		m = metrics.NewMetrics()
	})

	Describe("RecordProbe", func() {
		It("should count probes and online probes per site", func() {
			m.RecordProbe("shop", 200, true, 10*time.Millisecond, true)
			m.RecordProbe("shop", 503, false, 20*time.Millisecond, true)
			m.RecordProbe("blog", 200, true, 5*time.Millisecond, true)

			snap := m.Snapshot()
			Expect(snap.TotalProbes).To(Equal(int64(3)))
			Expect(snap.Sites["shop"].Probes).To(Equal(int64(2)))
			Expect(snap.Sites["shop"].Online).To(Equal(int64(1)))
			Expect(snap.Sites["shop"].Reachable).To(BeFalse())
			Expect(snap.Sites["blog"].Reachable).To(BeTrue())
		})

		It("should track the status code distribution", func() {
			m.RecordProbe("shop", 200, true, time.Millisecond, true)
			m.RecordProbe("shop", 200, true, time.Millisecond, true)
			m.RecordProbe("shop", 0, false, 0, false)

			codes := m.Snapshot().Sites["shop"].StatusCodes
			Expect(codes[200]).To(Equal(int64(2)))
			Expect(codes[0]).To(Equal(int64(1)))
		})

		It("should only sample measured latencies", func() {
			m.RecordProbe("shop", 200, true, 100*time.Millisecond, true)
			m.RecordProbe("shop", 200, true, 200*time.Millisecond, true)
			m.RecordProbe("shop", 0, false, 0, false)

			Expect(m.Snapshot().Sites["shop"].AvgLatency).To(Equal(150 * time.Millisecond))
		})

		It("should calculate percentiles", func() {
			for i := 1; i <= 100; i++ {
				m.RecordProbe("shop", 200, true, time.Duration(i)*time.Millisecond, true)
			}

			site := m.Snapshot().Sites["shop"]
			Expect(site.P50Latency).To(BeNumerically("~", 50*time.Millisecond, time.Millisecond))
			Expect(site.P95Latency).To(BeNumerically("~", 95*time.Millisecond, time.Millisecond))
		})

		It("should limit stored latencies to 1000", func() {
			for i := 1; i <= 1500; i++ {
				m.RecordProbe("shop", 200, true, time.Duration(i)*time.Millisecond, true)
			}

			Expect(m.Snapshot().Sites["shop"].AvgLatency).To(BeNumerically(">", 500*time.Millisecond))
		})
	})

	Describe("sync and cycles", func() {
		It("should count attempts, failures and skips", func() {
			m.RecordSync(false)
			m.RecordSync(true)
			m.RecordSyncSkipped()

			Expect(m.Snapshot().Sync).To(Equal(metrics.SyncMetrics{Attempts: 2, Failures: 1, Skipped: 1}))
		})

		It("should remember the last completed cycle", func() {
			at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
			m.RecordCycle(at.Add(-time.Minute))
			m.RecordCycle(at)

			snap := m.Snapshot()
			Expect(snap.Cycles).To(Equal(int64(2)))
			Expect(snap.LastCycle).NotTo(BeNil())
			Expect(*snap.LastCycle).To(Equal(at))
		})
	})

	Describe("Snapshot", func() {
		It("should handle empty metrics", func() {
			snap := m.Snapshot()

			Expect(snap.TotalProbes).To(Equal(int64(0)))
			Expect(snap.Sites).To(BeEmpty())
			Expect(snap.LastCycle).To(BeNil())
		})

		It("should include uptime", func() {
			time.Sleep(10 * time.Millisecond)
			Expect(m.Snapshot().Uptime).To(BeNumerically(">", 0))
		})

		It("should return independent snapshots", func() {
			m.RecordProbe("shop", 200, true, time.Millisecond, true)
			snap1 := m.Snapshot()
			m.RecordProbe("shop", 500, false, time.Millisecond, true)
			snap2 := m.Snapshot()

			Expect(snap1.TotalProbes).To(Equal(int64(1)))
			Expect(snap1.Sites["shop"].StatusCodes).NotTo(HaveKey(500))
			Expect(snap2.TotalProbes).To(Equal(int64(2)))
		})
	})
})
