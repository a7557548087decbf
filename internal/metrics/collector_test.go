package metrics_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/site-monitor/internal/metrics"
	"github.com/angeloszaimis/site-monitor/internal/models"
)

var _ = Describe("Collector", func() {
	var (
		collector *metrics.Collector
		log       *slog.Logger
		ctx       context.Context
		cancel    context.CancelFunc
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
		ctx, cancel = context.WithCancel(context.Background())
		collector = metrics.NewCollector(100, log)
	})

	AfterEach(func() {
		cancel()
	})

	Describe("ProbeEvent", func() {
		It("should carry measured latency", func() {
			event := metrics.ProbeEvent(models.CheckResult{
				Site:       models.Site{Name: "shop"},
				StatusCode: 200,
				Reachable:  true,
				LatencyMS:  25,
			})
			Expect(event.Type).To(Equal(metrics.EventProbeCompleted))
			Expect(event.Site).To(Equal("shop"))
			Expect(event.Measured).To(BeTrue())
			Expect(event.Latency).To(Equal(25 * time.Millisecond))
		})

		It("should mark unmeasured latency", func() {
			event := metrics.ProbeEvent(models.CheckResult{
				Site:      models.Site{Name: "gone"},
				LatencyMS: models.LatencyNotMeasured,
			})
			Expect(event.Measured).To(BeFalse())
			Expect(event.Latency).To(BeZero())
		})
	})

	Describe("Start and event processing", func() {
		It("should process probe events", func() {
			collector.Start(ctx)

			collector.Publish(metrics.MetricEvent{
				Type:       metrics.EventProbeCompleted,
				Site:       "shop",
				Latency:    100 * time.Millisecond,
				Measured:   true,
				StatusCode: 200,
				Reachable:  true,
			})

			Eventually(func() int64 {
				return collector.Snapshot().Sites["shop"].Online
			}).Should(Equal(int64(1)))
			Expect(collector.Snapshot().Sites["shop"].AvgLatency).To(Equal(100 * time.Millisecond))
		})

		It("should process sync and cycle events", func() {
			collector.Start(ctx)

			collector.Publish(metrics.MetricEvent{Type: metrics.EventSyncAttempted, Failed: true})
			collector.Publish(metrics.MetricEvent{Type: metrics.EventSyncSkipped})
			collector.Publish(metrics.MetricEvent{Type: metrics.EventCycleCompleted, Timestamp: time.Now()})

			Eventually(func() int64 {
				return collector.Snapshot().Cycles
			}).Should(Equal(int64(1)))
			Expect(collector.Snapshot().Sync).To(Equal(metrics.SyncMetrics{Attempts: 1, Failures: 1, Skipped: 1}))
		})

		It("should drain events on context cancellation", func() {
			for i := 0; i < 5; i++ {
				collector.EventChannel() <- metrics.MetricEvent{Type: metrics.EventProbeCompleted, Site: "shop"}
			}

			collector.Start(ctx)
			cancel()

			Eventually(func() int64 {
				return collector.Snapshot().Sites["shop"].Probes
			}).Should(Equal(int64(5)))
		})
	})

	Describe("Publish", func() {
		It("should drop events when the buffer is full", func() {
			small := metrics.NewCollector(1, log)
			small.Publish(metrics.MetricEvent{Type: metrics.EventSyncSkipped})
			small.Publish(metrics.MetricEvent{Type: metrics.EventSyncSkipped})

			Expect(small.Snapshot().Dropped).To(Equal(int64(1)))
		})
	})

	Describe("Handler", func() {
		It("should serve the snapshot as JSON", func() {
			collector.Start(ctx)
			collector.Publish(metrics.MetricEvent{Type: metrics.EventProbeCompleted, Site: "shop", StatusCode: 200, Reachable: true})
			Eventually(func() int64 { return collector.Snapshot().TotalProbes }).Should(Equal(int64(1)))

			rec := httptest.NewRecorder()
			collector.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))

			var body map[string]any
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body).To(HaveKeyWithValue("total_probes", BeNumerically("==", 1)))
			Expect(body).To(HaveKey("sites"))
		})
	})
})
