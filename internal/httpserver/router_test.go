package httpserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/site-monitor/internal/httpserver"
	"github.com/angeloszaimis/site-monitor/internal/models"
	"github.com/angeloszaimis/site-monitor/internal/monitor"
)

type fakeSource struct {
	report *monitor.Report
}

func (f *fakeSource) Latest() (monitor.Report, bool) {
	if f.report == nil {
		return monitor.Report{}, false
	}
	return *f.report, true
}

var _ = Describe("Router", func() {
	var (
		source  *fakeSource
		metrics http.Handler
		router  http.Handler
	)

	serve := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec
	}

	BeforeEach(func() {
		source = &fakeSource{}
		metrics = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"cycles":1}`))
		})
		router = httpserver.NewRouter(source, metrics)
	})

	Context("before any cycle", func() {
		It("serves the placeholder page", func() {
			rec := serve(http.MethodGet, "/")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/html"))
			Expect(rec.Body.String()).To(ContainSubstring("No checks have completed yet."))
		})

		It("serves a null latest cycle", func() {
			rec := serve(http.MethodGet, "/status.json")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var body map[string]any
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body).To(HaveKeyWithValue("latest", BeNil()))
			Expect(body).To(HaveKeyWithValue("uptime", BeNumerically("==", 0)))
		})
	})

	Context("after a cycle", func() {
		BeforeEach(func() {
			synced := time.Date(2026, 6, 1, 11, 0, 0, 0, time.UTC)
			source.report = &monitor.Report{
				Cycle: models.CheckCycle{
					ID:         "c-1",
					ObservedAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
					Results: []models.CheckResult{{
						Site:      models.Site{Name: "shop", URL: "https://shop.example"},
						Reachable: true,
						LatencyMS: 30,
					}},
				},
				Uptime:   100,
				LastSync: &synced,
			}
		})

		It("renders the status page", func() {
			rec := serve(http.MethodGet, "/")
			Expect(rec.Body.String()).To(ContainSubstring("shop.example"))
			Expect(rec.Body.String()).To(ContainSubstring("100%"))
		})

		It("serves the latest cycle as JSON", func() {
			rec := serve(http.MethodGet, "/status.json")
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))

			var body struct {
				Latest      models.CheckCycle `json:"latest"`
				Uptime      int               `json:"uptime"`
				LastWHMSync *time.Time        `json:"lastWhmSync"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Latest.ID).To(Equal("c-1"))
			Expect(body.Latest.Results).To(HaveLen(1))
			Expect(body.Uptime).To(Equal(100))
			Expect(body.LastWHMSync).NotTo(BeNil())
		})
	})

	It("serves metrics", func() {
		rec := serve(http.MethodGet, "/metrics")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal(`{"cycles":1}`))
	})

	It("omits metrics when no handler is given", func() {
		router = httpserver.NewRouter(source, nil)
		Expect(serve(http.MethodGet, "/metrics").Code).To(Equal(http.StatusNotFound))
	})

	It("answers liveness probes", func() {
		rec := serve(http.MethodGet, "/healthz")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal("ok"))
	})

	It("rejects other methods", func() {
		Expect(serve(http.MethodPost, "/status.json").Code).To(Equal(http.StatusMethodNotAllowed))
	})
})
