package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/angeloszaimis/site-monitor/internal/models"
	"github.com/angeloszaimis/site-monitor/internal/monitor"
	"github.com/angeloszaimis/site-monitor/internal/render"
)

// StatusSource exposes the most recent cycle report.
type StatusSource interface {
	Latest() (monitor.Report, bool)
}

type statusResponse struct {
	Latest      *models.CheckCycle `json:"latest"`
	Uptime      int                `json:"uptime"`
	LastWHMSync *time.Time         `json:"lastWhmSync"`
}

// NewRouter builds the dashboard routes. metrics may be nil.
func NewRouter(source StatusSource, metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		in := render.Input{Now: time.Now()}
		if report, ok := source.Latest(); ok {
			in = report.Input(time.Now())
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := render.StatusPage(w, in); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	r.Get("/status.json", func(w http.ResponseWriter, r *http.Request) {
		var resp statusResponse
		if report, ok := source.Latest(); ok {
			cycle := report.Cycle
			resp = statusResponse{Latest: &cycle, Uptime: report.Uptime, LastWHMSync: report.LastSync}
		}
		writeJSON(w, http.StatusOK, resp)
	})

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
