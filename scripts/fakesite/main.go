// Fakesite is a local target for trying the monitor by hand. It serves
// endpoints with chosen status codes and delays, and a fake hosting panel
// domain listing.
//
// Usage:
//
//	go run ./scripts/fakesite --port 8081
//
// Endpoints:
//
//	/status/{code}                  answers with the given status code
//	/slow?delay=3s                  answers 200 after delay
//	/json-api/get_domain_info       panel listing with a fresh request id
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

type domain struct {
	Domain    string `json:"domain"`
	User      string `json:"user"`
	Type      string `json:"type,omitempty"`
	Addon     int    `json:"addon,omitempty"`
	Suspended int    `json:"suspended,omitempty"`
}

func main() {
	port := pflag.Int("port", 8081, "port to listen on")
	pflag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	r := chi.NewRouter()
	r.Get("/status/{code}", func(w http.ResponseWriter, r *http.Request) {
		code, err := strconv.Atoi(chi.URLParam(r, "code"))
		if err != nil || code < 100 || code > 999 {
			http.Error(w, "invalid status code", http.StatusBadRequest)
			return
		}
		log.Info("request", slog.String("path", r.URL.Path), slog.String("ua", r.UserAgent()))
		w.WriteHeader(code)
	})

	r.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		delay, err := time.ParseDuration(r.URL.Query().Get("delay"))
		if err != nil {
			delay = 5 * time.Second
		}

		select {
		case <-time.After(delay):
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
		}
	})

	r.Get("/json-api/get_domain_info", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"metadata": map[string]any{"result": 1, "request_id": uuid.NewString()},
			"data": []domain{
				{Domain: "shop.localhost", User: "shop"},
				{Domain: "blog.shop.localhost", User: "shop", Type: "sub"},
				{Domain: "mail.shop.localhost", User: "shop", Type: "sub"},
				{Domain: "other.localhost", User: "shop", Addon: 1},
				{Domain: "closed.localhost", User: "old", Suspended: 1},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})

	addr := ":" + strconv.Itoa(*port)
	log.Info("starting fake site", slog.String("address", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Error("server failed", slog.Any("err", err))
		os.Exit(1)
	}
}
