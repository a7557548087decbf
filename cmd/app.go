package main

import (
	"io"
	"log/slog"

	"github.com/angeloszaimis/site-monitor/config"
	"github.com/angeloszaimis/site-monitor/internal/circuitbreaker"
	"github.com/angeloszaimis/site-monitor/internal/metrics"
	"github.com/angeloszaimis/site-monitor/internal/monitor"
	"github.com/angeloszaimis/site-monitor/internal/probe"
	"github.com/angeloszaimis/site-monitor/internal/sources"
	"github.com/angeloszaimis/site-monitor/internal/storage"
	"github.com/angeloszaimis/site-monitor/internal/whm"
)

func newStore(cfg *config.Config, log *slog.Logger) *storage.Store {
	return storage.New(storage.Paths{
		Sites:      cfg.Storage.SitesFile,
		History:    cfg.Storage.HistoryFile,
		StatusPage: cfg.Storage.StatusPage,
	}, cfg.Sites, cfg.Storage.HistoryLimit, log)
}

// newRefresher returns nil when the panel refresh cannot run.
func newRefresher(cfg *config.Config, log *slog.Logger) monitor.Refresher {
	if !cfg.SyncActive() {
		if cfg.Sync.Enabled {
			log.Info("Panel sync enabled but panel.host is empty, skipping sync")
		}
		return nil
	}

	client := whm.NewClient(cfg.Panel.ClientConfig())
	return sources.NewMerger(client, cfg.Sync.SourceFilters(), log)
}

func newMonitor(cfg *config.Config, log *slog.Logger, stdout io.Writer, opts ...monitor.Option) *monitor.Monitor {
	prober := probe.New(cfg.Monitor.Timeout, cfg.Monitor.UserAgent)
	policy := sources.SyncPolicy{Interval: cfg.Sync.Interval}

	opts = append([]monitor.Option{monitor.WithOutput(stdout)}, opts...)

	return monitor.New(
		newStore(cfg, log),
		prober,
		newRefresher(cfg, log),
		policy,
		cfg.Monitor.Concurrency,
		log,
		opts...,
	)
}

// watchOptions adds the panel breaker and the metrics collector used by the
// long-running mode.
func watchOptions(cfg *config.Config, collector *metrics.Collector) []monitor.Option {
	breaker := circuitbreaker.NewCircuitBreaker(cfg.Sync.FailureThreshold, cfg.Sync.Cooldown)
	return []monitor.Option{
		monitor.WithBreaker(breaker),
		monitor.WithCollector(collector),
	}
}
