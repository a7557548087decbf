package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/angeloszaimis/site-monitor/config"
	"github.com/angeloszaimis/site-monitor/internal/httpserver"
	"github.com/angeloszaimis/site-monitor/internal/metrics"
	"github.com/angeloszaimis/site-monitor/internal/models"
	"github.com/angeloszaimis/site-monitor/internal/whm"
)

func runOnce(ctx context.Context, cfg *config.Config, log *slog.Logger, stdout io.Writer) error {
	m := newMonitor(cfg, log, stdout)
	_, err := m.RunCycle(ctx)
	return err
}

func watch(ctx context.Context, cfg *config.Config, log *slog.Logger, stdout io.Writer) error {
	g, ctx := errgroup.WithContext(ctx)

	collector := metrics.NewCollector(1000, log)
	collector.Start(ctx)

	m := newMonitor(cfg, log, stdout, watchOptions(cfg, collector)...)
	if _, err := m.Render(); err != nil {
		log.Warn("Failed to render stored history", slog.Any("err", err))
	}

	if cfg.Server.Address != "" {
		srv, err := httpserver.New(cfg.Server.Address, httpserver.NewRouter(m, collector.Handler()))
		if err != nil {
			return fmt.Errorf("create dashboard server: %w", err)
		}

		g.Go(func() error {
			log.Info("Dashboard listening", slog.String("address", srv.Addr()))
			return srv.Start()
		})
		g.Go(func() error {
			<-ctx.Done()
			return srv.Shutdown(context.Background())
		})
	}

	g.Go(func() error {
		return m.Watch(ctx, cfg.Monitor.Interval)
	})

	return g.Wait()
}

func renderPage(cfg *config.Config, log *slog.Logger, stdout io.Writer) error {
	m := newMonitor(cfg, log, stdout)
	report, err := m.Render()
	if err != nil {
		return err
	}

	if report == nil {
		fmt.Fprintf(stdout, "No checks recorded, wrote placeholder to %s\n", cfg.Storage.StatusPage)
		return nil
	}
	fmt.Fprintf(stdout, "Rendered cycle %s to %s\n", report.Cycle.ID, cfg.Storage.StatusPage)
	return nil
}

func sites(cfg *config.Config, log *slog.Logger, flags *pflag.FlagSet, stdout io.Writer) error {
	m := newMonitor(cfg, log, stdout)
	args := flags.Args()

	if len(args) == 0 {
		return fmt.Errorf("%w: sites needs an action", errUsage)
	}

	switch args[0] {
	case "list":
		state := m.Sites()
		w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SOURCE\tNAME\tURL\tCATEGORY\tPRIORITY")
		for _, s := range state.Manual {
			s = s.WithManualDefaults()
			fmt.Fprintf(w, "manual\t%s\t%s\t%s\t%s\n", s.Name, s.URL, s.Category, s.Priority)
		}
		for _, s := range state.External {
			fmt.Fprintf(w, "panel\t%s\t%s\t%s\t%s\n", s.Name, s.URL, s.Category, s.Priority)
		}
		return w.Flush()

	case "add":
		if len(args) != 3 {
			return fmt.Errorf("%w: sites add <name> <url>", errUsage)
		}
		category, _ := flags.GetString("category")
		priority, _ := flags.GetString("priority")

		site := models.Site{
			Name:     args[1],
			URL:      args[2],
			Category: models.Category(category),
			Priority: models.Priority(priority),
		}
		if err := m.AddSite(site); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added %s\n", site.Name)
		return nil

	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("%w: sites remove <name>", errUsage)
		}
		if err := m.RemoveSite(args[1]); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Removed %s\n", args[1])
		return nil

	default:
		return fmt.Errorf("%w: unknown sites action %q", errUsage, args[0])
	}
}

var errPanelNotConfigured = errors.New("panel.host is not configured")

func syncTest(ctx context.Context, cfg *config.Config, log *slog.Logger, stdout io.Writer) error {
	if cfg.Panel.Host == "" {
		return errPanelNotConfigured
	}

	client := whm.NewClient(cfg.Panel.ClientConfig())
	info, err := client.FetchDomainRecords(ctx)
	if err != nil {
		return fmt.Errorf("panel connectivity test: %w", err)
	}

	kept := cfg.Sync.SourceFilters().Apply(info.Domains)
	log.Info("Panel reachable",
		slog.String("host", cfg.Panel.Host),
		slog.Int("domains", len(info.Domains)))

	fmt.Fprintf(stdout, "Panel %s reachable\n", cfg.Panel.Host)
	fmt.Fprintf(stdout, "Domains: %d\n", len(info.Domains))
	fmt.Fprintf(stdout, "Accounts: %d\n", len(info.Accounts))
	fmt.Fprintf(stdout, "Sites after filters: %d\n", len(kept))
	return nil
}
