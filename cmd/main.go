package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/angeloszaimis/site-monitor/config"
	"github.com/angeloszaimis/site-monitor/pkg/logger"
)

const usage = `Usage: site-monitor [command] [flags]

Commands:
  run                         run one check cycle (default)
  watch                       run a check cycle every monitor.interval
  render                      rewrite the status page from the stored history
  sites list                  list manual and panel sites
  sites add <name> <url>      add a manual site
  sites remove <name>         remove a manual site
  sync-test                   fetch the panel domain list and report counts
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		slog.Error("site-monitor failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	command, rest := splitCommand(args)

	flags := newFlagSet(command)
	if err := flags.Parse(rest); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	configFile, _ := flags.GetString("config")
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.AddSource, cfg.Environment)

	switch command {
	case "run":
		return runOnce(ctx, cfg, log, stdout)
	case "watch":
		return watch(ctx, cfg, log, stdout)
	case "render":
		return renderPage(cfg, log, stdout)
	case "sites":
		return sites(cfg, log, flags, stdout)
	case "sync-test":
		return syncTest(ctx, cfg, log, stdout)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

// splitCommand returns the leading command word, or "run" when args start
// with a flag or are empty.
func splitCommand(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "run", args
	}
	return args[0], args[1:]
}

func newFlagSet(command string) *pflag.FlagSet {
	flags := pflag.NewFlagSet("site-monitor "+command, pflag.ContinueOnError)
	flags.SetOutput(io.Discard)

	flags.String("config", "", "path to the YAML configuration file")
	flags.String("environment", config.EnvDev, "environment (dev, staging, prod)")
	flags.String("logging.level", config.LogLevelInfo, "log level")
	flags.Duration("monitor.timeout", 0, "per-probe timeout")
	flags.String("monitor.user_agent", "", "User-Agent header sent with probes")
	flags.Int("monitor.concurrency", 0, "maximum probes in flight")
	flags.Duration("monitor.interval", 0, "cycle interval in watch mode")
	flags.Bool("sync.enabled", true, "refresh sites from the hosting panel")
	flags.Duration("sync.interval", 0, "minimum time between panel refreshes")
	flags.String("panel.host", "", "hosting panel host")
	flags.String("storage.sites_file", "", "site configuration document")
	flags.String("storage.history_file", "", "check history document")
	flags.String("storage.status_page", "", "rendered status page")
	flags.String("server.address", "", "dashboard listen address in watch mode")

	if command == "sites" {
		flags.String("category", "", "category of the added site")
		flags.String("priority", "", "priority of the added site")
	}

	return flags
}
