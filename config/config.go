package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/site-monitor/internal/models"
	"github.com/angeloszaimis/site-monitor/internal/sources"
	"github.com/angeloszaimis/site-monitor/internal/whm"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	AddSource bool   `mapstructure:"add_source"`
}

type MonitorConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	Concurrency int           `mapstructure:"concurrency"`
	// MaxRetries is accepted for compatibility with older files. Probes are
	// never retried.
	MaxRetries int           `mapstructure:"max_retries"`
	Interval   time.Duration `mapstructure:"interval"`
}

type FilterConfig struct {
	ExcludeSuspended    bool     `mapstructure:"exclude_suspended"`
	ExcludeSubdomains   bool     `mapstructure:"exclude_subdomains"`
	ExcludeAddonDomains bool     `mapstructure:"exclude_addon_domains"`
	OnlyMainDomains     bool     `mapstructure:"only_main_domains"`
	ExcludePatterns     []string `mapstructure:"exclude_patterns"`
}

type SyncConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Interval         time.Duration `mapstructure:"interval"`
	Filters          FilterConfig  `mapstructure:"filters"`
	FailureThreshold int           `mapstructure:"failure_threshold"`
	Cooldown         time.Duration `mapstructure:"cooldown"`
}

type PanelConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	APIToken string        `mapstructure:"api_token"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type StorageConfig struct {
	SitesFile    string `mapstructure:"sites_file"`
	HistoryFile  string `mapstructure:"history_file"`
	StatusPage   string `mapstructure:"status_page"`
	HistoryLimit int    `mapstructure:"history_limit"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type Config struct {
	Environment string        `mapstructure:"environment"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Monitor     MonitorConfig `mapstructure:"monitor"`
	Sync        SyncConfig    `mapstructure:"sync"`
	Panel       PanelConfig   `mapstructure:"panel"`
	Storage     StorageConfig `mapstructure:"storage"`
	Server      ServerConfig  `mapstructure:"server"`
	Sites       []models.Site `mapstructure:"sites"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", EnvDev)
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("logging.add_source", false)

	v.SetDefault("monitor.timeout", "10s")
	v.SetDefault("monitor.user_agent", "Website-Monitor/1.0")
	v.SetDefault("monitor.concurrency", 10)
	v.SetDefault("monitor.max_retries", 2)
	v.SetDefault("monitor.interval", "5m")

	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.interval", "1h")
	v.SetDefault("sync.filters.exclude_suspended", true)
	v.SetDefault("sync.filters.exclude_subdomains", false)
	v.SetDefault("sync.filters.exclude_addon_domains", false)
	v.SetDefault("sync.filters.only_main_domains", false)
	v.SetDefault("sync.filters.exclude_patterns", sources.DefaultExcludePatterns)
	v.SetDefault("sync.failure_threshold", 3)
	v.SetDefault("sync.cooldown", "1h")

	v.SetDefault("panel.host", "")
	v.SetDefault("panel.port", whm.DefaultPort)
	v.SetDefault("panel.username", "root")
	v.SetDefault("panel.api_token", "")
	v.SetDefault("panel.timeout", "10s")

	v.SetDefault("storage.sites_file", "sites-config.json")
	v.SetDefault("storage.history_file", "status.json")
	v.SetDefault("storage.status_page", "index.html")
	v.SetDefault("storage.history_limit", 100)

	v.SetDefault("server.address", "")
	v.SetDefault("sites", []map[string]any{})
}

// Load reads configFile, or config.yaml from ./config or the working
// directory when configFile is empty. Environment variables use the key with
// dots replaced by underscores (MONITOR_CONCURRENCY). The panel token is also
// read from WHM_API_TOKEN. Flags in flags override everything else and must be
// named after their key.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("panel.api_token", "PANEL_API_TOKEN", "WHM_API_TOKEN"); err != nil {
		return nil, err
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Debug("config file not found, using defaults and environment variables")
	} else {
		slog.Debug("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
		validation.Field(&c.Logging),
		validation.Field(&c.Monitor),
		validation.Field(&c.Sync),
		validation.Field(&c.Panel),
		validation.Field(&c.Storage),
		validation.Field(&c.Server),
		validation.Field(&c.Sites),
	)
}

func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level,
			validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
		),
	)
}

func (m MonitorConfig) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&m.UserAgent, validation.Required),
		validation.Field(&m.Concurrency, validation.Required, validation.Min(1)),
		validation.Field(&m.MaxRetries, validation.Min(0)),
		validation.Field(&m.Interval, validation.Required, validation.Min(time.Second)),
	)
}

func (s SyncConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Interval, validation.Required, validation.Min(time.Second)),
		validation.Field(&s.FailureThreshold, validation.Required, validation.Min(1)),
		validation.Field(&s.Cooldown, validation.Min(time.Duration(0))),
	)
}

func (p PanelConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Host, is.Host),
		validation.Field(&p.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&p.Username, validation.Required),
		validation.Field(&p.Timeout, validation.Required, validation.Min(time.Millisecond)),
	)
}

func (s StorageConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.SitesFile, validation.Required),
		validation.Field(&s.HistoryFile, validation.Required),
		validation.Field(&s.StatusPage, validation.Required),
		validation.Field(&s.HistoryLimit, validation.Required, validation.Min(1)),
	)
}

func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Address, validation.By(validateHostPort)),
	)
}

// SyncActive reports whether the panel refresh can run at all.
func (c *Config) SyncActive() bool {
	return c.Sync.Enabled && c.Panel.Host != ""
}

// SourceFilters converts the filter settings for the merger.
func (s SyncConfig) SourceFilters() sources.Filters {
	return sources.Filters{
		ExcludeSuspended:    s.Filters.ExcludeSuspended,
		ExcludeSubdomains:   s.Filters.ExcludeSubdomains,
		ExcludeAddonDomains: s.Filters.ExcludeAddonDomains,
		OnlyMainDomains:     s.Filters.OnlyMainDomains,
		ExcludePatterns:     append([]string(nil), s.Filters.ExcludePatterns...),
	}
}

func (p PanelConfig) ClientConfig() whm.Config {
	return whm.Config{
		Host:     p.Host,
		Port:     p.Port,
		Username: p.Username,
		APIToken: p.APIToken,
		Timeout:  p.Timeout,
	}
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	if addr == "" {
		return nil
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}
