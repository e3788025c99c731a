package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/multierr"

	"github.com/dpup/trek.ersn.net/server/internal/lib/route"
)

// EnvPrefix marks environment variables that override configuration.
// TREK__SERVER__PORT=9000 sets server.port.
const EnvPrefix = "TREK__"

// Config represents the complete server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Route   RouteConfig   `yaml:"route"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Port            int           `yaml:"port"`
	GRPCPort        int           `yaml:"grpc_port"`
	CorsOrigins     []string      `yaml:"cors_origins"`
	StaticDir       string        `yaml:"static_dir"`
	Gzip            bool          `yaml:"gzip"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RouteConfig holds the track source and the default travel window
type RouteConfig struct {
	DataDir   string   `yaml:"data_dir"`
	Pattern   string   `yaml:"pattern"`
	StartTime string   `yaml:"start_time"`
	EndTime   string   `yaml:"end_time"`
	Palette   []string `yaml:"palette"`

	// Watch reloads the track when files in DataDir change
	Watch          bool          `yaml:"watch"`
	Debounce       time.Duration `yaml:"debounce"`
	RescanInterval time.Duration `yaml:"rescan_interval"` // 0 disables periodic rescans
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Window parses the configured start and end times
func (r RouteConfig) Window() (route.TimeWindow, error) {
	return route.ParseWindow(r.StartTime, r.EndTime)
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			GRPCPort:        9090,
			CorsOrigins:     []string{"*"},
			Gzip:            true,
			ShutdownTimeout: 10 * time.Second,
		},
		Route: RouteConfig{
			DataDir:   "data",
			Pattern:   route.DefaultPattern,
			StartTime: "2024-08-10T00:00:00Z",
			EndTime:   "2024-08-20T00:00:00Z",
			Palette:   append([]string(nil), route.DefaultPalette...),
			Watch:     true,
			Debounce:  500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then a .env file and the environment, then
// overrides. Later sources win. Overrides use dotted keys, e.g. "server.port".
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to apply overrides: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps TREK__ROUTE__DATA_DIR to route.data_dir
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var err error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		err = multierr.Append(err, fmt.Errorf("server.grpc_port %d out of range", c.Server.GRPCPort))
	}
	if c.Server.GRPCPort != 0 && c.Server.GRPCPort == c.Server.Port {
		err = multierr.Append(err, errors.New("server.grpc_port must differ from server.port"))
	}
	if c.Server.StaticDir != "" {
		if info, statErr := os.Stat(c.Server.StaticDir); statErr != nil || !info.IsDir() {
			err = multierr.Append(err, fmt.Errorf("server.static_dir %q is not a directory", c.Server.StaticDir))
		}
	}

	if c.Route.DataDir == "" {
		err = multierr.Append(err, errors.New("route.data_dir is required"))
	}
	if _, windowErr := c.Route.Window(); windowErr != nil {
		err = multierr.Append(err, windowErr)
	}
	for _, color := range c.Route.Palette {
		if _, colorErr := route.ParseHexColor(color); colorErr != nil {
			err = multierr.Append(err, fmt.Errorf("route.palette: %w", colorErr))
		}
	}
	if c.Route.Debounce < 0 || c.Route.RescanInterval < 0 {
		err = multierr.Append(err, errors.New("route.debounce and route.rescan_interval must not be negative"))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	return err
}
