// Package config loads weekendly settings from weekendly.yaml and
// WEEKENDLY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendDiskv  = "diskv"
)

// Themes offered by the board.
var Themes = []string{"default", "lazy", "adventure", "family"}

const (
	defaultDataDir     = "~/.weekendly"
	defaultDigest      = "0 8 * * *"
	defaultLogLevel    = "warn"
	defaultLatitude    = 52.52
	defaultLongitude   = 13.41
	defaultEndpoint    = "https://api.open-meteo.com/v1/forecast"
	defaultHTTPTimeout = 5 * time.Second
)

type RemindersConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Digest  string `mapstructure:"digest" yaml:"digest"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	// File is where logs go; empty means stderr.
	File string `mapstructure:"file" yaml:"file"`
}

type WeatherConfig struct {
	Latitude  float64       `mapstructure:"latitude" yaml:"latitude"`
	Longitude float64       `mapstructure:"longitude" yaml:"longitude"`
	Endpoint  string        `mapstructure:"endpoint" yaml:"endpoint"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Config is the full application configuration.
type Config struct {
	DataDir   string          `mapstructure:"data_dir" yaml:"data_dir"`
	Backend   string          `mapstructure:"backend" yaml:"backend"`
	DBPath    string          `mapstructure:"db_path" yaml:"db_path"`
	KVDir     string          `mapstructure:"kv_dir" yaml:"kv_dir"`
	Theme     string          `mapstructure:"theme" yaml:"theme"`
	Reminders RemindersConfig `mapstructure:"reminders" yaml:"reminders"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Weather   WeatherConfig   `mapstructure:"weather" yaml:"weather"`

	// Source is the config file that was read, if any.
	Source string `mapstructure:"-" yaml:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills missing values with defaults and replaces unknown enum
// values, so partially written files still behave.
func (c *Config) Normalize() {
	c.DataDir = expandHome(strings.TrimSpace(c.DataDir))
	if c.DataDir == "" {
		c.DataDir = expandHome(defaultDataDir)
	}

	switch c.Backend = strings.ToLower(strings.TrimSpace(c.Backend)); c.Backend {
	case BackendSQLite, BackendDiskv:
	default:
		c.Backend = BackendSQLite
	}
	c.DBPath = expandHome(strings.TrimSpace(c.DBPath))
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "weekendly.db")
	}
	c.KVDir = expandHome(strings.TrimSpace(c.KVDir))
	if c.KVDir == "" {
		c.KVDir = filepath.Join(c.DataDir, "kv")
	}

	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	if !knownTheme(c.Theme) {
		c.Theme = Themes[0]
	}

	if strings.TrimSpace(c.Reminders.Digest) == "" {
		c.Reminders.Digest = defaultDigest
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if _, err := ParseLevel(c.Log.Level); err != nil || c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	c.Log.File = expandHome(strings.TrimSpace(c.Log.File))

	if c.Weather.Latitude == 0 && c.Weather.Longitude == 0 {
		c.Weather.Latitude = defaultLatitude
		c.Weather.Longitude = defaultLongitude
	}
	if c.Weather.Endpoint == "" {
		c.Weather.Endpoint = defaultEndpoint
	}
	if c.Weather.Timeout <= 0 {
		c.Weather.Timeout = defaultHTTPTimeout
	}
}

func knownTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}
	return false
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	lvl, _ := ParseLevel(c.Log.Level)
	return lvl
}

// Load reads weekendly.yaml from $WEEKENDLY_CONFIG_PATH, the working
// directory or ~/.weekendly, then applies WEEKENDLY_* overrides such as
// WEEKENDLY_BACKEND or WEEKENDLY_REMINDERS_ENABLED. A missing file is not an
// error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("weekendly")
	v.SetConfigType("yaml")
	if override := os.Getenv("WEEKENDLY_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	v.AddConfigPath(expandHome(defaultDataDir))
	return load(v)
}

// LoadFile reads the given file, then applies environment overrides.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("WEEKENDLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()
	cfg.Normalize()
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", defaultDataDir)
	v.SetDefault("backend", BackendSQLite)
	v.SetDefault("db_path", "")
	v.SetDefault("kv_dir", "")
	v.SetDefault("theme", Themes[0])
	v.SetDefault("reminders.enabled", false)
	v.SetDefault("reminders.digest", defaultDigest)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.file", "")
	v.SetDefault("weather.latitude", defaultLatitude)
	v.SetDefault("weather.longitude", defaultLongitude)
	v.SetDefault("weather.endpoint", defaultEndpoint)
	v.SetDefault("weather.timeout", defaultHTTPTimeout.String())
}

// Save writes cfg as YAML to path, replacing any existing file atomically.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".weekendly-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// DefaultPath is where Save puts the config when no path is given.
func DefaultPath() string {
	return filepath.Join(expandHome(defaultDataDir), "weekendly.yaml")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
