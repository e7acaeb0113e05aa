// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is checked when the default path does not exist.
	legacyConfigPath = "config.json"
	// DefaultBaseURL is the origin the analysis service listens on by default.
	DefaultBaseURL = "http://127.0.0.1:5000"
	// DefaultServeAddr is where the local web UI binds by default.
	DefaultServeAddr = "127.0.0.1:8080"
	// DefaultLogFile receives request and event logs.
	DefaultLogFile = "matscope.log"
	// DefaultChartWidth and DefaultChartHeight size PNG charts in pixels.
	DefaultChartWidth  = 1024
	DefaultChartHeight = 512
)

// ErrConfigNotFound is returned by Load when no configuration file exists.
var ErrConfigNotFound = errors.New("no configuration file found")

// Config represents the top-level application configuration.
type Config struct {
	BaseURL        string   `json:"baseURL" mapstructure:"baseURL"`
	TimeoutSeconds int      `json:"timeout,omitempty" mapstructure:"timeout"`
	LogFile        string   `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug          bool     `json:"debug" mapstructure:"debug"`
	Output         string   `json:"output,omitempty" mapstructure:"output"`
	ServeAddr      string   `json:"serveAddr,omitempty" mapstructure:"serveAddr"`
	AllowedOrigins []string `json:"allowedOrigins,omitempty" mapstructure:"allowedOrigins"`
	ChartWidth     int      `json:"chartWidth,omitempty" mapstructure:"chartWidth"`
	ChartHeight    int      `json:"chartHeight,omitempty" mapstructure:"chartHeight"`
	ConfigPath     string   `json:"-" mapstructure:"-"`
}

// Defaults returns a configuration populated with every default value.
func Defaults() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		LogFile:     DefaultLogFile,
		Output:      "human",
		ServeAddr:   DefaultServeAddr,
		ChartWidth:  DefaultChartWidth,
		ChartHeight: DefaultChartHeight,
	}
}

// RequestTimeout returns the per-request timeout. Zero means requests wait
// until the caller's context ends.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return DefaultLogFile
}

// ServiceURL returns the analysis service origin without a trailing slash.
func (c Config) ServiceURL() string {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/")
}

// ListenAddr returns the web UI bind address.
func (c Config) ListenAddr() string {
	if addr := strings.TrimSpace(c.ServeAddr); addr != "" {
		return addr
	}
	return DefaultServeAddr
}

// ChartSize returns the PNG chart dimensions, applying defaults for unset values.
func (c Config) ChartSize() (int, int) {
	w, h := c.ChartWidth, c.ChartHeight
	if w <= 0 {
		w = DefaultChartWidth
	}
	if h <= 0 {
		h = DefaultChartHeight
	}
	return w, h
}

// Validate checks that the service origin is an absolute http(s) URL.
func (c Config) Validate() error {
	u, err := url.Parse(c.ServiceURL())
	if err != nil {
		return fmt.Errorf("invalid baseURL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid baseURL %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid baseURL %q: missing host", c.BaseURL)
	}
	if c.TimeoutSeconds < 0 {
		return errors.New("timeout must not be negative")
	}
	switch c.Output {
	case "", "human", "json", "yaml":
	default:
		return fmt.Errorf("invalid output %q: expected human, json or yaml", c.Output)
	}
	return nil
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, config.Validate()
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, config.Validate()
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("%w (searched %q and %q)", ErrConfigNotFound, DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("%w at %q", ErrConfigNotFound, path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath decodes a config file on top of the defaults.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	config := Defaults()
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}
