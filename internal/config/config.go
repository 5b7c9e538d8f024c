package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// Default endpoints of the larek API.
const (
	DefaultBaseURL = "https://larek-api.nomoreparties.co/api/weblarek"
	DefaultCDNURL  = "https://larek-api.nomoreparties.co/content/weblarek"
)

// Config is the merged storefront configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	API     APIConfig     `yaml:"api"`
	UI      UIConfig      `yaml:"ui"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// APIConfig configures the larek API client.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	CDNURL    string        `yaml:"cdn_url"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"` // requests per second, 0 disables
	Burst     int           `yaml:"burst"`
}

// UIConfig configures rendering.
type UIConfig struct {
	Locale string `yaml:"locale"`
	// Templates points to an HTML page replacing the embedded markup.
	Templates string `yaml:"templates"`
	// Watch reloads Templates when the file changes.
	Watch bool `yaml:"watch"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			CDNURL:    DefaultCDNURL,
			Timeout:   15 * time.Second,
			RateLimit: 10,
			Burst:     5,
		},
		UI: UIConfig{
			Locale: "ru",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration and returns every failure joined.
func (c *Config) Validate() error {
	var errs []error
	fail := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Key: path, Reason: msg, Value: v})
	}

	if c.Server.Addr == "" {
		fail("server.addr", "must not be empty", c.Server.Addr)
	}
	if c.Server.ShutdownTimeout < 0 {
		fail("server.shutdown_timeout", "must not be negative", c.Server.ShutdownTimeout)
	}
	if !absoluteURL(c.API.BaseURL) {
		fail("api.base_url", "must be an absolute http(s) URL", c.API.BaseURL)
	}
	if !absoluteURL(c.API.CDNURL) {
		fail("api.cdn_url", "must be an absolute http(s) URL", c.API.CDNURL)
	}
	if c.API.Timeout <= 0 {
		fail("api.timeout", "must be positive", c.API.Timeout)
	}
	if c.API.RateLimit < 0 {
		fail("api.rate_limit", "must not be negative", c.API.RateLimit)
	}
	if c.API.RateLimit > 0 && c.API.Burst < 1 {
		fail("api.burst", "must be at least 1 when rate_limit is set", c.API.Burst)
	}
	if _, err := language.Parse(c.UI.Locale); err != nil {
		fail("ui.locale", "unknown language tag", c.UI.Locale)
	}
	if c.UI.Watch && c.UI.Templates == "" {
		fail("ui.watch", "requires ui.templates", c.UI.Watch)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		fail("log.level", "unknown level", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		fail("log.format", "must be console or json", c.Log.Format)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		fail("metrics.path", "must start with /", c.Metrics.Path)
	}

	return errors.Join(errs...)
}

func absoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
