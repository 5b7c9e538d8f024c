package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrefix = "WLTEST_"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, "ru", cfg.UI.Locale)
}

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := Load(Options{EnvPrefix: testPrefix})
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "weblarek.toml", `
[server]
addr = ":9090"

[api]
timeout = "3s"
rate_limit = 2
burst = 1

[log]
level = "debug"
`)
	cfg, err := Load(Options{Path: path, EnvPrefix: testPrefix})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2.0, cfg.API.RateLimit)
	assert.Equal(t, 1, cfg.API.Burst)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep defaults
	assert.Equal(t, DefaultCDNURL, cfg.API.CDNURL)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "weblarek.yml", `
ui:
  locale: en
  templates: /tmp/index.html
  watch: true
metrics:
  enabled: false
`)
	cfg, err := Load(Options{Path: path, EnvPrefix: testPrefix})
	require.NoError(t, err)

	assert.Equal(t, "en", cfg.UI.Locale)
	assert.Equal(t, "/tmp/index.html", cfg.UI.Templates)
	assert.True(t, cfg.UI.Watch)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := Load(Options{Path: filepath.Join(t.TempDir(), "missing.toml")})
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = LoadFile(writeFile(t, "weblarek.ini", "a=1"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadFile(writeFile(t, "broken.toml", "[server"))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Path, "broken.toml")
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "weblarek.toml", "[log]\nlevel = \"debug\"\nformat = \"json\"\n")
	t.Setenv(testPrefix+"LOG_LEVEL", "warn")
	t.Setenv(testPrefix+"ADDR", "127.0.0.1:7000")
	t.Setenv(testPrefix+"API_RATE_LIMIT", "0.5")
	t.Setenv(testPrefix+"METRICS_ENABLED", "off")

	cfg, err := Load(Options{Path: path, EnvPrefix: testPrefix})
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, 0.5, cfg.API.RateLimit)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestEnvFiles(t *testing.T) {
	envFile := writeFile(t, ".env", testPrefix+"LOG_LEVEL=error\n"+testPrefix+"LOG_FORMAT=console\n")
	t.Cleanup(func() { os.Unsetenv(testPrefix + "LOG_LEVEL") })
	t.Setenv(testPrefix+"LOG_FORMAT", "json")

	cfg, err := Load(Options{
		EnvFiles:  []string{envFile, filepath.Join(t.TempDir(), "absent.env")},
		EnvPrefix: testPrefix,
	})
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	// the real environment wins over .env
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestEnvLoaderPaths(t *testing.T) {
	l := NewEnvLoader(testPrefix)
	tests := []struct {
		env  string
		want string
	}{
		{testPrefix + "API_BASE_URL", "api.base_url"},
		{testPrefix + "SERVER_SHUTDOWN_TIMEOUT", "server.shutdown_timeout"},
		{testPrefix + "LOG_LEVEL", "log.level"},
		{testPrefix + "DEBUG", ""},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, l.envToPath(tt.env))
		})
	}
}

func TestEnvLoaderSkipsControlVariables(t *testing.T) {
	t.Setenv(testPrefix+"CONFIG", "weblarek.toml")
	t.Setenv(testPrefix+"UI_LOCALE", "en")

	got, err := NewEnvLoader(testPrefix).Load()
	require.NoError(t, err)

	_, ok := got.Lookup("config")
	assert.False(t, ok)
	v, ok := got.Lookup("ui.locale")
	require.True(t, ok)
	assert.Equal(t, "en", v)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, true, parseValue("yes"))
	assert.Equal(t, false, parseValue("OFF"))
	assert.Equal(t, int64(42), parseValue("42"))
	assert.Equal(t, 1.5, parseValue("1.5"))
	assert.Equal(t, "10s", parseValue("10s"))
	assert.Equal(t, "", parseValue(""))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Server.Addr = ""
	cfg.API.BaseURL = "larek"
	cfg.API.Timeout = 0
	cfg.API.Burst = 0
	cfg.UI.Watch = true
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidationFailed))
	for _, path := range []string{
		"server.addr", "api.base_url", "api.timeout", "api.burst",
		"ui.watch", "log.level", "log.format",
	} {
		assert.Contains(t, err.Error(), path)
	}
}

func TestLayerOverlay(t *testing.T) {
	dst := Layer{
		"api": map[string]any{"timeout": "1s", "burst": 1},
		"log": map[string]any{"level": "info"},
	}
	src := Layer{
		"api": map[string]any{"burst": 3},
		"log": "flat",
	}
	got := dst.Overlay(src)

	assert.Equal(t, Layer{
		"api": map[string]any{"timeout": "1s", "burst": 3},
		"log": "flat",
	}, got)

	var empty Layer
	assert.Equal(t, Layer{"a": 1}, empty.Overlay(Layer{"a": 1}))
	assert.Equal(t, Layer{"a": 1}, Layer{"a": 1}.Overlay(nil))
}

func TestLayerOverlayCopiesSource(t *testing.T) {
	src := Layer{"ui": map[string]any{"locale": "ru"}}
	var merged Layer
	merged = merged.Overlay(src)
	merged.Set("ui.locale", "en")

	v, _ := src.Lookup("ui.locale")
	assert.Equal(t, "ru", v)
}

func TestLayerSetReplacesValueWithSection(t *testing.T) {
	l := Layer{"api": "plain"}
	l.Set("api.burst", 2)

	v, ok := l.Lookup("api.burst")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = l.Lookup("api.burst.extra")
	assert.False(t, ok)
}
