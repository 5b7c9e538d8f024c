package config

import (
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "WEBLAREK_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // e.g. "WEBLAREK_"
	mapping map[string]string // env var -> config path
	skip    map[string]bool
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		skip: map[string]bool{
			prefix + "CONFIG":   true,
			prefix + "ENV_FILE": true,
		},
	}
}

func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "ADDR":      "server.addr",
		prefix + "API_URL":   "api.base_url",
		prefix + "CDN_URL":   "api.cdn_url",
		prefix + "LOCALE":    "ui.locale",
		prefix + "TEMPLATES": "ui.templates",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// Load reads environment variables into a layer.
// Empty values are treated as set.
func (l *EnvLoader) Load() (Layer, error) {
	config := make(Layer)

	for env, path := range l.mapping {
		if val, ok := os.LookupEnv(env); ok {
			config.Set(path, parseValue(val))
		}
	}

	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, l.prefix) {
			continue
		}
		name, value, ok := strings.Cut(env, "=")
		if !ok || l.skip[name] {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}
		if path := l.envToPath(name); path != "" {
			config.Set(path, parseValue(value))
		}
	}

	return config, nil
}

// envToPath converts WEBLAREK_API_RATE_LIMIT to api.rate_limit.
// Variables without a key part are ignored.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, key, ok := strings.Cut(name, "_")
	if !ok || section == "" || key == "" {
		return ""
	}
	return section + "." + key
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	// Only values with a decimal point are floats.
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	return s
}
