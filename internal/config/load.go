package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Options selects the sources Load reads.
type Options struct {
	// Path is the config file. Empty means no file layer.
	Path string
	// EnvFiles are .env files loaded into the process environment.
	// Missing files are skipped.
	EnvFiles []string
	// EnvPrefix defaults to EnvPrefix.
	EnvPrefix string
}

// Load builds the configuration from defaults, the config file, .env files
// and the environment, then validates it.
func Load(opts Options) (*Config, error) {
	if err := loadEnvFiles(opts.EnvFiles); err != nil {
		return nil, err
	}

	var merged Layer
	if opts.Path != "" {
		file, err := LoadFile(opts.Path)
		if err != nil {
			return nil, err
		}
		merged = merged.Overlay(file)
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = EnvPrefix
	}
	env, err := NewEnvLoader(prefix).Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	merged = merged.Overlay(env)

	cfg := Default()
	if err := decode(merged, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile parses a TOML or YAML file into a layer. The format is chosen
// by extension.
func LoadFile(path string) (Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var config map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return Layer(config), nil
}

func loadEnvFiles(paths []string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading env files: %w", err)
	}
	return nil
}

// decode re-encodes the merged layers and decodes them over cfg, so keys
// absent from every layer keep their defaults.
func decode(merged Layer, cfg *Config) error {
	if len(merged) == 0 {
		return nil
	}
	data, err := yaml.Marshal(map[string]any(merged))
	if err != nil {
		return fmt.Errorf("encoding merged config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &ParseError{Path: "<merged>", Err: err}
	}
	return nil
}
