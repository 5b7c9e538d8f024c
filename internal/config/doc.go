// Package config loads the storefront settings.
//
// Settings come from four places, later ones winning: Default(), the config
// file (TOML or YAML, by extension), .env files and the process
// environment. A .env file never overrides a variable that is already set.
// Each source is read into a Layer, the layers are overlaid, and the result
// is decoded over Default() and checked by Validate.
//
//	cfg, err := config.Load(config.Options{
//		Path:     "weblarek.toml",
//		EnvFiles: []string{".env"},
//	})
//
// # Environment Variables
//
// Variables carrying the WEBLAREK_ prefix map onto settings: the first
// segment after the prefix names the section, the rest the key.
// WEBLAREK_API_BASE_URL sets api.base_url and WEBLAREK_LOG_LEVEL sets
// log.level. A few shorthands such as WEBLAREK_ADDR are mapped explicitly.
package config
