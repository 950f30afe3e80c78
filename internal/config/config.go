// Package config loads and validates the runtime configuration from an
// .ini file (the same `config/config.ini` format the deployment scripts
// have always shipped).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values for a sync run.
// Values are populated by Load from the [DEFAULT] section of the ini file.
type Config struct {
	// URL is the base URL of the Fleet Management HTTP API. Required.
	URL string

	// APIKey is attached to every request as the api_key query parameter.
	// Required.
	APIKey string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from the ini file at path and returns a Config.
// Returns an error listing any required keys that are not set.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	// The ini codec nests keys under their section name, so the DEFAULT
	// section's keys are addressed as "default.<key>" (viper keys are
	// case-insensitive).
	cfg := Config{
		URL:      v.GetString("default.url"),
		APIKey:   v.GetString("default.apikey"),
		LogLevel: v.GetString("default.loglevel"),
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	var missing []string
	if cfg.URL == "" {
		missing = append(missing, "Url")
	}
	if cfg.APIKey == "" {
		missing = append(missing, "ApiKey")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%s: required config keys not set: %s", path, strings.Join(missing, ", "))
	}

	return cfg, nil
}
