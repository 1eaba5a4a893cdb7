// Package cliconfig loads the syncset CLI configuration from a YAML
// file with environment variable overrides.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Env variable overrides, highest priority.
const (
	EnvEndpoint = "SYNCSET_ENDPOINT"
	EnvToken    = "SYNCSET_TOKEN"
)

// Config is the CLI configuration.
type Config struct {
	// Endpoint is the remote collection URL. Route templates resolve
	// relative to nothing; this is used verbatim as the fetch/save/
	// delete route unless Routes overrides them.
	Endpoint string `yaml:"endpoint"`

	// Token is an optional bearer token.
	Token string `yaml:"token,omitempty"`

	// Routes overrides the per-action route templates. Keys: fetch,
	// save, delete.
	Routes map[string]string `yaml:"routes,omitempty"`

	// IdentifierKey is the attribute holding record identifiers.
	// Defaults to "id".
	IdentifierKey string `yaml:"identifierKey,omitempty"`

	// RecordsPath is an optional JSONPath selecting the record list
	// out of enveloped responses, e.g. "data.items".
	RecordsPath string `yaml:"recordsPath,omitempty"`

	// UseDeleteBody sends delete identifiers as a JSON body instead
	// of query parameters.
	UseDeleteBody bool `yaml:"useDeleteBody,omitempty"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"logLevel,omitempty"`
}

// DefaultPath returns the default config file location:
// $XDG_CONFIG_HOME/syncset/config.yaml (or ~/.config/syncset/config.yaml).
func DefaultPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "syncset", "config.yaml")
}

// Load reads the config file at path, falling back to DefaultPath
// when path is empty. A missing file is not an error; env overrides
// still apply to the zero config.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env overrides
	default:
		return nil, err
	}

	if v := os.Getenv(EnvEndpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	if cfg.IdentifierKey == "" {
		cfg.IdentifierKey = "id"
	}
	return cfg, nil
}
