// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Built-in configuration defaults. Each run starts from a fresh copy;
// there is no mutable process-wide state.
const (
	DefaultHost               = "localhost"
	DefaultPort               = 8087
	DefaultKeyStorePath       = "keys/clientkeys.p12"
	DefaultKeyStorePassword   = "password"
	DefaultTrustStorePath     = "keys/clienttrust.p12"
	DefaultTrustStorePassword = "password"
)

// ConfigFileEnv names the optional defaults file. Supported extensions:
// .json, .yaml, .yml.
const ConfigFileEnv = "TLS_MTLS_CLIENT_CONFIG"

// ErrConfigParse indicates bad or missing command-line values, or an
// unreadable defaults file. The run aborts after usage is displayed.
var ErrConfigParse = errors.New("cli: invalid configuration")

// Config is one run's complete configuration. It is built incrementally
// by the option chain and treated as immutable once parsing completes.
type Config struct {
	Host               string
	Port               int
	KeyStorePath       string
	KeyStorePassword   string
	TrustStorePath     string
	TrustStorePassword string

	// ForcedAlias overrides the platform's automatic client-identity
	// selection when AliasSet is true. An empty forced alias matches no
	// entry, so the run presents no identity rather than falling back to
	// automatic selection.
	ForcedAlias string
	AliasSet    bool

	// Encoding is the IANA charset name for the wire; empty means UTF-8.
	Encoding string

	// ListOnly prints the identity store contents instead of connecting.
	ListOnly bool

	// LogFormat selects the logger ("json" or human-readable); file-only.
	LogFormat string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Host:               DefaultHost,
		Port:               DefaultPort,
		KeyStorePath:       DefaultKeyStorePath,
		KeyStorePassword:   DefaultKeyStorePassword,
		TrustStorePath:     DefaultTrustStorePath,
		TrustStorePassword: DefaultTrustStorePassword,
	}
}

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// fileConfig mirrors the defaults file layout.
type fileConfig struct {
	Defaults struct {
		Host               string `json:"host,omitempty" yaml:"host,omitempty"`
		Port               int    `json:"port,omitempty" yaml:"port,omitempty"`
		KeyStore           string `json:"keyStore,omitempty" yaml:"keyStore,omitempty"`
		KeyStorePassword   string `json:"keyStorePassword,omitempty" yaml:"keyStorePassword,omitempty"`
		TrustStore         string `json:"trustStore,omitempty" yaml:"trustStore,omitempty"`
		TrustStorePassword string `json:"trustStorePassword,omitempty" yaml:"trustStorePassword,omitempty"`
		Encoding           string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	} `json:"defaults" yaml:"defaults"`

	Log struct {
		Format string `json:"format,omitempty" yaml:"format,omitempty"`
	} `json:"log" yaml:"log"`
}

// LoadConfig builds the starting configuration: built-in defaults,
// overlaid with the defaults file when ConfigFileEnv names one. Flags
// parsed afterwards always win over both.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv(ConfigFileEnv)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: defaults file %q: %v", ErrConfigParse, path, err)
	}

	var fc fileConfig
	if err := unmarshalConfig(data, &fc, detectConfigFormat(path)); err != nil {
		return cfg, fmt.Errorf("%w: defaults file %q: %v", ErrConfigParse, path, err)
	}

	if fc.Defaults.Host != "" {
		cfg.Host = fc.Defaults.Host
	}
	if fc.Defaults.Port != 0 {
		cfg.Port = fc.Defaults.Port
	}
	if fc.Defaults.KeyStore != "" {
		cfg.KeyStorePath = fc.Defaults.KeyStore
	}
	if fc.Defaults.KeyStorePassword != "" {
		cfg.KeyStorePassword = fc.Defaults.KeyStorePassword
	}
	if fc.Defaults.TrustStore != "" {
		cfg.TrustStorePath = fc.Defaults.TrustStore
	}
	if fc.Defaults.TrustStorePassword != "" {
		cfg.TrustStorePassword = fc.Defaults.TrustStorePassword
	}
	if fc.Defaults.Encoding != "" {
		cfg.Encoding = fc.Defaults.Encoding
	}
	cfg.LogFormat = fc.Log.Format

	return cfg, nil
}

// detectConfigFormat determines the configuration file format based on
// file extension, case-insensitively.
func detectConfigFormat(configPath string) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// unmarshalConfig unmarshals configuration data based on the specified format.
func unmarshalConfig(data []byte, config *fileConfig, format configFormat) error {
	switch format {
	case configFormatYAML:
		return yaml.Unmarshal(data, config)
	default:
		return json.Unmarshal(data, config)
	}
}
