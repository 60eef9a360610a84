// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package config loads the settings shared by the pkcs12-request CLI and the
// MCP server.
//
// A configuration file is JSON or YAML (chosen by extension). Missing values
// fall back to defaults, selected values can come from the environment, and
// the result is checked against an embedded JSON schema.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	x509pkcs12 "github.com/H0llyW00dzZ/pkcs12-transport/src/internal/x509/pkcs12"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/tlsctx"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/transport"
)

// Environment variables read by [Load].
const (
	// EnvConfigFile names the configuration file when Load gets an empty path.
	EnvConfigFile = "PKCS12_TRANSPORT_CONFIG_FILE"
	// EnvPassword supplies the bundle password when the file sets none.
	EnvPassword = "PKCS12_PASSWORD"
)

// Defaults applied before a file is merged.
const (
	DefaultProfile         = "client"
	DefaultMaterialization = "memory"
	DefaultTimeoutSeconds  = 30
)

var (
	// ErrInvalidConfig wraps schema violations.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrConflictingVerification is returned when both insecure and caBundle are set.
	ErrConflictingVerification = errors.New("config: insecure and caBundle are mutually exclusive")
)

//go:embed schema.json
var schema string

// configFormat represents supported configuration file formats.
type configFormat int

const (
	configFormatJSON configFormat = iota
	configFormatYAML
)

// Config holds the request settings.
type Config struct {
	// PKCS12File is the client bundle path.
	PKCS12File string `json:"pkcs12File,omitempty" yaml:"pkcs12File,omitempty"`
	// Password is the bundle password. nil means no password; an empty
	// string is an empty password.
	Password *string `json:"password,omitempty" yaml:"password,omitempty"`
	// PasswordEnv names an environment variable holding the password.
	PasswordEnv string `json:"passwordEnv,omitempty" yaml:"passwordEnv,omitempty"`
	// Profile is a [tlsctx.ParseProfile] name.
	Profile string `json:"profile" yaml:"profile"`
	// Materialization is "memory" or "file".
	Materialization string `json:"materialization" yaml:"materialization"`
	// TempDir holds the temporary PEM file for "file" materialization.
	TempDir string `json:"tempDir,omitempty" yaml:"tempDir,omitempty"`
	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	// CABundle verifies servers against this bundle instead of the system roots.
	CABundle string `json:"caBundle,omitempty" yaml:"caBundle,omitempty"`
	// Insecure disables server verification.
	Insecure bool `json:"insecure,omitempty" yaml:"insecure,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Profile:         DefaultProfile,
		Materialization: DefaultMaterialization,
		TimeoutSeconds:  DefaultTimeoutSeconds,
	}
}

func detectConfigFormat(path string) configFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

func unmarshalConfig(data []byte, cfg *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// Load reads the configuration at path, or at $PKCS12_TRANSPORT_CONFIG_FILE
// when path is empty. With neither, the defaults are used.
//
// Priority, lowest first:
//  1. Defaults
//  2. File values
//  3. The variable named by passwordEnv, then $PKCS12_PASSWORD, when the file has no password
//
// The merged configuration must pass [Config.Validate].
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: failed to read config file: %w", err)
		}
		if err := unmarshalConfig(data, cfg, detectConfigFormat(path)); err != nil {
			return nil, err
		}

		if cfg.Profile == "" {
			cfg.Profile = DefaultProfile
		}
		if cfg.Materialization == "" {
			cfg.Materialization = DefaultMaterialization
		}
		if cfg.TimeoutSeconds == 0 {
			cfg.TimeoutSeconds = DefaultTimeoutSeconds
		}
	}

	if cfg.Password == nil {
		cfg.Password = passwordFromEnv(cfg.PasswordEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func passwordFromEnv(name string) *string {
	for _, key := range []string{name, EnvPassword} {
		if key == "" {
			continue
		}
		if v, ok := os.LookupEnv(key); ok {
			return &v
		}
	}
	return nil
}

// Validate checks cfg against the embedded JSON schema and reports every
// violation in one [ErrInvalidConfig] error.
func (c *Config) Validate() error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewGoLoader(c),
	)
	if err != nil {
		return fmt.Errorf("config: schema validation: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
	}

	if c.Insecure && c.CABundle != "" {
		return ErrConflictingVerification
	}
	return nil
}

// Timeout returns TimeoutSeconds as a duration.
func (c *Config) Timeout() time.Duration { return time.Duration(c.TimeoutSeconds) * time.Second }

// Verification returns the server verification the configuration asks for.
func (c *Config) Verification() tlsctx.Verification {
	switch {
	case c.Insecure:
		return tlsctx.VerifyOff
	case c.CABundle != "":
		return tlsctx.VerifyCABundle(c.CABundle)
	default:
		return tlsctx.VerifyDefault
	}
}

// PasswordOption returns the configured password.
func (c *Config) PasswordOption() transport.Password {
	if c.Password == nil {
		return transport.NoPassword()
	}
	return transport.PasswordFromString(*c.Password)
}

// AdapterOptions translates the configuration into adapter options.
// The bundle source is left to the caller unless PKCS12File is set.
func (c *Config) AdapterOptions() ([]transport.Option, error) {
	profile, err := tlsctx.ParseProfile(c.Profile)
	if err != nil {
		return nil, err
	}
	mode, err := x509pkcs12.ParseMaterialization(c.Materialization)
	if err != nil {
		return nil, err
	}

	opts := []transport.Option{
		transport.WithProfile(profile),
		transport.WithPasswordOption(c.PasswordOption()),
		transport.WithMaterialization(mode),
	}
	if mode == x509pkcs12.MaterializeFile {
		opts = append(opts, transport.WithTempDir(c.TempDir))
	}
	if c.PKCS12File != "" {
		opts = append(opts, transport.WithBundleFile(c.PKCS12File))
	}
	return opts, nil
}
