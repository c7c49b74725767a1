package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names read by the loader.
const (
	EnvAPIKey      = "OPENAI_API_KEY"
	EnvModel       = "OPENAI_MODEL"
	EnvEndpoint    = "OPENAI_API_URL"
	EnvPort        = "PORT"
	envPrefix      = "KOTOBA_"
	DefaultCfgPath = "kotoba.yaml"
)

// LoadOptions controls where Load reads configuration from.
type LoadOptions struct {
	// ConfigPath is the YAML file. Empty skips the file entirely.
	ConfigPath string

	// ConfigOptional treats a missing ConfigPath as "no file".
	ConfigOptional bool

	// DotEnvPath is the env file. A missing file is never an error.
	DotEnvPath string

	// Lookup replaces os.LookupEnv, mainly for tests.
	Lookup LookupFunc
}

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values and validates the result. Environment variables
// are not consulted; use Load for that.
func LoadConfig(path string) (*Config, error) {
	cfg, err := loadFile(path, false)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Load builds the effective configuration. Sources are applied in order,
// later ones overriding earlier ones:
//
//  1. Default values
//  2. YAML file
//  3. Env file (.env)
//  4. Process environment
//
// Steps 3 and 4 are resolved through Environment, so a variable present in
// the process environment is never replaced by the env file. The process
// environment itself is not modified.
func Load(opts LoadOptions) (*Config, error) {
	cfg, err := loadFile(opts.ConfigPath, opts.ConfigOptional)
	if err != nil {
		return nil, err
	}

	fileValues, err := LoadDotEnv(opts.DotEnvPath)
	if err != nil {
		return nil, err
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	applyEnvOverrides(cfg, EnvironmentFrom(lookup, fileValues))

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// loadFile decodes the YAML file on top of Default().
func loadFile(path string, optional bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// applyEnvOverrides applies environment overrides to the configuration.
// Kotoba-specific settings use the format KOTOBA_SECTION_FIELD; the upstream
// credential, model and endpoint use the conventional OPENAI_* names.
func applyEnvOverrides(cfg *Config, env *Environment) {
	// The credential is existence-based: an empty OPENAI_API_KEY in the
	// process environment deliberately shadows the env file.
	if val, ok := env.Lookup(EnvAPIKey); ok {
		cfg.Upstream.APIKey = val
	}
	if val := env.Get(EnvModel); val != "" {
		cfg.Upstream.Model = val
	}
	if val := env.Get(EnvEndpoint); val != "" {
		cfg.Upstream.Endpoint = val
	}
	if val := env.Get(envPrefix + "UPSTREAM_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Upstream.Timeout = d
		}
	}
	if val := env.Get(envPrefix + "UPSTREAM_TEMPERATURE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Upstream.Temperature = f
		}
	}

	// Server overrides. PORT is the platform convention and only applies
	// when no explicit listen address is given.
	if val := env.Get(envPrefix + "SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	} else if val := env.Get(EnvPort); val != "" {
		cfg.Server.ListenAddress = net.JoinHostPort("0.0.0.0", val)
	}
	if val := env.Get(envPrefix + "SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := env.Get(envPrefix + "SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := env.Get(envPrefix + "SERVER_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = i
		}
	}
	if val := env.Get(envPrefix + "SERVER_CORS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Server.CORS.Enabled = b
		}
	}

	if val := env.Get(envPrefix + "UI_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.UI.Enabled = b
		}
	}

	// Telemetry overrides
	if val := env.Get(envPrefix + "TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := env.Get(envPrefix + "TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := env.Get(envPrefix + "TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := env.Get(envPrefix + "TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := env.Get(envPrefix + "TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := env.Get(envPrefix + "TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}
