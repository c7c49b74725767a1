package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the configuration and returns a ValidationError if any
// rule fails. All errors are collected and returned together.
//
// The upstream API key is intentionally not required: a server without a key
// still starts and answers every request with the missing-credential message.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateUpstream(&cfg.Upstream)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}
	if cfg.MaxHeaderBytes < 0 || cfg.MaxHeaderBytes > 10*1024*1024 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be between 0 and 10MB",
		})
	}
	if cfg.MaxBodyBytes <= 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be positive",
		})
	}

	return errs
}

// validateUpstream validates the chat-completion API settings.
func validateUpstream(cfg *UpstreamConfig) []FieldError {
	var errs []FieldError

	if cfg.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "upstream.endpoint",
			Message: "endpoint is required",
		})
	} else if u, err := url.Parse(cfg.Endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, FieldError{
			Field:   "upstream.endpoint",
			Message: fmt.Sprintf("invalid URL %q: must be an absolute http(s) URL", cfg.Endpoint),
		})
	}
	if cfg.Model == "" {
		errs = append(errs, FieldError{
			Field:   "upstream.model",
			Message: "model is required",
		})
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		errs = append(errs, FieldError{
			Field:   "upstream.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}
	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "upstream.timeout",
			Message: "timeout must be positive",
		})
	}

	return errs
}

// validateTelemetry validates logging, metrics and tracing configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q: must be one of debug, info, warn, error", cfg.Logging.Level),
		})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q: must be json or text", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with '/'",
		})
	}
	if cfg.Metrics.Path == "/" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must not shadow the relay route",
		})
	}

	if cfg.Tracing.Enabled {
		switch cfg.Tracing.Sampler {
		case "always", "never", "ratio":
		default:
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sampler",
				Message: fmt.Sprintf("invalid sampler %q: must be always, never or ratio", cfg.Tracing.Sampler),
			})
		}
		if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: "sample ratio must be between 0 and 1",
			})
		}
		if cfg.Tracing.Endpoint == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.endpoint",
				Message: "endpoint is required when tracing is enabled",
			})
		}
	}

	return errs
}

// Redacted returns a copy of cfg that is safe to print: the API key is
// replaced by a fixed mask that keeps only its last four characters.
func (c *Config) Redacted() *Config {
	out := *c
	out.Upstream.APIKey = MaskSecret(c.Upstream.APIKey)
	return &out
}

// MaskSecret hides all but the last four characters of a secret.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
