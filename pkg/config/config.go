package config

import "time"

// Config is the root configuration structure for Kotoba.
// It is loaded once at startup and treated as read-only afterwards.
type Config struct {
	// Server contains HTTP listener configuration including listen address,
	// timeouts, body limits and CORS.
	Server ServerConfig `yaml:"server"`

	// Upstream contains the chat-completion API settings: endpoint, model,
	// credential and sampling temperature.
	Upstream UpstreamConfig `yaml:"upstream"`

	// UI controls the embedded chat page served on non-POST requests.
	UI UIConfig `yaml:"ui"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must exceed the upstream timeout or slow upstream answers
	// are cut off before they can be relayed.
	// Default: 45s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the JSON request body. Larger bodies are read as
	// malformed and answered with the empty-input message.
	// Default: 65536 (64KB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS configuration for hosting the chat widget on
// another origin.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins. ["*"] allows all.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed request headers.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`
}

// UpstreamConfig describes the chat-completion API the relay calls.
type UpstreamConfig struct {
	// Endpoint is the full chat-completions URL.
	// Default: "https://api.openai.com/v1/chat/completions"
	Endpoint string `yaml:"endpoint"`

	// APIKey is the bearer credential. Normally supplied through the
	// OPENAI_API_KEY environment variable or the .env file. An empty key is
	// allowed at startup; requests are then answered with the
	// missing-credential message.
	APIKey string `yaml:"api_key"`

	// Model is the model identifier sent with every request.
	// Default: "gpt-5-mini"
	Model string `yaml:"model"`

	// Temperature is the sampling temperature sent with every request.
	// Default: 0.3
	Temperature float64 `yaml:"temperature"`

	// Timeout bounds a single upstream call. Expiry is reported to the
	// caller as a transport failure.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// UIConfig controls the embedded chat page.
type UIConfig struct {
	// Enabled controls whether non-POST requests on "/" serve the page.
	// Default: true
	Enabled bool `yaml:"enabled"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	AddSource bool `yaml:"add_source"`

	// Redact masks bearer tokens and API keys in logged strings.
	// Default: true
	Redact bool `yaml:"redact"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "kotoba"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "relay"
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets defines histogram buckets (seconds).
	// Default: [0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// ServiceName is the service name in traces.
	// Default: "kotoba"
	ServiceName string `yaml:"service_name"`
}
