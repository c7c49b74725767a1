package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 45 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = 65536   // 64KB

	// CORS defaults
	DefaultCORSMaxAge = 3600

	// Upstream defaults
	DefaultUpstreamEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultUpstreamModel    = "gpt-5-mini"
	DefaultTemperature      = 0.3
	DefaultUpstreamTimeout  = 30 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel   = "info"
	DefaultLoggingFormat  = "json"
	DefaultMetricsPath    = "/metrics"
	DefaultMetricsNS      = "kotoba"
	DefaultMetricsSub     = "relay"
	DefaultTracingSampler = "ratio"
	DefaultTracingRatio   = 1.0
	DefaultTracingAddr    = "localhost:4317"
	DefaultServiceName    = "kotoba"
)

// Default returns a configuration populated with every default value.
// Boolean switches whose default is true are only representable this way:
// the YAML file is decoded on top of this value, so an explicit "false"
// in the file survives.
func Default() *Config {
	cfg := &Config{
		Upstream: UpstreamConfig{Temperature: DefaultTemperature},
		UI:       UIConfig{Enabled: true},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{Redact: true},
			Metrics: MetricsConfig{Enabled: true},
			Tracing: TracingConfig{Insecure: true},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// CORS defaults
	if len(cfg.Server.CORS.AllowedOrigins) == 0 {
		cfg.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.Server.CORS.AllowedMethods) == 0 {
		cfg.Server.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.Server.CORS.AllowedHeaders) == 0 {
		cfg.Server.CORS.AllowedHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Server.CORS.MaxAge == 0 {
		cfg.Server.CORS.MaxAge = DefaultCORSMaxAge
	}

	// Upstream defaults. Temperature 0 is a legal value, so the default only
	// comes from Default().
	if cfg.Upstream.Endpoint == "" {
		cfg.Upstream.Endpoint = DefaultUpstreamEndpoint
	}
	if cfg.Upstream.Model == "" {
		cfg.Upstream.Model = DefaultUpstreamModel
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = DefaultUpstreamTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNS
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSub
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingRatio
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingAddr
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultServiceName
	}
}
