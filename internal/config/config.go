// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, upstream source URLs, poll intervals,
// rate limiting, and observability. Upstream sources and intervals can also
// be overridden from an optional YAML file (SOURCES_FILE) so a deployment
// can swap data sources without rebuilding its environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-ops-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// SourcesConfig defines the upstream data sources and their poll cadence.
type SourcesConfig struct {
	ExampleDataURL   string        `yaml:"example_data_url"`   // demo order batches
	PredictionURL    string        `yaml:"prediction_url"`     // shortage prediction batch endpoint
	ConversationsURL string        `yaml:"conversations_url"`  // call-system API base, up to /convai
	AgentID          string        `yaml:"agent_id"`           // voice agent scope
	CallsAPIKey      string        `yaml:"calls_api_key"`      // xi-api-key header value
	ObservedURL      string        `yaml:"observed_url"`       // observed-shortages webhook (proxied)
	OutboundURL      string        `yaml:"outbound_url"`       // outbound-resolution webhook
	TriggerCallURL   string        `yaml:"trigger_call_url"`   // call-trigger webhook
	UpstreamTimeout  time.Duration `yaml:"upstream_timeout"`   // per-request bound
	CallsInterval    time.Duration `yaml:"calls_interval"`     // call-log poll cadence
	OutboundInterval time.Duration `yaml:"outbound_interval"`  // resolution poll cadence
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	Sources      SourcesConfig
	SeedDemoData bool // seed the store with the demo fallback dataset

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies the optional
// sources file, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api")),

		// App
		Sources: SourcesConfig{
			ExampleDataURL:   getenv("EXAMPLE_DATA_URL", ""),
			PredictionURL:    getenv("PREDICTION_URL", ""),
			ConversationsURL: getenv("CONVERSATIONS_URL", "https://api.elevenlabs.io/v1/convai"),
			AgentID:          getenv("CALLS_AGENT_ID", ""),
			CallsAPIKey:      getenv("CALLS_API_KEY", ""),
			ObservedURL:      getenv("OBSERVED_WEBHOOK_URL", ""),
			OutboundURL:      getenv("OUTBOUND_WEBHOOK_URL", ""),
			TriggerCallURL:   getenv("TRIGGER_CALL_URL", ""),
			UpstreamTimeout:  getdur("UPSTREAM_TIMEOUT", 15*time.Second),
			CallsInterval:    getdur("CALLS_POLL_INTERVAL", 10*time.Second),
			OutboundInterval: getdur("OUTBOUND_POLL_INTERVAL", 60*time.Second),
		},
		SeedDemoData: getbool("SEED_DEMO_DATA", true),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 20.0),
		RateBurst: getint("RATE_BURST", 40),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-ops-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	if path := getenv("SOURCES_FILE", ""); path != "" {
		if err := applySourcesFile(&cfg.Sources, path); err != nil {
			return cfg, err
		}
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.Sources.UpstreamTimeout <= 0 {
		return cfg, errors.New("UPSTREAM_TIMEOUT must be > 0")
	}
	if cfg.Sources.CallsInterval < 0 || cfg.Sources.OutboundInterval < 0 {
		return cfg, errors.New("poll intervals must be >= 0 (0 disables the poller)")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// applySourcesFile overlays non-zero values from a YAML sources file onto
// the env-derived sources. The file wins over the environment, because it
// is the more deliberate of the two.
func applySourcesFile(dst *SourcesConfig, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read sources file %s: %w", path, err)
	}
	var file SourcesConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse sources file %s: %w", path, err)
	}
	if file.ExampleDataURL != "" {
		dst.ExampleDataURL = file.ExampleDataURL
	}
	if file.PredictionURL != "" {
		dst.PredictionURL = file.PredictionURL
	}
	if file.ConversationsURL != "" {
		dst.ConversationsURL = file.ConversationsURL
	}
	if file.AgentID != "" {
		dst.AgentID = file.AgentID
	}
	if file.CallsAPIKey != "" {
		dst.CallsAPIKey = file.CallsAPIKey
	}
	if file.ObservedURL != "" {
		dst.ObservedURL = file.ObservedURL
	}
	if file.OutboundURL != "" {
		dst.OutboundURL = file.OutboundURL
	}
	if file.TriggerCallURL != "" {
		dst.TriggerCallURL = file.TriggerCallURL
	}
	if file.UpstreamTimeout > 0 {
		dst.UpstreamTimeout = file.UpstreamTimeout
	}
	if file.CallsInterval > 0 {
		dst.CallsInterval = file.CallsInterval
	}
	if file.OutboundInterval > 0 {
		dst.OutboundInterval = file.OutboundInterval
	}
	return nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
