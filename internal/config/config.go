// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, external collaborator credentials
// (Airtable, Twilio, Voiceflow), rate limiting, caching, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/valchyai/ops-backend/internal/sysutil"
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
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "ops-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// AirtableConfig holds credentials and table names for the external record
// store. Table names default to the base's standard layout and are exposed
// as configuration so staging bases with prefixed tables keep working.
type AirtableConfig struct {
	APIKey       string // AIRTABLE_API_KEY
	BaseID       string // AIRTABLE_BASE_ID
	ClientsTable string // AIRTABLE_CLIENTS_TABLE
	CardsTable   string // AIRTABLE_CARDS_TABLE
	HistoryTable string // AIRTABLE_CALL_HISTORY_TABLE
}

// Configured reports whether the record store credentials are present.
func (a AirtableConfig) Configured() bool {
	return a.APIKey != "" && a.BaseID != ""
}

// TwilioConfig holds carrier credentials for SMS operations.
type TwilioConfig struct {
	AccountSID  string // TWILIO_ACCOUNT_SID
	AuthToken   string // TWILIO_AUTH_TOKEN
	PhoneNumber string // TWILIO_PHONE_NUMBER (E.164 sender)
}

// Configured reports whether the carrier credentials are present.
func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.PhoneNumber != ""
}

// VoiceflowConfig holds credentials for the conversational-AI runtime used
// to place outbound voice calls.
type VoiceflowConfig struct {
	APIKey        string // VOICEFLOW_DM_API_KEY
	PhoneNumberID string // VOICEFLOW_PHONE_NUMBER_ID
}

// Configured reports whether the voice runtime credentials are present.
func (v VoiceflowConfig) Configured() bool {
	return v.APIKey != "" && v.PhoneNumberID != ""
}

// AuthConfig holds the shared operator credentials. The same pair backs the
// global Basic-Auth gate and the query-parameter check on carrier-facing
// routes (Twilio and Voiceflow cannot send our Authorization header).
type AuthConfig struct {
	Username string // BASIC_AUTH_USERNAME
	Password string // BASIC_AUTH_PASSWORD
}

// Configured reports whether both secrets are present. When either is
// missing the auth middleware fails closed, so a misconfigured deployment
// rejects every request instead of serving the dashboard open.
func (a AuthConfig) Configured() bool {
	return a.Username != "" && a.Password != ""
}

// RateLimitConfig defines the fixed-window budgets per endpoint sensitivity
// tier. All tiers share one window length.
type RateLimitConfig struct {
	Window      time.Duration // RATE_WINDOW (default 1m)
	LowLimit    int           // RATE_LIMIT_LOW (default 60)
	MediumLimit int           // RATE_LIMIT_MEDIUM (default 30)
	HighLimit   int           // RATE_LIMIT_HIGH (default 10)
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
	BaseURL        string // public deployment base URL

	// App
	DBPath        string        // SQLite path for the local audit store
	CacheTTL      time.Duration // response cache TTL for record-store reads
	CardAttempts  int           // max card-number generation attempts
	WebhookDedupe time.Duration // horizon for inbound MessageSid dedupe

	// External collaborators
	Airtable  AirtableConfig
	Twilio    TwilioConfig
	Voiceflow VoiceflowConfig
	Auth      AuthConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Outbound carrier pacing (token bucket on the Twilio client)
	CarrierRPS   float64 // CARRIER_RPS
	CarrierBurst int     // CARRIER_BURST

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

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

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
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
		BaseURL:        strings.TrimRight(getenv("BASE_URL", "http://localhost:8080"), "/"),

		// App
		DBPath:        getenv("DB_PATH", "ops.db"),
		CacheTTL:      getdur("CACHE_TTL", 30*time.Second),
		CardAttempts:  getint("CARD_ATTEMPTS", 10),
		WebhookDedupe: getdur("WEBHOOK_DEDUPE_TTL", 24*time.Hour),

		// External collaborators
		Airtable: AirtableConfig{
			APIKey:       getenv("AIRTABLE_API_KEY", ""),
			BaseID:       getenv("AIRTABLE_BASE_ID", ""),
			ClientsTable: getenv("AIRTABLE_CLIENTS_TABLE", "Clients"),
			CardsTable:   getenv("AIRTABLE_CARDS_TABLE", "Cards"),
			HistoryTable: getenv("AIRTABLE_CALL_HISTORY_TABLE", "Call History"),
		},
		Twilio: TwilioConfig{
			AccountSID: getenv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getenv("TWILIO_AUTH_TOKEN", ""),
			// Earlier deployments used TWILIO_FROM_NUMBER.
			PhoneNumber: sysutil.FirstNonEmpty(
				os.Getenv("TWILIO_PHONE_NUMBER"),
				os.Getenv("TWILIO_FROM_NUMBER"),
			),
		},
		Voiceflow: VoiceflowConfig{
			APIKey: sysutil.FirstNonEmpty(
				os.Getenv("VOICEFLOW_DM_API_KEY"),
				os.Getenv("VOICEFLOW_API_KEY"),
			),
			PhoneNumberID: getenv("VOICEFLOW_PHONE_NUMBER_ID", ""),
		},
		Auth: AuthConfig{
			Username: getenv("BASIC_AUTH_USERNAME", ""),
			Password: getenv("BASIC_AUTH_PASSWORD", ""),
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			Window:      getdur("RATE_WINDOW", time.Minute),
			LowLimit:    getint("RATE_LIMIT_LOW", 60),
			MediumLimit: getint("RATE_LIMIT_MEDIUM", 30),
			HighLimit:   getint("RATE_LIMIT_HIGH", 10),
		},

		// Outbound carrier pacing
		CarrierRPS:   getfloat("CARRIER_RPS", 5.0),
		CarrierBurst: getint("CARRIER_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "ops-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
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
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.CacheTTL <= 0 {
		return cfg, errors.New("CACHE_TTL must be > 0")
	}
	if cfg.CardAttempts < 1 {
		return cfg, errors.New("CARD_ATTEMPTS must be >= 1")
	}
	if cfg.WebhookDedupe <= 0 {
		return cfg, errors.New("WEBHOOK_DEDUPE_TTL must be > 0")
	}
	if cfg.RateLimit.Window <= 0 {
		return cfg, errors.New("RATE_WINDOW must be > 0")
	}
	if cfg.RateLimit.LowLimit < 1 || cfg.RateLimit.MediumLimit < 1 || cfg.RateLimit.HighLimit < 1 {
		return cfg, errors.New("rate limit tier budgets must be >= 1")
	}
	if cfg.CarrierRPS < 0 {
		return cfg, errors.New("CARRIER_RPS must be >= 0")
	}
	if cfg.CarrierBurst < 1 {
		return cfg, errors.New("CARRIER_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- env helpers ----

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
