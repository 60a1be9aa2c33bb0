// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database paths, authentication secrets,
// file uploads, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
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
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "aidex-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// AuthConfig defines token issuance settings. SecretKey signs every access
// and password-reset token; rotating it invalidates the whole fleet.
type AuthConfig struct {
	SecretKey      string        // SECRET_KEY (required, no default)
	AccessTokenTTL time.Duration // ACCESS_TOKEN_EXPIRE (e.g. 8h)
	ResetTokenTTL  time.Duration // RESET_TOKEN_EXPIRE (e.g. 1h)
}

// SuperuserConfig defines the account seeded at first startup.
type SuperuserConfig struct {
	Email    string // FIRST_SUPERUSER
	Password string // FIRST_SUPERUSER_PASSWORD
}

// AIConfig defines settings for the OpenAI-compatible chat collaborator.
type AIConfig struct {
	Enabled bool   // AI_ENABLED
	APIKey  string // AI_API_KEY
	BaseURL string // AI_BASE_URL (e.g. "https://api.deepseek.com/v1")
	Model   string // AI_MODEL
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
	DBPath      string // SQLite path
	UploadDir   string // directory for uploaded paper files
	BackendHost string // public base URL used in generated download links

	// Auth
	Auth      AuthConfig
	Superuser SuperuserConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Collaborators
	AI AIConfig

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
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath:      getenv("DB_PATH", "app.db"),
		UploadDir:   getenv("UPLOAD_DIR", "data/uploads"),
		BackendHost: strings.TrimRight(getenv("BACKEND_HOST", "http://localhost:8080"), "/"),

		// Auth
		Auth: AuthConfig{
			SecretKey:      getenv("SECRET_KEY", ""),
			AccessTokenTTL: getdur("ACCESS_TOKEN_EXPIRE", 8*24*time.Hour),
			ResetTokenTTL:  getdur("RESET_TOKEN_EXPIRE", time.Hour),
		},
		Superuser: SuperuserConfig{
			Email:    getenv("FIRST_SUPERUSER", "admin@example.com"),
			Password: getenv("FIRST_SUPERUSER_PASSWORD", ""),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Collaborators
		AI: AIConfig{
			Enabled: getbool("AI_ENABLED", false),
			APIKey:  getenv("AI_API_KEY", ""),
			BaseURL: strings.TrimRight(getenv("AI_BASE_URL", "https://api.deepseek.com/v1"), "/"),
			Model:   getenv("AI_MODEL", "deepseek-chat"),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "aidex-backend"),
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
	if strings.TrimSpace(cfg.UploadDir) == "" {
		return cfg, errors.New("UPLOAD_DIR must not be empty")
	}
	if strings.TrimSpace(cfg.Auth.SecretKey) == "" {
		// Token signing cannot work without a secret; refuse to serve traffic.
		return cfg, errors.New("SECRET_KEY must be set")
	}
	if cfg.Auth.AccessTokenTTL <= 0 || cfg.Auth.ResetTokenTTL <= 0 {
		return cfg, errors.New("token TTLs must be positive durations")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// Env helpers. Empty values count as unset, and unparseable values fall back
// to the default rather than failing startup; validation above catches the
// cases that actually matter.

func lookup(k string) (string, bool) {
	v, ok := os.LookupEnv(k)
	return v, ok && v != ""
}

func getenv(k, def string) string {
	if v, ok := lookup(k); ok {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	v, ok := lookup(k)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getint(k string, def int) int {
	v, ok := lookup(k)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getbool accepts the usual truthy/falsy spellings found in compose files and
// CI environments, not just strconv.ParseBool tokens.
func getbool(k string, def bool) bool {
	v, ok := lookup(k)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	v, ok := lookup(k)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath forces a leading slash and strips the trailing one, so
// route registration can concatenate segments without doubling separators.
func normalizeBasePath(p string) string {
	p = "/" + strings.Trim(strings.TrimSpace(p), "/")
	return p
}
