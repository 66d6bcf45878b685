package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/grzedomin/betpicks/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	DBURL          string

	ResultsCacheTTL    time.Duration
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration

	PprofEnabled bool
	PprofAddr    string

	ScoreFeedBaseURL               string
	ScoreFeedToken                 string
	ScoreFeedTimeout               time.Duration
	ScoreFeedMaxRetries            int
	ScoreFeedRateLimitRPS          int
	ScoreFeedCircuitEnabled        bool
	ScoreFeedCircuitFailureCount   int
	ScoreFeedCircuitOpenTimeout    time.Duration
	ScoreFeedCircuitHalfOpenMaxReq int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string

	InternalJobToken string
	LogLevel         logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	resultsCacheTTL, err := time.ParseDuration(getEnv("RESULTS_CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RESULTS_CACHE_TTL: %w", err)
	}
	if resultsCacheTTL <= 0 {
		return Config{}, fmt.Errorf("RESULTS_CACHE_TTL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	scoreFeedTimeout, err := time.ParseDuration(getEnv("SCOREFEED_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREFEED_TIMEOUT: %w", err)
	}
	scoreFeedMaxRetries, err := getEnvAsInt("SCOREFEED_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREFEED_MAX_RETRIES: %w", err)
	}
	scoreFeedRateLimit, err := getEnvAsInt("SCOREFEED_RATE_LIMIT_RPS", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREFEED_RATE_LIMIT_RPS: %w", err)
	}
	if scoreFeedRateLimit <= 0 {
		return Config{}, fmt.Errorf("SCOREFEED_RATE_LIMIT_RPS must be > 0")
	}
	scoreFeedCircuitEnabled, err := strconv.ParseBool(getEnv("SCOREFEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREFEED_CIRCUIT_ENABLED: %w", err)
	}
	scoreFeedCircuitFailureCount, err := getEnvAsInt("SCOREFEED_CIRCUIT_FAILURE_COUNT", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREFEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	scoreFeedCircuitOpenTimeout, err := time.ParseDuration(getEnv("SCOREFEED_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREFEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	scoreFeedCircuitHalfOpenMaxReq, err := getEnvAsInt("SCOREFEED_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREFEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}

	serviceName := getEnv("SERVICE_NAME", "betpicks")

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		DBURL:          strings.TrimSpace(getEnv("DB_URL", "")),

		ResultsCacheTTL:    resultsCacheTTL,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", ":6060"),

		ScoreFeedBaseURL:               strings.TrimSpace(getEnv("SCOREFEED_BASE_URL", "")),
		ScoreFeedToken:                 strings.TrimSpace(getEnv("SCOREFEED_TOKEN", "")),
		ScoreFeedTimeout:               scoreFeedTimeout,
		ScoreFeedMaxRetries:            scoreFeedMaxRetries,
		ScoreFeedRateLimitRPS:          scoreFeedRateLimit,
		ScoreFeedCircuitEnabled:        scoreFeedCircuitEnabled,
		ScoreFeedCircuitFailureCount:   scoreFeedCircuitFailureCount,
		ScoreFeedCircuitOpenTimeout:    scoreFeedCircuitOpenTimeout,
		ScoreFeedCircuitHalfOpenMaxReq: scoreFeedCircuitHalfOpenMaxReq,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", serviceName)),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),

		InternalJobToken: strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		LogLevel:         parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	if cfg.ScoreFeedBaseURL == "" {
		return Config{}, fmt.Errorf("SCOREFEED_BASE_URL is required")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	env := strings.ToLower(strings.TrimSpace(v))
	switch env {
	case EnvDev, EnvStage, EnvProd:
		return env, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
