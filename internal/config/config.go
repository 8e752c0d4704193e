package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName          = "Strabo"
	defaultAppEnv           = "development"
	defaultPort             = "8080"
	defaultLogLevel         = "info"
	defaultShutdownDelay    = 10 * time.Second
	defaultVerifierCacheTTL = 5 * time.Minute
	defaultTokeninfoURL     = "https://www.googleapis.com/oauth2/v1/tokeninfo"
	defaultAuthRatePerMin   = 30

	// VerifierStatic derives the email deterministically from the access token.
	// Only suitable for development and tests.
	VerifierStatic = "static"
	// VerifierGoogle resolves the email through the Google tokeninfo endpoint.
	VerifierGoogle = "google"

	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
	verifierCacheTTLEnvVar = "VERIFIER_CACHE_TTL"
	authRateEnvVar         = "AUTH_RATE_PER_MINUTE"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName          string
	AppEnv           string
	Port             string
	LogLevel         string
	DatabaseURL      string
	RedisURL         string
	ShutdownPeriod   time.Duration
	Verifier         string
	TokeninfoURL     string
	VerifierCacheTTL time.Duration
	AuthRatePerMin   int
}

// Load reads configuration values from the environment and populates a Config
// instance. DATABASE_URL and REDIS_URL are mandatory outside development; in
// development the route wiring falls back to in-memory stores when they are absent.
func Load() (Config, error) {
	cfg := Config{
		AppName:          getEnv("APP_NAME", defaultAppName),
		AppEnv:           getEnv("APP_ENV", defaultAppEnv),
		Port:             getEnv("PORT", defaultPort),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		ShutdownPeriod:   defaultShutdownDelay,
		Verifier:         strings.ToLower(getEnv("ACCESS_TOKEN_VERIFIER", VerifierStatic)),
		TokeninfoURL:     getEnv("TOKENINFO_URL", defaultTokeninfoURL),
		VerifierCacheTTL: defaultVerifierCacheTTL,
		AuthRatePerMin:   defaultAuthRatePerMin,
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv(verifierCacheTTLEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", verifierCacheTTLEnvVar, err)
		}
		cfg.VerifierCacheTTL = d
	}

	if v := os.Getenv(authRateEnvVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", authRateEnvVar, err)
		}
		cfg.AuthRatePerMin = n
	}

	switch cfg.Verifier {
	case VerifierStatic, VerifierGoogle:
	default:
		return Config{}, fmt.Errorf("invalid ACCESS_TOKEN_VERIFIER %q", cfg.Verifier)
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// IsDev reports whether the configured environment is a development one.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
