package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"

	CatalogSeed     = "seed"
	CatalogFile     = "file"
	CatalogPostgres = "postgres"

	defaultRedisAddr = "localhost:6379"
)

type Config struct {
	Port    string
	LogMode string

	StoreBackend string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	CatalogSource string
	CatalogPath   string

	RateLimitCapacity int
	RateLimitWindow   time.Duration

	IdempotencyTTL           time.Duration
	IdempotencySweepInterval time.Duration
	IdempotencyWait          time.Duration

	InactivityDecayEnabled bool
	InactivityThreshold    time.Duration

	EstimatorURL     string
	EstimatorTimeout time.Duration

	JWTSecret      string
	CORSOrigins    []string
	MetricsEnabled bool
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		LogMode:       getEnv("LOG_MODE", "dev"),
		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisPrefix:   getEnv("REDIS_PREFIX", "brainbolt"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "brainbolt"),
		DBPassword:    getEnv("DB_PASSWORD", "brainbolt"),
		DBName:        getEnv("DB_NAME", "brainbolt"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		CatalogSource: strings.ToLower(getEnv("CATALOG_SOURCE", CatalogSeed)),
		CatalogPath:   getEnv("CATALOG_FILE", ""),
		EstimatorURL:  strings.TrimRight(getEnv("ESTIMATOR_URL", ""), "/"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitCapacity, err = intEnv("RATE_LIMIT_CAPACITY", 30); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = durationEnv("RATE_LIMIT_WINDOW", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.IdempotencySweepInterval, err = durationEnv("IDEMPOTENCY_SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.IdempotencyWait, err = durationEnv("IDEMPOTENCY_WAIT", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.InactivityDecayEnabled, err = boolEnv("INACTIVITY_DECAY_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.InactivityThreshold, err = durationEnv("INACTIVITY_THRESHOLD", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.EstimatorTimeout, err = durationEnv("ESTIMATOR_TIMEOUT", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.MetricsEnabled, err = boolEnv("METRICS_ENABLED", true); err != nil {
		return nil, err
	}

	if cfg.StoreBackend == BackendRedis && cfg.RedisAddr == "" {
		cfg.RedisAddr = defaultRedisAddr
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("STORE_BACKEND: unknown backend %q", c.StoreBackend)
	}
	switch c.CatalogSource {
	case CatalogSeed, CatalogPostgres:
	case CatalogFile:
		if c.CatalogPath == "" {
			return fmt.Errorf("CATALOG_FILE: required when CATALOG_SOURCE=file")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE: unknown source %q", c.CatalogSource)
	}
	if c.RateLimitCapacity <= 0 {
		return fmt.Errorf("RATE_LIMIT_CAPACITY: must be positive")
	}
	if c.RateLimitWindow <= 0 || c.IdempotencyTTL <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW and IDEMPOTENCY_TTL must be positive")
	}
	return nil
}

// DSN builds the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// UsesRedis reports whether the server dials redis. The redis backend
// always does; the postgres backend puts its volatile components there
// only when REDIS_ADDR is set; the memory backend never does.
func (c *Config) UsesRedis() bool {
	switch c.StoreBackend {
	case BackendRedis:
		return true
	case BackendPostgres:
		return c.RedisAddr != ""
	default:
		return false
	}
}

// NeedsPostgres reports whether any component is backed by Postgres.
func (c *Config) NeedsPostgres() bool {
	return c.StoreBackend == BackendPostgres || c.CatalogSource == CatalogPostgres
}

// ── Helpers ─────────────────────────────────────────────

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
