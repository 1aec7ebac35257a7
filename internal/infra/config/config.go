package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from
// environment variables.
type Config struct {
	Env              string
	HTTPAddr         string
	BackendBaseURL   string
	BackendTimeout   time.Duration
	SessionStore     string
	SessionTTL       time.Duration
	RedisAddr        string
	RedisPassword    string
	MongoURI         string
	MongoDB          string
	IdempotencyTTL   time.Duration
	KafkaBrokers     []string
	KafkaTopicPrefix string
	FilterDebounce   time.Duration
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		BackendBaseURL:   os.Getenv("BACKEND_BASE_URL"),
		SessionStore:     strings.ToLower(getEnv("SESSION_STORE", "memory")),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "chaletbook"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	backendTimeout, err := parseDurationEnv("BACKEND_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.BackendTimeout = backendTimeout

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 2*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = sessionTTL

	idempotencyTTL, err := parseDurationEnv("IDEMP_TTL", 168*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.IdempotencyTTL = idempotencyTTL

	debounce, err := parseDurationEnv("FILTER_DEBOUNCE", 300*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.FilterDebounce = debounce

	if cfg.BackendBaseURL == "" {
		return Config{}, fmt.Errorf("BACKEND_BASE_URL is required")
	}
	switch cfg.SessionStore {
	case "memory", "redis":
	default:
		return Config{}, fmt.Errorf("SESSION_STORE must be memory or redis, got %q", cfg.SessionStore)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}
