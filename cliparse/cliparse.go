package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	RedisURL     string
	SessionTTL   time.Duration
	KafkaBrokers []string
	KafkaTopic   string
	AppURL       string // frontend base URL used in password reset links
}

// ParseFlags reads configuration from flags, falling back to environment
// variables and then to defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var kafkaBrokers, sessionTTL string

	fs := flag.NewFlagSet("updoot", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (postgres or sqlite)")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL for sessions")
	fs.StringVar(&sessionTTL, "session-ttl", "", "Session lifetime (e.g. 720h)")
	fs.StringVar(&kafkaBrokers, "kafka", "", "Comma separated Kafka brokers for vote events")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", "", "Kafka topic for vote events")
	fs.StringVar(&cfg.AppURL, "app-url", "", "Frontend base URL")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 4000 // default
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	cfg.DatabaseType = firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), "postgres")
	if cfg.DatabaseType != "postgres" && cfg.DatabaseType != "sqlite" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	cfg.RedisURL = firstNonEmpty(cfg.RedisURL, os.Getenv("REDIS_URL"), "redis://localhost:6379/0")

	sessionTTL = firstNonEmpty(sessionTTL, os.Getenv("SESSION_TTL"), "8760h")
	ttl, err := time.ParseDuration(sessionTTL)
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("invalid session TTL %q", sessionTTL)
	}
	cfg.SessionTTL = ttl

	// Kafka is optional; without brokers vote events are dropped
	kafkaBrokers = firstNonEmpty(kafkaBrokers, os.Getenv("KAFKA_BROKERS"))
	for _, b := range strings.Split(kafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}
	cfg.KafkaTopic = firstNonEmpty(cfg.KafkaTopic, os.Getenv("KAFKA_TOPIC"), "post-votes")

	cfg.AppURL = strings.TrimRight(firstNonEmpty(cfg.AppURL, os.Getenv("APP_URL"), "http://localhost:3000"), "/")

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
