package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all settings for a batch run, populated from environment
// variables. Command-line flags may override the directory fields.
type Config struct {
	PointsDir string
	OutputDir string
	Workers   int

	LogLevel  string
	LogFormat string

	// HTTPAddr enables the /healthz /readyz /metrics listener during the
	// run when non-empty. Off by default; a short batch rarely needs it.
	HTTPAddr string

	// KafkaBrokers enables the per-event summary publisher when non-empty.
	KafkaBrokers      []string
	KafkaSummaryTopic string

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	workers, err := parsePositiveInt("WORKERS", 4)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PointsDir: EnvOrDefault("POINTS_DIR", "output"),
		OutputDir: EnvOrDefault("OUTPUT_DIR", "output/derived"),
		Workers:   workers,

		LogLevel:  EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: EnvOrDefault("LOG_FORMAT", "text"),

		HTTPAddr: os.Getenv("HTTP_ADDR"),

		KafkaBrokers:      ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaSummaryTopic: EnvOrDefault("KAFKA_SUMMARY_TOPIC", "cme-event-summaries"),

		ShutdownTimeout: shutdownTimeout,
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaSummaryTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_SUMMARY_TOPIC is empty")
	}

	return cfg, nil
}

// EnvOrDefault returns the environment value for key, or def when unset
// or empty.
func EnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBrokers splits a comma-separated broker list, dropping empty
// entries. An empty input yields nil.
func ParseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, s)
	}
	return n, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, s)
	}
	return d, nil
}
