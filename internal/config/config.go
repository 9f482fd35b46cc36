// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	Port               string
	GRPCPort           string // empty disables the gRPC health listener
	FrontendURL        string
	DBPath             string
	StorageBackend     string
	SeedSampleContent  bool
	MetricsEnabled     bool
	HealthProbeEvery   time.Duration
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
	ServiceName        string
	OTLPEndpoint       string // empty keeps spans in process
	OTLPInsecure       bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	probe := getEnvDuration("HEALTH_PROBE_INTERVAL", 30*time.Second)
	if probe <= 0 {
		probe = 30 * time.Second
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		GRPCPort:           getEnv("GRPC_PORT", "9090"),
		FrontendURL:        getEnv("FRONTEND_URL", ""),
		DBPath:             getEnv("DB_PATH", "./data/profnet.db"),
		StorageBackend:     strings.ToLower(strings.TrimSpace(getEnv("STORAGE_BACKEND", StorageSQLite))),
		SeedSampleContent:  getEnvBool("SEED_SAMPLE_CONTENT", true),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
		HealthProbeEvery:   probe,
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ShutdownTimeout:    10 * time.Second,
		ServiceName:        getEnv("OTEL_SERVICE_NAME", "profnet"),
		OTLPEndpoint:       strings.TrimSpace(getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "")),
		OTLPInsecure:       getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	switch c.StorageBackend {
	case StorageSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH cannot be empty")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageSQLite, StorageMemory, c.StorageBackend)
	}
	if c.GRPCPort != "" && c.GRPCPort == c.Port {
		return fmt.Errorf("GRPC_PORT must differ from PORT")
	}
	return nil
}

// Environment names the deployment for telemetry resources.
func (c *Config) Environment() string {
	if c.IsDevelopment() {
		return "development"
	}
	return "production"
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Bare integers are seconds.
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
