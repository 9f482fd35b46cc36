package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// t.Setenv cannot unset, so pin the values the defaults would produce.
	t.Setenv("PORT", "8080")
	t.Setenv("GRPC_PORT", "9090")
	t.Setenv("DB_PATH", "./data/profnet.db")
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SEED_SAMPLE_CONTENT", "true")
	t.Setenv("HEALTH_PROBE_INTERVAL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "*")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}
	if cfg.StorageBackend != StorageSQLite {
		t.Errorf("Expected sqlite backend, got %s", cfg.StorageBackend)
	}
	if !cfg.SeedSampleContent {
		t.Error("Expected sample content seeding to default on")
	}
	if cfg.HealthProbeEvery != 30*time.Second {
		t.Errorf("Expected 30s probe interval, got %v", cfg.HealthProbeEvery)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("Unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	if _, err := Load(); err == nil {
		t.Fatal("Expected error for unknown storage backend")
	}
}

func TestValidateMemoryBackendNeedsNoPath(t *testing.T) {
	cfg := &Config{Port: "8080", StorageBackend: StorageMemory}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected memory backend without DB_PATH to validate, got %v", err)
	}
}

func TestValidatePortClash(t *testing.T) {
	cfg := &Config{Port: "8080", GRPCPort: "8080", StorageBackend: StorageMemory}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected error when GRPC_PORT equals PORT")
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("PROBE_TEST", "15")
	if got := getEnvDuration("PROBE_TEST", time.Second); got != 15*time.Second {
		t.Errorf("Expected bare integer as seconds, got %v", got)
	}
	t.Setenv("PROBE_TEST", "2m")
	if got := getEnvDuration("PROBE_TEST", time.Second); got != 2*time.Minute {
		t.Errorf("Expected 2m, got %v", got)
	}
	t.Setenv("PROBE_TEST", "soon")
	if got := getEnvDuration("PROBE_TEST", time.Second); got != time.Second {
		t.Errorf("Expected fallback, got %v", got)
	}
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("ORIGINS_TEST", " http://a.test , ,http://b.test")
	got := getEnvList("ORIGINS_TEST", nil)
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("Unexpected list: %v", got)
	}
}

func TestLoadTracingSettings(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("GRPC_PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("OTEL_SERVICE_NAME", "profnet-edge")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", " collector:4317 ")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")
	t.Setenv("FRONTEND_URL", "https://profnet.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServiceName != "profnet-edge" || cfg.OTLPEndpoint != "collector:4317" || !cfg.OTLPInsecure {
		t.Errorf("Unexpected tracing config: %+v", cfg)
	}
	if cfg.Environment() != "production" {
		t.Errorf("Expected production environment, got %s", cfg.Environment())
	}
}
