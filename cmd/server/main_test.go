package main

import (
	"os"
	"testing"

	"task-tracker/backend/internal/config"
)

func TestServerConfigLoads(t *testing.T) {
	os.Setenv("ENVIRONMENT", "development")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("REDIS_HOST", "localhost")
	defer func() {
		os.Unsetenv("ENVIRONMENT")
		os.Unsetenv("DB_HOST")
		os.Unsetenv("REDIS_HOST")
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetServerAddr() == "" {
		t.Error("Expected a non-empty server address")
	}

	if cfg.GetDatabaseDSN() == "" {
		t.Error("Expected a non-empty database DSN")
	}

	if cfg.IsProduction() {
		t.Error("Development environment reported as production")
	}
}
