package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:            "./articles.db",
		SourcesDir:        "./sources",
		Port:              "8080",
		WorkerCount:       5,
		SchedulerInterval: 30,
		APIAccessKey:      "test-key",
		CountPerSource:    10,
		Period:            "weekly",
		Epsilon:           0.2,
		DecayRate:         0.0001,
		HistoryLimit:      100,
		SyncConcurrency:   2,
		SyncRetryCount:    2,
		SyncRetryDelay:    800,
		SyncChunkDelay:    200,
		UserAgent:         "Test Agent",
		Timezone:          "UTC",
		Debug:             true,
		Version:           "test-version",
	}

	if cfg.DBPath != "./articles.db" {
		t.Errorf("Expected db path './articles.db', got '%s'", cfg.DBPath)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.CountPerSource != 10 {
		t.Errorf("Expected count per source 10, got %d", cfg.CountPerSource)
	}
	if cfg.Epsilon != 0.2 {
		t.Errorf("Expected epsilon 0.2, got %f", cfg.Epsilon)
	}
	if cfg.DecayRate != 0.0001 {
		t.Errorf("Expected decay rate 0.0001, got %f", cfg.DecayRate)
	}
	if cfg.SyncConcurrency != 2 {
		t.Errorf("Expected sync concurrency 2, got %d", cfg.SyncConcurrency)
	}
	if cfg.SyncRetryDelay != 800 {
		t.Errorf("Expected sync retry delay 800, got %d", cfg.SyncRetryDelay)
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}

func TestApplyTimezone(t *testing.T) {
	if err := applyTimezone("UTC"); err != nil {
		t.Errorf("Expected no error for UTC, got %v", err)
	}
	if err := applyTimezone(""); err != nil {
		t.Errorf("Expected no error for empty timezone, got %v", err)
	}
	if err := applyTimezone("Not/AZone"); err == nil {
		t.Error("Expected error for invalid timezone")
	}
}
