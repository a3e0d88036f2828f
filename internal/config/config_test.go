package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jusunglee/railmap-go/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  readTimeout: 5s
data:
  stations: https://example.org/stations.json
  lines: data/lines.json
  reloadInterval: 6h
routing:
  maxResults: 5
  priority: stops
  types: REGIO,METRO
cache:
  size: 0
log:
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Expected read timeout 5s, got %v", cfg.Server.ReadTimeout)
	}
	// Fields missing from the file keep their defaults
	if cfg.Server.WriteTimeout != 15*time.Second {
		t.Errorf("Expected default write timeout, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Data.ReloadInterval != 6*time.Hour {
		t.Errorf("Expected reload interval 6h, got %v", cfg.Data.ReloadInterval)
	}
	if cfg.Routing.DefaultPriority() != models.PriorityStops {
		t.Errorf("Expected stops priority, got %v", cfg.Routing.DefaultPriority())
	}
	if got := cfg.Routing.DefaultTypes(); got != models.NewTypeSet(models.TypeRegio, models.TypeMetro) {
		t.Errorf("Unexpected types %v", got)
	}
	if cfg.Cache.Size != 0 {
		t.Errorf("Expected cache disabled, got size %d", cfg.Cache.Size)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("Unexpected log config %+v", cfg.Log)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"port out of range", "server:\n  port: 70000\n", "Port"},
		{"empty type filter", "routing:\n  types: \"0\"\n", "Types"},
		{"unknown type", "routing:\n  types: BUS\n", "Types"},
		{"unknown priority", "routing:\n  priority: fastest\n", "Priority"},
		{"too many results", "routing:\n  maxResults: 50\n", "MaxResults"},
		{"unknown log level", "log:\n  level: trace\n", "Level"},
		{"missing stations", "data:\n  stations: \"\"\n", "Stations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Expected error about %s, got %v", tt.field, err)
			}
		})
	}

	t.Run("malformed yaml", func(t *testing.T) {
		if _, err := Load(writeConfig(t, "server: [")); err == nil {
			t.Error("Expected parse error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
			t.Error("Expected error for a missing named file")
		}
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"RAILMAP_PORT":            "7000",
		"RAILMAP_STATIONS":        "/srv/stations.json",
		"RAILMAP_RELOAD_INTERVAL": "1h",
		"RAILMAP_LOG_LEVEL":       "debug",
		"RAILMAP_CACHE_SIZE":      "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("Expected port 7000, got %d", cfg.Server.Port)
	}
	if cfg.Data.Stations != "/srv/stations.json" {
		t.Errorf("Unexpected stations source %s", cfg.Data.Stations)
	}
	if cfg.Data.ReloadInterval != time.Hour {
		t.Errorf("Expected reload interval 1h, got %v", cfg.Data.ReloadInterval)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected debug level, got %s", cfg.Log.Level)
	}
	if cfg.Cache.Size != 256 {
		t.Errorf("Empty variable should keep the default, got %d", cfg.Cache.Size)
	}

	env = map[string]string{"RAILMAP_PORT": "eighty", "RAILMAP_CACHE_TTL": "soon"}
	err := ApplyEnv(&cfg, lookup)
	if err == nil {
		t.Fatal("Expected error for malformed values")
	}
	if !strings.Contains(err.Error(), "RAILMAP_PORT") || !strings.Contains(err.Error(), "RAILMAP_CACHE_TTL") {
		t.Errorf("Expected both variables to be reported, got %v", err)
	}
}
