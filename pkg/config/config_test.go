package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Fetch.BatchSize != 1000 {
		t.Errorf("Expected default batch size to be 1000, got %d", config.Fetch.BatchSize)
	}

	if config.Fetch.RequestDelay != 100*time.Millisecond {
		t.Errorf("Expected default request delay to be 100ms, got %v", config.Fetch.RequestDelay)
	}

	if !config.Fetch.OnlyWithDetails || !config.Fetch.SkipExcluded || !config.Fetch.SkipCompleted {
		t.Error("Expected all fetch options to default to true")
	}

	if config.RCSB.GraphQLURL != "https://data.rcsb.org/graphql" {
		t.Errorf("Expected default GraphQL URL, got %s", config.RCSB.GraphQLURL)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("CRYSTALDB_GRAPHQL_URL", "https://example.org/graphql")
	os.Setenv("CRYSTALDB_BATCH_SIZE", "250")
	os.Setenv("CRYSTALDB_REQUEST_DELAY", "2s")
	os.Setenv("CRYSTALDB_STRUCTURES_FILE", "/tmp/test-structures.json")
	os.Setenv("CRYSTALDB_LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("CRYSTALDB_GRAPHQL_URL")
		os.Unsetenv("CRYSTALDB_BATCH_SIZE")
		os.Unsetenv("CRYSTALDB_REQUEST_DELAY")
		os.Unsetenv("CRYSTALDB_STRUCTURES_FILE")
		os.Unsetenv("CRYSTALDB_LOG_LEVEL")
	}()

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.RCSB.GraphQLURL != "https://example.org/graphql" {
		t.Errorf("Expected GraphQL URL override, got %s", config.RCSB.GraphQLURL)
	}

	if config.Fetch.BatchSize != 250 {
		t.Errorf("Expected batch size 250, got %d", config.Fetch.BatchSize)
	}

	if config.Fetch.RequestDelay != 2*time.Second {
		t.Errorf("Expected request delay 2s, got %v", config.Fetch.RequestDelay)
	}

	if config.Output.StructuresFile != "/tmp/test-structures.json" {
		t.Errorf("Expected structures file override, got %s", config.Output.StructuresFile)
	}

	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configPath := filepath.Join(tempDir, "config.yaml")
	content := `
fetch:
  batch_size: 500
  only_with_details: false
output:
  structures_file: /data/structures.json
logging:
  level: warn
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.Fetch.BatchSize != 500 {
		t.Errorf("Expected batch size 500, got %d", config.Fetch.BatchSize)
	}

	if config.Fetch.OnlyWithDetails {
		t.Error("Expected only_with_details to be false")
	}

	// Unset keys keep their defaults
	if !config.Fetch.SkipExcluded {
		t.Error("Expected skip_excluded to keep its default")
	}

	if config.Output.StructuresFile != "/data/structures.json" {
		t.Errorf("Expected structures file from config, got %s", config.Output.StructuresFile)
	}

	if config.Logging.Level != "warn" {
		t.Errorf("Expected log level warn, got %s", config.Logging.Level)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	config := DefaultConfig()
	if err := config.LoadFromFile(filepath.Join(os.TempDir(), "does-not-exist.yaml")); err == nil {
		t.Error("Expected error for explicitly named missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty graphql url", func(c *Config) { c.RCSB.GraphQLURL = "" }},
		{"empty holdings url", func(c *Config) { c.RCSB.HoldingsURL = "" }},
		{"zero timeout", func(c *Config) { c.RCSB.RequestTimeout = 0 }},
		{"zero batch size", func(c *Config) { c.Fetch.BatchSize = 0 }},
		{"negative delay", func(c *Config) { c.Fetch.RequestDelay = -time.Second }},
		{"empty structures file", func(c *Config) { c.Output.StructuresFile = "" }},
		{"empty exclusions file", func(c *Config) { c.Output.ExclusionsFile = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			if err := config.Validate(); err == nil {
				t.Error("Expected validation to fail")
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	config.MergeCommandLineFlags(map[string]interface{}{
		"batch-size":        200,
		"delay":             time.Second,
		"only-with-details": false,
		"structures-file":   "/custom/structures.json",
		"log-level":         "error",
	})

	if config.Fetch.BatchSize != 200 {
		t.Errorf("Expected batch size 200, got %d", config.Fetch.BatchSize)
	}
	if config.Fetch.RequestDelay != time.Second {
		t.Errorf("Expected delay 1s, got %v", config.Fetch.RequestDelay)
	}
	if config.Fetch.OnlyWithDetails {
		t.Error("Expected only-with-details flag to override to false")
	}
	if config.Output.StructuresFile != "/custom/structures.json" {
		t.Errorf("Expected structures file override, got %s", config.Output.StructuresFile)
	}
	if config.Logging.Level != "error" {
		t.Errorf("Expected log level error, got %s", config.Logging.Level)
	}
}

func TestLoadPrecedence(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_precedence_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("fetch:\n  batch_size: 500\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	os.Setenv("CRYSTALDB_BATCH_SIZE", "300")
	defer os.Unsetenv("CRYSTALDB_BATCH_SIZE")

	// Env beats file
	config, err := Load(configPath, nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.Fetch.BatchSize != 300 {
		t.Errorf("Expected env to override file, got batch size %d", config.Fetch.BatchSize)
	}

	// Flags beat env
	config, err = Load(configPath, map[string]interface{}{"batch-size": 100})
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.Fetch.BatchSize != 100 {
		t.Errorf("Expected flag to override env, got batch size %d", config.Fetch.BatchSize)
	}
}
