package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the crystallization fetcher
type Config struct {
	// Remote PDB API endpoints
	RCSB RCSBConfig `yaml:"rcsb" json:"rcsb"`

	// Fetch loop behavior
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Output file locations
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// RCSBConfig holds the RCSB data API endpoints and transport settings
type RCSBConfig struct {
	GraphQLURL     string        `yaml:"graphql_url" json:"graphql_url"`
	HoldingsURL    string        `yaml:"holdings_url" json:"holdings_url"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// FetchConfig holds fetch loop configuration
type FetchConfig struct {
	// BatchSize is the number of entry IDs embedded in one GraphQL request.
	// Kept at ~1000 so the URL-embedded query stays under the 8 KB request limit.
	BatchSize       int           `yaml:"batch_size" json:"batch_size"`
	RequestDelay    time.Duration `yaml:"request_delay" json:"request_delay"`
	OnlyWithDetails bool          `yaml:"only_with_details" json:"only_with_details"`
	SkipExcluded    bool          `yaml:"skip_excluded" json:"skip_excluded"`
	SkipCompleted   bool          `yaml:"skip_completed" json:"skip_completed"`
}

// OutputConfig holds the persisted file locations
type OutputConfig struct {
	StructuresFile string `yaml:"structures_file" json:"structures_file"`
	ExclusionsFile string `yaml:"exclusions_file" json:"exclusions_file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		RCSB: RCSBConfig{
			GraphQLURL:     "https://data.rcsb.org/graphql",
			HoldingsURL:    "https://data.rcsb.org/rest/v1/holdings/current/entry_ids",
			RequestTimeout: 60 * time.Second,
		},
		Fetch: FetchConfig{
			BatchSize:       1000,
			RequestDelay:    100 * time.Millisecond,
			OnlyWithDetails: true,
			SkipExcluded:    true,
			SkipCompleted:   true,
		},
		Output: OutputConfig{
			StructuresFile: filepath.Join("Structures", "structures.json"),
			ExclusionsFile: filepath.Join("Input", "pdbs_without_details.json"),
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if graphqlURL := os.Getenv("CRYSTALDB_GRAPHQL_URL"); graphqlURL != "" {
		c.RCSB.GraphQLURL = graphqlURL
	}
	if holdingsURL := os.Getenv("CRYSTALDB_HOLDINGS_URL"); holdingsURL != "" {
		c.RCSB.HoldingsURL = holdingsURL
	}

	if batchSize := os.Getenv("CRYSTALDB_BATCH_SIZE"); batchSize != "" {
		var val int
		fmt.Sscanf(batchSize, "%d", &val)
		if val > 0 {
			c.Fetch.BatchSize = val
		}
	}
	if delay := os.Getenv("CRYSTALDB_REQUEST_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil && d >= 0 {
			c.Fetch.RequestDelay = d
		}
	}

	if structuresFile := os.Getenv("CRYSTALDB_STRUCTURES_FILE"); structuresFile != "" {
		c.Output.StructuresFile = structuresFile
	}
	if exclusionsFile := os.Getenv("CRYSTALDB_EXCLUSIONS_FILE"); exclusionsFile != "" {
		c.Output.ExclusionsFile = exclusionsFile
	}

	if logLevel := os.Getenv("CRYSTALDB_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".crystaldb.yaml",
		".crystaldb.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "crystaldb", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "crystaldb", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".crystaldb.yaml"),
		filepath.Join(os.Getenv("HOME"), ".crystaldb.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.RCSB.GraphQLURL == "" {
		errs = append(errs, errors.New("GraphQL endpoint URL is required"))
	}
	if c.RCSB.HoldingsURL == "" {
		errs = append(errs, errors.New("holdings endpoint URL is required"))
	}
	if c.RCSB.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Fetch.BatchSize <= 0 {
		errs = append(errs, errors.New("batch size must be positive"))
	}
	if c.Fetch.RequestDelay < 0 {
		errs = append(errs, errors.New("request delay cannot be negative"))
	}

	if c.Output.StructuresFile == "" {
		errs = append(errs, errors.New("structures file path is required"))
	}
	if c.Output.ExclusionsFile == "" {
		errs = append(errs, errors.New("exclusions file path is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if batchSize, ok := flags["batch-size"].(int); ok && batchSize > 0 {
		c.Fetch.BatchSize = batchSize
	}
	if delay, ok := flags["delay"].(time.Duration); ok && delay >= 0 {
		c.Fetch.RequestDelay = delay
	}
	if onlyWithDetails, ok := flags["only-with-details"].(bool); ok {
		c.Fetch.OnlyWithDetails = onlyWithDetails
	}
	if skipExcluded, ok := flags["skip-excluded"].(bool); ok {
		c.Fetch.SkipExcluded = skipExcluded
	}
	if skipCompleted, ok := flags["skip-completed"].(bool); ok {
		c.Fetch.SkipCompleted = skipCompleted
	}
	if structuresFile, ok := flags["structures-file"].(string); ok && structuresFile != "" {
		c.Output.StructuresFile = structuresFile
	}
	if exclusionsFile, ok := flags["exclusions-file"].(string); ok && exclusionsFile != "" {
		c.Output.ExclusionsFile = exclusionsFile
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".crystaldb.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
