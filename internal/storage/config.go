package storage

import "github.com/thisdougb/logattrs/internal/config"

// Config holds all configuration options for the persistence system
type Config struct {
	Enabled bool
	DBPath  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	return &Config{
		Enabled: config.BoolValue("LOGATTRS_PERSISTENCE_ENABLED"),
		DBPath:  config.StringValue("LOGATTRS_DB_PATH"),
	}, nil
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *Config {
	return &Config{
		Enabled: true,
		DBPath:  ":memory:",
	}
}
