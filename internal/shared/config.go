package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API       APIConfig       `toml:"api"`
	Auth      AuthConfig      `toml:"auth"`
	Database  DatabaseConfig  `toml:"database"`
	Player    PlayerConfig    `toml:"player"`
	Reporting ReportingConfig `toml:"reporting"`
	Logging   LoggingConfig   `toml:"logging"`
}

// APIConfig contains the locations of the external catalog, library and statistics services.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	CatalogURL     string `toml:"catalog_url"`
	LibraryURL     string `toml:"library_url"`
	StatsURL       string `toml:"stats_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// AuthConfig contains the bearer token used for authenticated calls.
type AuthConfig struct {
	Token string `toml:"token"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// PlayerConfig selects and tunes the media backend.
type PlayerConfig struct {
	Backend              string  `toml:"backend"`
	FFPlayPath           string  `toml:"ffplay_path"`
	FFProbePath          string  `toml:"ffprobe_path"`
	VirtualLengthSeconds int     `toml:"virtual_length_seconds"`
	DefaultVolume        float64 `toml:"default_volume"`
}

// ReportingConfig throttles play reports sent to the statistics service.
type ReportingConfig struct {
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`
}

// LoggingConfig contains log level and the file used while the TUI owns the terminal.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// CatalogBase returns the catalog service URL, falling back to the base URL.
func (c APIConfig) CatalogBase() string { return orDefault(c.CatalogURL, c.BaseURL) }

// LibraryBase returns the library service URL, falling back to the base URL.
func (c APIConfig) LibraryBase() string { return orDefault(c.LibraryURL, c.BaseURL) }

// StatsBase returns the statistics service URL, falling back to the base URL.
func (c APIConfig) StatsBase() string { return orDefault(c.StatsURL, c.BaseURL) }

// Timeout returns the per-request timeout, or ten seconds when unset.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Authenticated reports whether a bearer token is configured.
func (c AuthConfig) Authenticated() bool {
	return c.Token != ""
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
