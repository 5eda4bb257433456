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
	Storage  StorageConfig           `toml:"storage"`
	Database DatabaseConfig          `toml:"database"`
	HTTP     HTTPConfig              `toml:"http"`
	Server   ServerConfig            `toml:"server"`
	Sources  map[string]SourceConfig `toml:"sources"`
}

// StorageConfig controls where snapshots and generated files live.
type StorageConfig struct {
	DataDir      string `toml:"data_dir"`
	GeneratedDir string `toml:"generated_dir"`
	LogFile      string `toml:"log_file"`
}

// DatabaseConfig contains database connection settings for the run history.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// HTTPConfig contains outbound request settings shared by every source.
type HTTPConfig struct {
	UserAgent   string  `toml:"user_agent"`
	Timeout     int     `toml:"timeout"`      // seconds, 0 disables
	PageWorkers int     `toml:"page_workers"` // concurrent page fetches for paginated sources
	RateLimit   float64 `toml:"rate_limit"`   // requests per second, 0 disables
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// SourceConfig overrides the built-in descriptor of a single source.
type SourceConfig struct {
	URL         string `toml:"url"`
	CategoryURL string `toml:"category_url"`
	Disabled    bool   `toml:"disabled"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	if config.Sources == nil {
		config.Sources = map[string]SourceConfig{}
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

// Validate reports settings that would make a sync impossible.
func (c *Config) Validate() error {
	switch {
	case c.Storage.DataDir == "":
		return fmt.Errorf("%w: storage.data_dir is empty", ErrInvalidConfig)
	case c.Storage.GeneratedDir == "":
		return fmt.Errorf("%w: storage.generated_dir is empty", ErrInvalidConfig)
	case c.HTTP.PageWorkers < 1:
		return fmt.Errorf("%w: http.page_workers must be at least 1, got %d", ErrInvalidConfig, c.HTTP.PageWorkers)
	case c.HTTP.Timeout < 0:
		return fmt.Errorf("%w: http.timeout must not be negative", ErrInvalidConfig)
	case c.HTTP.RateLimit < 0:
		return fmt.Errorf("%w: http.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Source returns the override block for the named source (zero value when absent).
func (c *Config) Source(name string) SourceConfig {
	return c.Sources[name]
}

// RequestTimeout converts the configured timeout to a [time.Duration].
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.HTTP.Timeout) * time.Second
}
