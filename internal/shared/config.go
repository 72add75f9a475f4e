package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Provider    ProviderConfig    `toml:"provider"`
	Search      SearchConfig      `toml:"search"`
	Export      ExportConfig      `toml:"export"`
	HTTP        HTTPConfig        `toml:"http"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API client credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// Complete reports whether both halves of the credential pair are set.
func (s SpotifyConfig) Complete() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

// ProviderConfig holds the catalog endpoints. Overridden in tests.
type ProviderConfig struct {
	APIURL   string `toml:"api_url"`
	TokenURL string `toml:"token_url"`
	OpenHost string `toml:"open_host"`
	Market   string `toml:"market"`
}

// SearchConfig controls free-text resolution.
type SearchConfig struct {
	Type  string `toml:"type"`
	Limit int    `toml:"limit"`
}

// ExportConfig controls where text exports are written.
type ExportConfig struct {
	Directory string `toml:"directory"`
}

// HTTPConfig contains outbound HTTP settings.
//
// An empty Timeout leaves the client's default (no timeout) in place.
type HTTPConfig struct {
	Timeout           string  `toml:"timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// TimeoutDuration parses Timeout.
func (h HTTPConfig) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(h.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(h.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: http.timeout %q: %v", ErrInvalidConfig, h.Timeout, err)
	}
	return d, nil
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// envConfig lists the environment variables that override file values.
type envConfig struct {
	ClientID     string `env:"SPOTIFY_CLIENT_ID"`
	ClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`
	Market       string `env:"SPOTFETCH_MARKET"`
	LogLevel     string `env:"SPOTFETCH_LOG_LEVEL"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep their defaults from the embedded example config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
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

// LoadConfigOrDefault loads path when it exists and falls back to [DefaultConfig] otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	return LoadConfig(path)
}

// ApplyEnv overlays credential and logging settings from the environment.
func (c *Config) ApplyEnv() error {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if e.ClientID != "" {
		c.Credentials.Spotify.ClientID = e.ClientID
	}
	if e.ClientSecret != "" {
		c.Credentials.Spotify.ClientSecret = e.ClientSecret
	}
	if e.Market != "" {
		c.Provider.Market = e.Market
	}
	if e.LogLevel != "" {
		c.Log.Level = e.LogLevel
	}
	return nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Provider.APIURL == "" {
		return fmt.Errorf("%w: provider.api_url is empty", ErrInvalidConfig)
	}
	if c.Provider.TokenURL == "" {
		return fmt.Errorf("%w: provider.token_url is empty", ErrInvalidConfig)
	}
	if c.Provider.OpenHost == "" {
		return fmt.Errorf("%w: provider.open_host is empty", ErrInvalidConfig)
	}
	if c.Search.Limit < 1 || c.Search.Limit > 50 {
		return fmt.Errorf("%w: search.limit must be between 1 and 50, got %d", ErrInvalidConfig, c.Search.Limit)
	}
	if c.HTTP.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: http.requests_per_second must not be negative", ErrInvalidConfig)
	}
	if _, err := c.HTTP.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
