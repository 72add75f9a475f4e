package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Provider.APIURL != "https://api.spotify.com/v1" {
			t.Errorf("expected api url https://api.spotify.com/v1, got %s", config.Provider.APIURL)
		}
		if config.Provider.TokenURL != "https://accounts.spotify.com/api/token" {
			t.Errorf("expected token url https://accounts.spotify.com/api/token, got %s", config.Provider.TokenURL)
		}
		if config.Provider.OpenHost != "open.spotify.com" {
			t.Errorf("expected open host open.spotify.com, got %s", config.Provider.OpenHost)
		}
		if config.Search.Type != "track" {
			t.Errorf("expected search type track, got %s", config.Search.Type)
		}
		if config.Search.Limit != 5 {
			t.Errorf("expected search limit 5, got %d", config.Search.Limit)
		}
		if config.Credentials.Spotify.Complete() {
			t.Error("expected default credentials to be empty")
		}
		if err := config.Validate(); err != nil {
			t.Errorf("expected default config to validate, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Provider.APIURL != DefaultConfig().Provider.APIURL {
			t.Errorf("created config api url doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"

[provider]
market = "DE"

[search]
type = "album"
limit = 10

[http]
timeout = "15s"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if !config.Credentials.Spotify.Complete() {
			t.Error("expected credentials to be complete")
		}
		if config.Provider.Market != "DE" {
			t.Errorf("expected market DE, got %s", config.Provider.Market)
		}
		if config.Provider.APIURL != "https://api.spotify.com/v1" {
			t.Errorf("expected unset api url to keep default, got %s", config.Provider.APIURL)
		}
		if config.Search.Type != "album" || config.Search.Limit != 10 {
			t.Errorf("expected search album/10, got %s/%d", config.Search.Type, config.Search.Limit)
		}

		timeout, err := config.HTTP.TimeoutDuration()
		if err != nil {
			t.Fatalf("expected valid timeout, got %v", err)
		}
		if timeout != 15*time.Second {
			t.Errorf("expected 15s timeout, got %v", timeout)
		}
	})

	t.Run("LoadConfigOrDefault", func(t *testing.T) {
		t.Run("missing file uses defaults", func(t *testing.T) {
			config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Search.Limit != 5 {
				t.Errorf("expected default config, got limit %d", config.Search.Limit)
			}
		})

		t.Run("malformed file fails", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte("[provider\napi_url = "), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if _, err := LoadConfigOrDefault(configPath); err == nil {
				t.Error("expected parse error")
			}
		})
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env_id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "env_secret")
		t.Setenv("SPOTFETCH_LOG_LEVEL", "debug")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "file_id"

		if err := config.ApplyEnv(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if config.Credentials.Spotify.ClientID != "env_id" {
			t.Errorf("expected env to override client id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "env_secret" {
			t.Errorf("expected env client secret, got %s", config.Credentials.Spotify.ClientSecret)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected log level debug, got %s", config.Log.Level)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tt := []struct {
			name   string
			mutate func(*Config)
		}{
			{name: "empty api url", mutate: func(c *Config) { c.Provider.APIURL = "" }},
			{name: "empty token url", mutate: func(c *Config) { c.Provider.TokenURL = "" }},
			{name: "empty open host", mutate: func(c *Config) { c.Provider.OpenHost = "" }},
			{name: "zero limit", mutate: func(c *Config) { c.Search.Limit = 0 }},
			{name: "limit too large", mutate: func(c *Config) { c.Search.Limit = 51 }},
			{name: "negative rate", mutate: func(c *Config) { c.HTTP.RequestsPerSecond = -1 }},
			{name: "bad timeout", mutate: func(c *Config) { c.HTTP.Timeout = "soon" }},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				config := DefaultConfig()
				tc.mutate(config)

				err := config.Validate()
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})
}
