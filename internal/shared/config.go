package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig                      `toml:"credentials"`
	Catalog     CatalogConfig                          `toml:"catalog"`
	Engine      EngineConfig                           `toml:"engine"`
	Database    DatabaseConfig                         `toml:"database"`
	Vibes       map[string]map[string]VibeTargetConfig `toml:"vibes"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials. The refresh token keeps the
// client authorized between runs; the access token is optional and expires.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	RefreshToken string `toml:"refresh_token"`
	AccessToken  string `toml:"access_token"`
}

// CatalogConfig contains endpoints and request-shaping limits for the
// external catalog and the audio-features provider.
type CatalogConfig struct {
	BaseURL          string  `toml:"base_url"`
	FeaturesBaseURL  string  `toml:"features_base_url"`
	PageSize         int     `toml:"page_size"`
	ArtistBatchSize  int     `toml:"artist_batch_size"`
	FeatureBatchSize int     `toml:"feature_batch_size"`
	AddBatchSize     int     `toml:"add_batch_size"`
	RateLimit        float64 `toml:"rate_limit"`
	MaxRetries       int     `toml:"max_retries"`
	RetryBaseMS      int     `toml:"retry_base_ms"`
}

// EngineConfig contains aggregation engine settings.
type EngineConfig struct {
	Workers       int     `toml:"workers"`
	VibeThreshold float64 `toml:"vibe_threshold"`
}

// VibeTargetConfig overrides one feature target of a built-in vibe profile.
type VibeTargetConfig struct {
	Weight    float64 `toml:"weight"`
	Ideal     float64 `toml:"ideal"`
	Tolerance float64 `toml:"tolerance"`
}

// DatabaseConfig contains cache database settings.
type DatabaseConfig struct {
	Path          string `toml:"path"`
	MaxOpenConns  int    `toml:"max_open_conns"`
	MaxIdleConns  int    `toml:"max_idle_conns"`
	CacheTTLHours int    `toml:"cache_ttl_hours"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
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

// LoadEnvFile loads a .env file into the process environment when one exists.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overlays credential settings from environment variables onto the
// config. Environment values win over file values when both are set.
func (c *Config) ApplyEnv() {
	overlay := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	overlay(&c.Credentials.Spotify.ClientID, "SPOTIFY_CLIENT_ID")
	overlay(&c.Credentials.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	overlay(&c.Credentials.Spotify.RedirectURI, "SPOTIFY_REDIRECT_URI")
	overlay(&c.Credentials.Spotify.RefreshToken, "SPOTIFY_REFRESH_TOKEN")
	overlay(&c.Credentials.Spotify.AccessToken, "SPOTIFY_ACCESS_TOKEN")
}
