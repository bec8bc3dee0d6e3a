package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Catalog.BaseURL != "https://api.spotify.com/v1" {
			t.Errorf("expected default catalog base URL, got %s", config.Catalog.BaseURL)
		}
		if config.Catalog.FeaturesBaseURL != "https://api.reccobeats.com" {
			t.Errorf("expected default features base URL, got %s", config.Catalog.FeaturesBaseURL)
		}
		if config.Catalog.PageSize != 50 {
			t.Errorf("expected default page size 50, got %d", config.Catalog.PageSize)
		}
		if config.Catalog.ArtistBatchSize != 50 {
			t.Errorf("expected default artist batch size 50, got %d", config.Catalog.ArtistBatchSize)
		}
		if config.Catalog.FeatureBatchSize != 40 {
			t.Errorf("expected default feature batch size 40, got %d", config.Catalog.FeatureBatchSize)
		}
		if config.Catalog.AddBatchSize != 100 {
			t.Errorf("expected default add batch size 100, got %d", config.Catalog.AddBatchSize)
		}
		if config.Catalog.MaxRetries != 4 {
			t.Errorf("expected default max retries 4, got %d", config.Catalog.MaxRetries)
		}
		if config.Engine.Workers != 4 {
			t.Errorf("expected default worker count 4, got %d", config.Engine.Workers)
		}
		if config.Engine.VibeThreshold != 0.6 {
			t.Errorf("expected default vibe threshold 0.6, got %f", config.Engine.VibeThreshold)
		}
		if config.Database.Path != "./vibes.db" {
			t.Errorf("expected default database path ./vibes.db, got %s", config.Database.Path)
		}
		if config.Database.CacheTTLHours != 24 {
			t.Errorf("expected default cache TTL 24 hours, got %d", config.Database.CacheTTLHours)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Catalog.PageSize != 50 {
			t.Errorf("created config should carry defaults, got page size %d", config.Catalog.PageSize)
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when config file already exists")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		content := `[credentials.spotify]
client_id = "abc123"
client_secret = "shh"

[catalog]
base_url = "http://localhost:9000"
page_size = 10

[engine]
workers = 2
vibe_threshold = 0.8

[vibes.chill.energy]
weight = 2.0
ideal = 0.1
tolerance = 0.2
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "abc123" {
			t.Errorf("expected client id abc123, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Catalog.BaseURL != "http://localhost:9000" {
			t.Errorf("expected custom base URL, got %s", config.Catalog.BaseURL)
		}
		if config.Catalog.PageSize != 10 {
			t.Errorf("expected page size 10, got %d", config.Catalog.PageSize)
		}
		if config.Engine.VibeThreshold != 0.8 {
			t.Errorf("expected vibe threshold 0.8, got %f", config.Engine.VibeThreshold)
		}

		target, ok := config.Vibes["chill"]["energy"]
		if !ok {
			t.Fatal("expected vibes.chill.energy override to be parsed")
		}
		if target.Weight != 2.0 || target.Ideal != 0.1 || target.Tolerance != 0.2 {
			t.Errorf("unexpected override values: %+v", target)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/config.toml")
		if err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "from-file"

		t.Setenv("SPOTIFY_CLIENT_ID", "from-env")
		t.Setenv("SPOTIFY_REFRESH_TOKEN", "tok")
		config.ApplyEnv()

		if config.Credentials.Spotify.ClientID != "from-env" {
			t.Errorf("expected env to override file value, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.RefreshToken != "tok" {
			t.Errorf("expected refresh token from env, got %s", config.Credentials.Spotify.RefreshToken)
		}
	})

	t.Run("LoadEnvFile", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")

		if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
			t.Errorf("missing env file should not be an error: %v", err)
		}

		if err := os.WriteFile(path, []byte("SPOTIFY_CLIENT_SECRET=from-dotenv\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv("SPOTIFY_CLIENT_SECRET", "")
		os.Unsetenv("SPOTIFY_CLIENT_SECRET")

		if err := LoadEnvFile(path); err != nil {
			t.Fatalf("failed to load env file: %v", err)
		}
		if got := os.Getenv("SPOTIFY_CLIENT_SECRET"); got != "from-dotenv" {
			t.Errorf("expected env value from dotenv file, got %q", got)
		}
	})
}
