package shared

import (
	"os"
	"path/filepath"
	"testing"

	internaltesting "github.com/desertthunder/localnext/internal/testing"
	"golang.org/x/oauth2"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Listing.BaseURL == "" {
		t.Error("expected a default listing base URL")
	}
	if config.Listing.RequestsPerSec <= 0 {
		t.Error("expected a positive default request rate")
	}
	if config.Database.Path == "" {
		t.Error("expected a default database path")
	}
	if config.Server.Host == "" || config.Server.Port == 0 {
		t.Error("expected default server host and port")
	}
}

func TestLoadSaveConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	t.Run("save and reload round trip", func(t *testing.T) {
		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "my-client"
		config.Listing.Exclude = []string{"Festival", "Outdoor"}

		if err := SaveConfig(path, config); err != nil {
			t.Fatalf("SaveConfig() error = %v", err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		if loaded.Credentials.Spotify.ClientID != "my-client" {
			t.Errorf("ClientID = %q, want my-client", loaded.Credentials.Spotify.ClientID)
		}
		if len(loaded.Listing.Exclude) != 2 {
			t.Errorf("Exclude = %v, want two entries", loaded.Listing.Exclude)
		}
	})

	t.Run("saved file is not world readable", func(t *testing.T) {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(dir, "absent.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	t.Run("creates from embedded template", func(t *testing.T) {
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("CreateConfigFile() error = %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if config.Listing.BaseURL == "" {
			t.Error("expected template defaults in created config")
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when file already exists")
		}
	})

	t.Run("relative path resolves against the working directory", func(t *testing.T) {
		wd := internaltesting.MustGetwd(t)
		defer internaltesting.MustChdir(t, wd)
		internaltesting.MustChdir(t, t.TempDir())

		if err := CreateConfigFile("config.toml"); err != nil {
			t.Fatalf("CreateConfigFile() error = %v", err)
		}
		internaltesting.AssertFileExists(t, "config.toml")
	})
}

func TestSpotifyConfig_Update(t *testing.T) {
	t.Run("stores tokens", func(t *testing.T) {
		var cfg SpotifyConfig
		token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"}

		if err := cfg.Update(token); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if cfg.AccessToken != "access" || cfg.RefreshToken != "refresh" {
			t.Errorf("tokens not stored: %+v", cfg)
		}
	})

	t.Run("rejects empty token", func(t *testing.T) {
		var cfg SpotifyConfig
		if err := cfg.Update(&oauth2.Token{}); err == nil {
			t.Error("expected error for empty token")
		}
		if err := cfg.Update(nil); err == nil {
			t.Error("expected error for nil token")
		}
	})
}
