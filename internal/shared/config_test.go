package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Library.InputFolder != "playlists" {
			t.Errorf("expected input folder playlists, got %s", config.Library.InputFolder)
		}

		if config.Library.MixedFolder != "mixed_playlists" {
			t.Errorf("expected mixed folder mixed_playlists, got %s", config.Library.MixedFolder)
		}

		if config.Defaults.TotalTracks != 1000 {
			t.Errorf("expected default total 1000, got %d", config.Defaults.TotalTracks)
		}

		if config.Defaults.MaxPerArtist != 5 {
			t.Errorf("expected default max per artist 5, got %d", config.Defaults.MaxPerArtist)
		}

		if config.Database.Path != "mixt.db" {
			t.Errorf("expected database path mixt.db, got %s", config.Database.Path)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Library.InputFolder != defaultConfig.Library.InputFolder {
			t.Errorf("created config input folder doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[library]
input_folder = "exports"
csv_folder = "slim"
mixed_folder = "out"

[defaults]
total_tracks = 250
max_per_artist = 3

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Library.InputFolder != "exports" {
			t.Errorf("expected input folder exports, got %s", config.Library.InputFolder)
		}
		if config.Defaults.TotalTracks != 250 {
			t.Errorf("expected total 250, got %d", config.Defaults.TotalTracks)
		}
		if config.Database.MaxOpenConns != 20 {
			t.Errorf("expected max open conns 20, got %d", config.Database.MaxOpenConns)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("loading a missing config file should fail")
		}
	})
}
