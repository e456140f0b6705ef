package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Curation.PlaylistName != "Weekly Discovery" {
		t.Errorf("PlaylistName = %q, want Weekly Discovery", config.Curation.PlaylistName)
	}
	if config.Curation.MaxFavoritesPerRun != 5 {
		t.Errorf("MaxFavoritesPerRun = %d, want 5", config.Curation.MaxFavoritesPerRun)
	}
	if config.Curation.RemoveQueue != "aria: remove" || config.Curation.PromoteQueue != "aria: promote" {
		t.Errorf("queue names = %q / %q", config.Curation.RemoveQueue, config.Curation.PromoteQueue)
	}
	if config.Matching.AcceptThreshold != 85 || config.Matching.ExactThreshold != 97 {
		t.Errorf("thresholds = %d / %d, want 85 / 97", config.Matching.AcceptThreshold, config.Matching.ExactThreshold)
	}
	if config.Matching.ArtistBonus != 10 {
		t.Errorf("ArtistBonus = %d, want 10", config.Matching.ArtistBonus)
	}
	if config.Storage.LedgerPath == "" {
		t.Error("LedgerPath must have a default")
	}
	if config.Storage.DiscoveryPromptPath == "" || config.Storage.SuggestionsPath == "" {
		t.Error("discovery paths must have defaults")
	}
	if config.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", config.Server.Port)
	}
	if len(config.Sources) == 0 {
		t.Error("default config should ship example sources")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[credentials.tidal]
client_id = "cid"
client_secret = "secret"

[credentials.gemini]
api_key = "gkey"
model = "gemini-2.5-pro"

[curation]
playlist_name = "My Finds"
max_favorites_per_run = 3

[matching]
accept_threshold = 90

[[sources]]
website = "Test"
url = "https://example.com"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Credentials.Tidal.ClientID != "cid" {
		t.Errorf("ClientID = %q", config.Credentials.Tidal.ClientID)
	}
	if config.Credentials.Gemini.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q", config.Credentials.Gemini.Model)
	}
	if config.Curation.PlaylistName != "My Finds" || config.Curation.MaxFavoritesPerRun != 3 {
		t.Errorf("curation = %+v", config.Curation)
	}
	if config.Matching.AcceptThreshold != 90 {
		t.Errorf("AcceptThreshold = %d, want 90", config.Matching.AcceptThreshold)
	}
	if len(config.Sources) != 1 || config.Sources[0].Website != "Test" {
		t.Errorf("sources = %+v", config.Sources)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(path, []byte("not [valid toml"), 0644)

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("CreateConfigFile() error = %v", err)
	}

	// The created file must parse back to the defaults.
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("created config does not parse: %v", err)
	}
	if config.Curation.PlaylistName != DefaultConfig().Curation.PlaylistName {
		t.Errorf("created config differs from defaults")
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("expected error when config already exists")
	}
}
