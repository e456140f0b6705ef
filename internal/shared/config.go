package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Curation    CurationConfig    `toml:"curation"`
	Matching    MatchingConfig    `toml:"matching"`
	Storage     StorageConfig     `toml:"storage"`
	Server      ServerConfig      `toml:"server"`
	Sources     []SourceConfig    `toml:"sources"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Tidal  TidalConfig  `toml:"tidal"`
	Gemini GeminiConfig `toml:"gemini"`
}

// TidalConfig contains Tidal OAuth2 credentials and token storage location.
type TidalConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	TokenPath    string `toml:"token_path"`
}

// GeminiConfig contains Google AI credentials for the analyst.
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// CurationConfig tunes the action engine.
type CurationConfig struct {
	PlaylistName        string  `toml:"playlist_name"`
	PlaylistDescription string  `toml:"playlist_description"`
	MaxFavoritesPerRun  int     `toml:"max_favorites_per_run"`
	RemoveQueue         string  `toml:"remove_queue"`
	PromoteQueue        string  `toml:"promote_queue"`
	RateLimit           float64 `toml:"rate_limit"` // Catalog mutations per second
}

// MatchingConfig tunes fuzzy identity resolution.
type MatchingConfig struct {
	AcceptThreshold int `toml:"accept_threshold"`
	ExactThreshold  int `toml:"exact_threshold"`
	ArtistBonus     int `toml:"artist_bonus"`
	SearchDepth     int `toml:"search_depth"`
}

// StorageConfig contains file and database locations.
type StorageConfig struct {
	DataDir        string `toml:"data_dir"`
	LedgerPath     string `toml:"ledger_path"`
	DatabasePath   string `toml:"database_path"`
	HarvestPath    string `toml:"harvest_path"`
	CandidatesPath string `toml:"candidates_path"`
	PromptPath     string `toml:"prompt_path"`

	DiscoveryPromptPath string `toml:"discovery_prompt_path"`
	SuggestionsPath     string `toml:"suggestions_path"`
}

// ServerConfig contains OAuth callback server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// SourceConfig is one web source the harvester reads.
type SourceConfig struct {
	Website string `toml:"website"`
	URL     string `toml:"url"`
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
