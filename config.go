package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultNaverAPIURL = "https://openapi.naver.com"

// Config carries externally supplied credentials and endpoints. None of these
// hold business logic; they are resolved once at startup.
type Config struct {
	NaverClientID     string
	NaverClientSecret string
	NaverAPIURL       string
	AnthropicAPIKey   string
	NotionToken       string
	NotionDatabaseID  string
	VaultPath         string
}

// LoadConfig reads .env if present, then resolves configuration from the
// environment. Naver credentials are required; everything else has a default
// or is validated at the point of use.
func LoadConfig() (*Config, error) {
	// Missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg := &Config{
		NaverClientID:     os.Getenv("NAVER_CLIENT_ID"),
		NaverClientSecret: os.Getenv("NAVER_CLIENT_SECRET"),
		NaverAPIURL:       os.Getenv("NAVER_API_URL"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		NotionToken:       os.Getenv("NOTION_TOKEN"),
		NotionDatabaseID:  os.Getenv("NOTION_DATABASE_ID"),
		VaultPath:         os.Getenv("OBSIDIAN_VAULT_PATH"),
	}

	if cfg.NaverClientID == "" || cfg.NaverClientSecret == "" {
		return nil, fmt.Errorf("naver API credentials required: set NAVER_CLIENT_ID and NAVER_CLIENT_SECRET")
	}
	if cfg.NaverAPIURL == "" {
		cfg.NaverAPIURL = defaultNaverAPIURL
	}
	if cfg.VaultPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		cfg.VaultPath = filepath.Join(home, "Documents", "Obsidian", "Vault")
	}

	return cfg, nil
}

// Settings are the tunables read from a YAML file, with compiled defaults
// when the file is absent.
type Settings struct {
	Model        string  `yaml:"model"`
	MaxTokens    int     `yaml:"max_tokens"`
	Temperature  float64 `yaml:"temperature"`
	RetryMax     int     `yaml:"retry_max"`
	RetryBaseMS  int     `yaml:"retry_base_ms"`
	CacheTTLMin  int     `yaml:"cache_ttl_minutes"`
	FetchWorkers int     `yaml:"fetch_workers"`
}

func defaultSettings() *Settings {
	return &Settings{
		Model:        "claude-sonnet-4-20250514",
		MaxTokens:    2000,
		Temperature:  0.7,
		RetryMax:     3,
		RetryBaseMS:  1000,
		CacheTTLMin:  60,
		FetchWorkers: 5,
	}
}

// LoadSettings reads settings from path, falling back to defaults when the
// file does not exist. A present-but-invalid file is an error.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSettings(), nil
		}
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}

	settings := defaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	if settings.RetryMax < 1 {
		settings.RetryMax = 1
	}
	if settings.FetchWorkers < 1 {
		settings.FetchWorkers = 1
	}

	return settings, nil
}

// RetryBase returns the configured backoff base delay.
func (s *Settings) RetryBase() time.Duration {
	return time.Duration(s.RetryBaseMS) * time.Millisecond
}

// CacheTTL returns the configured cache entry lifetime.
func (s *Settings) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLMin) * time.Minute
}
