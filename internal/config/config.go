// Package config loads the service configuration from a YAML or JSON file,
// overlays environment variables and validates the result at startup.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// DefaultPath is used when no -config flag is given. A missing default file
// is not an error; the environment alone may configure the service.
const DefaultPath = "config.yaml"

// Generative providers.
const (
	ProviderGemini = "gemini"
	ProviderLocal  = "local"
)

// Config is the complete service configuration.
type Config struct {
	Server struct {
		Addr         string   `yaml:"addr" json:"addr"`
		AllowOrigins []string `yaml:"allowOrigins" json:"allowOrigins"`
	} `yaml:"server" json:"server"`

	Log struct {
		Level  string `yaml:"level" json:"level"`
		Pretty bool   `yaml:"pretty" json:"pretty"`
	} `yaml:"log" json:"log"`

	Generative struct {
		Provider string        `yaml:"provider" json:"provider"`
		APIKey   string        `yaml:"apiKey" json:"apiKey"`
		Model    string        `yaml:"model" json:"model"`
		BaseURL  string        `yaml:"baseUrl" json:"baseUrl"`
		Timeout  time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"generative" json:"generative"`

	Search struct {
		APIKey  string        `yaml:"apiKey" json:"apiKey"`
		BaseURL string        `yaml:"baseUrl" json:"baseUrl"`
		Timeout time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"search" json:"search"`

	Database struct {
		URL string `yaml:"url" json:"url"`
	} `yaml:"database" json:"database"`

	Fetch struct {
		Timeout     time.Duration `yaml:"timeout" json:"timeout"`
		UserAgent   string        `yaml:"userAgent" json:"userAgent"`
		MaxAttempts int           `yaml:"maxAttempts" json:"maxAttempts"`
		MaxBytes    int64         `yaml:"maxBytes" json:"maxBytes"`
	} `yaml:"fetch" json:"fetch"`

	Transcript struct {
		YtDlpPath string        `yaml:"ytDlpPath" json:"ytDlpPath"`
		Languages []string      `yaml:"languages" json:"languages"`
		Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"transcript" json:"transcript"`

	Extract struct {
		LegacyKeywordFallback bool `yaml:"legacyKeywordFallback" json:"legacyKeywordFallback"`
		LegacyMaxSteps        int  `yaml:"legacyMaxSteps" json:"legacyMaxSteps"`
	} `yaml:"extract" json:"extract"`

	Images struct {
		Dir   string `yaml:"dir" json:"dir"`
		Width uint   `yaml:"width" json:"width"`
	} `yaml:"images" json:"images"`
}

// Load reads path (YAML or JSON), applies environment overrides and defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		path = DefaultPath
	}
	if err := readFile(path, cfg); err != nil {
		if !(errors.Is(err, os.ErrNotExist) && path == DefaultPath) {
			return nil, err
		}
	}
	ApplyEnv(cfg)
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
	}
	return nil
}

// ApplyDefaults fills every unset tunable.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if len(cfg.Server.AllowOrigins) == 0 {
		cfg.Server.AllowOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Generative.Provider == "" {
		cfg.Generative.Provider = ProviderGemini
	}
	if cfg.Generative.Model == "" {
		switch cfg.Generative.Provider {
		case ProviderLocal:
			cfg.Generative.Model = "gemma-3-12b-it"
		default:
			cfg.Generative.Model = "gemini-1.5-flash"
		}
	}
	if cfg.Generative.Provider == ProviderLocal && cfg.Generative.BaseURL == "" {
		cfg.Generative.BaseURL = "http://localhost:1234/v1"
	}
	if cfg.Generative.Timeout <= 0 {
		cfg.Generative.Timeout = 45 * time.Second
	}
	if cfg.Search.BaseURL == "" {
		cfg.Search.BaseURL = "https://api.spoonacular.com"
	}
	if cfg.Search.Timeout <= 0 {
		cfg.Search.Timeout = 10 * time.Second
	}
	if cfg.Fetch.Timeout <= 0 {
		cfg.Fetch.Timeout = 15 * time.Second
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = "Mozilla/5.0 (compatible; recipebox/1.0)"
	}
	if cfg.Fetch.MaxAttempts == 0 {
		cfg.Fetch.MaxAttempts = 2
	}
	if cfg.Fetch.MaxBytes == 0 {
		cfg.Fetch.MaxBytes = 5 << 20
	}
	if cfg.Transcript.YtDlpPath == "" {
		cfg.Transcript.YtDlpPath = "yt-dlp"
	}
	if len(cfg.Transcript.Languages) == 0 {
		cfg.Transcript.Languages = []string{"en"}
	}
	if cfg.Transcript.Timeout <= 0 {
		cfg.Transcript.Timeout = 30 * time.Second
	}
	if cfg.Extract.LegacyMaxSteps <= 0 {
		cfg.Extract.LegacyMaxSteps = 10
	}
	if cfg.Images.Width == 0 {
		cfg.Images.Width = 800
	}
}

// Validate reports every missing required key at once.
func (c *Config) Validate() error {
	var problems []string
	switch c.Generative.Provider {
	case ProviderGemini:
		if strings.TrimSpace(c.Generative.APIKey) == "" {
			problems = append(problems, "generative.apiKey is required (or set GEMINI_API_KEY)")
		}
	case ProviderLocal:
		if strings.TrimSpace(c.Generative.BaseURL) == "" {
			problems = append(problems, "generative.baseUrl is required for the local provider (or set LOCAL_LLM_URL)")
		}
	default:
		problems = append(problems, fmt.Sprintf("generative.provider %q is not one of %q, %q", c.Generative.Provider, ProviderGemini, ProviderLocal))
	}
	if strings.TrimSpace(c.Search.APIKey) == "" {
		problems = append(problems, "search.apiKey is required (or set SEARCH_API_KEY)")
	}
	if c.Fetch.MaxAttempts < 0 || c.Fetch.MaxBytes < 0 {
		problems = append(problems, "fetch limits must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}
