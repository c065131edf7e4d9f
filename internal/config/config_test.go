package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "ALLOW_ORIGINS", "LOG_LEVEL", "LOG_PRETTY", "GENERATIVE_PROVIDER", "GEMINI_API_KEY",
		"GEMINI_MODEL", "LOCAL_LLM_URL", "LOCAL_LLM_MODEL", "SEARCH_API_KEY", "SPOONACULAR_API_KEY",
		"DATABASE_URL", "YTDLP_PATH", "TRANSCRIPT_LANGUAGES", "IMAGES_DIR", "FETCH_TIMEOUT",
		"LEGACY_KEYWORD_FALLBACK",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_YAMLWithDefaults(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, "config.yaml", `
generative:
  apiKey: gem-key
search:
  apiKey: search-key
fetch:
  timeout: 5s
extract:
  legacyKeywordFallback: true
`)

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "gem-key", cfg.Generative.APIKey)
	assert.Equal(t, ProviderGemini, cfg.Generative.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.Generative.Model)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"en"}, cfg.Transcript.Languages)
	assert.True(t, cfg.Extract.LegacyKeywordFallback)
	assert.Equal(t, 10, cfg.Extract.LegacyMaxSteps)
	assert.Equal(t, uint(800), cfg.Images.Width)
}

func TestLoad_JSON(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, "config.json", `{"generative":{"apiKey":"k"},"search":{"apiKey":"s"},"database":{"url":"postgres://x"}}`)

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "postgres://x", cfg.Database.URL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, "config.yaml", "generative:\n  apiKey: from-file\nsearch:\n  apiKey: from-file\n")
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("SPOONACULAR_API_KEY", "spoon")
	t.Setenv("PORT", "9090")
	t.Setenv("LEGACY_KEYWORD_FALLBACK", "yes")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Generative.APIKey)
	assert.Equal(t, "spoon", cfg.Search.APIKey)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.True(t, cfg.Extract.LegacyKeywordFallback)
}

func TestLoad_MissingKeysFailValidation(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, "config.yaml", "server:\n  addr: \":1\"\n")

	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generative.apiKey")
	assert.Contains(t, err.Error(), "search.apiKey")
}

func TestLoad_LocalProviderNeedsNoAPIKey(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, "config.yaml", "generative:\n  provider: local\nsearch:\n  apiKey: s\n")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:1234/v1", cfg.Generative.BaseURL)
	assert.Equal(t, "gemma-3-12b-it", cfg.Generative.Model)
}

func TestLoad_UnknownProvider(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, "config.yaml", "generative:\n  provider: other\n  apiKey: k\nsearch:\n  apiKey: s\n")

	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generative.provider")
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_NegativeFetchLimits(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, "config.yaml", `
generative: {apiKey: k}
search: {apiKey: s}
fetch: {maxAttempts: -1}
`)
	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch limits")
}
