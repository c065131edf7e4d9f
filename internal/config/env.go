package config

import (
	"os"
	"strings"
	"time"
)

// ApplyEnv overrides cfg with environment variables that are set. Env takes
// precedence over the config file.
func ApplyEnv(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("ALLOW_ORIGINS"); v != "" {
		cfg.Server.AllowOrigins = splitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv("GENERATIVE_PROVIDER"); v != "" {
		cfg.Generative.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Generative.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Generative.Model = v
	}
	if v := os.Getenv("LOCAL_LLM_URL"); v != "" {
		cfg.Generative.BaseURL = v
	}
	if v := os.Getenv("LOCAL_LLM_MODEL"); v != "" {
		cfg.Generative.Model = v
	}

	// Support both SEARCH_API_KEY and SPOONACULAR_API_KEY; prefer SEARCH_API_KEY if set
	v := os.Getenv("SEARCH_API_KEY")
	if v == "" {
		v = os.Getenv("SPOONACULAR_API_KEY")
	}
	if v != "" {
		cfg.Search.APIKey = v
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("YTDLP_PATH"); v != "" {
		cfg.Transcript.YtDlpPath = v
	}
	if v := os.Getenv("TRANSCRIPT_LANGUAGES"); v != "" {
		cfg.Transcript.Languages = splitList(v)
	}
	if v := os.Getenv("IMAGES_DIR"); v != "" {
		cfg.Images.Dir = v
	}
	if s := os.Getenv("FETCH_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.Fetch.Timeout = d
		}
	}

	setBool := func(dst *bool, envKey string) {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}
	setBool(&cfg.Log.Pretty, "LOG_PRETTY")
	setBool(&cfg.Extract.LegacyKeywordFallback, "LEGACY_KEYWORD_FALLBACK")
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
