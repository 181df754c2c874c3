package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 350, cfg.Rag.MaxChunkChars)
	assert.Equal(t, 60, cfg.Rag.OverlapChars)
	assert.Equal(t, 6, cfg.Rag.TopK)
	assert.InDelta(t, 0.3, cfg.Rag.Threshold, 1e-9)
	assert.Equal(t, 100*time.Millisecond, cfg.Rag.EmbeddingDelay)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, "logs/escalation.log", cfg.App.EscalationLogPath)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RAG_SOURCE_URLS", " https://a.example/law , ,https://b.example/law")
	t.Setenv("RAG_CONFIDENCE_THRESHOLD", "0.45")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("SESSION_TTL_MINUTES", "5")

	cfg := Load()
	assert.Equal(t, []string{"https://a.example/law", "https://b.example/law"}, cfg.Rag.SourceURLs)
	assert.InDelta(t, 0.45, cfg.Rag.Threshold, 1e-9)
	assert.True(t, cfg.App.Debug)
	assert.Equal(t, 5*time.Minute, cfg.Session.TTL)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("RAG_TOP_K", "six")
	assert.Equal(t, 6, Load().Rag.TopK)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"overlap not below chunk size": func(c *Config) { c.Rag.OverlapChars = c.Rag.MaxChunkChars },
		"negative overlap":             func(c *Config) { c.Rag.OverlapChars = -1 },
		"zero chunk size":              func(c *Config) { c.Rag.MaxChunkChars = 0 },
		"threshold above one":          func(c *Config) { c.Rag.Threshold = 1.5 },
		"zero top k":                   func(c *Config) { c.Rag.TopK = 0 },
		"zero batch size":              func(c *Config) { c.Rag.EmbeddingBatchSize = 0 },
		"no fetch attempts":            func(c *Config) { c.Rag.FetchAttempts = 0 },
		"no sources":                   func(c *Config) { c.Rag.SourceURLs = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Load()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
