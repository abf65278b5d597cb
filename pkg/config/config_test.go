package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
llm:
  api_key: "file-key"
  model: "some-model"
upload:
  max_bytes: 2048
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "file-key", cfg.LLM.APIKey)
	assert.Equal(t, "some-model", cfg.LLM.Model)
	assert.Equal(t, int64(2048), cfg.Upload.MaxBytes)
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9090\"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.ClassifierModel)
	assert.Equal(t, int64(1<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, 15, cfg.Composer.MaxSections)
	assert.Equal(t, 6000, cfg.Composer.MaxPromptTokens)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "env-key")
	t.Setenv("SERVER_ADDR", ":7070")

	path := writeConfig(t, "llm:\n  api_key: \"file-key\"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.LLM.APIKey, "environment wins over the file")
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
