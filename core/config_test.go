package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
env: prod
listen:
  port: "9090"
  allowed_origins: ["https://quiz.example"]
openai:
  api_key: sk-test
  model: gpt-4o
  timeout: 30s
questions:
  min: 2
  max: 8
  default: 4
`)

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", conf.Env)
	assert.Equal(t, "0.0.0.0:9090", conf.Addr())
	assert.Equal(t, []string{"https://quiz.example"}, conf.Listen.AllowedOrigins)
	assert.Equal(t, "sk-test", conf.OpenAI.ApiKey)
	assert.Equal(t, "gpt-4o", conf.OpenAI.Model)
	assert.Equal(t, 30*time.Second, conf.OpenAI.Timeout)
	assert.Equal(t, 2000, conf.OpenAI.MaxTokens)
	assert.Equal(t, 4, conf.Questions.Default)
	assert.False(t, conf.Mongo.Enabled)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, "local", conf.Env)
	assert.Equal(t, "8000", conf.Listen.Port)
	assert.Equal(t, 5, conf.Questions.Min)
	assert.Equal(t, 15, conf.Questions.Max)
	assert.Equal(t, 10, conf.Questions.Default)
	assert.Equal(t, "https://api.openai.com/v1", conf.OpenAI.BaseURL)
	assert.Equal(t, time.Minute, conf.RateLimit.Window)
	assert.Equal(t, "static", conf.Listen.StaticDir)
	assert.Equal(t, 1000, conf.Content.ChunkTokens)
	assert.Equal(t, time.Second, conf.Content.ChunkDelay)
	assert.Equal(t, 5, conf.Content.MaxTopics)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "openai:\n  model: gpt-4o\n")
	t.Setenv("OPENAI_MODEL", "gpt-4.1-mini")

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1-mini", conf.OpenAI.Model)
}

func TestLoadRejectsBadQuestionBounds(t *testing.T) {
	path := writeConfig(t, "questions:\n  min: 10\n  max: 5\n  default: 7\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "questions.max")
}

func TestLoadRejectsBadChunkSize(t *testing.T) {
	path := writeConfig(t, "content:\n  chunk_tokens: 0\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content.chunk_tokens")
}
