package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("AZURE_OPENAI_KEY", "key")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "gpt-4o")
	t.Setenv("DISCOURSE_BASE_URL", "https://forum.example.com")
	t.Setenv("DISCOURSE_API_KEY", "dkey")
	t.Setenv("DISCOURSE_API_USERNAME", "scribe")
	t.Setenv("LOG_LEVEL", "info")
}

func TestLoadMissingVars(t *testing.T) {
	setRequired(t)
	t.Setenv("SLACK_BOT_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLACK_BOT_TOKEN")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 1000, cfg.SessionCapacity)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 64, cfg.QueueSize)
	assert.NotEmpty(t, cfg.Persona)
	assert.Empty(t, cfg.ArchiveBucketName)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_TTL_SECONDS", "60")
	t.Setenv("SESSION_CAPACITY", "10")
	t.Setenv("BOT_PERSONA", "You are terse.")
	t.Setenv("ARCHIVE_BUCKET_NAME", "my-archive")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.SessionCapacity)
	assert.Equal(t, "You are terse.", cfg.Persona)
	assert.Equal(t, "my-archive", cfg.ArchiveBucketName)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_CAPACITY", "lots")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SESSION_CAPACITY", "-5")
	_, err = Load()
	assert.Error(t, err)
}
