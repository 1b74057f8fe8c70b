package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"IP", "PORT", "NOTES_SERVER_HOST", "NOTES_SERVER_PORT", "NOTES_SESSION_SECRET", "NOTES_BACKUP_BUCKET"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5000", cfg.Addr())
	assert.Equal(t, "data/notes.db", cfg.Database.Path)
	assert.Equal(t, "session", cfg.Session.CookieName)
	assert.Equal(t, 31*24*time.Hour, cfg.SessionTTL())
	assert.Empty(t, cfg.Backup.Bucket)
	assert.Equal(t, time.Hour, cfg.BackupInterval())
	assert.Equal(t, 24, cfg.Backup.Keep)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("NOTES_SERVER_HOST", "")
	t.Setenv("NOTES_SERVER_PORT", "")
	t.Setenv("IP", "0.0.0.0")
	t.Setenv("PORT", "8081")
	t.Setenv("NOTES_SESSION_SECRET", "s3cret")
	t.Setenv("NOTES_INDEX_EMAIL", "owner@example.com")
	t.Setenv("NOTES_BACKUP_BUCKET", "snapshots")
	t.Setenv("NOTES_BACKUP_KEEP", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8081", cfg.Addr())
	assert.Equal(t, "s3cret", cfg.Session.Secret)
	assert.Equal(t, "owner@example.com", cfg.Index.Email)
	assert.Equal(t, "snapshots", cfg.Backup.Bucket)
	assert.Equal(t, 3, cfg.Backup.Keep)
}

func TestPrefixedEnvWinsOverBareHostVariables(t *testing.T) {
	t.Setenv("IP", "0.0.0.0")
	t.Setenv("NOTES_SERVER_HOST", "10.0.0.1")
	t.Setenv("NOTES_SERVER_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:9000", cfg.Addr())
}
