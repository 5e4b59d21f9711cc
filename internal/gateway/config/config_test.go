package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "APP_ENV", "BUNDLE_ALLOWED_ROOT", "BUNDLE_NAME", "BUNDLE_IGNORE_DIRS",
		"BUNDLE_CACHE_SIZE", "BUNDLE_CACHE_TTL", "EXPORT_HISTORY_PG_DSN", "DATABASE_URL",
		"BUNDLE_S3_ENDPOINT", "BUNDLE_S3_USE_SSL", "BUNDLE_S3_BUCKET", "GEMINI_API_KEY", "GEMINI_MODEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadArgsDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := LoadArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "gpt_bundle.txt", cfg.Bundle.Name)
	assert.Equal(t, 32, cfg.Cache.MaxEntries)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Artifact.Enabled)
	assert.Empty(t, cfg.HistoryDSN)
}

func TestLoadArgsEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "7000")
	t.Setenv("BUNDLE_IGNORE_DIRS", "vendor, testdata ,")
	t.Setenv("BUNDLE_CACHE_TTL", "30s")
	t.Setenv("BUNDLE_CACHE_SIZE", "-3")
	t.Setenv("BUNDLE_S3_ENDPOINT", "minio:9000")
	t.Setenv("BUNDLE_S3_USE_SSL", "false")
	t.Setenv("DATABASE_URL", "postgres://x")

	cfg, err := LoadArgs([]string{"-port", ":9999"})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Port)
	assert.Equal(t, []string{"vendor", "testdata"}, cfg.Bundle.IgnoreDirs)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 32, cfg.Cache.MaxEntries)
	assert.True(t, cfg.Artifact.Enabled)
	assert.False(t, cfg.Artifact.UseSSL)
	assert.Equal(t, "codebundle", cfg.Artifact.Bucket)
	assert.Equal(t, "postgres://x", cfg.HistoryDSN)
}

func TestLoadArgsRejectsUnknownFlag(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	_, err := LoadArgs([]string{"-nope"})
	assert.Error(t, err)
}
