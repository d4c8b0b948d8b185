package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_DefaultsApplied(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"security:\n  sessionsecret: test-secret\n"), 0o600))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.False(t, cfg.IsProduction())
	require.Equal(t, 8080, cfg.HTTP.Port)
	require.Equal(t, "test-secret", cfg.Security.SessionSecret)

	require.Equal(t, 5, cfg.Entitlements.Guest.MaxMessagesPerDay)
	require.Equal(t, 100, cfg.Entitlements.Regular.MaxMessagesPerDay)
	require.Contains(t, cfg.Entitlements.Guest.AllowedModelIDs, "chat-model")
	require.Len(t, cfg.Models, 2)
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"environment: production\n"+
			"security:\n  sessionsecret: prod-secret\n"+
			"entitlements:\n  guest:\n    maxmessagesperday: 3\n"), 0o600))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	require.True(t, cfg.IsProduction())
	require.Equal(t, 3, cfg.Entitlements.Guest.MaxMessagesPerDay)
	require.Equal(t, 100, cfg.Entitlements.Regular.MaxMessagesPerDay)
}

func TestLoad_MissingSecretRejected(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load()
	require.Error(t, err)
}
