package userconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeosRain/proxy-env-cleaner/internal/types"
)

func TestLoad_ReturnsDefaults_WhenFileAbsent(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.CleanSystemProxy)
	assert.True(t, cfg.CleanAptProxy)
	assert.Equal(t, types.LangBilingual, cfg.Language)
}

func TestLoad_ReturnsDefaults_WhenFileUnparseable(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "proxy-env-cleaner")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{broken"), 0o644))

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.CleanEnvVariables)
}

func TestSaveAndLoad_RoundTripsPreferences(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := Default()
	cfg.CleanGitProxy = false
	cfg.Language = types.LangEnglish
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.False(t, loaded.CleanGitProxy)
	assert.Equal(t, types.LangEnglish, loaded.Language)
	assert.True(t, loaded.CleanSystemProxy)
}

func TestCleanOptions_MirrorsToggles(t *testing.T) {
	cfg := Default()
	cfg.CleanAptProxy = false

	opts := cfg.CleanOptions()

	assert.True(t, opts.SystemProxy)
	assert.False(t, opts.AptProxy)
}

func TestLoad_FillsLanguage_WhenMissingFromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "proxy-env-cleaner")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"clean_git_proxy": false}`), 0o644))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, types.LangBilingual, cfg.Language)
	assert.False(t, cfg.CleanGitProxy)
}
