package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
device:
  abi: x86_64
  dpi: 320
scanning:
  recursive: true
log:
  level: debug
`), 0644))

	t.Setenv("APKSPLIT_DEVICE_LOCALE", "de-DE")
	t.Setenv("APKSPLIT_CACHE_SIZE", "4")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "x86_64", cfg.Device.ABI)
	assert.Equal(t, 320, cfg.Device.DPI)
	assert.Equal(t, "de-DE", cfg.Device.Locale)
	assert.True(t, cfg.Scanning.Recursive)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Cache.Size)
	assert.Equal(t, "adb", cfg.ADB.Path)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("APKSPLIT_ADB_PATH=/opt/platform-tools/adb\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("APKSPLIT_ADB_PATH") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/opt/platform-tools/adb", cfg.ADB.Path)
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("device: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveTemplate(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "conf", "apksplit.yaml")
	require.NoError(t, SaveTemplate(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)

	assert.Error(t, SaveTemplate(path))
}
