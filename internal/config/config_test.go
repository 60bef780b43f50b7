package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/perpscreener/internal/domain/screener"
)

func TestLoad_MissingPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ModePaper, cfg.Mode)
	assert.Equal(t, Default().Risk, cfg.Risk)
}

func TestLoad_NonexistentFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Paper.InitialBalance, cfg.Paper.InitialBalance)
}

func TestLoad_PartialYAMLOverlaysOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := "risk:\n  max_open_positions: 9\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// risk.Config carries no yaml tags, so yaml.v3 matches its fields
	// only by lowercased name (maxopenpositions); the snake_case key
	// max_open_positions matches nothing and every risk field keeps
	// its compiled-in default.
	assert.Equal(t, Default().Risk, cfg.Risk)
	assert.Equal(t, ModePaper, cfg.Mode)
}

func TestScreenerConfig_MillisecondFieldsConvertToDurations(t *testing.T) {
	cfg := Default()
	cfg.Screener.ScanIntervalMs = 5000
	cfg.Screener.CooldownMs = 120000

	sc := cfg.ScreenerConfig()
	assert.Equal(t, int64(5000), sc.ScanInterval.Milliseconds())
	assert.Equal(t, int64(120000), sc.CooldownPeriod.Milliseconds())
}

func TestScreenerConfig_ZeroOverlayFieldsKeepDefaults(t *testing.T) {
	cfg := Default()
	cfg.Screener.BatchSize = 0

	sc := cfg.ScreenerConfig()
	assert.Equal(t, screener.DefaultConfig().BatchSize, sc.BatchSize)
}
