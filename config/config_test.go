package config

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
	path := filepath.Join(t.TempDir(), "arena.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaults(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Sim.TickRate)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[sim]
seed = 42

[match]
mode = "many_vs_many"
level = 5
matches = 8

[logging]
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Sim.Seed)
	assert.Equal(t, 60, cfg.Sim.TickRate, "untouched keys keep defaults")
	assert.Equal(t, "many_vs_many", cfg.Match.Mode)
	assert.Equal(t, 5, cfg.Match.Level)
	assert.Equal(t, 8, cfg.Match.Matches)
	assert.True(t, cfg.Match.Autopilot)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"mode", "[match]\nmode = \"free_for_all\"\n"},
		{"level", "[match]\nlevel = 0\n"},
		{"tick rate", "[sim]\ntick_rate = -1\n"},
		{"matches", "[match]\nmatches = 0\n"},
		{"syntax", "[match\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := Load("arena.toml")
	require.NoError(t, err)
	assert.Equal(t, "one_vs_one", cfg.Match.Mode)
}

func TestSimHelpers(t *testing.T) {
	assert.InDelta(t, 1.0/30, SimConfig{TickRate: 30}.Dt(), 1e-12)
	assert.InDelta(t, 1.0/60, SimConfig{}.Dt(), 1e-12)

	now := time.Unix(0, 1234)
	assert.Equal(t, int64(7), SimConfig{Seed: 7}.ResolveSeed(now))
	assert.Equal(t, int64(1234), SimConfig{}.ResolveSeed(now))
}
