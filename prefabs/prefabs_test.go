package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSpecsLoad(t *testing.T) {
	SetDir("")
	defer SetDir("prefabs")

	for _, name := range []string{"player.yaml", "ai_team_a.yaml", "ai_team_b.yaml"} {
		t.Run(name, func(t *testing.T) {
			spec, err := LoadCombatantSpec(name)
			require.NoError(t, err)
			assert.NotEmpty(t, spec.Name)
			assert.Greater(t, spec.BaseHealth, 0.0)
			regions := map[string]bool{}
			for _, r := range spec.Regions {
				regions[r.Name] = true
			}
			for i, a := range spec.Attacks {
				for _, w := range a.Windows {
					assert.Truef(t, regions[w.Region], "attack %d references unknown region %q", i, w.Region)
				}
			}
		})
	}

	combat, err := LoadCombatSpec()
	require.NoError(t, err)
	assert.Equal(t, 0.5, combat.MoveInterruptWindow)
	assert.InDelta(t, 0.30, combat.StunChance["hit3"], 1e-9)

	levels, err := LoadLevelsSpec()
	require.NoError(t, err)
	require.NotEmpty(t, levels.Levels)
}

func TestLevelsForLevel(t *testing.T) {
	s := &LevelsSpec{Levels: []LevelSpec{{Level: 1, Mode: "a"}, {Level: 4, Mode: "b"}, {Level: 8, Mode: "c"}}}
	cases := []struct {
		level int
		want  string
	}{
		{0, "a"}, {1, "a"}, {3, "a"}, {4, "b"}, {7, "b"}, {20, "c"},
	}
	for _, c := range cases {
		got, ok := s.ForLevel(c.level)
		require.True(t, ok)
		assert.Equalf(t, c.want, got.Mode, "level %d", c.level)
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	SetDir(dir)
	defer SetDir("prefabs")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "combat.yaml"), []byte("stun_duration: 2.5\n"), 0o644))
	spec, err := LoadCombatSpec()
	require.NoError(t, err)
	assert.Equal(t, 2.5, spec.StunDuration)

	_, err = LoadCombatantSpec("missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefabs: load missing.yaml")
}

func TestWatcherReportsSpecEdits(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "scripts"), 0o755))

	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "gate.tengo"), []byte("decision = \"move\""), 0o644))

	select {
	case c := <-w.Events:
		assert.Equal(t, "gate.tengo", filepath.Base(c.Path))
		assert.True(t, c.Script)
	case <-time.After(2 * time.Second):
		t.Fatal("no watcher event")
	}
}
