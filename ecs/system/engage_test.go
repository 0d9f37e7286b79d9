package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngageGates(t *testing.T) {
	tuning := DefaultTuning()
	tests := []struct {
		name  string
		tier  component.Tier
		q     EngageQuery
		want  Decision
		reset bool
	}{
		{"easy in range", component.TierEasy, EngageQuery{Distance: 1.5, AttackRange: 2}, DecisionAttack, false},
		{"easy out of range", component.TierEasy, EngageQuery{Distance: 2.5, AttackRange: 2}, DecisionMove, false},
		{"medium in band", component.TierMedium, EngageQuery{Distance: 1.5, AttackRange: 2, OpponentsNear: 2}, DecisionAttack, false},
		{"medium crowded", component.TierMedium, EngageQuery{Distance: 1.5, AttackRange: 2, OpponentsNear: 3}, DecisionMove, true},
		{"medium too close", component.TierMedium, EngageQuery{Distance: 1, AttackRange: 2}, DecisionMove, true},
		{"medium past optimal", component.TierMedium, EngageQuery{Distance: 1.9, AttackRange: 2}, DecisionMove, true},
		{"hard backed by ally", component.TierHard, EngageQuery{Distance: 1.5, AttackRange: 2, AllyOnTarget: true, TeamAlive: 3}, DecisionAttack, false},
		{"hard last alive", component.TierHard, EngageQuery{Distance: 1.5, AttackRange: 2, TeamAlive: 1}, DecisionAttack, false},
		{"hard target engaging", component.TierHard, EngageQuery{Distance: 2, AttackRange: 2, TeamAlive: 2, TargetEngaging: true}, DecisionAttack, false},
		{"hard unbacked", component.TierHard, EngageQuery{Distance: 1.5, AttackRange: 2, TeamAlive: 2}, DecisionMove, false},
		{"hard attacker cap", component.TierHard, EngageQuery{Distance: 1.5, AttackRange: 2, AllyOnTarget: true, AlliesAttacking: 5}, DecisionMove, false},
		{"hard too close", component.TierHard, EngageQuery{Distance: 1, AttackRange: 2, TeamAlive: 1}, DecisionMove, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Engage(tuning, tt.tier, tt.q)
			assert.Equal(t, tt.want, res.Decision)
			assert.Equal(t, tt.reset, res.ResetCombo)
		})
	}
}

func TestParseDecision(t *testing.T) {
	for _, d := range []Decision{DecisionMove, DecisionAttack, DecisionHold} {
		got, ok := ParseDecision(d.String())
		assert.True(t, ok)
		assert.Equal(t, d, got)
	}
	_, ok := ParseDecision("flee")
	assert.False(t, ok)
}

func TestEngageScriptDecide(t *testing.T) {
	scripts := NewEngageScripts()
	healthy := EngageQuery{Distance: 1.5, AttackRange: 2, Health: 100, MaxHealth: 100}
	tests := []struct {
		name string
		gate Decision
		q    EngageQuery
		want Decision
	}{
		{"gate attack", DecisionAttack, healthy, DecisionAttack},
		{"gate move", DecisionMove, healthy, DecisionMove},
		{"gate hold", DecisionHold, healthy, DecisionHold},
		{"cornered", DecisionAttack, EngageQuery{Distance: 1.5, AttackRange: 2, Health: 10, MaxHealth: 100, OpponentsNear: 3}, DecisionHold},
		{"hurt but alone", DecisionAttack, EngageQuery{Distance: 1.5, AttackRange: 2, Health: 10, MaxHealth: 100, OpponentsNear: 1}, DecisionAttack},
		{"cornered never attacks past the gate", DecisionMove, EngageQuery{Distance: 1.5, AttackRange: 2, Health: 10, MaxHealth: 100, OpponentsNear: 3}, DecisionMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := scripts.Decide("engage_default.tengo", component.TierMedium, tt.gate, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestEngageScriptKeepsTierGating(t *testing.T) {
	tuning := DefaultTuning()
	scripts := NewEngageScripts()
	q := EngageQuery{
		Distance:        1.8,
		AttackRange:     2,
		Health:          100,
		MaxHealth:       100,
		OpponentsNear:   4,
		AllyOnTarget:    true,
		TeamAlive:       3,
		AlliesAttacking: 5,
	}
	for _, tier := range []component.Tier{component.TierEasy, component.TierMedium, component.TierHard} {
		t.Run(tier.String(), func(t *testing.T) {
			gate := Engage(tuning, tier, q).Decision
			d, err := scripts.Decide("engage_default.tengo", tier, gate, q)
			require.NoError(t, err)
			assert.Equal(t, gate, d)
		})
	}
	assert.Equal(t, DecisionMove, Engage(tuning, component.TierMedium, q).Decision, "crowded")
	assert.Equal(t, DecisionMove, Engage(tuning, component.TierHard, q).Decision, "attacker cap")
}

func TestEngageScriptFromDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	src := "decision = gate\nif in_band(0.5, 1.0) && tier == \"hard\" {\n\tdecision = \"attack\"\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "edge.tengo"), []byte(src), 0o644))

	prev := prefabs.Dir()
	prefabs.SetDir(dir)
	t.Cleanup(func() { prefabs.SetDir(prev) })

	scripts := NewEngageScripts()
	q := EngageQuery{Distance: 1.5, AttackRange: 2}
	d, err := scripts.Decide("edge.tengo", component.TierHard, DecisionMove, q)
	require.NoError(t, err)
	assert.Equal(t, DecisionAttack, d)

	d, err = scripts.Decide("edge.tengo", component.TierEasy, DecisionMove, q)
	require.NoError(t, err)
	assert.Equal(t, DecisionMove, d)

	q.Distance = 0.5
	d, err = scripts.Decide("edge.tengo", component.TierHard, DecisionHold, q)
	require.NoError(t, err)
	assert.Equal(t, DecisionHold, d, "outside the band the gate stands")
}

func TestEngageScriptMissing(t *testing.T) {
	scripts := NewEngageScripts()
	_, err := scripts.Decide("missing.tengo", component.TierEasy, DecisionMove, EngageQuery{})
	require.Error(t, err)

	_, again := scripts.Decide("missing.tengo", component.TierEasy, DecisionMove, EngageQuery{})
	assert.Equal(t, err, again, "failures are cached")

	scripts.Invalidate()
	_, err = scripts.Decide("missing.tengo", component.TierEasy, DecisionMove, EngageQuery{})
	assert.Error(t, err)
}
