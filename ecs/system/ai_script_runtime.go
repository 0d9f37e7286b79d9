package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/prefabs"
)

type engageScript struct {
	path     string
	compiled *tengo.Compiled
	query    *EngageQuery
}

// EngageScripts compiles and caches engage scripts by path. A cache belongs
// to one match; compiled scripts are not shared across goroutines.
type EngageScripts struct {
	cache  map[string]*engageScript
	failed map[string]error
}

func NewEngageScripts() *EngageScripts {
	return &EngageScripts{
		cache:  map[string]*engageScript{},
		failed: map[string]error{},
	}
}

// Invalidate drops cached scripts so the next Decide reloads them.
func (s *EngageScripts) Invalidate() {
	if s == nil {
		return
	}
	s.cache = map[string]*engageScript{}
	s.failed = map[string]error{}
}

// Decide runs the script at path against q. gate is the tier gate's own
// decision; scripts read it as the gate global and usually refine it.
func (s *EngageScripts) Decide(path string, tier component.Tier, gate Decision, q EngageQuery) (Decision, error) {
	rt, err := s.get(path)
	if err != nil {
		return DecisionMove, err
	}
	*rt.query = q

	vars := map[string]any{
		"distance":         q.Distance,
		"attack_range":     q.AttackRange,
		"health":           q.Health,
		"max_health":       q.MaxHealth,
		"target_health":    q.TargetHealth,
		"opponents_near":   q.OpponentsNear,
		"ally_on_target":   q.AllyOnTarget,
		"team_alive":       q.TeamAlive,
		"target_engaging":  q.TargetEngaging,
		"allies_attacking": q.AlliesAttacking,
		"tier":             tier.String(),
		"gate":             gate.String(),
		"decision":         "",
	}
	for name, v := range vars {
		if err := rt.compiled.Set(name, v); err != nil {
			return DecisionMove, fmt.Errorf("engage script %s: set %s: %w", path, name, err)
		}
	}
	if err := rt.compiled.Run(); err != nil {
		return DecisionMove, fmt.Errorf("engage script %s: run: %w", path, err)
	}

	raw := strings.TrimSpace(rt.compiled.Get("decision").String())
	d, ok := ParseDecision(raw)
	if !ok {
		return DecisionMove, fmt.Errorf("engage script %s: unknown decision %q", path, raw)
	}
	return d, nil
}

func (s *EngageScripts) get(path string) (*engageScript, error) {
	if rt, ok := s.cache[path]; ok {
		return rt, nil
	}
	if err, ok := s.failed[path]; ok {
		return nil, err
	}
	rt, err := compileEngageScript(path)
	if err != nil {
		s.failed[path] = err
		return nil, err
	}
	s.cache[path] = rt
	return rt, nil
}

func compileEngageScript(path string) (*engageScript, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("engage script %s: %w", path, err)
	}

	rt := &engageScript{path: path, query: &EngageQuery{}}
	script := tengo.NewScript(src)
	for _, name := range []string{"tier", "gate", "decision"} {
		_ = script.Add(name, "")
	}
	for _, name := range []string{"distance", "attack_range", "health", "max_health", "target_health"} {
		_ = script.Add(name, 0.0)
	}
	for _, name := range []string{"opponents_near", "team_alive", "allies_attacking"} {
		_ = script.Add(name, 0)
	}
	for _, name := range []string{"ally_on_target", "target_engaging"} {
		_ = script.Add(name, false)
	}
	_ = script.Add("in_band", &tengo.UserFunction{Name: "in_band", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		lo, _ := tengo.ToFloat64(args[0])
		hi, _ := tengo.ToFloat64(args[1])
		q := rt.query
		if q.Distance >= q.AttackRange*lo && q.Distance <= q.AttackRange*hi {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}})

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("engage script %s: compile: %w", path, err)
	}
	rt.compiled = compiled
	return rt, nil
}
