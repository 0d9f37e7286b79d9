package match

import (
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/ecs/system"
	"github.com/milk9111/arena/prefabs"
)

// RollTier draws a tier weighted by rates. Empty or negative weights roll
// Easy.
func RollTier(rates prefabs.TierRatesSpec, rng system.Roller) component.Tier {
	weights := []struct {
		tier component.Tier
		w    float64
	}{
		{component.TierEasy, rates.Easy},
		{component.TierMedium, rates.Medium},
		{component.TierHard, rates.Hard},
	}
	total := 0.0
	for _, w := range weights {
		if w.w > 0 {
			total += w.w
		}
	}
	if total <= 0 || rng == nil {
		return component.TierEasy
	}

	r := rng.Float64() * total
	last := component.TierEasy
	for _, w := range weights {
		if w.w <= 0 {
			continue
		}
		if r < w.w {
			return w.tier
		}
		r -= w.w
		last = w.tier
	}
	return last
}
