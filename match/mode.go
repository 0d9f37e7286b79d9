package match

import (
	"fmt"
	"strings"

	"github.com/milk9111/arena/prefabs"
)

// Mode is a match layout.
type Mode int

const (
	OneVsOne Mode = iota
	OneVsMany
	ManyVsMany
)

func (m Mode) String() string {
	switch m {
	case OneVsMany:
		return "one_vs_many"
	case ManyVsMany:
		return "many_vs_many"
	default:
		return "one_vs_one"
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one_vs_one", "1v1":
		return OneVsOne, nil
	case "one_vs_many", "1vn":
		return OneVsMany, nil
	case "many_vs_many", "nvn":
		return ManyVsMany, nil
	}
	return OneVsOne, fmt.Errorf("match: unknown mode %q", s)
}

// TeamSizes returns how many AI combatants join the player's team and how
// many oppose it. Level data overrides the level-derived defaults.
func TeamSizes(mode Mode, level int, data prefabs.LevelSpec) (allies, opponents int) {
	if level < 1 {
		level = 1
	}
	switch mode {
	case OneVsMany:
		opponents = 2 + (level-1)/3
		if data.AIQuantity > 0 {
			opponents = data.AIQuantity
		}
	case ManyVsMany:
		allies = 1 + (level-1)/4
		if data.Allies > 0 {
			allies = data.Allies
		}
		opponents = allies + 1
		if data.Opponents > 0 {
			opponents = data.Opponents
		}
	default:
		opponents = 1
	}
	return allies, opponents
}
