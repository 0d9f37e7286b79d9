package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Sim     SimConfig     `toml:"sim"`
	Match   MatchConfig   `toml:"match"`
	Prefabs PrefabsConfig `toml:"prefabs"`
	Logging LoggingConfig `toml:"logging"`
}

type SimConfig struct {
	TickRate int   `toml:"tick_rate"` // simulated ticks per second
	Seed     int64 `toml:"seed"`      // 0 picks a seed from the clock
	MaxTicks int   `toml:"max_ticks"` // hard stop for a single match
}

type MatchConfig struct {
	Mode      string `toml:"mode"` // one_vs_one, one_vs_many or many_vs_many
	Level     int    `toml:"level"`
	Autopilot bool   `toml:"autopilot"` // player driven by the hard tier
	Matches   int    `toml:"matches"`   // batch size for the headless runner
	Parallel  int    `toml:"parallel"`  // concurrent matches, 0 = one per match
}

type PrefabsConfig struct {
	Dir   string `toml:"dir"`   // disk override for embedded prefabs, "" disables
	Watch bool   `toml:"watch"` // reload prefabs between matches
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Dt returns the fixed simulated step length.
func (c SimConfig) Dt() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1 / float64(c.TickRate)
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the runner cannot work with.
func (c *Config) Validate() error {
	switch c.Match.Mode {
	case "one_vs_one", "one_vs_many", "many_vs_many":
	default:
		return fmt.Errorf("unknown match mode %q", c.Match.Mode)
	}
	if c.Match.Level < 1 {
		return fmt.Errorf("match level must be >= 1, got %d", c.Match.Level)
	}
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", c.Sim.TickRate)
	}
	if c.Match.Matches < 1 {
		return fmt.Errorf("matches must be >= 1, got %d", c.Match.Matches)
	}
	return nil
}

// ResolveSeed returns the configured seed, or one derived from now.
func (c SimConfig) ResolveSeed(now time.Time) int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return now.UnixNano()
}

func defaults() *Config {
	return &Config{
		Sim: SimConfig{
			TickRate: 60,
			MaxTicks: 60 * 60 * 5, // five simulated minutes
		},
		Match: MatchConfig{
			Mode:      "one_vs_one",
			Level:     1,
			Autopilot: true,
			Matches:   1,
		},
		Prefabs: PrefabsConfig{
			Dir: "prefabs",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
