package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/milk9111/arena/config"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/logging"
	"github.com/milk9111/arena/match"
	"github.com/milk9111/arena/prefabs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "config/arena.toml", "runtime config (TOML)")
	mode := flag.String("mode", "", "match mode override: one_vs_one, one_vs_many, many_vs_many")
	level := flag.Int("level", 0, "match level override")
	matches := flag.Int("n", 0, "number of matches to run")
	seed := flag.Int64("seed", 0, "base seed override")
	watch := flag.Bool("watch", false, "rerun the batch whenever prefabs change on disk")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Match.Mode = *mode
		case "level":
			cfg.Match.Level = *level
		case "n":
			cfg.Match.Matches = *matches
		case "seed":
			cfg.Sim.Seed = *seed
		case "watch":
			cfg.Prefabs.Watch = *watch
		case "debug":
			if *debug {
				cfg.Logging.Level = "debug"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && ctx.Err() == nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	prefabs.SetDir(cfg.Prefabs.Dir)
	mode, err := match.ParseMode(cfg.Match.Mode)
	if err != nil {
		return err
	}

	var watcher *prefabs.Watcher
	if cfg.Prefabs.Watch && cfg.Prefabs.Dir != "" {
		watcher, err = prefabs.NewWatcher(cfg.Prefabs.Dir)
		if err != nil {
			return fmt.Errorf("watch %s: %w", cfg.Prefabs.Dir, err)
		}
		defer watcher.Close()
	}

	base := cfg.Sim.ResolveSeed(time.Now())
	for batch := 0; ; batch++ {
		specs, err := match.LoadSpecs()
		if err != nil {
			return err
		}
		if err := runBatch(ctx, cfg, mode, specs, base+int64(batch*cfg.Match.Matches), logger); err != nil {
			return err
		}
		if watcher == nil {
			return nil
		}

		logger.Info("waiting for prefab changes", zap.String("dir", cfg.Prefabs.Dir))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-watcher.Errors:
			return err
		case c, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			changed := append([]prefabs.Change{c}, watcher.Pending()...)
			for _, c := range changed {
				logger.Info("prefab changed", zap.String("path", c.Path), zap.Bool("script", c.Script))
			}
		}
	}
}

type tally struct {
	mu    sync.Mutex
	wins  map[component.Team]int
	draws int
}

func (t *tally) add(res match.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if res.Draw {
		t.draws++
		return
	}
	t.wins[res.Winner]++
}

func runBatch(ctx context.Context, cfg *config.Config, mode match.Mode, specs *match.Specs, seed int64, logger *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Match.Parallel > 0 {
		g.SetLimit(cfg.Match.Parallel)
	}

	t := &tally{wins: map[component.Team]int{}}
	dt := cfg.Sim.Dt()
	for i := 0; i < cfg.Match.Matches; i++ {
		matchSeed := seed + int64(i)
		g.Go(func() error {
			m, err := match.New(match.Options{
				Mode:      mode,
				Level:     cfg.Match.Level,
				Autopilot: cfg.Match.Autopilot,
				Seed:      matchSeed,
				Specs:     specs,
				Logger:    logger,
			})
			if err != nil {
				return err
			}
			res, err := m.Run(ctx, dt, cfg.Sim.MaxTicks)
			if err != nil {
				return err
			}
			t.add(res)
			fmt.Println(res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("batch done",
		zap.Int("matches", cfg.Match.Matches),
		zap.Int("team_a_wins", t.wins[component.TeamA]),
		zap.Int("team_b_wins", t.wins[component.TeamB]),
		zap.Int("draws", t.draws),
	)
	return nil
}
