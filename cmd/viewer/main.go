package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/arena/config"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/ecs/system"
	"github.com/milk9111/arena/logging"
	"github.com/milk9111/arena/match"
	"github.com/milk9111/arena/prefabs"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

const (
	screenWidth  = 960
	screenHeight = 720
	pixelsPerM   = 36
)

// Game steps one match per frame and draws the arena from above.
type Game struct {
	cfg    *config.Config
	mode   match.Mode
	log    *zap.Logger
	seed   int64
	watch  *prefabs.Watcher
	view   ecs.Viewport
	dt     float64
	paused bool

	m      *match.Match
	damage *damageText
}

func newGame(cfg *config.Config, mode match.Mode, logger *zap.Logger, watch *prefabs.Watcher) (*Game, error) {
	g := &Game{
		cfg:   cfg,
		mode:  mode,
		log:   logger,
		seed:  cfg.Sim.ResolveSeed(time.Now()),
		watch: watch,
		view:  ecs.Viewport{OriginX: screenWidth / 2, OriginY: screenHeight / 2, Scale: pixelsPerM},
		dt:    cfg.Sim.Dt(),
	}
	if err := g.restart(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) restart() error {
	specs, err := match.LoadSpecs()
	if err != nil {
		return err
	}
	g.damage = &damageText{}
	opts := match.Options{
		Mode:       g.mode,
		Level:      g.cfg.Match.Level,
		Autopilot:  g.cfg.Match.Autopilot,
		Seed:       g.seed,
		Specs:      specs,
		Logger:     g.log,
		Presenters: []system.SignalSink{g.damage},
	}
	if !g.cfg.Match.Autopilot {
		opts.Input = keyboard{}
	}
	m, err := match.New(opts)
	if err != nil {
		return err
	}
	g.m = m
	g.seed++
	return nil
}

func (g *Game) pollWatcher() bool {
	if g.watch == nil {
		return false
	}
	select {
	case c, ok := <-g.watch.Events:
		if !ok {
			g.watch = nil
			return false
		}
		g.log.Info("prefab changed", zap.String("path", c.Path))
		g.watch.Pending()
		return true
	case err, ok := <-g.watch.Errors:
		if !ok {
			g.watch = nil
			return false
		}
		g.log.Warn("prefab watcher", zap.Error(err))
	default:
	}
	return false
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) || g.pollWatcher() {
		if err := g.restart(); err != nil {
			g.log.Error("restart failed", zap.Error(err))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused {
		return nil
	}
	g.m.Step(g.dt)
	g.damage.Update(g.dt)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)
	w := g.m.World()
	w.Draw(screen, g.view, windowRenderer{}, combatantRenderer{player: g.m.Player()})
	g.damage.Draw(screen, g.view)
	ebitenutil.DebugPrint(screen, g.hud())
}

func (g *Game) hud() string {
	w := g.m.World()
	roster := g.m.Roster()
	s := fmt.Sprintf("%s level %d  t=%.1fs  tick %d\n", g.mode, g.cfg.Match.Level, w.Elapsed(), w.Tick())
	s += fmt.Sprintf("%s: %d  %s: %d\n",
		component.TeamA, len(roster.Members(component.TeamA)),
		component.TeamB, len(roster.Members(component.TeamB)))
	if a, ok := ecs.Get(w, g.m.Player(), component.AttackComponent); ok {
		s += fmt.Sprintf("player %s combo %d\n", a.Phase(), a.Combo)
	}
	if g.m.Over() {
		s += g.m.Result().String() + "\n[R] restart"
	} else if g.paused {
		s += "paused [P]"
	}
	return s
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	configPath := flag.String("config", "config/arena.toml", "runtime config (TOML)")
	mode := flag.String("mode", "", "match mode override")
	level := flag.Int("level", 0, "match level override")
	manual := flag.Bool("manual", false, "drive the player from the keyboard")
	watch := flag.Bool("watch", false, "restart the match whenever prefabs change on disk")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *mode != "" {
		cfg.Match.Mode = *mode
	}
	if *level > 0 {
		cfg.Match.Level = *level
	}
	if *manual {
		cfg.Match.Autopilot = false
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	prefabs.SetDir(cfg.Prefabs.Dir)
	m, err := match.ParseMode(cfg.Match.Mode)
	if err != nil {
		log.Fatal(err)
	}

	var watcher *prefabs.Watcher
	if *watch && cfg.Prefabs.Dir != "" {
		watcher, err = prefabs.NewWatcher(cfg.Prefabs.Dir)
		if err != nil {
			log.Fatal(err)
		}
		defer watcher.Close()
	}

	ebiten.SetTPS(cfg.Sim.TickRate)
	game, err := newGame(cfg, m, logger, watcher)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Arena")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
