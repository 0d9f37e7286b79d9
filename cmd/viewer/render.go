package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"golang.org/x/image/colornames"
)

var teamColors = map[component.Team]color.RGBA{
	component.TeamA: colornames.Steelblue,
	component.TeamB: colornames.Crimson,
}

// combatantRenderer draws every fighter as a circle with a facing line and
// a health bar.
type combatantRenderer struct {
	player ecs.Entity
}

func (r combatantRenderer) Draw(w *ecs.World, screen *ebiten.Image, view ecs.Viewport) {
	ecs.ForEach(w, component.CombatantComponent, func(e ecs.Entity, c *component.Combatant) {
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			return
		}
		h, _ := ecs.Get(w, e, component.HealthComponent)
		x, y := view.ToScreen(t.X, t.Z)
		radius := float32(c.Radius * view.Scale)

		clr := color.Color(teamColors[c.Team])
		if !h.Alive {
			clr = colornames.Dimgray
		} else if ecs.Has(w, e, component.StunComponent) {
			clr = colornames.Gold
		}
		vector.FillCircle(screen, x, y, radius, clr, true)
		if e == r.player {
			vector.StrokeCircle(screen, x, y, radius+2, 2, colornames.White, true)
		}

		f := common.Forward(t.Yaw)
		fx, fy := view.ToScreen(t.X+f.X*c.Radius*1.5, t.Z+f.Y*c.Radius*1.5)
		vector.StrokeLine(screen, x, y, fx, fy, 2, colornames.White, true)

		if h.Max > 0 {
			frac := float32(h.Current / h.Max)
			bw := radius * 2
			vector.FillRect(screen, x-radius, y-radius-8, bw, 4, colornames.Darkred, false)
			vector.FillRect(screen, x-radius, y-radius-8, bw*frac, 4, colornames.Limegreen, false)
		}
	})
}

// windowRenderer outlines hit windows; live ones are filled.
type windowRenderer struct{}

func (windowRenderer) Draw(w *ecs.World, screen *ebiten.Image, view ecs.Viewport) {
	ecs.ForEach(w, component.HitWindowComponent, func(_ ecs.Entity, hw *component.HitWindow) {
		owner := ecs.Entity(hw.Owner)
		t, ok := ecs.Get(w, owner, component.TransformComponent)
		if !ok {
			return
		}
		center := common.Planar(t.X, t.Z).Add(common.LocalToWorld(hw.Offset, t.Yaw))
		x, y := view.ToScreen(center.X, center.Y)
		radius := float32(hw.Radius * view.Scale)
		if hw.Live {
			vector.FillCircle(screen, x, y, radius, color.RGBA{R: 0xff, G: 0xa5, A: 0x60}, true)
			return
		}
		vector.StrokeCircle(screen, x, y, radius, 1, colornames.Orange, true)
	})
}

// floatingText is a damage number drifting up from where it landed.
type floatingText struct {
	text string
	pos  cp.Vector
	ttl  float64
}

const damageTextTTL = 0.8

// damageText collects damage numbers from the match signal stream.
type damageText struct {
	items []floatingText
}

func (d *damageText) HandleSignal(evt ecs.Event) {
	if evt.Type != ecs.EventDamageText {
		return
	}
	sig, ok := evt.Data.(component.DamageTextSignal)
	if !ok {
		return
	}
	d.items = append(d.items, floatingText{
		text: fmt.Sprintf("%.0f", sig.Amount),
		pos:  sig.Position,
		ttl:  damageTextTTL,
	})
}

func (d *damageText) Update(dt float64) {
	kept := d.items[:0]
	for _, it := range d.items {
		it.ttl -= dt
		if it.ttl <= 0 {
			continue
		}
		kept = append(kept, it)
	}
	d.items = kept
}

func (d *damageText) Draw(screen *ebiten.Image, view ecs.Viewport) {
	for _, it := range d.items {
		x, y := view.ToScreen(it.pos.X, it.pos.Y)
		rise := int((damageTextTTL - it.ttl) * 30)
		ebitenutil.DebugPrintAt(screen, it.text, int(x), int(y)-rise-24)
	}
}
