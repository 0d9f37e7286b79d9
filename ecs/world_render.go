package ecs

import "github.com/hajimehoshi/ebiten/v2"

// Viewport maps arena ground-plane coordinates to screen pixels.
type Viewport struct {
	OriginX float64
	OriginY float64
	Scale   float64
}

// ToScreen converts an arena (x, z) position to screen pixels.
func (v Viewport) ToScreen(x, z float64) (float32, float32) {
	scale := v.Scale
	if scale == 0 {
		scale = 1
	}
	return float32(v.OriginX + x*scale), float32(v.OriginY + z*scale)
}

// RenderSystem draws ECS entities each frame.
type RenderSystem interface {
	Draw(w *World, screen *ebiten.Image, view Viewport)
}

// Draw calls every registered renderer.
func (w *World) Draw(screen *ebiten.Image, view Viewport, renderers ...RenderSystem) {
	if w == nil || screen == nil {
		return
	}
	for _, rs := range renderers {
		if rs == nil {
			continue
		}
		rs.Draw(w, screen, view)
	}
	for _, s := range w.systems {
		rs, ok := s.(RenderSystem)
		if !ok || rs == nil {
			continue
		}
		rs.Draw(w, screen, view)
	}
}
