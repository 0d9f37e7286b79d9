package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Clamp01 limits t to [0, 1].
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Planar converts an (x, z) ground position to a cp vector.
func Planar(x, z float64) cp.Vector {
	return cp.Vector{X: x, Y: z}
}

// Forward returns the unit facing for yaw; yaw 0 faces +Z.
func Forward(yaw float64) cp.Vector {
	return cp.Vector{X: math.Sin(yaw), Y: math.Cos(yaw)}
}

// LocalToWorld rotates a local offset (X right, Y forward) by yaw.
func LocalToWorld(offset cp.Vector, yaw float64) cp.Vector {
	s, c := math.Sincos(yaw)
	return cp.Vector{
		X: offset.X*c + offset.Y*s,
		Y: -offset.X*s + offset.Y*c,
	}
}

// YawTowards returns the yaw that faces dir. A zero dir yields ok=false.
func YawTowards(dir cp.Vector) (float64, bool) {
	if dir.LengthSq() < 1e-12 {
		return 0, false
	}
	return math.Atan2(dir.X, dir.Y), true
}

// LerpAngle interpolates between two angles along the shortest arc.
func LerpAngle(from, to, t float64) float64 {
	d := math.Mod(to-from, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d < -math.Pi {
		d += 2 * math.Pi
	}
	return from + d*Clamp01(t)
}

// SafeNormalize returns v normalized, or zero for a zero vector.
func SafeNormalize(v cp.Vector) cp.Vector {
	l := v.Length()
	if l < 1e-9 {
		return cp.Vector{}
	}
	return v.Mult(1 / l)
}
