package match

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/common"
)

// VFormation lays count positions out in a V behind center. Index 0 is the
// leader; each later row holds two members, spacing further back and
// spacing further out to either side.
func VFormation(center cp.Vector, count int, spacing float64, forward cp.Vector) []cp.Vector {
	forward = common.SafeNormalize(forward)
	if forward == (cp.Vector{}) {
		forward = cp.Vector{Y: 1}
	}
	right := cp.Vector{X: forward.Y, Y: -forward.X}

	out := make([]cp.Vector, 0, count)
	for i := 0; i < count; i++ {
		row := float64((i + 1) / 2)
		side := -1.0
		if i%2 == 1 {
			side = 1
		}
		offset := forward.Mult(-row * spacing).Add(right.Mult(row * side * spacing))
		out = append(out, center.Add(offset))
	}
	return out
}
