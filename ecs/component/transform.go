package component

// Transform is a 3D position with yaw. Combat happens on the X/Z plane.
type Transform struct {
	X   float64
	Y   float64
	Z   float64
	Yaw float64
}

var TransformComponent = NewComponent[Transform]()
