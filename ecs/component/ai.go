package component

// AI marks an entity as policy driven. A player entity carrying AI runs on
// autopilot.
type AI struct {
	Tier         Tier
	EngageScript string
}

var AIComponent = NewComponent[AI]()
