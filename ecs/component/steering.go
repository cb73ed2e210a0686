package component

import "github.com/milk9111/topdown/steering"

// Steering makes an entity follow the player as part of a flock.
type Steering struct {
	Params     steering.Params
	Target     steering.Target
	SpeedBlend float64
	Moving     bool
}

var SteeringComponent = NewComponent[Steering]()
