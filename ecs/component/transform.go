package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is a world pose. Heading is a yaw in radians, 0 facing +Z.
type Transform struct {
	Position mgl64.Vec3
	Heading  float64
}

var TransformComponent = NewComponent[Transform]()
