package component

import "github.com/jakecoffman/cp"

const (
	LayerPlayer uint = 1 << iota
	LayerEnemy
)

// Body is a kinematic circle in the physics world. Category and Mask are
// chipmunk filter bits; zero means category 1 and mask all.
type Body struct {
	Radius   float64
	Category uint
	Mask     uint
	Grounded bool

	Body  *cp.Body
	Shape *cp.Shape
}

var BodyComponent = NewComponent[Body]()
