package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/camera"
)

// Input stores the per-tick input state read by controllers and the camera.
type Input struct {
	// Move is the keyboard vector: x right, y forward.
	Move  mgl64.Vec2
	Jump  bool
	Click bool
	Hold  bool
	// Scroll is the wheel delta; positive zooms in.
	Scroll float64
	Drag   camera.DragEvent
	// Pointer is the ground point under the cursor.
	Pointer      mgl64.Vec3
	PointerValid bool
}

var InputComponent = NewComponent[Input]()
