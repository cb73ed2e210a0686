package component

import "github.com/milk9111/topdown/camera"

// Camera carries a follow rig and the pose it produced on the last step.
type Camera struct {
	Rig  *camera.Rig
	Pose camera.Pose
	Lens camera.Lens
}

var CameraComponent = NewComponent[Camera]()
