package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/camera"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/prefabs"
)

// NewCamera builds a camera entity whose rig starts behind target.
func NewCamera(w *ecs.World, spec *prefabs.CameraSpec, target mgl64.Vec3) (ecs.Entity, error) {
	cam := ecs.CreateEntity(w)
	if err := ecs.Add(w, cam, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}
	rig := camera.NewRig(spec.Rig, target)
	pose := rig.Pose()
	if err := ecs.Add(w, cam, component.TransformComponent.Kind(), &component.Transform{Position: pose.Position, Heading: pose.Yaw}); err != nil {
		return 0, fmt.Errorf("camera: add transform: %w", err)
	}
	if err := ecs.Add(w, cam, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("camera: add input: %w", err)
	}
	if err := ecs.Add(w, cam, component.CameraComponent.Kind(), &component.Camera{
		Rig:  rig,
		Pose: pose,
		Lens: camera.Lens{FovYDeg: spec.FovY},
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}
	return cam, nil
}
