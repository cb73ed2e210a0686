package system

import (
	"github.com/milk9111/topdown/camera"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"go.uber.org/zap"
)

// CameraSystem is the late pass: it ticks every camera rig against the
// player pose produced earlier in the same step.
type CameraSystem struct {
	log *zap.Logger
}

func NewCameraSystem(log *zap.Logger) *CameraSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &CameraSystem{log: log.Named("camera")}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	_, target, ok := firstTransform(w, component.PlayerTagComponent)
	if !ok {
		return
	}
	dt := w.DeltaTime()

	ecs.ForEach(w, component.CameraComponent.Kind(), func(e ecs.Entity, cam *component.Camera) {
		if cam.Rig == nil {
			cam.Rig = camera.NewRig(camera.DefaultParams(), target.Position)
		}

		var in camera.Input
		if src, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			in = camera.Input{
				Scroll:       src.Scroll,
				Drag:         src.Drag,
				Pointer:      src.Pointer,
				PointerValid: src.PointerValid,
			}
		}

		before := cam.Rig.Mode()
		cam.Pose = cam.Rig.Tick(target.Position, in, dt)
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.Position = cam.Pose.Position
			t.Heading = cam.Pose.Yaw
		}
		if after := cam.Rig.Mode(); after != before {
			cs.log.Debug("mode changed", zap.Stringer("entity", e), zap.Stringer("from", before), zap.Stringer("to", after))
			w.Events().Push(ecs.Event{Type: ecs.EventCameraModeChanged, Entity: e, Data: after})
		}
	})
}
