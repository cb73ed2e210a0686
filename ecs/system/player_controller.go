package system

import (
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/locomotion"
	"go.uber.org/zap"
)

// PlayerControllerSystem drives player entities with their configured
// controller and moves them.
type PlayerControllerSystem struct {
	log *zap.Logger
}

func NewPlayerControllerSystem(log *zap.Logger) *PlayerControllerSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlayerControllerSystem{log: log.Named("player")}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	cameraYaw := 0.0
	if camEnt, ok := ecs.First(w, component.CameraComponent.Kind()); ok {
		if cam, ok := ecs.Get(w, camEnt, component.CameraComponent.Kind()); ok && cam.Rig != nil {
			cameraYaw = cam.Rig.State().Yaw
		}
	}

	ecs.ForEach3(w, component.PlayerComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pl *component.Player, in *component.Input, t *component.Transform) {
		switch pl.Mode {
		case component.ControlClick:
			p.stepClick(w, e, pl, in, t, dt)
		default:
			p.stepTopDown(w, e, pl, in, t, cameraYaw, dt)
		}
	})
}

func (p *PlayerControllerSystem) stepClick(w *ecs.World, e ecs.Entity, pl *component.Player, in *component.Input, t *component.Transform, dt float64) {
	if pl.Click == nil {
		pl.Click = locomotion.NewClickToMove(locomotion.DefaultClickParams(), t.Heading)
	}
	wasMoving := pl.Click.State.MovePoint.Valid

	res := pl.Click.Step(t.Position, locomotion.ClickInput{
		Click:        in.Click,
		Hold:         in.Hold,
		Pointer:      in.Pointer,
		PointerValid: in.PointerValid,
	}, dt)
	if res.Moving {
		moveEntity(w, e, t, res.Displacement)
	}
	t.Heading = res.Heading
	pl.SpeedBlend = res.SpeedBlend

	if wasMoving && !pl.Click.State.MovePoint.Valid && !in.Hold {
		p.log.Debug("arrived", zap.Stringer("entity", e), zap.Float64("x", t.Position.X()), zap.Float64("z", t.Position.Z()))
		w.Events().Push(ecs.Event{Type: ecs.EventPlayerArrived, Entity: e, Data: t.Position})
	}
}

func (p *PlayerControllerSystem) stepTopDown(w *ecs.World, e ecs.Entity, pl *component.Player, in *component.Input, t *component.Transform, cameraYaw, dt float64) {
	if pl.TopDown == nil {
		pl.TopDown = locomotion.NewTopDown(locomotion.DefaultTopDownParams())
	}

	res := pl.TopDown.Step(t.Position, locomotion.TopDownInput{
		Move:           in.Move,
		Jump:           in.Jump,
		Pointer:        in.Pointer,
		PointerValid:   in.PointerValid,
		CameraYaw:      cameraYaw,
		Grounded:       isGrounded(w, e, t),
		GroundDistance: groundDistance(w, t),
	}, dt)
	moveEntity(w, e, t, res.Displacement)

	t.Heading = res.Heading
	pl.AnimHorizontal = res.AnimHorizontal
	pl.AnimVertical = res.AnimVertical
	pl.Jumping = pl.TopDown.State.Jumping
	pl.Falling = res.Falling
	pl.LookTarget = res.LookTarget
	if res.Walking {
		pl.SpeedBlend = 1
	} else {
		pl.SpeedBlend = 0
	}

	if res.Jumped {
		p.log.Debug("jumped", zap.Stringer("entity", e))
		w.Events().Push(ecs.Event{Type: ecs.EventPlayerJumped, Entity: e})
	}
}
