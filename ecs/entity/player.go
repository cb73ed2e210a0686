// Package entity builds player, enemy and camera entities from prefabs.
package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/locomotion"
	"github.com/milk9111/topdown/prefabs"
)

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	spec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return 0, fmt.Errorf("player: load spec: %w", err)
	}
	return NewPlayerFromSpec(w, spec)
}

func NewPlayerFromSpec(w *ecs.World, spec *prefabs.PlayerSpec) (ecs.Entity, error) {
	mode, err := component.ParseControlMode(spec.Mode)
	if err != nil {
		return 0, fmt.Errorf("player: %w", err)
	}

	player := ecs.CreateEntity(w)
	if err := ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add player tag: %w", err)
	}
	transform := &component.Transform{Position: spec.Transform.Position(), Heading: spec.Transform.HeadingRad()}
	if err := ecs.Add(w, player, component.TransformComponent.Kind(), transform); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}
	if err := ecs.Add(w, player, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("player: add input: %w", err)
	}
	if err := ecs.Add(w, player, component.PlayerComponent.Kind(), &component.Player{
		Mode:    mode,
		TopDown: newTopDown(spec.TopDown, transform.Heading),
		Click:   locomotion.NewClickToMove(spec.Click, transform.Heading),
	}); err != nil {
		return 0, fmt.Errorf("player: add player component: %w", err)
	}
	if err := addBody(w, player, transform.Position, spec.Body.Radius, component.LayerPlayer); err != nil {
		return 0, fmt.Errorf("player: %w", err)
	}
	return player, nil
}

func newTopDown(p locomotion.TopDownParams, heading float64) *locomotion.TopDown {
	c := locomotion.NewTopDown(p)
	c.State.ForwardAngle = heading
	c.State.LookAngle = heading
	c.State.RotationAngle = heading
	c.State.TargetRotationAngle = heading
	return c
}

// SetPlayerMode switches the controller of a player entity.
func SetPlayerMode(w *ecs.World, player ecs.Entity, mode component.ControlMode) error {
	pl, ok := ecs.Get(w, player, component.PlayerComponent.Kind())
	if !ok {
		return fmt.Errorf("player: set mode on %s: no player component", player)
	}
	pl.Mode = mode
	return nil
}

func addBody(w *ecs.World, e ecs.Entity, pos mgl64.Vec3, radius float64, layer uint) error {
	body := &component.Body{Radius: radius, Category: layer}
	if pw := w.PhysicsWorld(); pw != nil {
		pw.EnsureBody(e, pos, body)
	}
	if err := ecs.Add(w, e, component.BodyComponent.Kind(), body); err != nil {
		return fmt.Errorf("add body: %w", err)
	}
	return nil
}
