package entity

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/prefabs"
)

func NewEnemyAt(w *ecs.World, spec *prefabs.EnemySpec, pos mgl64.Vec3, heading float64) (ecs.Entity, error) {
	enemy := ecs.CreateEntity(w)
	if err := ecs.Add(w, enemy, component.EnemyTagComponent.Kind(), &component.EnemyTag{}); err != nil {
		return 0, fmt.Errorf("enemy: add enemy tag: %w", err)
	}
	if err := ecs.Add(w, enemy, component.TransformComponent.Kind(), &component.Transform{Position: pos, Heading: heading}); err != nil {
		return 0, fmt.Errorf("enemy: add transform: %w", err)
	}
	if err := ecs.Add(w, enemy, component.SteeringComponent.Kind(), &component.Steering{Params: spec.Steering}); err != nil {
		return 0, fmt.Errorf("enemy: add steering: %w", err)
	}
	if err := addBody(w, enemy, pos, spec.Body.Radius, component.LayerEnemy); err != nil {
		return 0, fmt.Errorf("enemy: %w", err)
	}
	return enemy, nil
}

// SpawnEnemies places count enemies evenly on the prefab's spawn ring, each
// facing the ring center. A negative count uses the prefab's count.
func SpawnEnemies(w *ecs.World, spec *prefabs.EnemySpec, count int) ([]ecs.Entity, error) {
	if count < 0 {
		count = spec.Spawn.Count
	}
	center := spec.Transform.Position()
	out := make([]ecs.Entity, 0, count)
	for i := 0; i < count; i++ {
		a := 2 * math.Pi * float64(i) / float64(count)
		offset := mgl64.Vec3{math.Sin(a), 0, math.Cos(a)}.Mul(spec.Spawn.Radius)
		e, err := NewEnemyAt(w, spec, center.Add(offset), a+math.Pi)
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}
