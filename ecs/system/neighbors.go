package system

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/spatial"
	"github.com/milk9111/topdown/steering"
)

// NeighborQuery finds the agents near an entity. Prepare runs once per step
// before any query.
type NeighborQuery interface {
	Prepare(w *ecs.World) error
	Neighbors(w *ecs.World, self ecs.Entity, center mgl64.Vec3, radius float64) ([]steering.Neighbor, error)
}

// PhysicsNeighbors queries the chipmunk space for bodies in Mask.
type PhysicsNeighbors struct {
	Mask uint
}

func (PhysicsNeighbors) Prepare(w *ecs.World) error {
	if w.PhysicsWorld() == nil {
		return fmt.Errorf("system: physics neighbors: no physics world")
	}
	return nil
}

func (q PhysicsNeighbors) Neighbors(w *ecs.World, self ecs.Entity, center mgl64.Vec3, radius float64) ([]steering.Neighbor, error) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return nil, nil
	}
	var out []steering.Neighbor
	for _, e := range pw.Overlap(center, radius, q.Mask, self) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		out = append(out, steering.Neighbor{Position: t.Position, Heading: t.Heading})
	}
	return out, nil
}

// IndexNeighbors keeps an r-tree of every steering agent, refreshed each
// step.
type IndexNeighbors struct {
	Index *spatial.Index
}

func NewIndexNeighbors() *IndexNeighbors {
	return &IndexNeighbors{Index: spatial.NewIndex()}
}

func (q *IndexNeighbors) Prepare(w *ecs.World) error {
	keep := make(map[uint64]struct{})
	var err error
	ecs.ForEach2(w, component.SteeringComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Steering, t *component.Transform) {
		if err != nil {
			return
		}
		radius := 0.0
		if b, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
			radius = b.Radius
		}
		err = q.Index.Upsert(spatial.Item{ID: uint64(e), Position: t.Position, Heading: t.Heading, Radius: radius})
		keep[uint64(e)] = struct{}{}
	})
	if err != nil {
		return err
	}
	q.Index.Retain(keep)
	return nil
}

func (q *IndexNeighbors) Neighbors(_ *ecs.World, self ecs.Entity, center mgl64.Vec3, radius float64) ([]steering.Neighbor, error) {
	items, err := q.Index.Query(center, radius, uint64(self))
	if err != nil {
		return nil, err
	}
	out := make([]steering.Neighbor, 0, len(items))
	for _, it := range items {
		out = append(out, steering.Neighbor{Position: it.Position, Heading: it.Heading})
	}
	return out, nil
}
