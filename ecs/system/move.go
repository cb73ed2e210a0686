package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

// moveEntity applies disp to t through the physics world when one is
// attached, otherwise directly against a ground plane at y=0. It returns
// whether the entity ended up grounded.
func moveEntity(w *ecs.World, e ecs.Entity, t *component.Transform, disp mgl64.Vec3) bool {
	pw := w.PhysicsWorld()
	if pw != nil && pw.HasBody(e) {
		next, grounded := pw.Move(e, t.Position, disp)
		t.Position = next
		if b, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
			b.Grounded = grounded
		}
		return grounded
	}

	next := t.Position.Add(disp)
	grounded := false
	if next.Y() <= 0 {
		next[1] = 0
		grounded = true
	}
	t.Position = next
	return grounded
}

// isGrounded reports the last known ground contact of e.
func isGrounded(w *ecs.World, e ecs.Entity, t *component.Transform) bool {
	if b, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok && b.Body != nil {
		return b.Grounded
	}
	return t.Position.Y() <= 0
}

func groundDistance(w *ecs.World, t *component.Transform) float64 {
	if pw := w.PhysicsWorld(); pw != nil {
		return pw.GroundDistance(t.Position)
	}
	return t.Position.Y()
}

// firstTransform returns the transform of the first entity carrying tag.
func firstTransform[T any](w *ecs.World, tag component.ComponentHandle[T]) (ecs.Entity, *component.Transform, bool) {
	e, ok := ecs.First(w, tag.Kind())
	if !ok {
		return 0, nil, false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	return e, t, true
}
