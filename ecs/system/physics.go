package system

import (
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"go.uber.org/zap"
)

// PhysicsSystem keeps chipmunk bodies in sync with entities: it registers
// new bodies, syncs positions set outside the mover and drops bodies of dead
// entities.
type PhysicsSystem struct {
	log *zap.Logger
}

func NewPhysicsSystem(log *zap.Logger) *PhysicsSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &PhysicsSystem{log: log.Named("physics")}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	ecs.ForEach2(w, component.BodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, b *component.Body, t *component.Transform) {
		if !pw.HasBody(e) {
			pw.EnsureBody(e, t.Position, b)
			ps.log.Debug("body added", zap.Stringer("entity", e), zap.Float64("radius", b.Radius))
			w.Events().Push(ecs.Event{Type: ecs.EventBodyAdded, Entity: e})
			return
		}
		pw.Sync(e, t.Position)
	})

	for _, e := range pw.BodyEntities() {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.BodyComponent.Kind()) {
			continue
		}
		pw.RemoveBody(e)
		ps.log.Debug("body removed", zap.Stringer("entity", e))
		w.Events().Push(ecs.Event{Type: ecs.EventBodyRemoved, Entity: e})
	}

	pw.Step(w.DeltaTime())
}
