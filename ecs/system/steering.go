package system

import (
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/steering"
	"go.uber.org/zap"
)

// SteeringSystem moves every steering agent toward the player. All
// neighbor sets are gathered before any agent moves, so the result does not
// depend on iteration order.
type SteeringSystem struct {
	Neighbors NeighborQuery
	log       *zap.Logger
}

func NewSteeringSystem(q NeighborQuery, log *zap.Logger) *SteeringSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &SteeringSystem{Neighbors: q, log: log.Named("steering")}
}

type steeringJob struct {
	e         ecs.Entity
	s         *component.Steering
	t         *component.Transform
	neighbors []steering.Neighbor
}

func (s *SteeringSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()

	target := steering.Target{}
	if _, pt, ok := firstTransform(w, component.PlayerTagComponent); ok {
		target = steering.TargetAt(pt.Position)
	}

	if s.Neighbors != nil {
		if err := s.Neighbors.Prepare(w); err != nil {
			s.log.Warn("prepare neighbors", zap.Error(err))
		}
	}

	var jobs []steeringJob
	ecs.ForEach2(w, component.SteeringComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, st *component.Steering, t *component.Transform) {
		job := steeringJob{e: e, s: st, t: t}
		if s.Neighbors != nil {
			n, err := s.Neighbors.Neighbors(w, e, t.Position, st.Params.DetectionRadius)
			if err != nil {
				s.log.Warn("query neighbors", zap.Stringer("entity", e), zap.Error(err))
			}
			job.neighbors = n
		}
		jobs = append(jobs, job)
	})

	for _, job := range jobs {
		job.s.Target = target
		res := steering.Step(steering.Agent{
			Pose:       steering.Pose{Position: job.t.Position, Heading: job.t.Heading},
			SpeedBlend: job.s.SpeedBlend,
		}, target, job.neighbors, job.s.Params, dt)

		if res.Moving {
			moveEntity(w, job.e, job.t, res.Displacement)
		}
		job.t.Heading = res.Heading
		job.s.SpeedBlend = res.SpeedBlend

		if job.s.Moving && !res.Moving {
			w.Events().Push(ecs.Event{Type: ecs.EventEnemyStopped, Entity: job.e, Data: job.t.Position})
		}
		job.s.Moving = res.Moving
	}
}
