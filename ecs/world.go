package ecs

import (
	"github.com/milk9111/topdown/ecs/component"
	"go.uber.org/zap"
)

var (
	ErrEntityNotAlive       = component.ErrEntityNotAlive
	ErrNilComponent         = component.ErrNilComponent
	ErrInvalidComponentKind = component.ErrInvalidComponentKind
)

// World owns entities, component stores, the system schedule and the
// per-tick clock.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*SparseSet
	scheduler *Scheduler
	events    EventQueue
	logger    *zap.Logger

	physicsWorld *PhysicsWorld

	tick int
	dt   float64
	time float64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores:    make(map[component.ComponentID]*SparseSet),
		scheduler: NewScheduler(),
		logger:    zap.NewNop(),
	}
}

// SetLogger replaces the world logger. A nil logger disables logging.
func (w *World) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	w.logger = l
}

func (w *World) Logger() *zap.Logger {
	return w.logger
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	w.scheduler.Add(s)
}

func (w *World) Systems() []System {
	return w.scheduler.Systems()
}

// Step advances the world by dt seconds: runs every system in order and
// then drops events nobody drained. dt <= 0 leaves the world untouched.
func (w *World) Step(dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	w.dt = dt
	w.scheduler.Update(w)
	w.tick++
	w.time += dt
	w.events.flush()
}

// DeltaTime is the dt of the step currently running.
func (w *World) DeltaTime() float64 {
	return w.dt
}

// Tick is the number of completed steps.
func (w *World) Tick() int {
	return w.tick
}

// Time is the simulated time of completed steps in seconds.
func (w *World) Time() float64 {
	return w.time
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
