package system

import (
	"github.com/milk9111/topdown/ecs"
	"go.uber.org/zap"
)

// Install adds the standard step order to w: input, player, steering,
// physics, then the camera late pass and the event log.
func Install(w *ecs.World, src InputSource, q NeighborQuery, log *zap.Logger, onEvent func(ecs.Event)) {
	w.AddSystem(NewInputSystem(src, log))
	w.AddSystem(NewPlayerControllerSystem(log))
	w.AddSystem(NewSteeringSystem(q, log))
	w.AddSystem(NewPhysicsSystem(log))
	w.AddSystem(NewCameraSystem(log))
	w.AddSystem(NewEventLogSystem(log, onEvent))
}
