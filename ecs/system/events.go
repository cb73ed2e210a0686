package system

import (
	"github.com/milk9111/topdown/ecs"
	"go.uber.org/zap"
)

// EventLogSystem drains the step's events, logs them and hands each to
// OnEvent when set. It belongs at the end of the schedule.
type EventLogSystem struct {
	OnEvent func(ecs.Event)
	log     *zap.Logger
}

func NewEventLogSystem(log *zap.Logger, onEvent func(ecs.Event)) *EventLogSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventLogSystem{OnEvent: onEvent, log: log.Named("events")}
}

func (s *EventLogSystem) Update(w *ecs.World) {
	for _, evt := range w.Events().Drain() {
		s.log.Debug(string(evt.Type), zap.Int("tick", w.Tick()), zap.Stringer("entity", evt.Entity), zap.Any("data", evt.Data))
		if s.OnEvent != nil {
			s.OnEvent(evt)
		}
	}
}
