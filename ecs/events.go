package ecs

// EventType names what happened during a step.
type EventType string

const (
	EventCameraModeChanged EventType = "camera_mode_changed"
	EventPlayerArrived     EventType = "player_arrived"
	EventPlayerJumped      EventType = "player_jumped"
	EventEnemyStopped      EventType = "enemy_stopped"
	EventBodyAdded         EventType = "body_added"
	EventBodyRemoved       EventType = "body_removed"
)

// Event is a generic ECS event payload.
type Event struct {
	Type   EventType
	Entity Entity
	Data   any
}

// EventQueue is a FIFO queue cleared at the end of each step.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len reports the number of pending events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
