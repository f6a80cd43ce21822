package service

// EventType defines the type of event
type EventType string

const (
	EventUnitCreated    EventType = "unit_created"
	EventUnitUpdated    EventType = "unit_updated"
	EventUnitDeleted    EventType = "unit_deleted"
	EventMemberCreated  EventType = "member_created"
	EventMemberMoved    EventType = "member_moved"
	EventMemberDeleted  EventType = "member_deleted"
	EventRosterImported EventType = "roster_imported"
	EventRosterReset    EventType = "roster_reset"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
