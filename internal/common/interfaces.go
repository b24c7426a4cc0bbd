package common

// Publisher is the push side of the realtime gateway as seen by the stores.
// Push is best-effort: delivery to a disconnected user is silently dropped,
// durability is the responsibility of the store that raised the event.
type Publisher interface {
	Push(userID string, event EventType, payload interface{})
	Connected(userID string) bool
}

// NopPublisher discards every push. Used when the gateway is not wired yet
// and in tests that do not care about delivery.
type NopPublisher struct{}

func (NopPublisher) Push(string, EventType, interface{}) {}

func (NopPublisher) Connected(string) bool { return false }
