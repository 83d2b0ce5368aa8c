package domain

// Event is a named payload pushed by the backend to its subscribers.
type Event struct {
	Name    string `json:"event"`
	ID      uint64 `json:"id"`
	Payload any    `json:"payload"`
}

// Handler receives delivered events.
type Handler func(Event)

// UnlistenFunc terminates a subscription. It is safe to call more than once.
type UnlistenFunc func()

// NoopUnlisten is returned by subscriptions that never registered anything.
func NoopUnlisten() {}
