package entities

import (
	"slices"
	"sync"
	"time"
)

// EventKind names one of the observable changes of a workspace.
type EventKind string

const (
	EventListChanged    EventKind = "list_changed"
	EventCacheChanged   EventKind = "cache_changed"
	EventLoadingChanged EventKind = "loading_changed"
	EventNotice         EventKind = "notice"
)

// NoticeLevel is the severity of a user-facing notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeDanger  NoticeLevel = "danger"
)

// Event is published on the Bus whenever the list, the cache, or a loading flag changes,
// or when something must be reported to the user.
type Event struct {
	Kind      EventKind   `json:"kind"`
	Operation string      `json:"operation,omitempty"`
	Phase     Phase       `json:"phase,omitempty"`
	Loading   bool        `json:"loading,omitempty"`
	Keys      []string    `json:"keys,omitempty"`
	Level     NoticeLevel `json:"level,omitempty"`
	Message   string      `json:"message,omitempty"`
	Error     string      `json:"error,omitempty"`
	At        time.Time   `json:"at"`
}

// Bus fans events out to subscribers synchronously, in subscription order.
type Bus struct {
	mu          sync.RWMutex
	nextID      int
	subscribers []subscriber
}

type subscriber struct {
	id      int
	handler func(Event)
}

// NewBus creates an event bus without subscribers.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler and returns the function that removes it.
func (b *Bus) Subscribe(handler func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subscribers = append(b.subscribers, subscriber{id: id, handler: handler})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.subscribers = slices.DeleteFunc(b.subscribers, func(s subscriber) bool { return s.id == id })
	}
}

// Publish delivers the event to every current subscriber. A nil bus drops the event.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}

	b.mu.RLock()
	handlers := make([]func(Event), 0, len(b.subscribers))
	for _, s := range b.subscribers {
		handlers = append(handlers, s.handler)
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// Notify publishes a user-facing notice.
func (b *Bus) Notify(level NoticeLevel, message string) {
	b.Publish(Event{Kind: EventNotice, Level: level, Message: message})
}
