package events

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// InMemoryEventStore keeps event streams in memory. Versions are assigned
// per stream in append order; subscribers are notified asynchronously.
// With a capacity set, the oldest events are dropped once the total count
// exceeds it; version numbers keep counting up so readers can detect the
// truncation.
type InMemoryEventStore struct {
	streams     map[string][]Event
	versions    map[string]int
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	allEvents   []Event
	capacity    int
}

// NewInMemoryEventStore creates an unbounded in-memory event store
func NewInMemoryEventStore() *InMemoryEventStore {
	return NewBoundedInMemoryEventStore(0)
}

// NewBoundedInMemoryEventStore creates an in-memory event store retaining
// at most capacity events across all streams. A capacity of zero or less
// means unbounded.
func NewBoundedInMemoryEventStore(capacity int) *InMemoryEventStore {
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		versions:    make(map[string]int),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]Event, 0),
		capacity:    capacity,
	}
}

// Verify interface compliance
var _ EventStore = (*InMemoryEventStore)(nil)

// AppendEvent appends an event to a stream, assigning the next version
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.versions[streamID]++
	versioned := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: s.versions[streamID],
	}

	s.streams[streamID] = append(s.streams[streamID], versioned)
	s.allEvents = append(s.allEvents, versioned)
	s.evictOldest()

	go s.notifySubscribers(versioned)

	return nil
}

// evictOldest drops events from the front of the global log, and from their
// streams, until the capacity holds again. Callers must hold the write lock.
func (s *InMemoryEventStore) evictOldest() {
	if s.capacity <= 0 {
		return
	}
	for len(s.allEvents) > s.capacity {
		oldest := s.allEvents[0]
		s.allEvents = s.allEvents[1:]
		if stream := s.streams[oldest.StreamID()]; len(stream) > 0 {
			s.streams[oldest.StreamID()] = stream[1:]
		}
	}
}

// ReadEvents returns a stream's events starting at fromVersion (1-based).
// Versions evicted by the capacity bound are simply absent from the result.
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stream, exists := s.streams[streamID]
	if !exists {
		return []Event{}, nil
	}

	if fromVersion < 1 {
		fromVersion = 1
	}
	result := make([]Event, 0, len(stream))
	for _, event := range stream {
		if event.Version() >= fromVersion {
			result = append(result, event)
		}
	}
	return result, nil
}

// ReadAllEvents returns every event across streams from a global position
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}

	return s.allEvents[fromPosition:], nil
}

// Subscribe registers a handler for the given event types
func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

// Unsubscribe removes a handler from every event type
func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		remaining := make([]EventHandler, 0, len(handlers))
		for _, h := range handlers {
			if h != handler {
				remaining = append(remaining, h)
			}
		}
		s.subscribers[eventType] = remaining
	}

	return nil
}

func (s *InMemoryEventStore) notifySubscribers(event Event) {
	s.mutex.RLock()
	handlers := s.subscribers[event.Type()]
	s.mutex.RUnlock()

	for _, handler := range handlers {
		if handler.CanHandle(event.Type()) {
			go func(h EventHandler, e Event) {
				if err := h.Handle(e); err != nil {
					log.Error().Err(err).Str("eventType", e.Type()).Str("stream", e.StreamID()).
						Msg("event handler failed")
				}
			}(handler, event)
		}
	}
}
