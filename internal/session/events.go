package session

import (
	"go.uber.org/zap"

	"github.com/getmentor/mentor-match-client/pkg/logger"
)

// EventKind identifies a session change
type EventKind string

const (
	EventBootstrapped EventKind = "bootstrapped"
	EventLoggedIn     EventKind = "logged_in"
	EventUserUpdated  EventKind = "user_updated"
	EventLoggedOut    EventKind = "logged_out"
)

// Event is delivered to subscribers after a session change
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
}

const subscriberBuffer = 8

// Subscribe returns a channel of session changes and a function that
// unsubscribes and closes it. A slow subscriber loses its oldest pending
// events, never the latest one.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	m.subMu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = ch
	m.subMu.Unlock()

	return ch, func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		if sub, ok := m.subscribers[id]; ok {
			delete(m.subscribers, id)
			close(sub)
		}
	}
}

func (m *Manager) publish(kind EventKind) {
	event := Event{Kind: kind, Snapshot: m.Snapshot()}

	m.subMu.Lock()
	defer m.subMu.Unlock()
	for id, ch := range m.subscribers {
		offer(ch, event, id)
	}
}

// offer enqueues event, evicting the oldest pending ones while ch is full
func offer(ch chan Event, event Event, id int) {
	for {
		select {
		case ch <- event:
			return
		default:
		}

		select {
		case stale := <-ch:
			logger.Debug("Coalescing session events for slow subscriber",
				zap.Int("subscriber", id),
				zap.String("dropped", string(stale.Kind)),
				zap.String("event", string(event.Kind)))
		default:
		}
	}
}
