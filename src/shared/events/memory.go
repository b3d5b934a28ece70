package events

import (
	"context"
	"sync"
)

// Memory records published events in order, for tests and local inspection.
type Memory struct {
	mu  sync.Mutex
	evs []Event
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Publish(_ context.Context, ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	attrs := make(map[string]string, len(ev.Attrs))
	for k, v := range ev.Attrs {
		attrs[k] = v
	}
	m.evs = append(m.evs, Event{Name: ev.Name, Attrs: attrs})
}

// Snapshot returns a copy of everything published so far.
func (m *Memory) Snapshot() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.evs))
	copy(out, m.evs)
	return out
}

// Named returns the recorded events with the given name, in publish order.
func (m *Memory) Named(name string) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, ev := range m.evs {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}
