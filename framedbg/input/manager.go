package input

import (
	"time"

	"github.com/valerio/framedbg/framedbg/input/action"
	"github.com/valerio/framedbg/framedbg/input/event"
)

const (
	// debounceDuration is the minimum time between debounced events
	debounceDuration = 300 * time.Millisecond
)

// Manager dispatches actions to registered callbacks. Toggle actions are
// debounced so a bouncing key does not flip a toggle twice.
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]map[event.Type]time.Time
	now           func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]map[event.Type]time.Time),
		now:           time.Now,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger runs the callbacks registered for the action and event type.
// It returns false if nothing ran.
func (m *Manager) Trigger(act action.Action, evt event.Type) bool {
	if m.debounced(act, evt) {
		return false
	}

	callbacks := m.handlers[act][evt]
	for _, callback := range callbacks {
		callback()
	}
	return len(callbacks) > 0
}

func (m *Manager) debounced(act action.Action, evt event.Type) bool {
	if evt == event.Hold || action.GetInfo(act).Category != action.CategoryToggle {
		return false
	}

	now := m.now()
	if m.lastTriggered[act] == nil {
		m.lastTriggered[act] = make(map[event.Type]time.Time)
	}
	if last, ok := m.lastTriggered[act][evt]; ok && now.Sub(last) < debounceDuration {
		return true
	}
	m.lastTriggered[act][evt] = now
	return false
}
