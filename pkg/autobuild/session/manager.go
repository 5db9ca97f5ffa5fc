package session

import "time"

// Store keeps session states keyed by requester id and evicts idle ones.
type Store interface {
	// Get returns the state and refreshes its idle timer.
	Get(requesterID string) (*State, bool)
	// Add inserts the state unless one already exists; it returns the state
	// that ends up stored.
	Add(state *State) *State
	Touch(state *State)
	Delete(requesterID string)
}

// Manager hands out per-requester state for the duration of a resolution.
type Manager struct {
	store Store
	now   func() time.Time
}

// NewManager creates a new session manager
func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Acquire loads or lazily creates the requester's state and marks it in use.
// The returned release func must be called once the resolution is done.
func (m *Manager) Acquire(requesterID string) (*State, func()) {
	st, found := m.store.Get(requesterID)
	if !found {
		st = m.store.Add(NewState(requesterID))
	}
	st.Touch(m.now())
	st.begin()

	return st, func() {
		st.end()
		st.Touch(m.now())
		m.store.Touch(st)
	}
}

// Forget drops the requester's state immediately.
func (m *Manager) Forget(requesterID string) {
	m.store.Delete(requesterID)
}
