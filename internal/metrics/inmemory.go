package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated       uint64
	UserEmailConflicts uint64
	UserCreateFailures uint64
}

// InMemoryRecorder stores counters in memory. It backs the /metrics endpoint
// and is safe for concurrent use.
type InMemoryRecorder struct {
	usersCreated       uint64
	userEmailConflicts uint64
	userCreateFailures uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:       atomic.LoadUint64(&m.usersCreated),
		UserEmailConflicts: atomic.LoadUint64(&m.userEmailConflicts),
		UserCreateFailures: atomic.LoadUint64(&m.userCreateFailures),
	}
}

// IncUserCreated increments the created users counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncUserEmailConflict increments the duplicate email counter.
func (m *InMemoryRecorder) IncUserEmailConflict() {
	atomic.AddUint64(&m.userEmailConflicts, 1)
}

// IncUserCreateFailed increments the failed create counter.
func (m *InMemoryRecorder) IncUserCreateFailed() {
	atomic.AddUint64(&m.userCreateFailures, 1)
}
