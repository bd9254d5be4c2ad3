package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	RequestDurationCount   uint64
	RequestDurationTotalNs int64
	BlogsCreated           uint64
	BlogsUpdated           uint64
	BlogsDeleted           uint64
	UsersCreated           uint64
	UsersDeleted           uint64
	LoginsSucceeded        uint64
	LoginsFailed           uint64
	LoginsRateLimited      uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	requestDurationCount   atomic.Uint64
	requestDurationTotalNs atomic.Int64
	blogsCreated           atomic.Uint64
	blogsUpdated           atomic.Uint64
	blogsDeleted           atomic.Uint64
	usersCreated           atomic.Uint64
	usersDeleted           atomic.Uint64
	loginsSucceeded        atomic.Uint64
	loginsFailed           atomic.Uint64
	loginsRateLimited      atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		RequestDurationCount:   m.requestDurationCount.Load(),
		RequestDurationTotalNs: m.requestDurationTotalNs.Load(),
		BlogsCreated:           m.blogsCreated.Load(),
		BlogsUpdated:           m.blogsUpdated.Load(),
		BlogsDeleted:           m.blogsDeleted.Load(),
		UsersCreated:           m.usersCreated.Load(),
		UsersDeleted:           m.usersDeleted.Load(),
		LoginsSucceeded:        m.loginsSucceeded.Load(),
		LoginsFailed:           m.loginsFailed.Load(),
		LoginsRateLimited:      m.loginsRateLimited.Load(),
	}
}

// ObserveRequestDuration records the duration of one HTTP request.
func (m *InMemoryRecorder) ObserveRequestDuration(duration time.Duration) {
	m.requestDurationCount.Add(1)
	m.requestDurationTotalNs.Add(duration.Nanoseconds())
}

// IncBlogCreated increments blog created counter.
func (m *InMemoryRecorder) IncBlogCreated() { m.blogsCreated.Add(1) }

// IncBlogUpdated increments blog updated counter.
func (m *InMemoryRecorder) IncBlogUpdated() { m.blogsUpdated.Add(1) }

// IncBlogDeleted increments blog deleted counter.
func (m *InMemoryRecorder) IncBlogDeleted() { m.blogsDeleted.Add(1) }

// IncUserCreated increments user created counter.
func (m *InMemoryRecorder) IncUserCreated() { m.usersCreated.Add(1) }

// IncUserDeleted increments user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() { m.usersDeleted.Add(1) }

// IncLogin counts a login attempt by outcome.
func (m *InMemoryRecorder) IncLogin(success bool) {
	if success {
		m.loginsSucceeded.Add(1)
		return
	}
	m.loginsFailed.Add(1)
}

// IncLoginRateLimited counts a login rejected by the rate limiter.
func (m *InMemoryRecorder) IncLoginRateLimited() { m.loginsRateLimited.Add(1) }
