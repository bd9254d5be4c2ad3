// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// HTTP metrics
	ObserveRequestDuration(duration time.Duration)

	// Blog management metrics
	IncBlogCreated()
	IncBlogUpdated()
	IncBlogDeleted()

	// Account metrics
	IncUserCreated()
	IncUserDeleted()
	IncLogin(success bool)
	IncLoginRateLimited()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
