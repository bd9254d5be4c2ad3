package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// ObserveRequestDuration is a no-op.
func (n *NoopRecorder) ObserveRequestDuration(time.Duration) {}

// IncBlogCreated is a no-op.
func (n *NoopRecorder) IncBlogCreated() {}

// IncBlogUpdated is a no-op.
func (n *NoopRecorder) IncBlogUpdated() {}

// IncBlogDeleted is a no-op.
func (n *NoopRecorder) IncBlogDeleted() {}

// IncUserCreated is a no-op.
func (n *NoopRecorder) IncUserCreated() {}

// IncUserDeleted is a no-op.
func (n *NoopRecorder) IncUserDeleted() {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(bool) {}

// IncLoginRateLimited is a no-op.
func (n *NoopRecorder) IncLoginRateLimited() {}
