package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserCreated is a no-op.
func (n *NoopRecorder) IncUserCreated() {}

// IncUserEmailConflict is a no-op.
func (n *NoopRecorder) IncUserEmailConflict() {}

// IncUserCreateFailed is a no-op.
func (n *NoopRecorder) IncUserCreateFailed() {}
