package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncRegistration is a no-op.
func (n *NoopRecorder) IncRegistration(outcome string) {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(outcome string) {}

// IncLogout is a no-op.
func (n *NoopRecorder) IncLogout() {}

// IncAuthRejected is a no-op.
func (n *NoopRecorder) IncAuthRejected() {}

// ObservePasswordHashDuration is a no-op.
func (n *NoopRecorder) ObservePasswordHashDuration(duration time.Duration) {}

// IncPaymentCreated is a no-op.
func (n *NoopRecorder) IncPaymentCreated(status string) {}

// IncPaymentRejected is a no-op.
func (n *NoopRecorder) IncPaymentRejected() {}
