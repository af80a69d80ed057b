// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
type Recorder interface {
	// Account metrics
	IncRegistration(outcome string) // outcome: "created", "duplicate", "invalid"
	IncLogin(outcome string)        // outcome: "success", "failure"
	IncLogout()
	IncAuthRejected()
	ObservePasswordHashDuration(duration time.Duration)

	// Payment metrics
	IncPaymentCreated(status string) // status: "completed", "failed"
	IncPaymentRejected()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

// Outcome labels.
const (
	OutcomeCreated   = "created"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
)
