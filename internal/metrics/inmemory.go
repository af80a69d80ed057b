package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	RegistrationsCreated   uint64
	RegistrationsDuplicate uint64
	RegistrationsInvalid   uint64
	LoginsSucceeded        uint64
	LoginsFailed           uint64
	Logouts                uint64
	AuthRejected           uint64
	HashDurationCount      uint64
	HashDurationTotalNs    int64
	PaymentsCompleted      uint64
	PaymentsFailed         uint64
	PaymentsRejected       uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	registrationsCreated   atomic.Uint64
	registrationsDuplicate atomic.Uint64
	registrationsInvalid   atomic.Uint64
	loginsSucceeded        atomic.Uint64
	loginsFailed           atomic.Uint64
	logouts                atomic.Uint64
	authRejected           atomic.Uint64
	hashDurationCount      atomic.Uint64
	hashDurationTotalNs    atomic.Int64
	paymentsCompleted      atomic.Uint64
	paymentsFailed         atomic.Uint64
	paymentsRejected       atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		RegistrationsCreated:   m.registrationsCreated.Load(),
		RegistrationsDuplicate: m.registrationsDuplicate.Load(),
		RegistrationsInvalid:   m.registrationsInvalid.Load(),
		LoginsSucceeded:        m.loginsSucceeded.Load(),
		LoginsFailed:           m.loginsFailed.Load(),
		Logouts:                m.logouts.Load(),
		AuthRejected:           m.authRejected.Load(),
		HashDurationCount:      m.hashDurationCount.Load(),
		HashDurationTotalNs:    m.hashDurationTotalNs.Load(),
		PaymentsCompleted:      m.paymentsCompleted.Load(),
		PaymentsFailed:         m.paymentsFailed.Load(),
		PaymentsRejected:       m.paymentsRejected.Load(),
	}
}

// IncRegistration increments the registration counter for outcome.
// Unknown outcomes are ignored.
func (m *InMemoryRecorder) IncRegistration(outcome string) {
	switch outcome {
	case OutcomeCreated:
		m.registrationsCreated.Add(1)
	case OutcomeDuplicate:
		m.registrationsDuplicate.Add(1)
	case OutcomeInvalid:
		m.registrationsInvalid.Add(1)
	}
}

// IncLogin increments the login counter for outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	switch outcome {
	case OutcomeSuccess:
		m.loginsSucceeded.Add(1)
	case OutcomeFailure:
		m.loginsFailed.Add(1)
	}
}

// IncLogout increments the logout counter.
func (m *InMemoryRecorder) IncLogout() {
	m.logouts.Add(1)
}

// IncAuthRejected increments the rejected bearer token counter.
func (m *InMemoryRecorder) IncAuthRejected() {
	m.authRejected.Add(1)
}

// ObservePasswordHashDuration records time spent deriving a password digest.
func (m *InMemoryRecorder) ObservePasswordHashDuration(duration time.Duration) {
	m.hashDurationCount.Add(1)
	m.hashDurationTotalNs.Add(duration.Nanoseconds())
}

// IncPaymentCreated increments the stored payment counter for status.
func (m *InMemoryRecorder) IncPaymentCreated(status string) {
	switch status {
	case "completed":
		m.paymentsCompleted.Add(1)
	case "failed":
		m.paymentsFailed.Add(1)
	}
}

// IncPaymentRejected increments the counter of payments refused by validation.
func (m *InMemoryRecorder) IncPaymentRejected() {
	m.paymentsRejected.Add(1)
}
