package handler

import (
	"fmt"
	"net/http"

	"github.com/paydemo/paydemo/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "paydemo_registrations_total{outcome=\"created\"} %d\n", snap.RegistrationsCreated)
	writeMetric(w, "paydemo_registrations_total{outcome=\"duplicate\"} %d\n", snap.RegistrationsDuplicate)
	writeMetric(w, "paydemo_registrations_total{outcome=\"invalid\"} %d\n", snap.RegistrationsInvalid)

	writeMetric(w, "paydemo_logins_total{outcome=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "paydemo_logins_total{outcome=\"failure\"} %d\n", snap.LoginsFailed)
	writeMetric(w, "paydemo_logouts_total %d\n", snap.Logouts)
	writeMetric(w, "paydemo_auth_rejected_total %d\n", snap.AuthRejected)

	writeMetric(w, "paydemo_password_hash_duration_seconds_count %d\n", snap.HashDurationCount)
	writeMetric(w, "paydemo_password_hash_duration_seconds_sum %.6f\n", float64(snap.HashDurationTotalNs)/1e9)

	writeMetric(w, "paydemo_payments_total{status=\"completed\"} %d\n", snap.PaymentsCompleted)
	writeMetric(w, "paydemo_payments_total{status=\"failed\"} %d\n", snap.PaymentsFailed)
	writeMetric(w, "paydemo_payments_rejected_total %d\n", snap.PaymentsRejected)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
