// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GradeSubmissions counts grade submissions by outcome (ok or an error kind).
	GradeSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gradebook",
		Name:      "grade_submissions_total",
		Help:      "Grade submissions by outcome.",
	}, []string{"outcome"})

	// GradeSubmitDuration observes the locked write section of a submission.
	GradeSubmitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gradebook",
		Name:      "grade_submit_duration_seconds",
		Help:      "Time spent inside the grade submission transaction.",
		Buckets:   prometheus.DefBuckets,
	})

	// EnrollmentTransitions counts cycle enrollment transitions by target state.
	EnrollmentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gradebook",
		Name:      "cycle_enrollment_transitions_total",
		Help:      "Cycle enrollment state transitions.",
	}, []string{"to"})

	// GuardRejections counts delete/deactivate attempts refused because of dependents.
	GuardRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gradebook",
		Name:      "guard_rejections_total",
		Help:      "Delete or deactivate attempts refused because dependents exist.",
	}, []string{"kind"})

	// HTTPRequests counts served requests by route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gradebook",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})
)
