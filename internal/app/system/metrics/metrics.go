// internal/app/system/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Logins counts login attempts by method (pin, password) and
	// outcome (ok, denied, limited, error).
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hausportal_logins_total",
		Help: "Login attempts by method and outcome.",
	}, []string{"method", "outcome"})

	// Upserts counts idempotent writes by collection and outcome
	// (created, updated, conflict).
	Upserts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hausportal_upserts_total",
		Help: "Idempotent writes by collection and outcome.",
	}, []string{"collection", "outcome"})

	// DuplicateVotes counts rejected repeat survey votes.
	DuplicateVotes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hausportal_duplicate_votes_total",
		Help: "Survey votes rejected because the user already voted.",
	})

	// Uploads counts file uploads by category (tickets, documents) and
	// outcome (ok, rejected, failed).
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hausportal_uploads_total",
		Help: "File uploads by category and outcome.",
	}, []string{"category", "outcome"})
)
