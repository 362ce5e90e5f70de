package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Labels stay bounded: repository names come from configuration, never
// from request data.
var (
	// RefreshTotal counts repository refreshes by outcome.
	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watchface_config_refresh_total",
		Help: "Total number of schema repository refreshes, by repository and result.",
	}, []string{"repository", "result"})

	// SchemaRequestsTotal counts schema documents served.
	SchemaRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watchface_config_schema_requests_total",
		Help: "Total number of schema documents served, by repository.",
	}, []string{"repository"})

	// SubmissionsTotal counts submitted configuration pages by outcome.
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watchface_config_submissions_total",
		Help: "Total number of configuration submissions, by repository and result.",
	}, []string{"repository", "result"})

	// IgnoredKeysTotal counts submitted keys no control consumes.
	IgnoredKeysTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watchface_config_ignored_keys_total",
		Help: "Total number of unrecognized message keys in submissions, by repository.",
	}, []string{"repository"})
)
