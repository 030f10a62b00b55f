package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	visitsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "story_wall_visits_started_total",
		Help: "Total number of started visitor sessions.",
	})

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_wall_token_verifications_total",
			Help: "Total number of session token verifications by status.",
		},
		[]string{"status"},
	)

	statusPollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_wall_status_polls_total",
			Help: "Total number of turn status polls by reported state.",
		},
		[]string{"state"},
	)
)
