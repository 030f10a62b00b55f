package generator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	textRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_wall_text_requests_total",
			Help: "Total number of text generation requests by outcome.",
		},
		[]string{"provider", "role", "status"},
	)
	textRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "story_wall_text_request_duration_seconds",
			Help:    "Histogram of text provider call durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "role"},
	)
	textPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "story_wall_text_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20), // 250, 500, ..., 5000
		},
		[]string{"role"},
	)
	imageRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_wall_image_requests_total",
			Help: "Total number of image generation requests by outcome.",
		},
		[]string{"layout", "status"},
	)
	imageRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "story_wall_image_request_duration_seconds",
			Help:    "Histogram of end-to-end image generation durations.",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"layout"},
	)
)
