package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ResponseTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "Histogram of response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReferralsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referrals_recorded_total",
			Help: "Referrals recorded, labelled by commission kind",
		},
		[]string{"kind"},
	)

	ClicksRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_clicks_total",
			Help: "Referral link clicks recorded",
		},
	)

	PayoutsScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payouts_scheduled_total",
			Help: "Payouts created by the aggregation job",
		},
	)

	AchievementsUnlocked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "achievements_unlocked_total",
			Help: "Achievement unlocks awarded",
		},
	)
)
