package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	followUpsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "followups_generated_total",
			Help: "Total number of follow-up batches generated",
		},
		[]string{"tone"},
	)

	aiFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_fallbacks_total",
			Help: "Total number of provider calls answered by the template fallback",
		},
		[]string{"provider"},
	)

	emailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total number of outbound emails by provider and status",
		},
		[]string{"provider", "status"},
	)

	regenerationJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regeneration_jobs_total",
			Help: "Total number of queued regeneration jobs processed",
		},
		[]string{"result"},
	)
)

func RecordFollowUpsGenerated(tone string) {
	followUpsGenerated.WithLabelValues(tone).Inc()
}

func RecordAIFallback(provider string) {
	aiFallbacks.WithLabelValues(provider).Inc()
}

func RecordEmailSent(provider, status string) {
	emailsSent.WithLabelValues(provider, status).Inc()
}

func RecordRegenerationJob(result string) {
	regenerationJobs.WithLabelValues(result).Inc()
}
