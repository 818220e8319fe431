// Package metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ScansTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tinyurl_scans_total",
			Help: "Total number of document scans handled.",
		},
	)
	ProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tinyurl_probes_total",
			Help: "Total number of redirect probes issued, labeled by outcome.",
		},
		[]string{"outcome"},
	)
	ProbeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tinyurl_probe_duration_seconds",
			Help:    "Duration of redirect probes in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	VerdictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tinyurl_verdicts_total",
			Help: "Total number of redirector verdicts emitted.",
		},
	)
	RulesReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tinyurl_rules_reloads_total",
			Help: "Total number of rule-set reloads, labeled by status.",
		},
		[]string{"status"},
	)
	RulesActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tinyurl_rules_active",
			Help: "Number of redirector rules currently active.",
		},
	)
)

func init() {
	prometheus.MustRegister(ScansTotal)
	prometheus.MustRegister(ProbesTotal)
	prometheus.MustRegister(ProbeDuration)
	prometheus.MustRegister(VerdictsTotal)
	prometheus.MustRegister(RulesReloads)
	prometheus.MustRegister(RulesActive)
}
