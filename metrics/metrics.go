// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics defines the Prometheus instruments for the vote
// pipeline. Construct once per process (or per test registry) and
// inject by reference.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type VoteMetrics struct {
	VotesAccepted  *prometheus.CounterVec
	VotesRejected  *prometheus.CounterVec
	ProcessingTime prometheus.Histogram
}

func NewVoteMetrics(reg prometheus.Registerer) *VoteMetrics {
	factory := promauto.With(reg)

	return &VoteMetrics{
		VotesAccepted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "livepoll",
				Name:      "votes_accepted_total",
				Help:      "Total number of accepted votes",
			},
			[]string{"poll_id"},
		),
		VotesRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "livepoll",
				Name:      "votes_rejected_total",
				Help:      "Total number of rejected vote attempts by reason",
			},
			[]string{"poll_id", "reason"},
		),
		ProcessingTime: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "livepoll",
				Name:      "vote_processing_seconds",
				Help:      "Histogram of vote submission processing times",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),
	}
}
