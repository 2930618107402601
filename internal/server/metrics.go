// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for the translate HTTP endpoint.
var (
	translateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "jsonmap_translate_duration_seconds",
		Help:    "Histogram of translate() call latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	translateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jsonmap_translate_total",
		Help: "Total number of translate() calls by outcome",
	}, []string{"outcome"})
)

// outcome labels for translateTotal.
const (
	outcomeOK         = "ok"
	outcomeLexError   = "lex_error"
	outcomeParseError = "parse_error"
	outcomeEvalError  = "eval_error"
)

// recordTranslate records a completed translate() call.
func recordTranslate(duration time.Duration, outcome string) {
	translateDuration.Observe(duration.Seconds())
	translateTotal.WithLabelValues(outcome).Inc()
}
