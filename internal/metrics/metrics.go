// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics records matcher outcomes as Prometheus metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/someonegg/kmmatch"
)

const namespace = "kmmatch"

// Recorder implements kmmatch.Observer.
type Recorder struct {
	matches    *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	score      *prometheus.GaugeVec
	shortfall  *prometheus.GaugeVec
	unranked   *prometheus.GaugeVec
	requesters *prometheus.GaugeVec
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Match calls by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Time spent in a match call.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"strategy"}),
		score: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Total satisfaction score of the last successful match.",
		}, []string{"strategy"}),
		shortfall: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "score_shortfall",
			Help:      "Distance of the last score from everyone getting their first choice.",
		}, []string{"strategy"}),
		unranked: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unranked_assignments",
			Help:      "Requesters placed on a resource they did not rank, last match.",
		}, []string{"strategy"}),
		requesters: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requesters",
			Help:      "Requesters in the last successful match.",
		}, []string{"strategy"}),
	}
	reg.MustRegister(r.matches, r.duration, r.score, r.shortfall, r.unranked, r.requesters)
	return r
}

func (r *Recorder) ObserveMatch(strategy string, result *kmmatch.Result, err error, elapsed time.Duration) {
	r.matches.WithLabelValues(strategy, Outcome(err)).Inc()
	r.duration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	if err != nil || result == nil {
		return
	}

	unranked := 0
	for _, a := range result.Assignments {
		if !a.Ranked {
			unranked++
		}
	}
	r.score.WithLabelValues(strategy).Set(float64(result.Score))
	r.shortfall.WithLabelValues(strategy).Set(float64(result.MaxScore - result.Score))
	r.unranked.WithLabelValues(strategy).Set(float64(unranked))
	r.requesters.WithLabelValues(strategy).Set(float64(len(result.Assignments)))
}

// Outcome is the label value for err.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, kmmatch.ErrInvalidCapacity):
		return "invalid_capacity"
	case errors.Is(err, kmmatch.ErrInfeasibleCapacity):
		return "infeasible_capacity"
	case errors.Is(err, kmmatch.ErrMalformedPreference):
		return "malformed_preference"
	case errors.Is(err, kmmatch.ErrDuplicateID):
		return "duplicate_id"
	default:
		return "error"
	}
}
