package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Метрики партий
type Metrics struct {
	SessionsStarted  *prometheus.CounterVec
	SessionsFinished *prometheus.CounterVec
	Clicks           *prometheus.CounterVec
	CellsRevealed    prometheus.Histogram
	ActiveSessions   prometheus.Gauge
}

// New регистрирует метрики в reg; nil - дефолтный регистратор
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		SessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bowser_blocks",
			Name:      "sessions_started_total",
			Help:      "Game sessions started, by level.",
		}, []string{"level"}),
		SessionsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bowser_blocks",
			Name:      "sessions_finished_total",
			Help:      "Game sessions finished, by level and result.",
		}, []string{"level", "result"}),
		Clicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bowser_blocks",
			Name:      "clicks_total",
			Help:      "Clicks handled, by outcome.",
		}, []string{"outcome"}),
		CellsRevealed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bowser_blocks",
			Name:      "cells_revealed_per_click",
			Help:      "Cells revealed by a single click, flood fill included.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bowser_blocks",
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}),
	}

	reg.MustRegister(m.SessionsStarted, m.SessionsFinished, m.Clicks, m.CellsRevealed, m.ActiveSessions)
	return m
}
