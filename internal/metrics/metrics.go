// Package metrics exposes Prometheus collectors for scheduling and attendance outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "field_attendance"

// Result labels
const (
	ResultSuccess  = "success"
	ResultConflict = "conflict"
	ResultTiming   = "timing"
	ResultGeofence = "geofence"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics groups the collectors used by the services. A nil *Metrics is valid and records nothing.
type Metrics struct {
	assignmentsCreated  prometheus.Counter
	assignmentConflicts prometheus.Counter
	checkIns            *prometheus.CounterVec
	checkOuts           *prometheus.CounterVec
	checkInDistance     prometheus.Histogram
	workedMinutes       prometheus.Histogram
}

// New registers the collectors on reg. A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		assignmentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_created_total",
			Help:      "Total assignments created.",
		}),
		assignmentConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignment_conflicts_total",
			Help:      "Total assignment writes rejected because of an overlapping time slot.",
		}),
		checkIns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkins_total",
			Help:      "Check-in attempts by result.",
		}, []string{"result"}),
		checkOuts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Check-out attempts by result.",
		}, []string{"result"}),
		checkInDistance: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkin_distance_meters",
			Help:      "Distance between the worker and the assignment site at check-in.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 5000, 25000, 100000},
		}),
		workedMinutes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "worked_minutes",
			Help:      "Minutes worked on completed attendance sessions.",
			Buckets:   []float64{15, 30, 60, 120, 240, 480, 720},
		}),
	}
}

func (m *Metrics) AssignmentCreated() {
	if m == nil {
		return
	}
	m.assignmentsCreated.Inc()
}

func (m *Metrics) AssignmentConflict() {
	if m == nil {
		return
	}
	m.assignmentConflicts.Inc()
}

func (m *Metrics) CheckIn(result string) {
	if m == nil {
		return
	}
	m.checkIns.WithLabelValues(result).Inc()
}

func (m *Metrics) CheckOut(result string) {
	if m == nil {
		return
	}
	m.checkOuts.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCheckInDistance(meters float64) {
	if m == nil {
		return
	}
	m.checkInDistance.Observe(meters)
}

func (m *Metrics) ObserveWorkedMinutes(minutes float64) {
	if m == nil {
		return
	}
	m.workedMinutes.Observe(minutes)
}
