package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.AssignmentCreated()
	m.AssignmentCreated()
	m.AssignmentConflict()
	m.CheckIn(ResultSuccess)
	m.CheckIn(ResultGeofence)
	m.CheckOut(ResultTiming)
	m.ObserveCheckInDistance(42)
	m.ObserveWorkedMinutes(480)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.assignmentsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assignmentConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkIns.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkIns.WithLabelValues(ResultGeofence)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkOuts.WithLabelValues(ResultTiming)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.checkInDistance))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AssignmentCreated()
		m.AssignmentConflict()
		m.CheckIn(ResultSuccess)
		m.CheckOut(ResultSuccess)
		m.ObserveCheckInDistance(1)
		m.ObserveWorkedMinutes(1)
	})
}
