package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestBookingMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveSlots(12, 6)
	m.ObserveTransition("advance", false)
	m.ObserveTransition("advance", true)
	m.ObserveTransition("advance", true)
	m.ObserveSubmission("confirmed", 0.2)

	require.Equal(t, 12.0, testutil.ToFloat64(m.slotsGenerated.WithLabelValues("true")))
	require.Equal(t, 6.0, testutil.ToFloat64(m.slotsGenerated.WithLabelValues("false")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.wizardTransitions.WithLabelValues("advance", "allowed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.wizardTransitions.WithLabelValues("advance", "blocked")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("confirmed")))
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveSlots(1, 1)
	m.ObserveTransition("retreat", true)
	m.ObserveSubmission("failed", 0)
}
