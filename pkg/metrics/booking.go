package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flow.
type BookingMetrics struct {
	slotsGenerated    *prometheus.CounterVec
	wizardTransitions *prometheus.CounterVec
	submissions       *prometheus.CounterVec
	submitLatency     prometheus.Histogram
}

// NewBookingMetrics registers the booking collectors on reg (default registerer when nil).
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		slotsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "scheduling",
			Name:      "slots_generated_total",
			Help:      "Slots produced by the generator, split by availability",
		}, []string{"available"}),
		wizardTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "wizard",
			Name:      "transitions_total",
			Help:      "Wizard step transitions by direction and outcome",
		}, []string{"direction", "result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Appointment submissions by outcome",
		}, []string{"status"}),
		submitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "studio",
			Subsystem: "booking",
			Name:      "submit_latency_seconds",
			Help:      "Latency of appointment submission",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.slotsGenerated, m.wizardTransitions, m.submissions, m.submitLatency)
	return m
}

func (m *BookingMetrics) ObserveSlots(available, unavailable int) {
	if m == nil {
		return
	}
	m.slotsGenerated.WithLabelValues("true").Add(float64(available))
	m.slotsGenerated.WithLabelValues("false").Add(float64(unavailable))
}

func (m *BookingMetrics) ObserveTransition(direction string, allowed bool) {
	if m == nil {
		return
	}
	result := "blocked"
	if allowed {
		result = "allowed"
	}
	m.wizardTransitions.WithLabelValues(direction, result).Inc()
}

func (m *BookingMetrics) ObserveSubmission(status string, seconds float64) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(status).Inc()
	m.submitLatency.Observe(seconds)
}
