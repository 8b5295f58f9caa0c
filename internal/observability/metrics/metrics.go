// Package metrics holds the prometheus instruments for the scheduling
// core. Every method is nil-safe so wiring metrics stays optional in
// tests and tools.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for the booking flows.
type SchedulingMetrics struct {
	slotSearches     *prometheus.CounterVec
	bookingsTotal    *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	deliveriesTotal  *prometheus.CounterVec
	slotLatency      *prometheus.HistogramVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		slotSearches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadflow",
			Subsystem: "scheduling",
			Name:      "slot_searches_total",
			Help:      "Total availability searches by tier",
		}, []string{"tier", "status"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadflow",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Total booking attempts",
		}, []string{"status"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadflow",
			Subsystem: "scheduling",
			Name:      "transitions_total",
			Help:      "Total meeting lifecycle transitions",
		}, []string{"action", "status"}),
		deliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadflow",
			Subsystem: "notifications",
			Name:      "deliveries_total",
			Help:      "Total outbox delivery attempts",
		}, []string{"event_type", "status"}),
		slotLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leadflow",
			Subsystem: "scheduling",
			Name:      "slot_search_seconds",
			Help:      "Latency of availability searches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tier"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.slotSearches, m.bookingsTotal, m.transitionsTotal, m.deliveriesTotal, m.slotLatency)
	return m
}

func (m *SchedulingMetrics) ObserveSlotSearch(tier, status string, seconds float64) {
	if m == nil {
		return
	}
	m.slotSearches.WithLabelValues(tier, status).Inc()
	m.slotLatency.WithLabelValues(tier).Observe(seconds)
}

func (m *SchedulingMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *SchedulingMetrics) ObserveTransition(action, status string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(action, status).Inc()
}

func (m *SchedulingMetrics) ObserveDelivery(eventType, status string) {
	if m == nil {
		return
	}
	m.deliveriesTotal.WithLabelValues(eventType, status).Inc()
}
