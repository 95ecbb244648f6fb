package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/notifykit/pkg/notifications"
)

const namespace = "notifykit"

// DispatchMetrics records dispatch, record and delivery counters.
type DispatchMetrics struct {
	dispatchTotal    *prometheus.CounterVec   // by event, outcome
	recordsCreated   *prometheus.CounterVec   // by channel
	deliveriesTotal  *prometheus.CounterVec   // by channel, status
	deliveryDuration *prometheus.HistogramVec // by channel
	inflight         *prometheus.GaugeVec     // by channel
}

var _ notifications.Observer = (*DispatchMetrics)(nil)

// NewDispatchMetrics creates the metrics and registers them with registry.
func NewDispatchMetrics(registry prometheus.Registerer) (*DispatchMetrics, error) {
	m := newDispatchMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register dispatch metrics: %w", err)
	}
	return m, nil
}

func newDispatchMetrics() *DispatchMetrics {
	return &DispatchMetrics{
		dispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_total",
				Help:      "Dispatch requests by event and outcome",
			},
			[]string{"event", "outcome"},
		),
		recordsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_created_total",
				Help:      "Notification records created by channel",
			},
			[]string{"channel"},
		),
		deliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deliveries_total",
				Help:      "Finished deliveries by channel and final status",
			},
			[]string{"channel", "status"},
		),
		deliveryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "delivery_duration_seconds",
				Help:      "Time spent delivering one record",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"channel"},
		),
		inflight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "deliveries_inflight",
				Help:      "Deliveries currently running",
			},
			[]string{"channel"},
		),
	}
}

func (m *DispatchMetrics) DispatchHandled(event string, outcome notifications.Outcome) {
	m.dispatchTotal.WithLabelValues(event, string(outcome)).Inc()
}

func (m *DispatchMetrics) RecordCreated(channel notifications.Channel) {
	m.recordsCreated.WithLabelValues(string(channel)).Inc()
}

func (m *DispatchMetrics) DeliveryStarted(channel notifications.Channel) {
	m.inflight.WithLabelValues(string(channel)).Inc()
}

func (m *DispatchMetrics) DeliveryFinished(channel notifications.Channel, status notifications.Status, d time.Duration) {
	ch := string(channel)
	m.inflight.WithLabelValues(ch).Dec()
	m.deliveriesTotal.WithLabelValues(ch, string(status)).Inc()
	m.deliveryDuration.WithLabelValues(ch).Observe(d.Seconds())
}

// Collect implements prometheus.Collector.
func (m *DispatchMetrics) Collect(ch chan<- prometheus.Metric) {
	m.dispatchTotal.Collect(ch)
	m.recordsCreated.Collect(ch)
	m.deliveriesTotal.Collect(ch)
	m.deliveryDuration.Collect(ch)
	m.inflight.Collect(ch)
}

// Describe implements prometheus.Collector.
func (m *DispatchMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.dispatchTotal.Describe(ch)
	m.recordsCreated.Describe(ch)
	m.deliveriesTotal.Describe(ch)
	m.deliveryDuration.Describe(ch)
	m.inflight.Describe(ch)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
