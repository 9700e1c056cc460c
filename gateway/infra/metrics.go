package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/atomic"

	"proxy-gateway/gateway/domain"
)

// Metrics acumula os contadores agregados do processo.
//
// Os atômicos servem o snapshot JSON do /health; os espelhos Prometheus servem
// o /metrics. Os contadores nascem zerados no start e nunca são resetados.
type Metrics struct {
	processed atomic.Int64
	blocked   atomic.Int64

	promProcessed prometheus.Counter
	promBlocked   prometheus.Counter

	// InFlight registra chamadas ao backend em andamento (ocupação do pool).
	InFlight prometheus.Gauge
}

// NewMetrics registra os coletores em reg e devolve o componente pronto para
// ser injetado. Implementa domain.Recorder.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		promProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "gateway_requests_processed_total",
			Help: "Requests that reached the rate limiter.",
		}),
		promBlocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "gateway_requests_blocked_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gateway_in_flight_requests",
			Help: "Backend calls currently in flight.",
		}),
	}
}

func (m *Metrics) RecordProcessed() {
	m.processed.Inc()
	m.promProcessed.Inc()
}

func (m *Metrics) RecordBlocked() {
	m.blocked.Inc()
	m.promBlocked.Inc()
}

// Snapshot devolve a leitura pontual dos contadores para o /health.
func (m *Metrics) Snapshot() domain.MetricsSnapshot {
	return domain.MetricsSnapshot{
		TotalRequestsProcessed: m.processed.Load(),
		TotalRequestsBlocked:   m.blocked.Load(),
	}
}
