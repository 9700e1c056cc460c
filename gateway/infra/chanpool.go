package infra

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"proxy-gateway/gateway/domain"
)

type chanPool struct {
	sem      chan struct{}
	inFlight prometheus.Gauge
}

type ChanPoolOption func(*chanPool)

// WithInFlightGauge espelha a ocupação do pool em um gauge Prometheus.
func WithInFlightGauge(g prometheus.Gauge) ChanPoolOption {
	return func(p *chanPool) { p.inFlight = g }
}

// NewChanPool cria um pool simples baseado em channel com capacidade `max`.
func NewChanPool(max int, opts ...ChanPoolOption) domain.SlotPool {
	p := &chanPool{sem: make(chan struct{}, max)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *chanPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p.sem <- struct{}{}:
		if p.inFlight != nil {
			p.inFlight.Inc()
		}
		return func() {
			<-p.sem
			if p.inFlight != nil {
				p.inFlight.Dec()
			}
		}, true
	case <-ctx.Done():
		return nil, false
	}
}
