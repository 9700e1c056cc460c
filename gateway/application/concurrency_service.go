package application

import (
	"context"
	"time"

	"proxy-gateway/gateway/domain"
)

// ConcurrencyService concentra a regra de aquisição/liberação de vagas de
// chamada ao backend, sem saber nada sobre HTTP.
type ConcurrencyService struct {
	Pool domain.SlotPool
	// AcquireTimeout limita a espera na fila. Zero ou negativo = espera
	// indefinidamente (até ctx cancelar); nesse caso o backstop é o timeout
	// da chamada ao backend.
	AcquireTimeout time.Duration
}

// Acquire tenta adquirir uma vaga.
// Retorna (release, ok). Se ok=false, nenhuma vaga foi adquirida.
// release deve ser chamado exatamente uma vez, em qualquer caminho de saída.
func (s ConcurrencyService) Acquire(ctx context.Context) (func(), bool) {
	if s.Pool == nil {
		return func() {}, true
	}

	if s.AcquireTimeout <= 0 {
		return s.Pool.Acquire(ctx)
	}

	acqCtx, cancel := context.WithTimeout(ctx, s.AcquireTimeout)
	defer cancel()
	return s.Pool.Acquire(acqCtx)
}
