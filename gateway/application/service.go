package application

import (
	"context"
	"log/slog"
	"time"

	"proxy-gateway/gateway/domain"
)

// Limits é a configuração imutável do rate limit: limite por método HTTP,
// duração da janela fixa e a política para métodos fora do mapa.
type Limits struct {
	PerMethod map[string]int
	Window    time.Duration
	// AllowUnknown decide explicitamente o destino de métodos sem limite
	// configurado: true admite sem contar, false rejeita direto.
	AllowUnknown bool
}

// Service concentra a regra de aplicação do rate limit de janela fixa.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
// Cada decisão é uma ida fresca ao CounterStore — nada de cache local do
// contador, senão instâncias diferentes do gateway divergem.
//
// Política de indisponibilidade do store (documentada, não acidental):
// fail-open com freio. Se o CounterStore falhar, a requisição é admitida,
// mas passa pelo Fallback (token bucket local por chave) para o backend não
// ficar totalmente desprotegido durante a queda. O freio é por instância,
// então é mais frouxo que o contador compartilhado — aceito pela duração
// do incidente.
//
// Limitação conhecida da janela fixa: um cliente pode concentrar até 2x o
// limite cruzando a fronteira de duas janelas. Comportamento aceito.
type Service struct {
	Store    domain.CounterStore
	Fallback domain.LimiterStore
	Metrics  domain.Recorder
	Limits   Limits
	Logger   *slog.Logger

	// Now permite injetar o relógio em testes. Se nil, usa time.Now.
	Now func() time.Time
}

func (s Service) Decide(ctx context.Context, identity, method string) domain.Decision {
	if s.Metrics != nil {
		s.Metrics.RecordProcessed()
	}

	limit, configured := s.Limits.PerMethod[method]
	if !configured {
		if s.Limits.AllowUnknown {
			return domain.Decision{Allowed: true}
		}
		return s.reject(0)
	}

	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	key := domain.BuildKey(identity, method, now, s.Limits.Window)
	count, err := s.Store.Incr(ctx, key, s.Limits.Window)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("counter store failed, applying local fallback limiter",
				slog.String("client", identity),
				slog.String("method", method),
				slog.Any("error", err),
			)
		}
		if s.Fallback != nil {
			if lim := s.Fallback.Get(domain.Key(identity + ":" + method)); lim != nil && !lim.Allow() {
				return s.reject(limit)
			}
		}
		return domain.Decision{Allowed: true}
	}

	if count > int64(limit) {
		return s.reject(limit)
	}
	return domain.Decision{Allowed: true}
}

func (s Service) reject(limit int) domain.Decision {
	if s.Metrics != nil {
		s.Metrics.RecordBlocked()
	}
	return domain.Decision{
		Allowed:    false,
		Limit:      limit,
		Window:     s.Limits.Window,
		RetryAfter: s.Limits.Window,
	}
}
