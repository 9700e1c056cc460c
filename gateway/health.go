package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"proxy-gateway/gateway/domain"
)

// Statuses do health check.
const (
	HealthStatusOK        = "OK"
	HealthStatusDegraded  = "DEGRADED"
	HealthStatusUnhealthy = "UNHEALTHY"
)

// StorePinger é o mínimo que o health check precisa do contador.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// MetricsSource fornece o snapshot dos contadores agregados.
type MetricsSource interface {
	Snapshot() domain.MetricsSnapshot
}

// HealthOptions configura o handler de /health.
type HealthOptions struct {
	Store      StorePinger
	BackendURL *url.URL
	Metrics    MetricsSource
	// ProbeTimeout limita cada sonda individualmente — o health check nunca
	// pendura indefinidamente. Padrão: 2s.
	ProbeTimeout time.Duration
	// Client é o cliente das sondas ao backend. Se nil, um próprio é criado
	// (separado do pool do forwarder, para a sonda não disputar conexão).
	Client *http.Client
	Logger *slog.Logger
}

type healthResponse struct {
	Status        string                 `json:"status"`
	StoreStatus   string                 `json:"store_status"`
	BackendStatus string                 `json:"backend_status"`
	Metrics       domain.MetricsSnapshot `json:"metrics"`
}

// NewHealthHandler devolve o handler de GET /health.
//
// Ele sonda o contador distribuído e o /health do próprio backend, ambos com
// timeout, e compõe: OK (os dois de pé), DEGRADED (exatamente um fora),
// UNHEALTHY (os dois fora). Falha de sonda é dependência degradada, nunca
// derruba o processo.
func NewHealthHandler(opts HealthOptions) http.Handler {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 2 * time.Second
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.ProbeTimeout}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		storeUp := opts.probeStore(r.Context())
		backendUp := opts.probeBackend(r.Context())

		resp := healthResponse{
			StoreStatus:   statusWord(storeUp),
			BackendStatus: statusWord(backendUp),
		}
		switch {
		case storeUp && backendUp:
			resp.Status = HealthStatusOK
		case storeUp || backendUp:
			resp.Status = HealthStatusDegraded
		default:
			resp.Status = HealthStatusUnhealthy
		}

		if opts.Metrics != nil {
			resp.Metrics = opts.Metrics.Snapshot()
		}

		writeJSON(w, http.StatusOK, resp)
	})
}

func (opts HealthOptions) probeStore(ctx context.Context) bool {
	if opts.Store == nil {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, opts.ProbeTimeout)
	defer cancel()

	if err := opts.Store.Ping(probeCtx); err != nil {
		if opts.Logger != nil {
			opts.Logger.Warn("store health probe failed", slog.Any("error", err))
		}
		return false
	}
	return true
}

func (opts HealthOptions) probeBackend(ctx context.Context) bool {
	if opts.BackendURL == nil {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, opts.ProbeTimeout)
	defer cancel()

	target := *opts.BackendURL
	target.Path = joinPath(opts.BackendURL.Path, "/health")

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, target.String(), nil)
	if err != nil {
		return false
	}
	resp, err := opts.Client.Do(req)
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Warn("backend health probe failed", slog.Any("error", err))
		}
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func statusWord(up bool) string {
	if up {
		return "connected"
	}
	return "disconnected"
}
