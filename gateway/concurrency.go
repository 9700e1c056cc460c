package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"proxy-gateway/gateway/application"
	"proxy-gateway/gateway/domain"
)

// ConcurrencyOptions configura o middleware de admissão.
type ConcurrencyOptions struct {
	Pool domain.SlotPool
	// AcquireTimeout limita a espera por vaga. Zero = espera até a requisição
	// ser cancelada (o timeout da chamada ao backend é o backstop).
	AcquireTimeout time.Duration
	Logger         *slog.Logger
}

// Concurrency devolve o middleware que limita as chamadas simultâneas ao
// backend. A vaga é liberada exatamente uma vez por defer, em qualquer saída
// do handler seguinte (sucesso, erro ou timeout).
func Concurrency(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Pool == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	svc := application.ConcurrencyService{
		Pool:           opts.Pool,
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, ok := svc.Acquire(r.Context())
			if !ok {
				if opts.Logger != nil {
					opts.Logger.Warn("no backend slot acquired",
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)
				}
				writeDetail(w, http.StatusServiceUnavailable, "Backend service unavailable")
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
