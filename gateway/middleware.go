package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"proxy-gateway/gateway/application"
)

// RateLimitOptions configura o middleware de rate limit.
type RateLimitOptions struct {
	Service application.Service
	KeyFn   KeyFunc
	Logger  *slog.Logger
}

// RateLimit devolve o middleware que decide admitir/rejeitar cada requisição.
//
// Rejeição responde 429 com Retry-After e o corpo de detalhe nomeando o limite
// e a janela do método — e não chama o próximo handler (nenhuma chamada ao
// backend acontece em um 429).
func RateLimit(opts RateLimitOptions) func(next http.Handler) http.Handler {
	if opts.KeyFn == nil {
		opts.KeyFn = ClientIP(false)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := opts.KeyFn(r)

			dec := opts.Service.Decide(r.Context(), identity, r.Method)
			if !dec.Allowed {
				if opts.Logger != nil {
					opts.Logger.Info("request rate limited",
						slog.String("client", identity),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.Int("limit", dec.Limit),
					)
				}
				secs := int(dec.Window.Seconds())
				w.Header().Set("Retry-After", strconv.Itoa(int(dec.RetryAfter.Seconds())))
				writeDetail(w, http.StatusTooManyRequests, fmt.Sprintf(
					"Too Many Requests. Limit: %d per %ds. Please retry after %d seconds.",
					dec.Limit, secs, secs,
				))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
