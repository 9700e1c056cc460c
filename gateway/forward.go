package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"proxy-gateway/gateway/domain"
)

// Forwarder encaminha cada requisição admitida para o único backend configurado
// e devolve a resposta dele sem alterações (status, headers, corpo).
//
// Tradução da requisição de entrada:
//   - método, corpo e query string passam verbatim (corpo em streaming)
//   - o Host do gateway não vaza: a chamada de saída leva o host do backend
//   - X-Forwarded-For recebe a identidade do cliente e X-Forwarded-Proto o
//     esquema de entrada
//
// Uma tentativa só, sem retry; política de retry é de quem chama (fora de
// escopo aqui). O pool de conexões é persistente e compartilhado pelo processo.
type Forwarder struct {
	base   *url.URL
	client *http.Client
	keyFn  KeyFunc
	logger *slog.Logger
}

// NewForwarder cria o forwarder com timeout fixo por chamada sobre um
// transporte com keep-alive.
func NewForwarder(base *url.URL, timeout time.Duration, keyFn KeyFunc, logger *slog.Logger) *Forwarder {
	if keyFn == nil {
		keyFn = ClientIP(false)
	}
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Forwarder{
		base: base,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			// o backend é quem decide redirecionar; o gateway repassa o 3xx
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		keyFn:  keyFn,
		logger: logger,
	}
}

func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity := f.keyFn(r)

	out, err := f.buildRequest(r, identity)
	if err != nil {
		f.logError(r, identity, err)
		writeDetail(w, http.StatusInternalServerError, "Internal gateway error")
		return
	}

	resp, err := f.client.Do(out)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// cliente desistiu antes da resposta; nada útil a responder.
			// A chamada já contou no rate limit e a vaga é liberada pelo defer
			// do middleware de concorrência.
			if f.logger != nil {
				f.logger.Debug("client went away during backend call",
					slog.String("client", identity),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
			}
			return
		}

		kind := classifyBackendError(err)
		f.logError(r, identity, err)
		switch {
		case errors.Is(kind, domain.ErrBackendTimeout):
			writeDetail(w, http.StatusGatewayTimeout, "Gateway timeout")
		case errors.Is(kind, domain.ErrBackendUnavailable):
			writeDetail(w, http.StatusServiceUnavailable, "Backend service unavailable")
		default:
			writeDetail(w, http.StatusInternalServerError, "Internal gateway error")
		}
		return
	}
	defer resp.Body.Close()

	header := w.Header()
	for k, vv := range resp.Header {
		header[k] = vv
	}
	if resp.Header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/octet-stream")
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

// buildRequest monta a chamada de saída preservando método, corpo, headers e
// query string da requisição de entrada.
func (f *Forwarder) buildRequest(r *http.Request, identity string) (*http.Request, error) {
	target := *f.base
	target.Path = joinPath(f.base.Path, r.URL.Path)
	target.RawPath = ""
	target.RawQuery = r.URL.RawQuery

	out, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
	if err != nil {
		return nil, err
	}
	out.ContentLength = r.ContentLength

	out.Header = r.Header.Clone()
	// Em net/http o Host de entrada vive em r.Host, não em r.Header; a chamada
	// de saída usa o host do destino. O Del cobre clientes que mandam o header
	// literal.
	out.Header.Del("Host")

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	out.Header.Set("X-Forwarded-For", identity)
	out.Header.Set("X-Forwarded-Proto", scheme)

	return out, nil
}

func (f *Forwarder) logError(r *http.Request, identity string, err error) {
	if f.logger == nil {
		return
	}
	f.logger.Error("backend call failed",
		slog.String("client", identity),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
}

// classifyBackendError traduz a falha da chamada para a taxonomia do domínio:
// timeout estourado vs. falha de conexão/transporte.
func classifyBackendError(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return domain.ErrBackendTimeout
	}
	return domain.ErrBackendUnavailable
}

func joinPath(base, p string) string {
	b := strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return b + p
}
