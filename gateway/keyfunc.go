package gateway

import (
	"net"
	"net/http"
	"strings"
)

// KeyFunc extrai a identidade do cliente de uma requisição.
type KeyFunc func(r *http.Request) string

// ClientIP devolve um KeyFunc que identifica o cliente pelo IP remoto.
//
// Com trustXFF=true, o primeiro IP do X-Forwarded-For vence (use apenas quando
// o gateway está atrás de um proxy confiável — o header é forjável).
// A identidade nunca é vazia: sem como determinar, vale "unknown".
func ClientIP(trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if trustXFF {
			// pega o primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				parts := strings.Split(xff, ",")
				if len(parts) > 0 {
					ip := strings.TrimSpace(parts[0])
					if ip != "" {
						return ip
					}
				}
			}
		}

		// fallback: RemoteAddr
		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}
