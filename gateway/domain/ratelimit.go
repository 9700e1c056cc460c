package domain

// Camada de domínio do rate limit distribuído.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import (
	"context"
	"strconv"
	"time"
)

type Key string

// BuildKey monta a chave do contador: identidade do cliente + método HTTP +
// índice da janela fixa atual.
//
// O índice é floor(unixTime / janela), então todas as instâncias do gateway
// enxergam a mesma janela (alinhada à época) sem precisar trocar estado entre si.
func BuildKey(identity, method string, now time.Time, window time.Duration) Key {
	secs := int64(window / time.Second)
	if secs <= 0 {
		secs = 1
	}
	idx := now.Unix() / secs
	return Key(identity + ":" + method + ":" + strconv.FormatInt(idx, 10))
}

// CounterStore é o contador compartilhado entre instâncias do gateway.
//
// Incr precisa ser atômico: incrementar e, se a chave acabou de nascer,
// marcar a expiração na MESMA operação. Duas instâncias concorrentes não podem
// reiniciar o TTL uma da outra.
//
// Implementações devem devolver erro embrulhando ErrStoreUnavailable quando o
// store estiver inalcançável, para a camada de aplicação aplicar a política de
// indisponibilidade (e não um pass-through silencioso).
type CounterStore interface {
	Incr(ctx context.Context, key Key, window time.Duration) (int64, error)
	Ping(ctx context.Context) error
}

// Limiter representa algo que pode decidir se uma ação é permitida agora.
//
// Usado como freio local quando o CounterStore está fora: a implementação de
// infra usa golang.org/x/time/rate.
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter local por chave (ex: "ip:método").
// A implementação pode manter cache, TTL, etc.
type LimiterStore interface {
	Get(Key) Limiter
}

// Decision é o resultado da avaliação do rate limit para uma requisição.
type Decision struct {
	Allowed bool
	// Limit e Window descrevem o limite violado, para a mensagem ao cliente.
	Limit  int
	Window time.Duration
	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}
