package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"proxy-gateway/gateway/domain"
)

// RedisStore implementa domain.CounterStore sobre Redis.
//
// O incremento e a expiração vão no mesmo pipeline: INCR + EXPIRE NX.
// O NX garante que só quem criou a chave define o TTL — duas instâncias
// correndo na criação não ficam reiniciando a expiração uma da outra.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

type RedisStoreOption func(*RedisStore)

func WithPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = strings.Trim(prefix, ":") + ":"
	}
}

func NewRedisStore(rdb *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "ratelimit:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Incr incrementa o contador da chave e devolve o novo valor.
// Falha de comunicação vira erro embrulhando domain.ErrStoreUnavailable.
func (s *RedisStore) Incr(ctx context.Context, key domain.Key, window time.Duration) (int64, error) {
	k := s.prefix + string(key)

	pipe := s.rdb.Pipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return incr.Val(), nil
}

// Ping verifica a conectividade com o Redis (usado pelo health check;
// o chamador limita o ctx).
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}
