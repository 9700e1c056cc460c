package infra

import (
	"context"
	"sync"
	"time"

	"proxy-gateway/gateway/domain"
)

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore implementa domain.CounterStore em memória.
//
// Serve para desenvolvimento, testes e deploys de instância única.
// Em produção com múltiplas instâncias, use RedisStore — este contador é local.
type MemoryStore struct {
	mu           sync.Mutex
	entries      map[domain.Key]*memoryEntry
	cleanupEvery time.Duration
}

type MemoryStoreOption func(*MemoryStore)

func WithCleanupEvery(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) { s.cleanupEvery = d }
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		entries:      make(map[domain.Key]*memoryEntry),
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Incr implementa domain.CounterStore. Uma chave expirada renasce com count=1
// e expiração nova, igual ao comportamento do Redis.
func (s *MemoryStore) Incr(_ context.Context, key domain.Key, window time.Duration) (int64, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok || now.After(ent.expiresAt) {
		s.entries[key] = &memoryEntry{count: 1, expiresAt: now.Add(window)}
		return 1, nil
	}

	ent.count++
	return ent.count, nil
}

// Ping implementa domain.CounterStore. O store local está sempre disponível.
func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Cleanup() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if now.After(ent.expiresAt) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que remove chaves expiradas periodicamente.
// Pare cancelando o contexto.
func (s *MemoryStore) StartJanitor(ctx DoneContext) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// DoneContext é o mínimo necessário para aceitar context.Context sem criar
// acoplamento com quem chama. (Permite reuso em libs sem acoplar.)
type DoneContext interface {
	Done() <-chan struct{}
}
