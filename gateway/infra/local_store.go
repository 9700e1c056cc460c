package infra

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"proxy-gateway/gateway/domain"
)

// LocalStore é um token bucket por chave (x/time/rate) com cache e limpeza
// periódica. Implementa domain.LimiterStore.
//
// No gateway ele é o freio de fallback: quando o contador distribuído cai,
// a admissão passa por aqui para o backend não ficar escancarado.
type LocalStore struct {
	mu           sync.Mutex
	entries      map[string]*localEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type localEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type LocalStoreOption func(*LocalStore)

func WithIdleTTL(d time.Duration) LocalStoreOption {
	return func(s *LocalStore) { s.idleTTL = d }
}

func WithLocalCleanupEvery(d time.Duration) LocalStoreOption {
	return func(s *LocalStore) { s.cleanupEvery = d }
}

func NewLocalStore(rps float64, burst int, opts ...LocalStoreOption) *LocalStore {
	s := &LocalStore{
		entries:      make(map[string]*localEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get implementa domain.LimiterStore.
func (s *LocalStore) Get(key domain.Key) domain.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[string(key)]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[string(key)] = &localEntry{lim: lim, lastSeen: now}
	return lim
}

func (s *LocalStore) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa chaves inativas periodicamente.
// Pare cancelando o contexto.
func (s *LocalStore) StartJanitor(ctx DoneContext) {
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
