package infra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChanPool_AcquireUpToCapacity(t *testing.T) {
	p := NewChanPool(2)

	rel1, ok := p.Acquire(context.Background())
	require.True(t, ok)
	rel2, ok := p.Acquire(context.Background())
	require.True(t, ok)

	// pool cheio: uma tentativa com ctx já encerrado não deve bloquear
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, ok = p.Acquire(ctx)
	assert.False(t, ok)

	rel1()
	rel3, ok := p.Acquire(context.Background())
	require.True(t, ok, "released slot must be reusable")

	rel2()
	rel3()
}

func TestChanPool_AcquireFailsOnCanceledContext(t *testing.T) {
	p := NewChanPool(1)

	rel, ok := p.Acquire(context.Background())
	require.True(t, ok)
	defer rel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok = p.Acquire(ctx)
	assert.False(t, ok)
}
