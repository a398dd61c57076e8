package ready

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveReleasesWaiters(t *testing.T) {
	g := NewGate()

	errs := make(chan error, 1)
	go func() { errs <- g.Wait(context.Background()) }()

	g.Resolve()

	select {
	case err := <-errs:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiter not released")
	}
	assert.True(t, g.Resolved())
}

func TestResolveIdempotent(t *testing.T) {
	g := NewGate()
	g.Resolve()
	g.Resolve() // must not panic on double close
	assert.True(t, g.Resolved())
}

func TestDisposeShortCircuitsWait(t *testing.T) {
	g := NewGate()
	g.Dispose()

	err := g.Wait(context.Background())
	require.ErrorIs(t, err, ErrDisposed)

	// Resolve after dispose is ignored.
	g.Resolve()
	assert.False(t, g.Resolved())
	assert.True(t, g.Disposed())
}

func TestDisposeAfterResolve(t *testing.T) {
	g := NewGate()
	g.Resolve()
	g.Dispose()

	// Disposal is terminal even for an already-ready gate.
	err := g.Wait(context.Background())
	require.ErrorIs(t, err, ErrDisposed)
}

func TestWaitHonorsContext(t *testing.T) {
	g := NewGate()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
