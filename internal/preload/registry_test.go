package preload

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkcell/surface/internal/protocol"
	"github.com/inkcell/surface/internal/ready"
)

type captureSender struct {
	sent []protocol.ToSurface
}

func (c *captureSender) Send(msg protocol.ToSurface) {
	c.sent = append(c.sent, msg)
}

func newReadyRegistry() (*Registry, *captureSender) {
	gate := ready.NewGate()
	gate.Resolve()
	sender := &captureSender{}
	return NewRegistry(gate, sender), sender
}

func TestRequestSendsNewResources(t *testing.T) {
	reg, sender := newReadyRegistry()

	batch, err := reg.Request(context.Background(), []Resource{
		{OriginalURI: "ext:/plot/runtime.js", URI: "surface:/res/plot/runtime.js"},
	}, []string{"surface:/res/plot/"}, ProvenanceRenderer)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	require.Len(t, sender.sent, 1)
	msg, ok := sender.sent[0].(protocol.UpdatePreloads)
	require.True(t, ok)
	assert.Equal(t, "surface:/res/plot/runtime.js", msg.Resources[0].URI)
}

func TestRequestDeduplicates(t *testing.T) {
	reg, sender := newReadyRegistry()
	res := []Resource{{OriginalURI: "ext:/a.js", URI: "surface:/a.js"}}

	_, err := reg.Request(context.Background(), res, []string{"surface:/"}, ProvenanceRenderer)
	require.NoError(t, err)

	// Second request: zero outbound entries, no message, but new roots
	// still accumulate.
	batch, err := reg.Request(context.Background(), res, []string{"surface:/other/"}, ProvenanceRenderer)
	require.NoError(t, err)
	assert.Empty(t, batch)
	assert.Len(t, sender.sent, 1)
	assert.Contains(t, reg.Roots(ProvenanceRenderer), "surface:/other/")
}

func TestRootsTrackProvenanceSeparately(t *testing.T) {
	reg, _ := newReadyRegistry()

	_, err := reg.Request(context.Background(), nil, []string{"surface:/kernel/"}, ProvenanceKernel)
	require.NoError(t, err)

	assert.Contains(t, reg.Roots(ProvenanceKernel), "surface:/kernel/")
	assert.Empty(t, reg.Roots(ProvenanceRenderer))
}

func TestResetCacheKeepsRoots(t *testing.T) {
	reg, sender := newReadyRegistry()
	res := []Resource{{OriginalURI: "ext:/a.js", URI: "surface:/a.js"}}

	_, err := reg.Request(context.Background(), res, []string{"surface:/"}, ProvenanceRenderer)
	require.NoError(t, err)

	reg.ResetCache()

	// URI cache cleared: the resource sends again.
	batch, err := reg.Request(context.Background(), res, nil, ProvenanceRenderer)
	require.NoError(t, err)
	assert.Len(t, batch, 1)
	assert.Len(t, sender.sent, 2)

	// Roots survived the reset.
	assert.Contains(t, reg.Roots(ProvenanceRenderer), "surface:/")
}

func TestRequestAfterDisposeIsNoop(t *testing.T) {
	gate := ready.NewGate()
	sender := &captureSender{}
	reg := NewRegistry(gate, sender)
	gate.Dispose()

	batch, err := reg.Request(context.Background(), []Resource{
		{OriginalURI: "ext:/a.js", URI: "surface:/a.js"},
	}, []string{"surface:/"}, ProvenanceRenderer)
	require.NoError(t, err)
	assert.Empty(t, batch)
	assert.Empty(t, sender.sent)
}

func TestRequestWaitsForReadiness(t *testing.T) {
	gate := ready.NewGate()
	sender := &captureSender{}
	reg := NewRegistry(gate, sender)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := reg.Request(context.Background(), []Resource{
			{OriginalURI: "ext:/a.js", URI: "surface:/a.js"},
		}, nil, ProvenanceRenderer)
		assert.NoError(t, err)
	}()

	gate.Resolve()
	<-done
	assert.Len(t, sender.sent, 1)
}

func TestAuthorizedMatchesAccumulatedRoots(t *testing.T) {
	reg, _ := newReadyRegistry()

	_, err := reg.Request(context.Background(), nil, []string{"surface:/res/plot/"}, ProvenanceRenderer)
	require.NoError(t, err)

	assert.True(t, reg.Authorized("surface:/res/plot/runtime.js"))
	assert.False(t, reg.Authorized("surface:/res/other/x.js"))
}
