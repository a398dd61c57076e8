// Package preload deduplicates resource pushes into the surface and tracks
// which resource roots each provenance has been granted.
package preload

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/inkcell/surface/internal/protocol"
	"github.com/inkcell/surface/internal/ready"
)

// Provenance is the origin category of a preload request. It governs which
// resource-root list the request extends.
type Provenance string

const (
	ProvenanceRenderer Provenance = "renderer"
	ProvenanceKernel   Provenance = "kernel"
)

// Resource pairs an original URI with its surface-addressable transform.
type Resource struct {
	OriginalURI string
	URI         string
}

// Sender posts a message to the surface, fire-and-forget.
type Sender interface {
	Send(msg protocol.ToSurface)
}

// Registry records which resource URIs have already been pushed to the
// surface and accumulates per-provenance resource roots. Roots are never
// pruned for the life of the session; only the URI dedup cache resets (on
// surface reload).
type Registry struct {
	mu            sync.Mutex
	sent          map[string]struct{}
	rendererRoots []string
	kernelRoots   []string

	gate   *ready.Gate
	sender Sender
}

// NewRegistry creates a registry gated on surface readiness.
func NewRegistry(gate *ready.Gate, sender Sender) *Registry {
	return &Registry{
		sent:   make(map[string]struct{}),
		gate:   gate,
		sender: sender,
	}
}

// Request pushes the not-yet-sent subset of resources to the surface and
// extends the provenance's resource-root list with roots (duplicates
// allowed). It suspends until the surface is ready; a session disposed
// before or during the wait yields an empty result and no send. The
// returned slice is the outbound batch, nil when nothing new was sent.
func (r *Registry) Request(ctx context.Context, resources []Resource, roots []string, provenance Provenance) ([]protocol.PreloadResource, error) {
	if err := r.gate.Wait(ctx); err != nil {
		if errors.Is(err, ready.ErrDisposed) {
			return nil, nil
		}
		return nil, err
	}

	r.mu.Lock()
	switch provenance {
	case ProvenanceKernel:
		r.kernelRoots = append(r.kernelRoots, roots...)
	default:
		r.rendererRoots = append(r.rendererRoots, roots...)
	}

	var batch []protocol.PreloadResource
	for _, res := range resources {
		if _, dup := r.sent[res.URI]; dup {
			continue
		}
		r.sent[res.URI] = struct{}{}
		batch = append(batch, protocol.PreloadResource{
			OriginalURI: res.OriginalURI,
			URI:         res.URI,
		})
	}
	r.mu.Unlock()

	if len(batch) == 0 {
		return nil, nil
	}
	r.sender.Send(protocol.UpdatePreloads{
		Type:      protocol.KindUpdatePreloads,
		Resources: batch,
	})
	return batch, nil
}

// ResetCache forgets which URIs were sent. Accumulated resource roots
// survive; a reloaded surface keeps its grants.
func (r *Registry) ResetCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = make(map[string]struct{})
}

// Roots returns the accumulated resource roots for a provenance.
func (r *Registry) Roots(provenance Provenance) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if provenance == ProvenanceKernel {
		return append([]string(nil), r.kernelRoots...)
	}
	return append([]string(nil), r.rendererRoots...)
}

// Authorized reports whether uri falls under any accumulated root of any
// provenance. Used by the transport when the surface requests a resource.
func (r *Registry) Authorized(uri string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, root := range r.rendererRoots {
		if strings.HasPrefix(uri, root) {
			return true
		}
	}
	for _, root := range r.kernelRoots {
		if strings.HasPrefix(uri, root) {
			return true
		}
	}
	return false
}
