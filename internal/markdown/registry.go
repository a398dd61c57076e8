// Package markdown tracks the lightweight text-preview insets, one per
// markdown cell. Previews have their own lifecycle, distinct from output
// insets: versioned content, visibility toggles, and a bulk initialization
// round trip that layout math depends on.
package markdown

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/inkcell/surface/internal/protocol"
	"github.com/inkcell/surface/internal/ready"
)

// Sender posts a message to the surface, fire-and-forget.
type Sender interface {
	Send(msg protocol.ToSurface)
}

// Cell seeds one preview during bulk initialization.
type Cell struct {
	CellID  string
	Handle  int64
	Content string
	Offset  float64
}

// entry is the per-cell preview state machine: absent → created(visible)
// → {hidden, visible} → absent.
type entry struct {
	version  int64
	visible  bool
	selected bool
}

// Registry owns every markdown preview the surface holds.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	ack     *ready.Gate

	sender    Sender
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

// NewRegistry creates an empty preview registry. Preview content is
// sanitized before leaving the host; plain text passes through unchanged.
func NewRegistry(sender Sender, logger *zap.Logger) *Registry {
	return &Registry{
		entries:   make(map[string]*entry),
		sender:    sender,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger,
	}
}

// Show creates or reveals the preview for a cell. Content only travels
// when the version changed; a hidden preview at an unchanged version gets
// a visibility-only update. Redundant shows (same version, already
// visible) send nothing.
func (r *Registry) Show(cellID string, handle int64, content string, top float64, version int64) {
	r.mu.Lock()
	e, ok := r.entries[cellID]
	if !ok {
		r.entries[cellID] = &entry{version: version, visible: true}
		msg := protocol.CreateMarkdownPreview{
			Type:    protocol.KindCreateMarkdown,
			CellID:  cellID,
			Handle:  handle,
			Content: r.sanitizer.Sanitize(content),
			Top:     top,
		}
		r.mu.Unlock()
		r.sender.Send(msg)
		return
	}

	sendAnything := e.version != version || !e.visible
	var body *string
	if e.version != version {
		clean := r.sanitizer.Sanitize(content)
		body = &clean
	}
	e.version = version
	e.visible = true
	r.mu.Unlock()

	if !sendAnything {
		return
	}
	r.sender.Send(protocol.ShowMarkdownPreview{
		Type:    protocol.KindShowMarkdown,
		CellID:  cellID,
		Handle:  handle,
		Content: body,
		Top:     top,
	})
}

// Hide conceals a preview. No-op when absent or already hidden.
func (r *Registry) Hide(cellID string) {
	r.mu.Lock()
	e, ok := r.entries[cellID]
	if !ok || !e.visible {
		r.mu.Unlock()
		return
	}
	e.visible = false
	r.mu.Unlock()
	r.sender.Send(protocol.HideMarkdownPreviews{
		Type:    protocol.KindHideMarkdown,
		CellIDs: []string{cellID},
	})
}

// Unhide re-reveals a hidden preview. Calling it for a preview that was
// never created violates the caller contract and is logged, not acted on.
func (r *Registry) Unhide(cellID string) {
	r.mu.Lock()
	e, ok := r.entries[cellID]
	if !ok {
		r.mu.Unlock()
		r.logger.Error("unhide for preview that was never created", zap.String("cell_id", cellID))
		return
	}
	if e.visible {
		r.mu.Unlock()
		return
	}
	e.visible = true
	r.mu.Unlock()
	r.sender.Send(protocol.UnhideMarkdownPreviews{
		Type:    protocol.KindUnhideMarkdown,
		CellIDs: []string{cellID},
	})
}

// Remove destroys a preview. Logged when the preview never existed.
func (r *Registry) Remove(cellID string) {
	r.mu.Lock()
	_, ok := r.entries[cellID]
	if !ok {
		r.mu.Unlock()
		r.logger.Error("remove for preview that was never created", zap.String("cell_id", cellID))
		return
	}
	delete(r.entries, cellID)
	r.mu.Unlock()
	r.sender.Send(protocol.DeleteMarkdownPreviews{
		Type:    protocol.KindDeleteMarkdown,
		CellIDs: []string{cellID},
	})
}

// SetSelection updates a preview's selected state and pushes the full
// selected set. Selection updates can arrive before creation during
// startup; those are silently ignored.
func (r *Registry) SetSelection(cellID string, selected bool) {
	r.mu.Lock()
	e, ok := r.entries[cellID]
	if !ok {
		r.mu.Unlock()
		return
	}
	e.selected = selected
	var ids []string
	for cid, en := range r.entries {
		if en.selected {
			ids = append(ids, cid)
		}
	}
	sort.Strings(ids)
	r.mu.Unlock()
	r.sender.Send(protocol.SelectMarkdownPreviews{
		Type:    protocol.KindSelectMarkdown,
		CellIDs: ids,
	})
}

// InitializeAll registers every listed cell invisible at version zero,
// ships one batched initialize message, and blocks until the surface
// acknowledges. Downstream layout depends on every preview existing, so
// this is the registry's only round trip. A disposed session releases the
// wait without error.
func (r *Registry) InitializeAll(ctx context.Context, cells []Cell) error {
	r.mu.Lock()
	batch := make([]protocol.InitializeMarkdownCell, 0, len(cells))
	for _, c := range cells {
		r.entries[c.CellID] = &entry{version: 0, visible: false}
		batch = append(batch, protocol.InitializeMarkdownCell{
			CellID:  c.CellID,
			Handle:  c.Handle,
			Content: r.sanitizer.Sanitize(c.Content),
			Offset:  c.Offset,
		})
	}
	ack := ready.NewGate()
	r.ack = ack
	r.mu.Unlock()

	r.sender.Send(protocol.InitializeMarkdown{
		Type:  protocol.KindInitializeMarkdown,
		Cells: batch,
	})

	if err := ack.Wait(ctx); err != nil {
		if errors.Is(err, ready.ErrDisposed) {
			return nil
		}
		return err
	}
	return nil
}

// AckInitialized releases a pending InitializeAll wait. Called by the
// session when the surface's acknowledgment event arrives; a stray ack
// with nothing pending is ignored.
func (r *Registry) AckInitialized() {
	r.mu.Lock()
	ack := r.ack
	r.mu.Unlock()
	if ack != nil {
		ack.Resolve()
	}
}

// Dispose releases any pending initialization wait.
func (r *Registry) Dispose() {
	r.mu.Lock()
	ack := r.ack
	r.mu.Unlock()
	if ack != nil {
		ack.Dispose()
	}
}

// Has reports whether a preview exists for the cell.
func (r *Registry) Has(cellID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[cellID]
	return ok
}

// Size returns the number of registered previews.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
