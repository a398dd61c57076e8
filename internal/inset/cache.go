// Package inset tracks output insets living inside the surface: which
// outputs have been created, under which id, at which position, and which
// are currently hidden. It guarantees idempotent re-show for outputs the
// surface already holds and fresh creation otherwise.
package inset

import (
	"context"
	"sync"

	"github.com/inkcell/surface/internal/preload"
	"github.com/inkcell/surface/internal/protocol"
	"github.com/inkcell/surface/internal/renderer"
	"github.com/inkcell/surface/internal/shared/id"
	"go.uber.org/zap"
)

// CellInfo identifies the cell owning an output and the cell state the
// cache needs for refresh decisions.
type CellInfo struct {
	CellID          string
	CellHandle      int64
	CellURI         string
	OutputCollapsed bool
}

// MimeItem is one stored representation of an output.
type MimeItem struct {
	Mime  string
	Value []byte
}

// Content is what Present ships into the surface: either raw HTML or an
// extension-rendered payload picked from the output's representations.
type Content struct {
	// HTML is the raw variant; used when RendererID is empty.
	HTML string
	// RendererID selects the extension renderer for the typed variant.
	RendererID string
	Items      []MimeItem
	Metadata   any
}

// Sender posts a message to the surface, fire-and-forget.
type Sender interface {
	Send(msg protocol.ToSurface)
}

// entry is the cached creation state of one output identity.
type entry struct {
	outputID string
	cell     CellInfo
	renderer *renderer.Renderer
	message  protocol.CreateOutput
	measured bool
}

// Cache maps output handles to their last-sent creation payloads. All
// mutation happens through the owning session's handlers; the mutex only
// orders those against reads from accessors.
type Cache struct {
	mu      sync.Mutex
	entries map[id.Handle]*entry
	hidden  map[id.Handle]struct{}
	reverse map[string]id.Handle // outputId → handle

	sender      Sender
	preloads    *preload.Registry
	discovery   renderer.Discovery
	transform   func(uri string) string
	nextVersion func() uint64
	logger      *zap.Logger
}

// NewCache wires a cache to its collaborators. nextVersion must yield
// strictly increasing values for the life of the session; the session owns
// the counter.
func NewCache(sender Sender, preloads *preload.Registry, discovery renderer.Discovery, transform func(string) string, nextVersion func() uint64, logger *zap.Logger) *Cache {
	return &Cache{
		entries:     make(map[id.Handle]*entry),
		hidden:      make(map[id.Handle]struct{}),
		reverse:     make(map[string]id.Handle),
		sender:      sender,
		preloads:    preloads,
		discovery:   discovery,
		transform:   transform,
		nextVersion: nextVersion,
		logger:      logger,
	}
}

// Present makes an output visible in the surface at the given position.
// An output the surface already holds is re-shown under its existing id;
// content is never regenerated for a cached identity. New outputs get a
// fresh output id and a full creation message.
func (c *Cache) Present(ctx context.Context, h id.Handle, cell CellInfo, content Content, cellTop, top float64) error {
	c.mu.Lock()
	if e, ok := c.entries[h]; ok {
		delete(c.hidden, h)
		e.message.CellTop = cellTop
		e.message.Top = top
		e.message.InitiallyHidden = false
		msg := protocol.ShowOutput{
			Type:     protocol.KindShowOutput,
			CellID:   e.cell.CellID,
			OutputID: e.outputID,
			CellTop:  cellTop,
			Top:      top,
		}
		c.mu.Unlock()
		c.sender.Send(msg)
		return nil
	}
	c.mu.Unlock()

	outputID := id.NewOutputID()
	msg := protocol.CreateOutput{
		Type:     protocol.KindCreateOutput,
		CellID:   cell.CellID,
		OutputID: outputID,
		CellTop:  cellTop,
		Top:      top,
	}

	var rend *renderer.Renderer
	if content.RendererID == "" {
		msg.Content = protocol.CreationContent{
			ContentType: protocol.ContentHTML,
			HTML:        content.HTML,
		}
	} else {
		r, ok := c.discovery.Renderer(content.RendererID)
		if !ok {
			c.logger.Error("unknown renderer for output",
				zap.String("renderer_id", content.RendererID),
				zap.String("cell_id", cell.CellID))
			return nil
		}
		rend = &r

		item, ok := pickItem(content.Items, r.MimeTypes)
		if !ok {
			c.logger.Error("no representation matches renderer",
				zap.String("renderer_id", r.ID),
				zap.String("cell_id", cell.CellID))
			return nil
		}
		msg.RendererID = r.ID
		msg.Content = protocol.CreationContent{
			ContentType: protocol.ContentExtension,
			MimeType:    item.Mime,
			Value:       item.Value,
			Metadata:    content.Metadata,
		}

		resolved, err := c.requestRendererPreloads(ctx, rend)
		if err != nil {
			return err
		}
		msg.RequiredPreloads = resolved
	}

	c.sender.Send(msg)

	c.mu.Lock()
	c.entries[h] = &entry{
		outputID: outputID,
		cell:     cell,
		renderer: rend,
		message:  msg,
	}
	c.reverse[outputID] = h
	delete(c.hidden, h)
	c.mu.Unlock()
	return nil
}

// requestRendererPreloads resolves one renderer's preload list through the
// dedup registry, granting its extension location as a resource root.
func (c *Cache) requestRendererPreloads(ctx context.Context, r *renderer.Renderer) ([]protocol.PreloadResource, error) {
	resources := make([]preload.Resource, 0, len(r.Preloads))
	for _, uri := range r.Preloads {
		resources = append(resources, preload.Resource{
			OriginalURI: uri,
			URI:         c.transform(uri),
		})
	}
	return c.preloads.Request(ctx, resources, []string{r.Location}, preload.ProvenanceRenderer)
}

// pickItem selects the first representation whose MIME the renderer
// accepts, falling back to the first item when the renderer declares none.
func pickItem(items []MimeItem, mimes []string) (MimeItem, bool) {
	if len(mimes) == 0 {
		if len(items) == 0 {
			return MimeItem{}, false
		}
		return items[0], true
	}
	for _, m := range mimes {
		for _, it := range items {
			if it.Mime == m {
				return it, true
			}
		}
	}
	return MimeItem{}, false
}

// Remove clears an output from the surface and forgets it. Unknown handles
// are ignored.
func (c *Cache) Remove(h id.Handle) {
	c.mu.Lock()
	e, ok := c.entries[h]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.entries, h)
	delete(c.reverse, e.outputID)
	delete(c.hidden, h)
	msg := protocol.ClearOutput{
		Type:     protocol.KindClearOutput,
		OutputID: e.outputID,
		CellURI:  e.cell.CellURI,
	}
	if e.renderer != nil {
		msg.RendererID = e.renderer.ID
	}
	c.mu.Unlock()
	c.sender.Send(msg)
}

// Hide conceals an output while keeping its content cached for cheap
// re-show. Unknown handles are ignored.
func (c *Cache) Hide(h id.Handle) {
	c.mu.Lock()
	e, ok := c.entries[h]
	if !ok {
		c.mu.Unlock()
		return
	}
	c.hidden[h] = struct{}{}
	msg := protocol.HideOutput{
		Type:     protocol.KindHideOutput,
		OutputID: e.outputID,
		CellURI:  e.cell.CellURI,
	}
	c.mu.Unlock()
	c.sender.Send(msg)
}

// ShouldRefresh decides whether the host needs to touch this output at all
// for the given layout pass. Collapsed outputs never refresh; hidden ones
// always do (a re-show is pending); otherwise only a changed vertical
// offset matters.
func (c *Cache) ShouldRefresh(cell CellInfo, h id.Handle, computedTop float64) bool {
	if cell.OutputCollapsed {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, hidden := c.hidden[h]; hidden {
		return true
	}
	if e, ok := c.entries[h]; ok {
		return e.message.Top != computedTop
	}
	return true
}

// ScrollRequest positions one output within a Reposition batch. CellOffset
// and Offset are relative to the batch's global top.
type ScrollRequest struct {
	Handle     id.Handle
	CellOffset float64
	Offset     float64
}

// Reposition moves many insets in one message. Each item's cached top is
// overwritten and its hidden flag cleared (repositioning implies
// revealing). The whole batch travels in a single view-scroll tagged with
// the session's next version so the surface can drop stale batches.
func (c *Cache) Reposition(globalTop float64, forceDisplay bool, items []ScrollRequest, previews []protocol.ScrollPreview) {
	c.mu.Lock()
	widgets := make([]protocol.ScrollWidget, 0, len(items))
	for _, item := range items {
		e, ok := c.entries[item.Handle]
		if !ok {
			continue
		}
		cellTop := globalTop + item.CellOffset
		e.message.CellTop = cellTop
		e.message.Top = item.Offset
		delete(c.hidden, item.Handle)
		widgets = append(widgets, protocol.ScrollWidget{
			OutputID: e.outputID,
			CellTop:  cellTop,
			Top:      item.Offset,
		})
	}
	msg := protocol.ViewScroll{
		Type:         protocol.KindViewScroll,
		Version:      c.nextVersion(),
		ForceDisplay: forceDisplay,
		Widgets:      widgets,
		Previews:     previews,
	}
	c.mu.Unlock()
	c.sender.Send(msg)
}

// ClearAll wipes the surface and the cache in one step. The surface is
// told once; both indexes are replaced wholesale.
func (c *Cache) ClearAll() {
	c.sender.Send(protocol.ClearAll{Type: protocol.KindClearAll})
	c.mu.Lock()
	c.entries = make(map[id.Handle]*entry)
	c.reverse = make(map[string]id.Handle)
	c.hidden = make(map[id.Handle]struct{})
	c.mu.Unlock()
}

// Measure resolves an inbound dimension report to the owning output. The
// first report per creation is flagged so the host can distinguish initial
// layout from later resizes. Unknown output ids return ok=false: the
// output may have been removed while the report was in flight.
func (c *Cache) Measure(outputID string) (h id.Handle, cell CellInfo, first bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok = c.reverse[outputID]
	if !ok {
		return "", CellInfo{}, false, false
	}
	e := c.entries[h]
	first = !e.measured
	e.measured = true
	return h, e.cell, first, true
}

// Lookup resolves an output id to its handle and owning cell without
// touching measurement state.
func (c *Cache) Lookup(outputID string) (id.Handle, CellInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.reverse[outputID]
	if !ok {
		return "", CellInfo{}, false
	}
	return h, c.entries[h].cell, true
}

// RefreshPreloads re-requests the preloads of every renderer referenced by
// cached insets. Run after a surface reload, once the dedup cache has been
// reset.
func (c *Cache) RefreshPreloads(ctx context.Context) error {
	for _, r := range c.ActiveRenderers() {
		rend := r
		if _, err := c.requestRendererPreloads(ctx, &rend); err != nil {
			return err
		}
	}
	return nil
}

// Replay returns every cached creation message with InitiallyHidden set
// from current hidden-set membership. Used to restore a reloaded surface.
func (c *Cache) Replay() []protocol.CreateOutput {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := make([]protocol.CreateOutput, 0, len(c.entries))
	for h, e := range c.entries {
		m := e.message
		_, m.InitiallyHidden = c.hidden[h]
		msgs = append(msgs, m)
	}
	return msgs
}

// ActiveRenderers returns the distinct renderers referenced by cached
// insets. Recomputed on reload so their preloads can be re-requested.
func (c *Cache) ActiveRenderers() []renderer.Renderer {
	c.mu.Lock()
	defer c.mu.Unlock()
	seen := make(map[string]struct{})
	var out []renderer.Renderer
	for _, e := range c.entries {
		if e.renderer == nil {
			continue
		}
		if _, dup := seen[e.renderer.ID]; dup {
			continue
		}
		seen[e.renderer.ID] = struct{}{}
		out = append(out, *e.renderer)
	}
	return out
}

// Size reports how many outputs are cached.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
