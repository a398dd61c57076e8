// Package session owns one sandboxed rendering surface: its construction,
// readiness gating, reload recovery, and the dispatch of inbound surface
// events to the inset cache, the markdown preview registry, and the host.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/inkcell/surface/internal/bundle"
	"github.com/inkcell/surface/internal/infrastructure/monitoring"
	"github.com/inkcell/surface/internal/inset"
	"github.com/inkcell/surface/internal/markdown"
	"github.com/inkcell/surface/internal/preload"
	"github.com/inkcell/surface/internal/protocol"
	"github.com/inkcell/surface/internal/ready"
	"github.com/inkcell/surface/internal/renderer"
	"github.com/inkcell/surface/internal/shared/id"
)

// ErrDetached is returned when the surface has no live attachment point at
// construction time. Fatal; no partial session state is retained.
var ErrDetached = errors.New("session: surface element not attached")

// Surface is the sandboxed rendering context being driven.
type Surface interface {
	// Attached reports whether the surface's host element is part of the
	// live document tree. Construction fails when it is not.
	Attached() bool
	// Load streams the assembled document into the surface. Called
	// exactly once per attach.
	Load(html string) error
}

// Transport carries encoded protocol messages to the surface,
// fire-and-forget.
type Transport interface {
	Post(data []byte)
}

// Host receives the events the session republishes to the document model.
type Host interface {
	UpdateOutputHeight(cell inset.CellInfo, handle id.Handle, height float64, first bool)
	UpdateMarkdownHeight(cellID string, height float64)
	SetOutputHovered(handle id.Handle, hovered bool)
	FocusEditor(cellID string, focusNext bool)
	DidScrollWheel(payload any)
	DidScrollAck(version uint64)
	OpenLink(href string)
	RendererMessage(rendererID string, message any)
	ClickedMarkdownPreview(cellID string, ctrl, alt, shift, meta bool)
	SetMarkdownHovered(cellID string, hovered bool)
	ToggleMarkdownEditing(cellID string)
	DragStart(cellID string, offsetY float64)
	Drag(cellID string, offsetY float64)
	Drop(cellID string, ctrl, alt bool, offsetY float64)
	DragEnd(cellID string)
}

// Files provides the save-dialog and byte-write services used by the
// data-URL download path.
type Files interface {
	// PromptSave asks for a destination; ok is false when the user
	// cancelled.
	PromptSave(defaultName string) (path string, ok bool)
	Write(path string, data []byte) error
	Open(path string)
}

// Options wires a session's collaborators.
type Options struct {
	Surface      Surface
	Transport    Transport
	Host         Host
	Files        Files
	Discovery    renderer.Discovery
	Transform    func(uri string) string
	Fetcher      *bundle.Fetcher
	BootstrapURI string
	Styles       bundle.Styles
	// CommandScheme is the host-command link scheme allowed through the
	// opener alongside http, https and mailto.
	CommandScheme string
	Logger        *zap.Logger
	Metrics       *monitoring.Metrics
}

// Session drives one surface. All public operations are no-ops once the
// session is disposed; disposal is terminal.
type Session struct {
	id            id.SessionID
	logger        *zap.Logger
	metrics       *monitoring.Metrics
	transport     Transport
	host          Host
	files         Files
	discovery     renderer.Discovery
	commandScheme string

	gate     *ready.Gate
	preloads *preload.Registry
	insets   *inset.Cache
	previews *markdown.Registry

	disposed      atomic.Bool
	scrollVersion atomic.Uint64
}

// New builds the surface document, attaches it, and returns a live
// session awaiting the surface's readiness signal. Construction errors
// (detached surface, failed bootstrap fetch) are fatal and leave nothing
// behind.
func New(ctx context.Context, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sessionID := id.NewSessionID()
	logger = logger.With(zap.String("session_id", sessionID.String()))

	if !opts.Surface.Attached() {
		return nil, ErrDetached
	}

	bootstrap, err := opts.Fetcher.Fetch(ctx, opts.BootstrapURI)
	if err != nil {
		return nil, fmt.Errorf("session: bootstrap: %w", err)
	}

	builder := bundle.NewBuilder(opts.Transform)
	html, err := builder.Build(bootstrap, opts.Styles, opts.Discovery.MarkdownProviders())
	if err != nil {
		return nil, fmt.Errorf("session: build document: %w", err)
	}
	if err := opts.Surface.Load(html); err != nil {
		return nil, fmt.Errorf("session: load document: %w", err)
	}

	s := &Session{
		id:            sessionID,
		logger:        logger,
		metrics:       opts.Metrics,
		transport:     opts.Transport,
		host:          opts.Host,
		files:         opts.Files,
		discovery:     opts.Discovery,
		commandScheme: opts.CommandScheme,
		gate:          ready.NewGate(),
	}
	s.preloads = preload.NewRegistry(s.gate, s)
	s.insets = inset.NewCache(s, s.preloads, opts.Discovery, opts.Transform, s.nextScrollVersion, logger)
	s.previews = markdown.NewRegistry(s, logger)

	if s.metrics != nil {
		s.metrics.IncSessionsActive()
	}
	logger.Info("surface session created", zap.String("bootstrap", opts.BootstrapURI))
	return s, nil
}

// ID returns the session's identifier.
func (s *Session) ID() id.SessionID { return s.id }

// nextScrollVersion yields the strictly increasing version tagged onto
// view-scroll batches for the session's whole lifetime.
func (s *Session) nextScrollVersion() uint64 {
	return s.scrollVersion.Add(1)
}

// Send encodes and posts one message to the surface. Fire-and-forget;
// sends after disposal are dropped.
func (s *Session) Send(msg protocol.ToSurface) {
	if s.disposed.Load() {
		return
	}
	data, err := protocol.Encode(msg)
	if err != nil {
		s.logger.Error("encode outbound message", zap.String("type", msg.Kind()), zap.Error(err))
		return
	}
	if s.metrics != nil {
		s.metrics.RecordMessageOut(msg.Kind())
	}
	s.transport.Post(data)
}

// AwaitReady suspends until the surface signals readiness. Returns
// ready.ErrDisposed when the session is torn down first.
func (s *Session) AwaitReady(ctx context.Context) error {
	return s.gate.Wait(ctx)
}

// Ready reports whether the surface has signalled readiness.
func (s *Session) Ready() bool { return s.gate.Resolved() }

// Disposed reports whether Dispose has been called.
func (s *Session) Disposed() bool { return s.disposed.Load() }

// Dispose tears the session down. Terminal: every later operation,
// outbound send and inbound event becomes a no-op.
func (s *Session) Dispose() {
	if !s.disposed.CompareAndSwap(false, true) {
		return
	}
	s.gate.Dispose()
	s.previews.Dispose()
	if s.metrics != nil {
		s.metrics.DecSessionsActive()
	}
	s.logger.Info("surface session disposed")
}

// Present shows an output inset, creating it in the surface on first
// presentation and cheaply re-showing it afterwards.
func (s *Session) Present(ctx context.Context, h id.Handle, cell inset.CellInfo, content inset.Content, cellTop, top float64) error {
	if s.disposed.Load() {
		return nil
	}
	before := s.insets.Size()
	if err := s.insets.Present(ctx, h, cell, content, cellTop, top); err != nil {
		return err
	}
	if s.metrics != nil {
		if s.insets.Size() > before {
			s.metrics.IncInsetsCreated()
		}
		s.metrics.SetInsetsActive(s.insets.Size())
	}
	return nil
}

// RemoveOutput clears one output from the surface and the cache.
func (s *Session) RemoveOutput(h id.Handle) {
	if s.disposed.Load() {
		return
	}
	s.insets.Remove(h)
	if s.metrics != nil {
		s.metrics.SetInsetsActive(s.insets.Size())
	}
}

// HideOutput conceals one output, keeping it cached for re-show.
func (s *Session) HideOutput(h id.Handle) {
	if s.disposed.Load() {
		return
	}
	s.insets.Hide(h)
}

// ShouldRefresh reports whether a layout pass needs to touch this output.
func (s *Session) ShouldRefresh(cell inset.CellInfo, h id.Handle, computedTop float64) bool {
	if s.disposed.Load() {
		return false
	}
	return s.insets.ShouldRefresh(cell, h, computedTop)
}

// Reposition moves insets and previews in one batched view-scroll.
func (s *Session) Reposition(globalTop float64, forceDisplay bool, items []inset.ScrollRequest, previews []protocol.ScrollPreview) {
	if s.disposed.Load() {
		return
	}
	s.insets.Reposition(globalTop, forceDisplay, items, previews)
}

// ClearAllOutputs wipes every output inset.
func (s *Session) ClearAllOutputs() {
	if s.disposed.Load() {
		return
	}
	s.insets.ClearAll()
	if s.metrics != nil {
		s.metrics.SetInsetsActive(0)
	}
}

// RequestKernelPreloads pushes kernel-provenance resources, extending the
// kernel resource roots.
func (s *Session) RequestKernelPreloads(ctx context.Context, resources []preload.Resource, roots []string) ([]protocol.PreloadResource, error) {
	if s.disposed.Load() {
		return nil, nil
	}
	batch, err := s.preloads.Request(ctx, resources, roots, preload.ProvenanceKernel)
	if err == nil && s.metrics != nil && len(batch) > 0 {
		s.metrics.ObservePreloadBatch(len(batch))
	}
	return batch, err
}

// Preloads exposes the registry for transport-side resource
// authorization.
func (s *Session) Preloads() *preload.Registry { return s.preloads }

// SetDecorations applies cell class-name deltas inside the surface.
func (s *Session) SetDecorations(cellID string, added, removed []string) {
	if s.disposed.Load() {
		return
	}
	s.Send(protocol.Decorations{
		Type:    protocol.KindDecorations,
		CellID:  cellID,
		Added:   added,
		Removed: removed,
	})
}

// PostRendererMessage relays an opaque payload to one renderer's script
// context.
func (s *Session) PostRendererMessage(rendererID string, message any) {
	if s.disposed.Load() {
		return
	}
	s.Send(protocol.RendererMessage{
		Type:       protocol.KindRendererMessage,
		RendererID: rendererID,
		Message:    message,
	})
}

// ShowMarkdownPreview creates or reveals a cell's preview.
func (s *Session) ShowMarkdownPreview(cellID string, handle int64, content string, top float64, version int64) {
	if s.disposed.Load() {
		return
	}
	s.previews.Show(cellID, handle, content, top, version)
	if s.metrics != nil {
		s.metrics.SetPreviewsActive(s.previews.Size())
	}
}

// HideMarkdownPreview conceals a cell's preview.
func (s *Session) HideMarkdownPreview(cellID string) {
	if s.disposed.Load() {
		return
	}
	s.previews.Hide(cellID)
}

// UnhideMarkdownPreview re-reveals a hidden preview.
func (s *Session) UnhideMarkdownPreview(cellID string) {
	if s.disposed.Load() {
		return
	}
	s.previews.Unhide(cellID)
}

// RemoveMarkdownPreview destroys a cell's preview.
func (s *Session) RemoveMarkdownPreview(cellID string) {
	if s.disposed.Load() {
		return
	}
	s.previews.Remove(cellID)
	if s.metrics != nil {
		s.metrics.SetPreviewsActive(s.previews.Size())
	}
}

// SetMarkdownSelection updates a preview's selected rendering.
func (s *Session) SetMarkdownSelection(cellID string, selected bool) {
	if s.disposed.Load() {
		return
	}
	s.previews.SetSelection(cellID, selected)
}

// InitializeMarkdownPreviews bulk registers previews and waits for the
// surface's acknowledgment.
func (s *Session) InitializeMarkdownPreviews(ctx context.Context, cells []markdown.Cell) error {
	if s.disposed.Load() {
		return nil
	}
	err := s.previews.InitializeAll(ctx, cells)
	if s.metrics != nil {
		s.metrics.SetPreviewsActive(s.previews.Size())
	}
	return err
}

// HandleReload restores a regenerated surface to its pre-reload visual
// state: the preload dedup cache resets (resource-root grants survive),
// every referenced renderer's preloads are re-requested, and each cached
// creation message replays with its current hidden flag. The host never
// re-issues the original render calls.
func (s *Session) HandleReload(ctx context.Context) error {
	if s.disposed.Load() {
		return nil
	}
	s.logger.Info("surface reloaded, replaying insets", zap.Int("insets", s.insets.Size()))
	s.preloads.ResetCache()
	if err := s.insets.RefreshPreloads(ctx); err != nil {
		return fmt.Errorf("session: refresh preloads: %w", err)
	}
	for _, msg := range s.insets.Replay() {
		s.Send(msg)
	}
	if s.metrics != nil {
		s.metrics.IncReloadReplays()
	}
	return nil
}
