package session

import (
	"strings"

	"go.uber.org/zap"

	"github.com/inkcell/surface/internal/protocol"
)

// previewSuffix is appended to a cell id to form its markdown preview's
// DOM id. Dimension reports for previews carry the suffixed id.
const previewSuffix = "-preview"

// allowedSchemes are always forwarded to the host opener; the configured
// command scheme is allowed on top of these.
var allowedSchemes = []string{"http:", "https:", "mailto:"}

// Receive decodes one raw frame from the surface and dispatches it.
// Malformed frames are logged and dropped; events arriving after disposal
// are dropped silently.
func (s *Session) Receive(data []byte) {
	if s.disposed.Load() {
		return
	}
	event, err := protocol.Decode(data)
	if err != nil {
		s.logger.Warn("drop malformed surface frame", zap.Error(err))
		return
	}
	s.Dispatch(event)
}

// Dispatch routes one decoded surface event. Events referencing ids the
// session no longer tracks are dropped without error: the one-way channels
// let the surface lag behind removals.
func (s *Session) Dispatch(event protocol.FromSurface) {
	if s.disposed.Load() {
		return
	}
	if s.metrics != nil {
		s.metrics.RecordMessageIn(event.Kind())
	}

	switch e := event.(type) {
	case *protocol.Initialized:
		// Duplicate signals (surface reload races) are absorbed by the
		// gate's idempotent resolve.
		s.gate.Resolve()

	case *protocol.Dimension:
		s.handleDimension(e)

	case *protocol.MouseEnter:
		if h, _, ok := s.insets.Lookup(e.ID); ok {
			s.host.SetOutputHovered(h, true)
		}

	case *protocol.MouseLeave:
		if h, _, ok := s.insets.Lookup(e.ID); ok {
			s.host.SetOutputHovered(h, false)
		}

	case *protocol.ScrollWheel:
		s.host.DidScrollWheel(e.Payload)

	case *protocol.ScrollAck:
		s.host.DidScrollAck(e.Version)

	case *protocol.FocusEditor:
		s.host.FocusEditor(e.CellID, e.FocusNext)

	case *protocol.ClickedLink:
		s.handleLink(e.HRef)

	case *protocol.ClickedDataURL:
		// Malformed or failed downloads are dropped quietly, like any
		// other unusable inbound frame.
		if err := s.saveDataURL(e.Data, e.DownloadName); err != nil {
			s.logger.Debug("data url download dropped", zap.Error(err))
		}

	case *protocol.RendererEvent:
		s.host.RendererMessage(e.RendererID, e.Message)

	case *protocol.ClickedMarkdown:
		s.host.ClickedMarkdownPreview(e.CellID, e.CtrlKey, e.AltKey, e.ShiftKey, e.MetaKey)

	case *protocol.MarkdownMouseEnter:
		s.host.SetMarkdownHovered(e.CellID, true)

	case *protocol.MarkdownMouseLeave:
		s.host.SetMarkdownHovered(e.CellID, false)

	case *protocol.ToggleMarkdown:
		s.host.ToggleMarkdownEditing(e.CellID)

	case *protocol.CellDragStart:
		s.host.DragStart(e.CellID, e.DragOffsetY)

	case *protocol.CellDrag:
		s.host.Drag(e.CellID, e.DragOffsetY)

	case *protocol.CellDrop:
		s.host.Drop(e.CellID, e.CtrlKey, e.AltKey, e.DragOffsetY)

	case *protocol.CellDragEnd:
		s.host.DragEnd(e.CellID)

	case *protocol.InitializedMarkdown:
		s.previews.AckInitialized()

	default:
		s.logger.Warn("unhandled surface event", zap.String("type", event.Kind()))
	}
}

// handleDimension routes a height report to the owning inset or markdown
// preview. Reports for ids the session no longer tracks are dropped.
func (s *Session) handleDimension(e *protocol.Dimension) {
	if e.IsOutput {
		h, cell, first, ok := s.insets.Measure(e.ID)
		if !ok {
			return
		}
		s.host.UpdateOutputHeight(cell, h, e.Height, first)
		return
	}
	cellID, ok := strings.CutSuffix(e.ID, previewSuffix)
	if !ok || !s.previews.Has(cellID) {
		return
	}
	s.host.UpdateMarkdownHeight(cellID, e.Height)
}

// handleLink forwards an anchor click when its scheme is allow-listed.
// Everything else, including javascript: and data: links, is dropped.
func (s *Session) handleLink(href string) {
	lower := strings.ToLower(href)
	for _, scheme := range allowedSchemes {
		if strings.HasPrefix(lower, scheme) {
			s.host.OpenLink(href)
			return
		}
	}
	if s.commandScheme != "" && strings.HasPrefix(lower, s.commandScheme+":") {
		s.host.OpenLink(href)
		return
	}
	s.logger.Debug("drop link with disallowed scheme", zap.String("href", href))
}
