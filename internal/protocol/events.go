package protocol

// FromSurface is implemented by every surface-originated event. The set is
// closed; arbitrary renderer payloads travel inside RendererEvent.
type FromSurface interface {
	fromSurface()
	Kind() string
}

// Surface → host event type tags.
const (
	KindInitialized         = "initialized"
	KindDimension           = "dimension"
	KindMouseEnter          = "mouseenter"
	KindMouseLeave          = "mouseleave"
	KindScrollWheel         = "did-scroll-wheel"
	KindScrollAck           = "scroll-ack"
	KindFocusEditor         = "focus-editor"
	KindClickedLink         = "clicked-link"
	KindClickedDataURL      = "clicked-data-url"
	KindRendererEvent       = "customRendererMessage"
	KindClickedMarkdown     = "clickedMarkdownPreview"
	KindMarkdownMouseEnter  = "mouseEnterMarkdownPreview"
	KindMarkdownMouseLeave  = "mouseLeaveMarkdownPreview"
	KindToggleMarkdown      = "toggleMarkdownPreview"
	KindCellDragStart       = "cell-drag-start"
	KindCellDrag            = "cell-drag"
	KindCellDrop            = "cell-drop"
	KindCellDragEnd         = "cell-drag-end"
	KindInitializedMarkdown = "initializedMarkdownPreview"
)

// Frame is embedded in every framework event. The discriminant flag
// separates framework traffic from renderer passthrough payloads relayed
// over the same channel; the surface bootstrap sets it on every message it
// originates itself.
type Frame struct {
	Framed bool   `json:"__surfaceMessage"`
	Type   string `json:"type"`
}

// Initialized signals the surface finished booting and can accept
// messages. Duplicate signals after the first are ignored by the session.
type Initialized struct {
	Frame
}

// Dimension reports the rendered height of an output inset or a markdown
// preview. For previews, ID is the preview DOM id (cell id plus a fixed
// suffix) and IsOutput is false.
type Dimension struct {
	Frame
	ID       string  `json:"id"`
	IsOutput bool    `json:"isOutput"`
	Height   float64 `json:"height"`
}

// MouseEnter fires when the pointer enters an output inset.
type MouseEnter struct {
	Frame
	ID string `json:"id"`
}

// MouseLeave fires when the pointer leaves an output inset.
type MouseLeave struct {
	Frame
	ID string `json:"id"`
}

// ScrollWheel relays a wheel event the surface chose not to consume. The
// payload is forwarded to the host untouched.
type ScrollWheel struct {
	Frame
	Payload any `json:"payload"`
}

// ScrollAck confirms the surface applied a ViewScroll batch.
type ScrollAck struct {
	Frame
	Version uint64 `json:"version"`
}

// FocusEditor asks the host to move editor focus to a cell.
type FocusEditor struct {
	Frame
	CellID    string `json:"cellId"`
	FocusNext bool   `json:"focusNext"`
}

// ClickedLink reports an anchor click inside rendered content. Only
// allow-listed schemes are forwarded to the host opener.
type ClickedLink struct {
	Frame
	HRef string `json:"href"`
}

// ClickedDataURL reports a click on a data: download link. Data is the
// full data URL; DownloadName is the suggested file name, possibly empty.
type ClickedDataURL struct {
	Frame
	Data         string `json:"data"`
	DownloadName string `json:"downloadName"`
}

// RendererEvent is opaque renderer-to-host passthrough. Framed is false on
// the wire for these; the host relays Message without interpreting it.
type RendererEvent struct {
	Frame
	RendererID string `json:"rendererId"`
	Message    any    `json:"message"`
}

// ClickedMarkdown reports a click on a markdown preview.
type ClickedMarkdown struct {
	Frame
	CellID   string `json:"cellId"`
	CtrlKey  bool   `json:"ctrlKey"`
	AltKey   bool   `json:"altKey"`
	ShiftKey bool   `json:"shiftKey"`
	MetaKey  bool   `json:"metaKey"`
}

// MarkdownMouseEnter fires when the pointer enters a markdown preview.
type MarkdownMouseEnter struct {
	Frame
	CellID string `json:"cellId"`
}

// MarkdownMouseLeave fires when the pointer leaves a markdown preview.
type MarkdownMouseLeave struct {
	Frame
	CellID string `json:"cellId"`
}

// ToggleMarkdown asks the host to switch a markdown cell into editing.
type ToggleMarkdown struct {
	Frame
	CellID string `json:"cellId"`
}

// CellDragStart begins a preview-driven cell drag.
type CellDragStart struct {
	Frame
	CellID      string  `json:"cellId"`
	DragOffsetY float64 `json:"dragOffsetY"`
}

// CellDrag reports drag movement.
type CellDrag struct {
	Frame
	CellID      string  `json:"cellId"`
	DragOffsetY float64 `json:"dragOffsetY"`
}

// CellDrop completes a drag.
type CellDrop struct {
	Frame
	CellID      string  `json:"cellId"`
	CtrlKey     bool    `json:"ctrlKey"`
	AltKey      bool    `json:"altKey"`
	DragOffsetY float64 `json:"dragOffsetY"`
}

// CellDragEnd cancels or finishes a drag without a drop target.
type CellDragEnd struct {
	Frame
	CellID string `json:"cellId"`
}

// InitializedMarkdown acknowledges a bulk InitializeMarkdown round trip.
type InitializedMarkdown struct {
	Frame
}

func (Initialized) fromSurface()         {}
func (Dimension) fromSurface()           {}
func (MouseEnter) fromSurface()          {}
func (MouseLeave) fromSurface()          {}
func (ScrollWheel) fromSurface()         {}
func (ScrollAck) fromSurface()           {}
func (FocusEditor) fromSurface()         {}
func (ClickedLink) fromSurface()         {}
func (ClickedDataURL) fromSurface()      {}
func (RendererEvent) fromSurface()       {}
func (ClickedMarkdown) fromSurface()     {}
func (MarkdownMouseEnter) fromSurface()  {}
func (MarkdownMouseLeave) fromSurface()  {}
func (ToggleMarkdown) fromSurface()      {}
func (CellDragStart) fromSurface()       {}
func (CellDrag) fromSurface()            {}
func (CellDrop) fromSurface()            {}
func (CellDragEnd) fromSurface()         {}
func (InitializedMarkdown) fromSurface() {}

func (Initialized) Kind() string         { return KindInitialized }
func (Dimension) Kind() string           { return KindDimension }
func (MouseEnter) Kind() string          { return KindMouseEnter }
func (MouseLeave) Kind() string          { return KindMouseLeave }
func (ScrollWheel) Kind() string         { return KindScrollWheel }
func (ScrollAck) Kind() string           { return KindScrollAck }
func (FocusEditor) Kind() string         { return KindFocusEditor }
func (ClickedLink) Kind() string         { return KindClickedLink }
func (ClickedDataURL) Kind() string      { return KindClickedDataURL }
func (RendererEvent) Kind() string       { return KindRendererEvent }
func (ClickedMarkdown) Kind() string     { return KindClickedMarkdown }
func (MarkdownMouseEnter) Kind() string  { return KindMarkdownMouseEnter }
func (MarkdownMouseLeave) Kind() string  { return KindMarkdownMouseLeave }
func (ToggleMarkdown) Kind() string      { return KindToggleMarkdown }
func (CellDragStart) Kind() string       { return KindCellDragStart }
func (CellDrag) Kind() string            { return KindCellDrag }
func (CellDrop) Kind() string            { return KindCellDrop }
func (CellDragEnd) Kind() string         { return KindCellDragEnd }
func (InitializedMarkdown) Kind() string { return KindInitializedMarkdown }
