package protocol

// ToSurface is implemented by every host-originated message. The set is
// closed; the unexported method keeps third parties from adding shapes.
type ToSurface interface {
	toSurface()
	Kind() string
}

// Host → surface message type tags.
const (
	KindCreateOutput       = "html"
	KindClearAll           = "clear"
	KindClearOutput        = "clearOutput"
	KindHideOutput         = "hideOutput"
	KindShowOutput         = "showOutput"
	KindViewScroll         = "view-scroll"
	KindUpdatePreloads     = "preload"
	KindDecorations        = "decorations"
	KindRendererMessage    = "customRendererMessage"
	KindCreateMarkdown     = "createMarkdownPreview"
	KindShowMarkdown       = "showMarkdownPreview"
	KindHideMarkdown       = "hideMarkdownPreviews"
	KindUnhideMarkdown     = "unhideMarkdownPreviews"
	KindDeleteMarkdown     = "deleteMarkdownPreviews"
	KindSelectMarkdown     = "updateSelectedMarkdownPreviews"
	KindInitializeMarkdown = "initializeMarkdownPreviews"
)

// ContentType discriminates the two creation payload variants.
type ContentType string

const (
	// ContentHTML embeds markup directly; no preload dependency.
	ContentHTML ContentType = "html"
	// ContentExtension carries a MIME-typed payload handled by a renderer
	// script inside the surface.
	ContentExtension ContentType = "extension"
)

// CreationContent is the variant payload of a CreateOutput message.
// Exactly one of HTML or the extension fields is populated, selected by
// ContentType.
type CreationContent struct {
	ContentType ContentType `json:"contentType"`
	HTML        string      `json:"htmlContent,omitempty"`
	MimeType    string      `json:"mimeType,omitempty"`
	Value       []byte      `json:"valueBytes,omitempty"`
	Metadata    any         `json:"metadata,omitempty"`
}

// PreloadResource pairs an original resource URI with its
// surface-addressable transform.
type PreloadResource struct {
	OriginalURI string `json:"originalUri"`
	URI         string `json:"uri"`
}

// CreateOutput instructs the surface to build a new output inset.
type CreateOutput struct {
	Type             string            `json:"type"`
	CellID           string            `json:"cellId"`
	OutputID         string            `json:"outputId"`
	CellTop          float64           `json:"cellTop"`
	Top              float64           `json:"top"`
	Left             float64           `json:"left"`
	Content          CreationContent   `json:"content"`
	RendererID       string            `json:"rendererId,omitempty"`
	RequiredPreloads []PreloadResource `json:"requiredPreloads,omitempty"`
	InitiallyHidden  bool              `json:"initiallyHidden"`
}

// ClearAll wipes every inset from the surface in one shot.
type ClearAll struct {
	Type string `json:"type"`
}

// ClearOutput removes a single output. CellURI and RendererID let the
// surface route cleanup to the correct in-page script context.
type ClearOutput struct {
	Type       string `json:"type"`
	OutputID   string `json:"outputId"`
	CellURI    string `json:"cellUri"`
	RendererID string `json:"rendererId,omitempty"`
}

// HideOutput hides an output without destroying its rendered content.
type HideOutput struct {
	Type     string `json:"type"`
	OutputID string `json:"outputId"`
	CellURI  string `json:"cellUri"`
}

// ShowOutput re-reveals a cached output at a new position.
type ShowOutput struct {
	Type     string  `json:"type"`
	CellID   string  `json:"cellId"`
	OutputID string  `json:"outputId"`
	CellTop  float64 `json:"cellTop"`
	Top      float64 `json:"top"`
}

// ScrollWidget is one repositioned output inside a ViewScroll batch.
type ScrollWidget struct {
	OutputID string  `json:"outputId"`
	CellTop  float64 `json:"cellTop"`
	Top      float64 `json:"top"`
}

// ScrollPreview is one repositioned markdown preview inside a ViewScroll
// batch.
type ScrollPreview struct {
	CellID string  `json:"cellId"`
	Top    float64 `json:"top"`
}

// ViewScroll repositions many insets at once. Version is strictly
// increasing across the session so the surface can discard stale batches
// delivered out of order.
type ViewScroll struct {
	Type         string          `json:"type"`
	Version      uint64          `json:"version"`
	ForceDisplay bool            `json:"forceDisplay"`
	Widgets      []ScrollWidget  `json:"widgets"`
	Previews     []ScrollPreview `json:"markdownPreviews,omitempty"`
}

// UpdatePreloads pushes resources the surface must load before the owning
// renderer or kernel can execute.
type UpdatePreloads struct {
	Type      string            `json:"type"`
	Resources []PreloadResource `json:"resources"`
}

// Decorations applies class-name deltas to a cell's surface container.
type Decorations struct {
	Type    string   `json:"type"`
	CellID  string   `json:"cellId"`
	Added   []string `json:"addedClassNames"`
	Removed []string `json:"removedClassNames"`
}

// RendererMessage is opaque passthrough addressed to one renderer's script
// context. The host never interprets Message.
type RendererMessage struct {
	Type       string `json:"type"`
	RendererID string `json:"rendererId"`
	Message    any    `json:"message"`
}

// CreateMarkdownPreview creates a preview inset for a cell.
type CreateMarkdownPreview struct {
	Type    string  `json:"type"`
	CellID  string  `json:"cellId"`
	Handle  int64   `json:"handle"`
	Content string  `json:"content"`
	Top     float64 `json:"top"`
}

// ShowMarkdownPreview reveals (and optionally refreshes) a preview.
// Content is nil when the surface already holds the current version and
// only visibility or position changed.
type ShowMarkdownPreview struct {
	Type    string  `json:"type"`
	CellID  string  `json:"cellId"`
	Handle  int64   `json:"handle"`
	Content *string `json:"content,omitempty"`
	Top     float64 `json:"top"`
}

// HideMarkdownPreviews hides the listed previews.
type HideMarkdownPreviews struct {
	Type    string   `json:"type"`
	CellIDs []string `json:"cellIds"`
}

// UnhideMarkdownPreviews re-reveals previously hidden previews.
type UnhideMarkdownPreviews struct {
	Type    string   `json:"type"`
	CellIDs []string `json:"cellIds"`
}

// DeleteMarkdownPreviews destroys the listed previews.
type DeleteMarkdownPreviews struct {
	Type    string   `json:"type"`
	CellIDs []string `json:"cellIds"`
}

// SelectMarkdownPreviews updates which previews render as selected.
type SelectMarkdownPreviews struct {
	Type    string   `json:"type"`
	CellIDs []string `json:"selectedCellIds"`
}

// InitializeMarkdownCell seeds one preview during bulk initialization.
type InitializeMarkdownCell struct {
	CellID  string  `json:"cellId"`
	Handle  int64   `json:"handle"`
	Content string  `json:"content"`
	Offset  float64 `json:"offset"`
}

// InitializeMarkdown registers every preview in one round trip. The surface
// acknowledges with InitializedMarkdown once all previews exist.
type InitializeMarkdown struct {
	Type  string                   `json:"type"`
	Cells []InitializeMarkdownCell `json:"cells"`
}

func (CreateOutput) toSurface()           {}
func (ClearAll) toSurface()               {}
func (ClearOutput) toSurface()            {}
func (HideOutput) toSurface()             {}
func (ShowOutput) toSurface()             {}
func (ViewScroll) toSurface()             {}
func (UpdatePreloads) toSurface()         {}
func (Decorations) toSurface()            {}
func (RendererMessage) toSurface()        {}
func (CreateMarkdownPreview) toSurface()  {}
func (ShowMarkdownPreview) toSurface()    {}
func (HideMarkdownPreviews) toSurface()   {}
func (UnhideMarkdownPreviews) toSurface() {}
func (DeleteMarkdownPreviews) toSurface() {}
func (SelectMarkdownPreviews) toSurface() {}
func (InitializeMarkdown) toSurface()     {}

func (CreateOutput) Kind() string           { return KindCreateOutput }
func (ClearAll) Kind() string               { return KindClearAll }
func (ClearOutput) Kind() string            { return KindClearOutput }
func (HideOutput) Kind() string             { return KindHideOutput }
func (ShowOutput) Kind() string             { return KindShowOutput }
func (ViewScroll) Kind() string             { return KindViewScroll }
func (UpdatePreloads) Kind() string         { return KindUpdatePreloads }
func (Decorations) Kind() string            { return KindDecorations }
func (RendererMessage) Kind() string        { return KindRendererMessage }
func (CreateMarkdownPreview) Kind() string  { return KindCreateMarkdown }
func (ShowMarkdownPreview) Kind() string    { return KindShowMarkdown }
func (HideMarkdownPreviews) Kind() string   { return KindHideMarkdown }
func (UnhideMarkdownPreviews) Kind() string { return KindUnhideMarkdown }
func (DeleteMarkdownPreviews) Kind() string { return KindDeleteMarkdown }
func (SelectMarkdownPreviews) Kind() string { return KindSelectMarkdown }
func (InitializeMarkdown) Kind() string     { return KindInitializeMarkdown }
