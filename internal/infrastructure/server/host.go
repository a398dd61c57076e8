package server

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/inkcell/surface/internal/inset"
	"github.com/inkcell/surface/internal/shared/id"
)

// logHost is the daemon's document-model callback sink. A host embedding
// this package programmatically supplies its own session.Host; the
// standalone daemon records the callbacks for inspection.
type logHost struct {
	logger *zap.Logger
}

func (h *logHost) UpdateOutputHeight(cell inset.CellInfo, handle id.Handle, height float64, first bool) {
	h.logger.Debug("output height",
		zap.String("cell_id", cell.CellID),
		zap.String("handle", handle.String()),
		zap.Float64("height", height),
		zap.Bool("first", first),
	)
}

func (h *logHost) UpdateMarkdownHeight(cellID string, height float64) {
	h.logger.Debug("preview height", zap.String("cell_id", cellID), zap.Float64("height", height))
}

func (h *logHost) SetOutputHovered(handle id.Handle, hovered bool) {
	h.logger.Debug("output hover", zap.String("handle", handle.String()), zap.Bool("hovered", hovered))
}

func (h *logHost) FocusEditor(cellID string, focusNext bool) {
	h.logger.Debug("focus editor", zap.String("cell_id", cellID), zap.Bool("focus_next", focusNext))
}

func (h *logHost) DidScrollWheel(payload any) {
	h.logger.Debug("scroll wheel passthrough")
}

func (h *logHost) DidScrollAck(version uint64) {
	h.logger.Debug("scroll ack", zap.Uint64("version", version))
}

func (h *logHost) OpenLink(href string) {
	h.logger.Info("open link", zap.String("href", href))
}

func (h *logHost) RendererMessage(rendererID string, message any) {
	h.logger.Debug("renderer message", zap.String("renderer_id", rendererID))
}

func (h *logHost) ClickedMarkdownPreview(cellID string, ctrl, alt, shift, meta bool) {
	h.logger.Debug("preview clicked", zap.String("cell_id", cellID))
}

func (h *logHost) SetMarkdownHovered(cellID string, hovered bool) {
	h.logger.Debug("preview hover", zap.String("cell_id", cellID), zap.Bool("hovered", hovered))
}

func (h *logHost) ToggleMarkdownEditing(cellID string) {
	h.logger.Debug("toggle preview editing", zap.String("cell_id", cellID))
}

func (h *logHost) DragStart(cellID string, offsetY float64) {
	h.logger.Debug("cell drag start", zap.String("cell_id", cellID))
}

func (h *logHost) Drag(cellID string, offsetY float64) {}

func (h *logHost) Drop(cellID string, ctrl, alt bool, offsetY float64) {
	h.logger.Debug("cell drop", zap.String("cell_id", cellID))
}

func (h *logHost) DragEnd(cellID string) {
	h.logger.Debug("cell drag end", zap.String("cell_id", cellID))
}

// localFiles saves data-URL downloads under the user's download
// directory without a dialog.
type localFiles struct {
	dir    string
	logger *zap.Logger
}

func newLocalFiles(logger *zap.Logger) *localFiles {
	dir := os.Getenv("SURFACE_DOWNLOAD_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.TempDir()
		}
		dir = filepath.Join(home, "Downloads")
	}
	return &localFiles{dir: dir, logger: logger}
}

func (f *localFiles) PromptSave(defaultName string) (string, bool) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		f.logger.Warn("download dir unavailable", zap.Error(err))
		return "", false
	}
	return filepath.Join(f.dir, filepath.Base(defaultName)), true
}

func (f *localFiles) Write(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func (f *localFiles) Open(path string) {
	f.logger.Info("download saved", zap.String("path", path))
}
