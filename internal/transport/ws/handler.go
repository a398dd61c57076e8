package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/inkcell/surface/internal/infrastructure/monitoring"
	"github.com/inkcell/surface/internal/session"
	"github.com/inkcell/surface/internal/shared/id"
	"github.com/inkcell/surface/internal/shared/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Surface documents are served from this host only
	},
}

// Surface is a document slot the handler serves over HTTP. Attached is
// always true for served surfaces; the document exists once Load ran.
type Surface struct {
	mu   sync.Mutex
	html string
}

// NewSurface creates an empty document slot.
func NewSurface() *Surface {
	return &Surface{}
}

// Attached reports whether the slot can receive a document.
func (s *Surface) Attached() bool { return true }

// Load stores the assembled document for serving.
func (s *Surface) Load(html string) error {
	s.mu.Lock()
	s.html = html
	s.mu.Unlock()
	return nil
}

func (s *Surface) document() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.html
}

// Handler routes surface HTTP and WebSocket traffic to sessions.
type Handler struct {
	sessions *session.Manager
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	scheme   string
	root     string
	frames   *utils.FrameValidator

	mu       sync.Mutex
	bridges  map[id.SessionID]*Bridge
	surfaces map[id.SessionID]*Surface
}

// NewHandler creates a handler backed by the session manager. scheme is
// the resource URI scheme preloads were transformed to; root is the
// directory bundled assets are always servable from.
func NewHandler(sessions *session.Manager, scheme, root string, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   logger,
		metrics:  metrics,
		scheme:   scheme,
		root:     root,
		frames:   utils.DefaultFrameValidator(),
		bridges:  make(map[id.SessionID]*Bridge),
		surfaces: make(map[id.SessionID]*Surface),
	}
}

// Register tracks a session together with its channel bridge and served
// surface.
func (h *Handler) Register(sess *session.Session, bridge *Bridge, surf *Surface) {
	h.sessions.Track(sess)
	h.mu.Lock()
	h.bridges[sess.ID()] = bridge
	h.surfaces[sess.ID()] = surf
	h.mu.Unlock()
}

// Release disposes a session and drops its transport state.
func (h *Handler) Release(sessionID id.SessionID) bool {
	h.mu.Lock()
	delete(h.bridges, sessionID)
	delete(h.surfaces, sessionID)
	h.mu.Unlock()
	return h.sessions.Release(sessionID)
}

// sessionParam extracts and validates the route's session id.
func sessionParam(c *gin.Context) (id.SessionID, bool) {
	raw := c.Param("session")
	if err := utils.ValidateID(raw, "session id"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return id.SessionID(raw), true
}

func (h *Handler) lookup(sessionID id.SessionID) (*session.Session, *Bridge, *Surface, bool) {
	sess, ok := h.sessions.Get(sessionID)
	if !ok {
		return nil, nil, nil, false
	}
	h.mu.Lock()
	bridge := h.bridges[sessionID]
	surf := h.surfaces[sessionID]
	h.mu.Unlock()
	if bridge == nil || surf == nil {
		return nil, nil, nil, false
	}
	return sess, bridge, surf, true
}

// ServeDocument serves a session's assembled surface document.
func (h *Handler) ServeDocument(c *gin.Context) {
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}
	_, _, surf, ok := h.lookup(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	html := surf.document()
	if html == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "document not loaded"})
		return
	}
	h.serveCompressible(c, "text/html; charset=utf-8", []byte(html))
}

// HandleChannel upgrades the surface's event channel. Every frame read is
// handed to the session; a reconnect on a session that already had a
// connection replays the surface's visual state first.
func (h *Handler) HandleChannel(c *gin.Context) {
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}
	sess, bridge, _, ok := h.lookup(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncSurfaceConnections()
		defer h.metrics.DecSurfaceConnections()
	}

	prev := bridge.attach(conn)
	defer bridge.detach(conn)
	if prev != nil {
		_ = prev.Close()
		h.logger.Info("surface reconnected", zap.String("session_id", sessionID.String()))
		if err := sess.HandleReload(c.Request.Context()); err != nil {
			h.logger.Error("reload replay failed", zap.Error(err))
		}
	}

	conn.SetReadLimit(utils.MaxFrameSize)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		if err := h.frames.ValidateFrame(data); err != nil {
			h.logger.Warn("drop invalid frame", zap.Error(err))
			continue
		}
		sess.Receive(data)
	}
}
