package ws

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inkcell/surface/internal/infrastructure/monitoring"
	"github.com/inkcell/surface/internal/shared/utils"
	"github.com/inkcell/surface/internal/transport/middleware"
)

// gzipThreshold is the smallest payload worth compressing.
const gzipThreshold = 1024

var hasher = utils.DefaultHasher()

// ServeResource serves a file the surface requests for a preloaded script
// or renderer asset. Paths under the bundled asset root are always
// servable; anything else must fall under a resource root granted through
// a preload request for this session.
func (h *Handler) ServeResource(c *gin.Context) {
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}
	sess, _, _, ok := h.lookup(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}

	path := filepath.Clean(c.Param("path"))
	if !strings.HasPrefix(path, "/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "relative path"})
		return
	}
	if !h.authorized(sess.Preloads(), path) {
		c.JSON(http.StatusForbidden, gin.H{"error": "resource outside granted roots"})
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}

	tag := hasher.ETag(data)
	if c.GetHeader("If-None-Match") == tag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("ETag", tag)
	h.serveCompressible(c, mimetype.Detect(data).String(), data)
}

type preloadAuthorizer interface {
	Authorized(uri string) bool
}

func (h *Handler) authorized(preloads preloadAuthorizer, path string) bool {
	// The prefix must end at a separator so a sibling such as
	// /srv/assets-evil is not covered by root /srv/assets.
	if h.root != "" && (path == h.root || strings.HasPrefix(path, h.root+"/")) {
		return true
	}
	return preloads.Authorized(h.scheme + "://" + strings.TrimPrefix(path, "/"))
}

// serveCompressible writes data, gzip-compressed when the client accepts
// it and the payload is large enough to benefit.
func (h *Handler) serveCompressible(c *gin.Context, contentType string, data []byte) {
	if len(data) >= gzipThreshold && strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
		c.Header("Content-Encoding", "gzip")
		c.Header("Content-Type", contentType)
		c.Status(http.StatusOK)
		zw := gzip.NewWriter(c.Writer)
		_, _ = zw.Write(data)
		_ = zw.Close()
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// Router assembles the surface host's HTTP surface: the served document,
// the event channel, resource serving, health and metrics.
func Router(h *Handler, metrics *monitoring.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
	if metrics != nil {
		r.Use(monitoring.Middleware(metrics))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.sessions.Stats()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/surface/:session", h.ServeDocument)
	r.GET("/channel/:session", h.HandleChannel)
	r.GET("/resources/:session/*path", h.ServeResource)

	return r
}
