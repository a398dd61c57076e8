// Package server assembles the surface host daemon: configuration,
// logging, metrics, renderer discovery, the session manager and the HTTP
// transport.
package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkcell/surface/internal/bundle"
	"github.com/inkcell/surface/internal/infrastructure/config"
	"github.com/inkcell/surface/internal/infrastructure/logging"
	"github.com/inkcell/surface/internal/infrastructure/monitoring"
	"github.com/inkcell/surface/internal/renderer"
	"github.com/inkcell/surface/internal/session"
	"github.com/inkcell/surface/internal/shared/id"
	"github.com/inkcell/surface/internal/transport/ws"
)

// Server wraps the HTTP transport and session dependencies.
type Server struct {
	router    *gin.Engine
	sessions  *session.Manager
	handler   *ws.Handler
	discovery renderer.Discovery
	fetcher   *bundle.Fetcher
	logger    *logging.Logger
	config    *config.Config
	metrics   *monitoring.Metrics
}

// NewServer creates a server instance.
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing surface host",
		zap.String("port", cfg.Server.Port),
		zap.String("manifest", cfg.Surface.ManifestPath),
		zap.String("bootstrap", cfg.Surface.BootstrapURI),
	)

	metrics := monitoring.NewMetrics()

	discovery, err := renderer.LoadManifest(cfg.Surface.ManifestPath)
	if err != nil {
		logger.Warn("Renderer manifest unavailable, starting with none", zap.Error(err))
		discovery = renderer.NewManifestDiscovery(renderer.Manifest{})
	}

	sessions := session.NewManager()
	handler := ws.NewHandler(sessions, cfg.Surface.ResourceScheme, cfg.Surface.ResourceRoot, metrics, logger.Logger)

	s := &Server{
		router:    ws.Router(handler, metrics),
		sessions:  sessions,
		handler:   handler,
		discovery: discovery,
		fetcher:   bundle.NewFetcher(),
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
	}

	s.router.POST("/sessions", s.createSession)
	s.router.DELETE("/sessions/:session", s.deleteSession)

	logger.Info("Surface host initialized")
	return s, nil
}

// createSession spins up a session with a served surface document.
func (s *Server) createSession(c *gin.Context) {
	bridge := ws.NewBridge()
	surf := ws.NewSurface()

	sess, err := session.New(c.Request.Context(), session.Options{
		Surface:       surf,
		Transport:     bridge,
		Host:          &logHost{logger: s.logger.Logger},
		Files:         newLocalFiles(s.logger.Logger),
		Discovery:     s.discovery,
		Transform:     s.transformURI,
		Fetcher:       s.fetcher,
		BootstrapURI:  s.config.Surface.BootstrapURI,
		Styles:        bundle.DefaultStyles(),
		CommandScheme: s.config.Surface.CommandScheme,
		Logger:        s.logger.Logger,
		Metrics:       s.metrics,
	})
	if err != nil {
		s.logger.Error("Failed to create session", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	s.handler.Register(sess, bridge, surf)
	s.logger.ForSession(sess.ID().String()).Info("Session registered")

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID(),
		"document":   "/surface/" + sess.ID().String(),
		"channel":    "/channel/" + sess.ID().String(),
	})
}

func (s *Server) deleteSession(c *gin.Context) {
	sessionID := id.SessionID(c.Param("session"))
	if !s.handler.Release(sessionID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	c.Status(http.StatusNoContent)
}

// transformURI rewrites an original resource URI to the surface-served
// resource scheme.
func (s *Server) transformURI(uri string) string {
	path := strings.TrimPrefix(uri, "file://")
	path = strings.TrimPrefix(path, "/")
	return s.config.Surface.ResourceScheme + "://" + path
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close disposes every live session and flushes logs.
func (s *Server) Close() error {
	s.logger.Info("Shutting down surface host...")
	s.sessions.ReleaseAll()
	s.logger.Sync()
	return nil
}

// Sessions exposes the session manager.
func (s *Server) Sessions() *session.Manager { return s.sessions }
