package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recognicam-go/internal/services"
	"recognicam-go/internal/session"
)

// SessionHandler owns screening-session lifecycle endpoints.
type SessionHandler struct {
	log      *zap.Logger
	sessions *session.Manager
	poller   *services.Poller
}

func NewSessionHandler(log *zap.Logger, sessions *session.Manager, poller *services.Poller) *SessionHandler {
	return &SessionHandler{log: log, sessions: sessions, poller: poller}
}

// Create makes a new screening session with fresh analyzers.
func (h *SessionHandler) Create(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{"sessionId": s.ID})
}

// Start begins tracking on both analyzers and starts the snapshot poller.
func (h *SessionHandler) Start(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	s.Motion.StartTracking()
	s.Face.Start()
	h.poller.Start(s)

	h.log.Info("Screening started", zap.String("session_id", s.ID))
	c.Status(http.StatusNoContent)
}

// Stop freezes both analyzers and stops the poller. Idempotent.
func (h *SessionHandler) Stop(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	h.poller.Stop(s.ID)
	s.Motion.StopTracking()
	s.Face.Stop()

	h.log.Info("Screening stopped", zap.String("session_id", s.ID))
	c.Status(http.StatusNoContent)
}

// Reset discards analyzer state so a new attempt starts clean.
func (h *SessionHandler) Reset(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	h.poller.Stop(s.ID)
	s.Motion.ResetTracking()
	s.Face.Reset()

	c.Status(http.StatusNoContent)
}
