// internal/handlers/metrics.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recognicam-go/internal/models"
	"recognicam-go/internal/session"
)

// MetricsHandler serves analyzer snapshot queries.
type MetricsHandler struct {
	log      *zap.Logger
	sessions *session.Manager
}

func NewMetricsHandler(log *zap.Logger, sessions *session.Manager) *MetricsHandler {
	return &MetricsHandler{log: log, sessions: sessions}
}

// Current returns the live metric snapshot of both analyzers. Safe to call
// at any rate; snapshots are non-destructive.
func (h *MetricsHandler) Current(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"motion": s.Motion.CurrentMetrics(),
		"face":   s.Face.CurrentMetrics(),
	})
}

// Final returns the end-of-task snapshots, intended for use after stop.
func (h *MetricsHandler) Final(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"motion": s.Motion.FinalMetrics(),
		"face":   s.Face.FinalMetrics(),
	})
}

// History returns the poller's snapshot history for live charting.
func (h *MetricsHandler) History(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	snaps := s.Snapshots()
	if snaps == nil {
		snaps = []models.MetricSnapshot{}
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snaps})
}
