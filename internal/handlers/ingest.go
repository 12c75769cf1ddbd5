package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recognicam-go/internal/models"
	"recognicam-go/internal/session"
)

// IngestHandler accepts the raw sensor and face-frame streams. These
// endpoints sit on the hot path: they bind, hand off to the analyzer, and
// return. Malformed payloads are the caller's problem (400); they never
// disturb analyzer state.
type IngestHandler struct {
	log      *zap.Logger
	sessions *session.Manager
}

func NewIngestHandler(log *zap.Logger, sessions *session.Manager) *IngestHandler {
	return &IngestHandler{log: log, sessions: sessions}
}

// Motion ingests one accelerometer sample.
func (h *IngestHandler) Motion(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	var sample models.AccelSample
	if err := c.ShouldBindJSON(&sample); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sample"})
		return
	}

	s.Motion.IngestAccel(sample)
	c.Status(http.StatusAccepted)
}

// Gyro ingests one gyroscope sample.
func (h *IngestHandler) Gyro(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	var sample models.GyroSample
	if err := c.ShouldBindJSON(&sample); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sample"})
		return
	}

	s.Motion.IngestGyro(sample)
	c.Status(http.StatusAccepted)
}

// Face ingests one face-frame observation. A payload with faceFound=false is
// the explicit "no face" signal; the analyzer treats detector failures the
// same way.
func (h *IngestHandler) Face(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	var obs models.FaceFrameObservation
	if err := c.ShouldBindJSON(&obs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid observation"})
		return
	}

	s.Face.Ingest(obs)
	c.Status(http.StatusAccepted)
}
