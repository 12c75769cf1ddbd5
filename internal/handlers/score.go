package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recognicam-go/internal/models"
	"recognicam-go/internal/repository"
	"recognicam-go/internal/scoring"
	"recognicam-go/internal/services"
	"recognicam-go/internal/session"
)

// ScoreHandler completes a task: it stops tracking, runs the composite
// scorer over the final snapshots, persists the result, and returns it.
type ScoreHandler struct {
	log      *zap.Logger
	sessions *session.Manager
	poller   *services.Poller
	scorer   *scoring.Scorer
}

func NewScoreHandler(log *zap.Logger, sessions *session.Manager, poller *services.Poller, scorer *scoring.Scorer) *ScoreHandler {
	return &ScoreHandler{log: log, sessions: sessions, poller: poller, scorer: scorer}
}

// Score handles POST /sessions/:id/score with a TaskPerformanceSummary body.
func (h *ScoreHandler) Score(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	var perf models.TaskPerformanceSummary
	if err := c.ShouldBindJSON(&perf); err != nil {
		h.log.Warn("Failed to bind performance summary", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid performance summary"})
		return
	}

	// Freeze both analyzers before taking final snapshots. Stop is
	// idempotent, so a client that already stopped loses nothing.
	h.poller.Stop(s.ID)
	s.Motion.StopTracking()
	s.Face.Stop()

	motionFinal := s.Motion.FinalMetrics()
	faceFinal := s.Face.FinalMetrics()

	result := h.scorer.Score(&perf, faceFinal, motionFinal, perf.TaskDurationSeconds)

	record := models.NewScreeningResult(s.ID, &perf, faceFinal, motionFinal, result)
	if err := repository.SaveResult(record); err != nil {
		h.log.Error("Failed to persist screening result", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save result"})
		return
	}

	h.log.Info("Task scored",
		zap.String("session_id", s.ID),
		zap.String("task_type", perf.TaskType),
		zap.Float64("probability", result.ADHDProbabilityScore),
		zap.Float64("confidence", result.ConfidenceLevel),
	)

	c.JSON(http.StatusOK, gin.H{
		"resultId": record.ID,
		"result":   result,
	})
}
