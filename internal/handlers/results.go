// internal/handlers/results.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"recognicam-go/internal/config"
	"recognicam-go/internal/repository"
)

// ResultsHandler serves stored screening results to the presentation layer.
type ResultsHandler struct {
	log *zap.Logger
}

func NewResultsHandler(log *zap.Logger) *ResultsHandler {
	return &ResultsHandler{log: log}
}

// Latest returns the most recent result for a task type.
func (h *ResultsHandler) Latest(c *gin.Context) {
	taskType := c.Query("task")
	if taskType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing task query parameter"})
		return
	}

	result, err := repository.LatestByTaskType(taskType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No results for task type"})
			return
		}
		h.log.Error("Failed to load latest result", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load result"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Recent returns the newest results across all task types.
func (h *ResultsHandler) Recent(c *gin.Context) {
	limit := 20
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && v > 0 && v <= 200 {
		limit = v
	}

	results, err := repository.RecentResults(limit)
	if err != nil {
		h.log.Error("Failed to load recent results", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load results"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// ClearAll deletes every stored result. Destructive, so it requires the
// operator admin key (stored as a bcrypt hash in config).
func (h *ResultsHandler) ClearAll(c *gin.Context) {
	hash := config.Conf.Server.AdminKeyHash
	if hash == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin key not configured"})
		return
	}

	key := c.GetHeader("X-Admin-Key")
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
		h.log.Warn("Rejected clear-all with bad admin key", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid admin key"})
		return
	}

	if err := repository.ClearAll(); err != nil {
		h.log.Error("Failed to clear results", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear results"})
		return
	}

	h.log.Info("All screening results cleared", zap.String("client_ip", c.ClientIP()))
	c.Status(http.StatusNoContent)
}
