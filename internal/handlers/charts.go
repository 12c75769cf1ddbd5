package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recognicam-go/internal/repository"
	"recognicam-go/internal/session"
)

// ChartsHandler renders go-echarts pages for a session's live snapshot
// history and for a stored result's score breakdown.
type ChartsHandler struct {
	log      *zap.Logger
	sessions *session.Manager
}

func NewChartsHandler(log *zap.Logger, sessions *session.Manager) *ChartsHandler {
	return &ChartsHandler{log: log, sessions: sessions}
}

// SessionChart renders the polled metric history of a live session.
func (h *ChartsHandler) SessionChart(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Live Screening Metrics",
			Subtitle: s.ID,
		}),
		charts.WithXAxisOpts(opts.XAxis{Type: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Scale: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	restless := make([]opts.LineData, 0)
	sustained := make([]opts.LineData, 0)
	fidget := make([]opts.LineData, 0)
	for _, snap := range s.Snapshots() {
		ts := time.UnixMilli(int64(snap.Timestamp))
		restless = append(restless, opts.LineData{Value: []interface{}{ts, snap.Motion.Restlessness}})
		sustained = append(sustained, opts.LineData{Value: []interface{}{ts, snap.Face.SustainedAttentionScore}})
		fidget = append(fidget, opts.LineData{Value: []interface{}{ts, snap.Motion.FidgetingScore}})
	}

	line.AddSeries("Restlessness", restless)
	line.AddSeries("Sustained Attention", sustained)
	line.AddSeries("Fidgeting", fidget)
	line.SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))

	c.Status(http.StatusOK)
	if err := line.Render(c.Writer); err != nil {
		h.log.Error("Failed to render session chart", zap.Error(err))
	}
}

// ResultChart renders the domain-score breakdown of one stored result.
func (h *ChartsHandler) ResultChart(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid result ID"})
		return
	}

	result, err := repository.GetResult(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown result"})
			return
		}
		h.log.Error("Failed to load result for chart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load result"})
		return
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Screening Score Breakdown",
			Subtitle: result.TaskType,
		}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	bar.SetXAxis([]string{"Overall", "Confidence", "Attention", "Hyperactivity", "Impulsivity"}).
		AddSeries("Scores", []opts.BarData{
			{Value: result.ADHDProbabilityScore},
			{Value: result.ConfidenceLevel},
			{Value: result.AttentionScore},
			{Value: result.HyperactivityScore},
			{Value: result.ImpulsivityScore},
		})

	c.Status(http.StatusOK)
	if err := bar.Render(c.Writer); err != nil {
		h.log.Error("Failed to render result chart", zap.Error(err))
	}
}
