package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// BehavioralMarker is one interpretable signal surfaced in the final report.
// Threshold is a reference "typical" value; the presentation layer ranks
// markers by Significance * (Value / Threshold).
type BehavioralMarker struct {
	Name         string  `json:"name"`
	Value        float64 `json:"value"`
	Threshold    float64 `json:"threshold"`
	Significance float64 `json:"significance"`
	Description  string  `json:"description"`
}

// AssessmentResult is the composite scorer's sole output: one immutable record
// per completed task. All scores are bounded 0-100.
type AssessmentResult struct {
	ADHDProbabilityScore float64            `json:"adhdProbabilityScore"`
	ConfidenceLevel      float64            `json:"confidenceLevel"`
	AttentionScore       float64            `json:"attentionScore"`
	HyperactivityScore   float64            `json:"hyperactivityScore"`
	ImpulsivityScore     float64            `json:"impulsivityScore"`
	BehavioralMarkers    []BehavioralMarker `json:"behavioralMarkers"`
}

// ScreeningResult is the persisted form of an AssessmentResult together with
// the inputs that produced it, owned by the persistence layer once saved.
type ScreeningResult struct {
	ID                   int
	SessionID            string `gorm:"index"`
	TaskType             string `gorm:"index"`
	ADHDProbabilityScore float64
	ConfidenceLevel      float64
	AttentionScore       float64
	HyperactivityScore   float64
	ImpulsivityScore     float64
	FidgetingScore       float64
	Restlessness         float64
	GeneralMovementScore float64
	SustainedAttention   float64
	DistractibilityIndex float64
	FaceVisiblePct       float64
	LookAwayCount        int
	BlinkRate            float64
	CorrectResponses     int
	IncorrectResponses   int
	MissedResponses      int
	AverageResponseMs    float64
	ResponseTimes        pq.Float64Array `gorm:"type:float8[]"`
	TaskDurationSeconds  float64
	Markers              json.RawMessage `gorm:"type:jsonb"`
	CreatedAt            time.Time
}

// NewScreeningResult flattens the scorer output and its inputs into a
// persistable row. Marker serialization failures degrade to an empty list;
// persistence must never fail because of a report detail.
func NewScreeningResult(sessionID string, perf *TaskPerformanceSummary, face FaceMetrics, motion MotionMetrics, result AssessmentResult) *ScreeningResult {
	markers, err := json.Marshal(result.BehavioralMarkers)
	if err != nil {
		markers = json.RawMessage("[]")
	}

	return &ScreeningResult{
		SessionID:            sessionID,
		TaskType:             perf.TaskType,
		ADHDProbabilityScore: result.ADHDProbabilityScore,
		ConfidenceLevel:      result.ConfidenceLevel,
		AttentionScore:       result.AttentionScore,
		HyperactivityScore:   result.HyperactivityScore,
		ImpulsivityScore:     result.ImpulsivityScore,
		FidgetingScore:       motion.FidgetingScore,
		Restlessness:         motion.Restlessness,
		GeneralMovementScore: motion.GeneralMovementScore,
		SustainedAttention:   face.SustainedAttentionScore,
		DistractibilityIndex: face.DistractibilityIndex,
		FaceVisiblePct:       face.FaceVisiblePercentage,
		LookAwayCount:        face.LookAwayCount,
		BlinkRate:            face.BlinkRate,
		CorrectResponses:     perf.CorrectResponses,
		IncorrectResponses:   perf.IncorrectResponses,
		MissedResponses:      perf.MissedResponses,
		AverageResponseMs:    perf.AverageResponseMs,
		ResponseTimes:        pq.Float64Array(perf.ResponseTimes),
		TaskDurationSeconds:  perf.TaskDurationSeconds,
		Markers:              markers,
		CreatedAt:            time.Now(),
	}
}
