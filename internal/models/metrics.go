package models

// MotionMetrics is an immutable snapshot of the motion analyzer's state.
// Scores are bounded 0-100; DirectionChanges and SuddenMovements are raw
// debounced counters with hard caps.
type MotionMetrics struct {
	FidgetingScore       float64 `json:"fidgetingScore"`
	GeneralMovementScore float64 `json:"generalMovementScore"`
	DirectionChanges     int     `json:"directionChanges"`
	SuddenMovements      int     `json:"suddenMovements"`
	MovementIntensity    float64 `json:"movementIntensity"`
	Restlessness         float64 `json:"restlessness"`
	SampleCount          int     `json:"sampleCount"`
}

// FaceMetrics is an immutable snapshot of the face analyzer's state.
// Durations are milliseconds, percentages bounded 0-100.
// AttentionDurationMs is always elapsed minus look-away time and never negative.
type FaceMetrics struct {
	LookAwayCount           int     `json:"lookAwayCount"`
	AttentionDurationMs     float64 `json:"attentionDurationMs"`
	TotalLookAwayTimeMs     float64 `json:"totalLookAwayTimeMs"`
	AverageLookAwayMs       float64 `json:"averageLookAwayMs"`
	BlinkCount              int     `json:"blinkCount"`
	BlinkRate               float64 `json:"blinkRate"` // blinks per minute
	EmotionChanges          int     `json:"emotionChanges"`
	FaceVisiblePercentage   float64 `json:"faceVisiblePercentage"`
	SustainedAttentionScore float64 `json:"sustainedAttentionScore"`
	DistractibilityIndex    float64 `json:"distractibilityIndex"`
	FacialMovementScore     float64 `json:"facialMovementScore"`
	FrameCount              int     `json:"frameCount"`
}

// MetricSnapshot pairs both analyzers' current metrics at one poll instant.
// The snapshot poller appends these to a bounded per-session history.
type MetricSnapshot struct {
	Timestamp float64       `json:"timestamp"`
	Motion    MotionMetrics `json:"motion"`
	Face      FaceMetrics   `json:"face"`
}
