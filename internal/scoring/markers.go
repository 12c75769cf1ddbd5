package scoring

import (
	"recognicam-go/internal/models"
)

// markerDef pairs a metric with its reference "typical" value and a fixed
// importance weight. The presentation layer ranks markers by
// significance * (value / threshold); this package only populates them.
type markerDef struct {
	name         string
	threshold    float64
	significance float64
	description  string
}

var markerDefs = []markerDef{
	{"restlessness", 30, 0.80, "Share of task time spent in motion above the meaningful-movement floor"},
	{"fidgeting", 25, 0.90, "Share of restless time showing repetitive small-amplitude motion patterns"},
	{"sudden_movements", 5, 0.50, "Count of abrupt high-magnitude movement spikes"},
	{"direction_changes", 20, 0.50, "Count of debounced movement direction reversals"},
	{"look_away_rate", 4, 0.80, "Look-away episodes per minute"},
	{"blink_rate", 20, 0.40, "Blinks per minute"},
	{"distractibility", 35, 0.90, "Weighted index of attention lapses and rapid behavioral shifts"},
	{"attention_loss", 40, 0.85, "Inverse of the sustained-attention score"},
	{"response_variability", 0.3, 0.85, "Coefficient of variation of response times"},
	{"miss_rate", 0.15, 0.80, "Fraction of targets not responded to"},
	{"commission_rate", 0.15, 0.85, "Fraction of responses given to non-targets"},
	{"premature_responses", 2, 0.70, "Responses issued before the stimulus resolved"},
	{"emotion_change_rate", 6, 0.40, "Debounced expression-label changes per minute"},
}

// buildMarkers emits one marker per tracked metric. Task profiles may
// override the stock description text.
func (s *Scorer) buildMarkers(perf *models.TaskPerformanceSummary, p derived, face models.FaceMetrics, motion models.MotionMetrics, taskDurationSeconds float64) []models.BehavioralMarker {
	minutes := taskDurationSeconds / 60
	perMinute := func(count int) float64 {
		if minutes <= 0 {
			return 0
		}
		return float64(count) / minutes
	}

	values := map[string]float64{
		"restlessness":         motion.Restlessness,
		"fidgeting":            motion.FidgetingScore,
		"sudden_movements":     float64(motion.SuddenMovements),
		"direction_changes":    float64(motion.DirectionChanges),
		"look_away_rate":       perMinute(face.LookAwayCount),
		"blink_rate":           face.BlinkRate,
		"distractibility":      face.DistractibilityIndex,
		"attention_loss":       100 - face.SustainedAttentionScore,
		"response_variability": p.rtVariability,
		"miss_rate":            p.missRate,
		"commission_rate":      p.commissionRate,
		"premature_responses":  float64(perf.PrematureResponses),
		"emotion_change_rate":  perMinute(face.EmotionChanges),
	}

	var profile *models.TaskProfile
	if s.catalog != nil {
		profile = s.catalog.Profile(perf.TaskType)
	}

	markers := make([]models.BehavioralMarker, 0, len(markerDefs))
	for _, def := range markerDefs {
		desc := def.description
		if profile != nil {
			if note, ok := profile.MarkerNotes[def.name]; ok {
				desc = note
			}
		}
		markers = append(markers, models.BehavioralMarker{
			Name:         def.name,
			Value:        values[def.name],
			Threshold:    def.threshold,
			Significance: def.significance,
			Description:  desc,
		})
	}
	return markers
}
