package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recognicam-go/internal/config"
	"recognicam-go/internal/models"
)

func newTestScorer(catalog *models.TaskCatalog) *Scorer {
	return NewScorer(config.Default().Scoring, catalog)
}

func assertResultBounded(t *testing.T, r models.AssessmentResult) {
	t.Helper()
	for name, v := range map[string]float64{
		"adhd":          r.ADHDProbabilityScore,
		"attention":     r.AttentionScore,
		"hyperactivity": r.HyperactivityScore,
		"impulsivity":   r.ImpulsivityScore,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 100.0, name)
	}
	assert.GreaterOrEqual(t, r.ConfidenceLevel, 5.0)
	assert.LessOrEqual(t, r.ConfidenceLevel, 95.0)
}

func TestScoreWithNoDataAtAll(t *testing.T) {
	s := newTestScorer(nil)
	r := s.Score(nil, models.FaceMetrics{}, models.MotionMetrics{}, 0)

	assertResultBounded(t, r)
	assert.Equal(t, 5.0, r.ConfidenceLevel, "zero coverage pins confidence at the floor")
	assert.Len(t, r.BehavioralMarkers, 13)
	// Zero responses read as neutral accuracy, not as total failure.
	assert.Less(t, r.AttentionScore, 50.0)
	assert.Zero(t, r.ImpulsivityScore)
	assert.Zero(t, r.HyperactivityScore)
}

func TestScoreBoundedUnderExtremeInputs(t *testing.T) {
	s := newTestScorer(nil)
	perf := &models.TaskPerformanceSummary{
		TaskType:           "go_no_go",
		IncorrectResponses: 20,
		MissedResponses:    20,
		PrematureResponses: 10,
		ResponseTimes:      []float64{50, 900, 60, 850, 55, 870},
	}
	face := models.FaceMetrics{
		SustainedAttentionScore: 0,
		DistractibilityIndex:    100,
		FacialMovementScore:     100,
		FaceVisiblePercentage:   100,
		LookAwayCount:           50,
		BlinkRate:               80,
	}
	motion := models.MotionMetrics{
		FidgetingScore:       100,
		GeneralMovementScore: 100,
		Restlessness:         100,
		MovementIntensity:    100,
		DirectionChanges:     200,
		SuddenMovements:      60,
		SampleCount:          600,
	}

	r := s.Score(perf, face, motion, 120)
	assertResultBounded(t, r)
	assert.Greater(t, r.ADHDProbabilityScore, 60.0)
	assert.Greater(t, r.HyperactivityScore, 90.0)
}

func TestNeutralAccuracyFallback(t *testing.T) {
	s := newTestScorer(nil)
	calmFace := models.FaceMetrics{SustainedAttentionScore: 100}

	empty := s.Score(&models.TaskPerformanceSummary{}, calmFace, models.MotionMetrics{}, 60)
	perfect := s.Score(&models.TaskPerformanceSummary{CorrectResponses: 10}, calmFace, models.MotionMetrics{}, 60)

	assert.Greater(t, empty.AttentionScore, perfect.AttentionScore,
		"no data must score worse than demonstrated perfect accuracy")
}

func TestImpulsivityFromCommissionsAndPrematures(t *testing.T) {
	s := newTestScorer(nil)

	clean := s.Score(&models.TaskPerformanceSummary{
		CorrectResponses: 10,
		ResponseTimes:    []float64{400, 410, 390, 405},
	}, models.FaceMetrics{}, models.MotionMetrics{}, 60)
	assert.Zero(t, clean.ImpulsivityScore)

	impulsive := s.Score(&models.TaskPerformanceSummary{
		CorrectResponses:   5,
		IncorrectResponses: 5,
		PrematureResponses: 5,
		ResponseTimes:      []float64{120, 130, 125, 600, 620, 610},
	}, models.FaceMetrics{}, models.MotionMetrics{}, 60)
	assert.Greater(t, impulsive.ImpulsivityScore, 30.0)
}

func TestConfidenceTracksCoverage(t *testing.T) {
	s := newTestScorer(nil)

	full := s.Score(&models.TaskPerformanceSummary{CorrectResponses: 12},
		models.FaceMetrics{FaceVisiblePercentage: 100},
		models.MotionMetrics{SampleCount: 120}, 60)
	assert.Equal(t, 95.0, full.ConfidenceLevel, "full coverage hits the ceiling")

	durationOnly := s.Score(&models.TaskPerformanceSummary{},
		models.FaceMetrics{}, models.MotionMetrics{}, 60)
	assert.InDelta(t, 25, durationOnly.ConfidenceLevel, 0.001)
}

func TestMarkersCarryTaskProfileNotes(t *testing.T) {
	catalog := &models.TaskCatalog{Tasks: []models.TaskProfile{{
		Type: "go_no_go",
		MarkerNotes: map[string]string{
			"commission_rate": "Responses on inhibit trials",
		},
	}}}
	s := newTestScorer(catalog)

	r := s.Score(&models.TaskPerformanceSummary{TaskType: "go_no_go", CorrectResponses: 8, IncorrectResponses: 2},
		models.FaceMetrics{}, models.MotionMetrics{}, 60)

	byName := map[string]models.BehavioralMarker{}
	for _, m := range r.BehavioralMarkers {
		byName[m.Name] = m
	}
	require.Contains(t, byName, "commission_rate")
	assert.Equal(t, "Responses on inhibit trials", byName["commission_rate"].Description)
	assert.InDelta(t, 0.2, byName["commission_rate"].Value, 0.001)

	// Unknown task types fall back to the stock text.
	r = s.Score(&models.TaskPerformanceSummary{TaskType: "mystery"},
		models.FaceMetrics{}, models.MotionMetrics{}, 60)
	for _, m := range r.BehavioralMarkers {
		if m.Name == "commission_rate" {
			assert.NotEqual(t, "Responses on inhibit trials", m.Description)
		}
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Zero(t, coefficientOfVariation(nil))
	assert.Zero(t, coefficientOfVariation([]float64{400}))
	assert.Zero(t, coefficientOfVariation([]float64{400, 400, 400}))
	assert.InDelta(t, 0.4714, coefficientOfVariation([]float64{100, 200}), 0.001)
}

func TestFastFraction(t *testing.T) {
	assert.Zero(t, fastFraction(nil, 0.7))
	assert.InDelta(t, 1.0/3.0, fastFraction([]float64{50, 100, 150}, 0.7), 0.001)
}
