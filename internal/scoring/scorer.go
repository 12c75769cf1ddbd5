// Package scoring fuses task performance with motion and face metrics into
// the final screening assessment. The output is a heuristic screening score,
// not a diagnosis.
package scoring

import (
	"math"

	"recognicam-go/internal/config"
	"recognicam-go/internal/models"
)

// Scorer computes assessment results. It is a pure function of its inputs;
// no state is retained across calls.
type Scorer struct {
	weights config.ScoringConfig
	catalog *models.TaskCatalog
}

// NewScorer creates a scorer with the given weights. The catalog may be nil;
// it only enriches marker descriptions.
func NewScorer(weights config.ScoringConfig, catalog *models.TaskCatalog) *Scorer {
	return &Scorer{weights: weights, catalog: catalog}
}

// Score combines one task's performance summary with the final metric
// snapshots into an AssessmentResult. Missing or degenerate inputs fall back
// to neutral values; this never fails and never produces NaN or out-of-range
// scores.
func (s *Scorer) Score(perf *models.TaskPerformanceSummary, face models.FaceMetrics, motion models.MotionMetrics, taskDurationSeconds float64) models.AssessmentResult {
	if perf == nil {
		perf = &models.TaskPerformanceSummary{}
	}

	p := derivePerformance(perf)

	attention := s.attentionScore(p, face)
	hyperactivity := s.hyperactivityScore(motion, face)
	impulsivity := s.impulsivityScore(p)

	wo := s.weights.Overall
	overall := clamp100(wo.Attention*attention + wo.Hyperactivity*hyperactivity + wo.Impulsivity*impulsivity)

	confidence := confidenceLevel(perf, face, motion, taskDurationSeconds)

	return models.AssessmentResult{
		ADHDProbabilityScore: overall,
		ConfidenceLevel:      confidence,
		AttentionScore:       attention,
		HyperactivityScore:   hyperactivity,
		ImpulsivityScore:     impulsivity,
		BehavioralMarkers:    s.buildMarkers(perf, p, face, motion, taskDurationSeconds),
	}
}

// derived holds the normalized performance terms, each in [0,1].
type derived struct {
	accuracy       float64
	missRate       float64
	rtVariability  float64 // raw coefficient of variation
	rtVarNorm      float64
	commissionRate float64
	prematureRate  float64
	fastErrorSkew  float64
}

func derivePerformance(perf *models.TaskPerformanceSummary) derived {
	var d derived

	total := perf.TotalResponses()
	if total > 0 {
		d.accuracy = clamp01(float64(perf.CorrectResponses) / float64(total))
	} else {
		// No responses recorded: neutral accuracy rather than a fault.
		d.accuracy = 0.5
	}

	targets := perf.CorrectResponses + perf.MissedResponses
	if targets > 0 {
		d.missRate = clamp01(float64(perf.MissedResponses) / float64(targets))
	}

	acted := perf.CorrectResponses + perf.IncorrectResponses
	if acted > 0 {
		d.commissionRate = clamp01(float64(perf.IncorrectResponses) / float64(acted))
	}

	if total > 0 {
		d.prematureRate = clamp01(float64(perf.PrematureResponses) / float64(total))
	}

	d.rtVariability = coefficientOfVariation(perf.ResponseTimes)
	// A CV of 0.6 is already highly erratic responding.
	d.rtVarNorm = clamp01(d.rtVariability / 0.6)

	// Skew toward fast responding matters most when errors accompany it.
	errRate := 0.0
	if acted > 0 {
		errRate = float64(perf.IncorrectResponses) / float64(acted)
	}
	d.fastErrorSkew = clamp01(fastFraction(perf.ResponseTimes, 0.7) * (0.5 + errRate))

	return d
}

func (s *Scorer) attentionScore(p derived, face models.FaceMetrics) float64 {
	w := s.weights.Attention
	return clamp100(
		w.Inaccuracy*100*(1-p.accuracy) +
			w.MissRate*100*p.missRate +
			w.RTVariability*100*p.rtVarNorm +
			w.SustainedLoss*(100-face.SustainedAttentionScore) +
			w.Distractibility*face.DistractibilityIndex)
}

func (s *Scorer) hyperactivityScore(motion models.MotionMetrics, face models.FaceMetrics) float64 {
	w := s.weights.Hyperactivity
	return clamp100(
		w.Restlessness*motion.Restlessness +
			w.GeneralMovement*motion.GeneralMovementScore +
			w.Fidgeting*motion.FidgetingScore +
			w.FacialMovement*face.FacialMovementScore)
}

func (s *Scorer) impulsivityScore(p derived) float64 {
	w := s.weights.Impulsivity
	return clamp100(100 * (w.CommissionRate*p.commissionRate +
		w.PrematureRate*p.prematureRate +
		w.FastErrorSkew*p.fastErrorSkew))
}

// confidenceLevel estimates how much the score can be trusted, from signal
// coverage rather than from the score itself. Low coverage lowers confidence;
// it never silently degrades the probability score. Bounded to [5,95]; this
// engine is never certain either way.
func confidenceLevel(perf *models.TaskPerformanceSummary, face models.FaceMetrics, motion models.MotionMetrics, taskDurationSeconds float64) float64 {
	faceCoverage := clamp01(face.FaceVisiblePercentage / 100)

	motionCoverage := 0.0
	if taskDurationSeconds > 0 {
		// At least ~10 samples/second of retained motion data for full
		// credit; the rolling buffer bounds this for long tasks.
		expected := math.Min(taskDurationSeconds*10, 100)
		motionCoverage = clamp01(float64(motion.SampleCount) / expected)
	}

	durationAdequacy := clamp01(taskDurationSeconds / 30)
	responseAdequacy := clamp01(float64(perf.TotalResponses()) / 10)

	confidence := 100 * (0.30*faceCoverage +
		0.25*motionCoverage +
		0.25*durationAdequacy +
		0.20*responseAdequacy)

	if confidence < 5 {
		return 5
	}
	if confidence > 95 {
		return 95
	}
	return confidence
}
