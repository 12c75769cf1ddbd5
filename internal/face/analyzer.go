// Package face turns per-frame face-detector output into attention, blink,
// gaze, and expression-variability metrics.
package face

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"recognicam-go/internal/config"
	"recognicam-go/internal/models"
)

// attentionState is the two-state look-away machine.
type attentionState int

const (
	stateAttending attentionState = iota
	stateLookingAway
)

// Analyzer ingests face-detector observations and answers metric snapshot
// queries. Safe for concurrent use; the frame callback and the snapshot
// poller run on different goroutines.
type Analyzer struct {
	mu  sync.Mutex
	cfg config.FaceConfig
	log *zap.Logger

	tracking bool
	stopped  bool

	firstTs float64
	lastTs  float64

	frameCount   int
	visibleCount int

	// Look-away state machine
	state           attentionState
	lookAwayCount   int
	lookAwayStartMs float64
	lookAwayAccumMs float64
	lookAwaySumMs   float64 // closed dwell times, for average recovery
	lookAwayDwells  int

	blinks *blinkDetector

	// Attention-quality running state
	qualitySum    float64
	qualityFrames int
	streak        int
	longestStreak int

	// Emotion/expression variability
	emotion         Emotion
	emotionSet      bool
	lastEmotionMs   float64
	emotionChanges  int
	prevSmile       float64
	prevEyeOpen     float64
	prevObsValid    bool

	// Distractibility events and facial movement
	distractEvents int
	prevCenterX    float64
	prevCenterY    float64
	prevYaw        float64
	prevPitch      float64
	facialMovement float64 // EMA, 0-100
}

// NewAnalyzer creates a face analyzer with the given tuning. A nil logger
// falls back to a no-op logger.
func NewAnalyzer(cfg config.FaceConfig, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{
		cfg:    cfg,
		log:    log,
		blinks: newBlinkDetector(&cfg),
	}
}

// Start begins a fresh tracking run, discarding any previous state.
func (a *Analyzer) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetLocked()
	a.tracking = true
}

// Stop freezes the analyzer. Idempotent; later snapshot queries keep
// returning the frozen state.
func (a *Analyzer) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.tracking {
		return
	}
	a.tracking = false
	a.stopped = true
}

// Reset discards all state.
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetLocked()
}

func (a *Analyzer) resetLocked() {
	a.tracking = false
	a.stopped = false
	a.firstTs = 0
	a.lastTs = 0
	a.frameCount = 0
	a.visibleCount = 0
	a.state = stateAttending
	a.lookAwayCount = 0
	a.lookAwayStartMs = 0
	a.lookAwayAccumMs = 0
	a.lookAwaySumMs = 0
	a.lookAwayDwells = 0
	a.blinks.reset()
	a.qualitySum = 0
	a.qualityFrames = 0
	a.streak = 0
	a.longestStreak = 0
	a.emotion = EmotionNeutral
	a.emotionSet = false
	a.lastEmotionMs = 0
	a.emotionChanges = 0
	a.prevSmile = 0
	a.prevEyeOpen = 0
	a.prevObsValid = false
	a.distractEvents = 0
	a.prevCenterX = 0
	a.prevCenterY = 0
	a.prevYaw = 0
	a.prevPitch = 0
	a.facialMovement = 0
}

// NoFace records a frame in which the detector found no face (or failed
// outright: detector errors are indistinguishable from absence here).
func (a *Analyzer) NoFace(timestamp float64) {
	a.Ingest(models.FaceFrameObservation{Timestamp: timestamp, FaceFound: false})
}

// Ingest processes one detector observation. An undersized face is treated
// identically to no face. Work per call is bounded.
func (a *Analyzer) Ingest(obs models.FaceFrameObservation) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.tracking {
		return
	}
	if obs.Timestamp < a.lastTs {
		// State-machine logic is order-dependent; drop late frames.
		return
	}
	if a.firstTs == 0 {
		a.firstTs = obs.Timestamp
	}
	a.lastTs = obs.Timestamp
	a.frameCount++

	valid := obs.FaceFound &&
		obs.BoxWidth >= a.cfg.MinFaceBoxPx &&
		obs.BoxHeight >= a.cfg.MinFaceBoxPx
	forward := valid &&
		math.Abs(obs.Yaw) <= a.cfg.YawLimitDeg &&
		math.Abs(obs.Pitch) <= a.cfg.PitchLimitDeg

	if valid {
		a.visibleCount++
	}

	a.updateAttentionStateLocked(obs.Timestamp, forward)

	if !valid {
		a.blinks.lostFace()
		a.streak = 0
		a.prevObsValid = false
		return
	}

	avgEye := (obs.LeftEyeOpenProb + obs.RightEyeOpenProb) / 2

	if a.blinks.observe(obs.Timestamp, obs.LeftEyeOpenProb, obs.RightEyeOpenProb) {
		a.distractEvents++
	}

	if forward {
		a.updateQualityLocked(obs, avgEye)
	} else {
		a.streak = 0
	}

	a.updateEmotionLocked(obs, avgEye)
	a.updateMovementLocked(obs)

	a.prevSmile = obs.SmileProb
	a.prevEyeOpen = avgEye
	a.prevCenterX = obs.BoxCenterX
	a.prevCenterY = obs.BoxCenterY
	a.prevYaw = obs.Yaw
	a.prevPitch = obs.Pitch
	a.prevObsValid = true
}

func (a *Analyzer) updateAttentionStateLocked(ts float64, forward bool) {
	switch a.state {
	case stateAttending:
		if !forward {
			a.state = stateLookingAway
			a.lookAwayCount++
			a.lookAwayStartMs = ts
		}
	case stateLookingAway:
		if forward {
			a.state = stateAttending
			dwell := ts - a.lookAwayStartMs
			if dwell > 0 {
				a.lookAwayAccumMs += dwell
				a.lookAwaySumMs += dwell
				a.lookAwayDwells++
			}
		}
	}
}

// updateQualityLocked folds one attending frame into the attention-quality
// estimate: eye openness, head-pose deviation, and a minor expression
// engagement term, each clamped to [0,1].
func (a *Analyzer) updateQualityLocked(obs models.FaceFrameObservation, avgEye float64) {
	yawDev := math.Abs(obs.Yaw) / a.cfg.YawLimitDeg
	pitchDev := math.Abs(obs.Pitch) / a.cfg.PitchLimitDeg
	poseScore := 1 - math.Max(yawDev, pitchDev)
	if poseScore < 0 {
		poseScore = 0
	}

	engagement := 1 - math.Abs(obs.SmileProb-0.5)

	quality := 0.45*clamp01(avgEye) + 0.45*poseScore + 0.10*engagement
	a.qualitySum += clamp01(quality)
	a.qualityFrames++

	a.streak++
	if a.streak > a.longestStreak {
		a.longestStreak = a.streak
	}
}

func (a *Analyzer) updateEmotionLocked(obs models.FaceFrameObservation, avgEye float64) {
	label := classifyEmotion(avgEye, obs.SmileProb, obs.Roll)

	if !a.emotionSet {
		a.emotion = label
		a.emotionSet = true
		a.lastEmotionMs = obs.Timestamp
		return
	}
	if label == a.emotion {
		return
	}

	// A label change counts only with enough elapsed time since the last
	// one and a real probability shift underneath, otherwise near-identical
	// states oscillate the counter.
	delta := math.Abs(obs.SmileProb-a.prevSmile) + math.Abs(avgEye-a.prevEyeOpen)
	if obs.Timestamp-a.lastEmotionMs >= float64(a.cfg.EmotionDebounceMs) &&
		delta >= a.cfg.EmotionMinDelta &&
		a.emotionChanges < a.cfg.MaxEmotionChanges {
		a.emotionChanges++
		a.lastEmotionMs = obs.Timestamp
	}
	a.emotion = label
}

func (a *Analyzer) updateMovementLocked(obs models.FaceFrameObservation) {
	if !a.prevObsValid {
		return
	}

	// Expression jumps and large facial-position jumps are distractibility
	// events; both also feed the facial movement estimate.
	if math.Abs(obs.SmileProb-a.prevSmile) > a.cfg.ExpressionJumpDelta {
		a.distractEvents++
	}

	frameRef := obs.FrameWidth
	if frameRef <= 0 {
		// Frame size unknown: use the face box as the scale reference.
		frameRef = math.Max(obs.BoxWidth*4, 1)
	}
	jump := math.Hypot(obs.BoxCenterX-a.prevCenterX, obs.BoxCenterY-a.prevCenterY)
	if jump > a.cfg.PositionJumpFraction*frameRef {
		a.distractEvents++
	}

	poseDelta := math.Abs(obs.Yaw-a.prevYaw) + math.Abs(obs.Pitch-a.prevPitch)
	moveSample := math.Min(100, poseDelta*2+jump/frameRef*200)
	a.facialMovement = a.facialMovement*0.9 + moveSample*0.1
}

// CurrentMetrics computes a snapshot from the running state. Non-destructive;
// two calls with no intervening ingest are identical.
func (a *Analyzer) CurrentMetrics() models.FaceMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.metricsLocked()
}

// FinalMetrics returns the end-of-task snapshot, identical to CurrentMetrics
// by construction.
func (a *Analyzer) FinalMetrics() models.FaceMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.metricsLocked()
}

func (a *Analyzer) metricsLocked() models.FaceMetrics {
	if a.frameCount == 0 {
		return models.FaceMetrics{}
	}

	elapsed := a.lastTs - a.firstTs

	// Include the open look-away interval without mutating it.
	lookAwayMs := a.lookAwayAccumMs
	if a.state == stateLookingAway && a.lastTs > a.lookAwayStartMs {
		lookAwayMs += a.lastTs - a.lookAwayStartMs
	}
	if lookAwayMs > elapsed {
		lookAwayMs = elapsed
	}
	attentionMs := elapsed - lookAwayMs
	if attentionMs < 0 {
		attentionMs = 0
	}

	avgLookAway := 0.0
	if a.lookAwayDwells > 0 {
		avgLookAway = a.lookAwaySumMs / float64(a.lookAwayDwells)
	}

	visiblePct := clamp100(float64(a.visibleCount) / float64(a.frameCount) * 100)

	blinkRate := 0.0
	if elapsed > 0 {
		blinkRate = float64(a.blinks.count) / (elapsed / 60000.0)
	}

	sustained := 0.0
	if a.qualityFrames > 0 {
		meanQuality := a.qualitySum / float64(a.qualityFrames)
		streakNorm := float64(a.longestStreak) / float64(a.frameCount)
		sustained = clamp100(100 * (0.6*meanQuality + 0.4*streakNorm))
	}

	lookAwaysPerMin := 0.0
	eventsPerMin := 0.0
	if elapsed > 0 {
		minutes := elapsed / 60000.0
		lookAwaysPerMin = float64(a.lookAwayCount) / minutes
		eventsPerMin = float64(a.distractEvents) / minutes
	}
	distractibility := clamp100(
		0.4*(100-sustained) +
			0.3*math.Min(100, eventsPerMin*10) +
			0.3*math.Min(100, lookAwaysPerMin*10))

	return models.FaceMetrics{
		LookAwayCount:           a.lookAwayCount,
		AttentionDurationMs:     attentionMs,
		TotalLookAwayTimeMs:     lookAwayMs,
		AverageLookAwayMs:       avgLookAway,
		BlinkCount:              a.blinks.count,
		BlinkRate:               clampNonNeg(blinkRate),
		EmotionChanges:          a.emotionChanges,
		FaceVisiblePercentage:   visiblePct,
		SustainedAttentionScore: sustained,
		DistractibilityIndex:    distractibility,
		FacialMovementScore:     clamp100(a.facialMovement),
		FrameCount:              a.frameCount,
	}
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp100(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampNonNeg(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
