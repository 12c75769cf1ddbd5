// Package motion turns a noisy accelerometer/gyroscope stream into bounded
// scores for fidgeting, restlessness, general movement, and debounced
// direction-change / sudden-movement counters.
package motion

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"recognicam-go/internal/config"
	"recognicam-go/internal/models"
)

// minSamplesForMetrics is the floor below which a snapshot is all zeros
// rather than a guess from a handful of readings.
const minSamplesForMetrics = 5

// Analyzer ingests raw sensor samples and answers metric snapshot queries.
// All exported methods are safe for concurrent use; the sensor callback and
// the snapshot poller run on different goroutines.
//
// The analyzer copies its config at construction. A config hot-reload applies
// to analyzers created afterwards, never to one mid-task.
type Analyzer struct {
	mu  sync.Mutex
	cfg config.MotionConfig
	log *zap.Logger

	tracking bool
	stopped  bool

	// Moving-average noise filter, one per axis, plus the previous filtered
	// vector for differencing.
	filterX, filterY, filterZ *axisFilter
	prevFiltered              [3]float64
	prevValid                 bool

	// Rolling buffers
	samples *sampleRing
	scratch []Sample

	firstTs float64
	lastTs  float64

	// Stationary-device detection
	stillRun   int
	stationary bool

	// Restlessness accounting (wall-clock intervals)
	restless        bool
	restlessStartMs float64
	restlessAccumMs float64
	lastMovementMs  float64

	// Fidgeting sub-state
	fidgeting        bool
	fidgetStartMs    float64
	fidgetAccumMs    float64
	lastEvidenceMs   float64

	// Debounced counters
	directionChanges int
	suddenMovements  int
	lastDirChangeMs  float64
	lastSuddenMs     float64

	// Intensity-bucket frequencies
	totalFrames  int
	mediumFrames int
	largeFrames  int

	accelIntensity float64 // EMA, 0-100
	gyroIntensity  float64 // EMA, 0-100
}

// NewAnalyzer creates a motion analyzer with the given tuning. A nil logger
// falls back to a no-op logger.
func NewAnalyzer(cfg config.MotionConfig, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{
		cfg:     cfg,
		log:     log,
		filterX: newAxisFilter(cfg.FilterWindow),
		filterY: newAxisFilter(cfg.FilterWindow),
		filterZ: newAxisFilter(cfg.FilterWindow),
		samples: newSampleRing(cfg.SampleBufferSize),
		scratch: make([]Sample, 0, cfg.SampleBufferSize),
	}
}

// StartTracking begins a fresh tracking run. Any previous state is discarded;
// a new task attempt never carries state over from the last one.
func (a *Analyzer) StartTracking() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetLocked()
	a.tracking = true
}

// StopTracking freezes the analyzer. Idempotent; in-flight ingest calls
// complete as no-ops and snapshot queries keep returning the frozen state.
func (a *Analyzer) StopTracking() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.tracking {
		return
	}
	a.closeOpenIntervalsLocked(a.lastTs)
	a.tracking = false
	a.stopped = true
}

// ResetTracking discards all state, returning the analyzer to its
// just-constructed condition.
func (a *Analyzer) ResetTracking() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetLocked()
}

func (a *Analyzer) resetLocked() {
	a.tracking = false
	a.stopped = false
	a.filterX.reset()
	a.filterY.reset()
	a.filterZ.reset()
	a.prevValid = false
	a.samples.reset()
	a.firstTs = 0
	a.lastTs = 0
	a.stillRun = 0
	a.stationary = false
	a.restless = false
	a.restlessStartMs = 0
	a.restlessAccumMs = 0
	a.lastMovementMs = 0
	a.fidgeting = false
	a.fidgetStartMs = 0
	a.fidgetAccumMs = 0
	a.lastEvidenceMs = 0
	a.directionChanges = 0
	a.suddenMovements = 0
	a.lastDirChangeMs = 0
	a.lastSuddenMs = 0
	a.totalFrames = 0
	a.mediumFrames = 0
	a.largeFrames = 0
	a.accelIntensity = 0
	a.gyroIntensity = 0
}

// IngestAccel processes one raw accelerometer sample. Work per call is
// bounded: filter update, bucket classification, and pattern checks over a
// time-bounded window.
func (a *Analyzer) IngestAccel(s models.AccelSample) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.tracking {
		return
	}

	a.filterX.push(s.X)
	a.filterY.push(s.Y)
	a.filterZ.push(s.Z)
	if !a.filterX.ready() {
		// Warm-up: the filter window is not full yet.
		return
	}

	fx, fy, fz := a.filterX.value(), a.filterY.value(), a.filterZ.value()
	if !a.prevValid {
		a.prevFiltered = [3]float64{fx, fy, fz}
		a.prevValid = true
		return
	}

	dx := fx - a.prevFiltered[0]
	dy := fy - a.prevFiltered[1]
	dz := fz - a.prevFiltered[2]
	a.prevFiltered = [3]float64{fx, fy, fz}
	mag := math.Sqrt(dx*dx + dy*dy + dz*dz)

	sample := Sample{Timestamp: s.Timestamp, X: dx, Y: dy, Z: dz, Magnitude: mag}

	if a.firstTs == 0 {
		a.firstTs = s.Timestamp
	}
	if s.Timestamp < a.lastTs {
		// Out-of-order sensor callback; the debounce logic is
		// order-dependent, so drop it.
		return
	}
	a.lastTs = s.Timestamp

	a.updateStationaryLocked(mag)

	var prev Sample
	hasPrev := a.samples.len() > 0
	if hasPrev {
		prev = a.samples.at(a.samples.len() - 1)
	}
	a.samples.push(sample)
	a.totalFrames++

	if a.stationary {
		// Device at rest: suppress all accumulation and let the
		// intensity estimate bleed off.
		a.accelIntensity *= 0.9
		return
	}

	a.classifyIntensityLocked(sample)
	a.updateRestlessLocked(sample)
	a.detectEventsLocked(sample, prev, hasPrev)
	a.updateFidgetLocked(sample)
}

// IngestGyro folds a gyroscope reading into the rotation component of the
// movement-intensity estimate. Rotation alone never counts as restlessness.
func (a *Analyzer) IngestGyro(s models.GyroSample) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.tracking {
		return
	}

	rot := math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
	// 5 rad/s of rotation saturates the scale.
	scaled := math.Min(100, rot/5.0*100)
	a.gyroIntensity = a.gyroIntensity*0.9 + scaled*0.1
}

func (a *Analyzer) updateStationaryLocked(mag float64) {
	noise := a.cfg.NoiseThreshold
	switch {
	case mag < noise:
		a.stillRun++
		if !a.stationary && a.stillRun >= a.cfg.StationaryRunLength {
			a.stationary = true
			// The device is demonstrably at rest: whatever looked like
			// restlessness before was sensor noise, so zero it out.
			a.restless = false
			a.fidgeting = false
			a.restlessAccumMs = 0
			a.fidgetAccumMs = 0
		}
	case mag > noise*a.cfg.StationaryExitFactor:
		a.stillRun = 0
		a.stationary = false
	default:
		// Between the noise floor and the exit threshold: not still, but
		// not decisive enough to clear an established stationary flag.
		a.stillRun = 0
	}
}

func (a *Analyzer) classifyIntensityLocked(s Sample) {
	switch {
	case s.Magnitude >= a.cfg.LargeThreshold:
		a.largeFrames++
	case s.Magnitude >= a.cfg.MediumThreshold:
		a.mediumFrames++
	}

	scaled := math.Min(100, s.Magnitude/a.cfg.SuddenThreshold*100)
	a.accelIntensity = a.accelIntensity*0.9 + scaled*0.1
}

func (a *Analyzer) updateRestlessLocked(s Sample) {
	if s.Magnitude >= a.cfg.MeaningfulThreshold {
		if !a.restless {
			a.restless = true
			a.restlessStartMs = s.Timestamp
		}
		a.lastMovementMs = s.Timestamp
		return
	}

	// Movement paused: exit the restless state after a short quiet period.
	if a.restless && s.Timestamp-a.lastMovementMs > float64(a.cfg.RestlessQuietMs) {
		a.restlessAccumMs += a.lastMovementMs - a.restlessStartMs
		a.restless = false
		if a.fidgeting {
			a.fidgetAccumMs += a.lastEvidenceMs - a.fidgetStartMs
			a.fidgeting = false
		}
	}
}

func (a *Analyzer) detectEventsLocked(s Sample, prev Sample, hasPrev bool) {
	// Sudden movements: large spikes with a minimum spacing and a hard cap
	// so sensor glitches cannot run the counter away.
	if s.Magnitude >= a.cfg.SuddenThreshold &&
		s.Timestamp-a.lastSuddenMs >= float64(a.cfg.SuddenDebounceMs) &&
		a.suddenMovements < a.cfg.MaxSuddenMovements {
		a.suddenMovements++
		a.lastSuddenMs = s.Timestamp
	}

	// Direction changes: consecutive movement vectors pointing the opposite
	// way, same debounce-and-cap treatment.
	if !hasPrev || s.Magnitude < a.cfg.MeaningfulThreshold {
		return
	}
	if d, ok := dotNormalized(prev, s); ok && d < a.cfg.ReversalDotThreshold &&
		s.Timestamp-a.lastDirChangeMs >= float64(a.cfg.DirectionDebounceMs) &&
		a.directionChanges < a.cfg.MaxDirectionChanges {
		a.directionChanges++
		a.lastDirChangeMs = s.Timestamp
	}
}

// updateFidgetLocked runs the multi-evidence fidget classifier. Fidgeting is
// a sub-state of restlessness: small-band motion plus at least a quorum of
// corroborating pattern signals within the rolling window.
func (a *Analyzer) updateFidgetLocked(s Sample) {
	inBand := a.restless &&
		s.Magnitude >= a.cfg.MeaningfulThreshold &&
		s.Magnitude < a.cfg.MediumThreshold

	if inBand {
		evidence := 0

		a.scratch = a.samples.since(s.Timestamp-float64(a.cfg.ReversalWindowMs), a.scratch)
		if countReversals(a.scratch, a.cfg.ReversalDotThreshold) >= a.cfg.ReversalMinCount {
			evidence++
		}

		a.scratch = a.samples.since(s.Timestamp-float64(a.cfg.PatternWindowMs), a.scratch)
		if countRepeatingPairs(a.scratch, a.cfg.PatternCosineMin) >= a.cfg.PatternPairMin {
			evidence++
		}
		if countAlternationCycles(a.scratch, a.cfg.ReversalDotThreshold) >= a.cfg.AlternationMinCycles {
			evidence++
		}

		if evidence >= a.cfg.FidgetEvidenceQuorum {
			if !a.fidgeting {
				a.fidgeting = true
				a.fidgetStartMs = s.Timestamp
				a.log.Debug("Fidgeting sub-state entered",
					zap.Float64("ts", s.Timestamp),
					zap.Int("evidence", evidence))
			}
			a.lastEvidenceMs = s.Timestamp
			return
		}
	}

	// Evidence dried up: close the fidget interval after the quiet period.
	if a.fidgeting && s.Timestamp-a.lastEvidenceMs > float64(a.cfg.RestlessQuietMs) {
		a.fidgetAccumMs += a.lastEvidenceMs - a.fidgetStartMs
		a.fidgeting = false
	}
}

// closeOpenIntervalsLocked folds any in-progress restless/fidget interval into
// the accumulators, using ts as the closing instant.
func (a *Analyzer) closeOpenIntervalsLocked(ts float64) {
	if a.restless {
		if ts > a.restlessStartMs {
			a.restlessAccumMs += ts - a.restlessStartMs
		}
		a.restless = false
	}
	if a.fidgeting {
		if ts > a.fidgetStartMs {
			a.fidgetAccumMs += ts - a.fidgetStartMs
		}
		a.fidgeting = false
	}
}

// CurrentMetrics computes a snapshot from the live buffers. Non-destructive
// and callable at any rate; two calls with no intervening ingest are
// identical.
func (a *Analyzer) CurrentMetrics() models.MotionMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.metricsLocked()
}

// FinalMetrics returns the end-of-task snapshot. Intended to be called once
// after StopTracking, but identical to CurrentMetrics by construction.
func (a *Analyzer) FinalMetrics() models.MotionMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.metricsLocked()
}

func (a *Analyzer) metricsLocked() models.MotionMetrics {
	n := a.samples.len()
	if n < minSamplesForMetrics {
		return models.MotionMetrics{SampleCount: n}
	}

	elapsed := a.lastTs - a.firstTs
	if elapsed <= 0 {
		return models.MotionMetrics{SampleCount: n}
	}

	// Include any open interval without mutating it, so repeated snapshot
	// queries stay idempotent.
	restlessMs := a.restlessAccumMs
	if a.restless && a.lastMovementMs > a.restlessStartMs {
		restlessMs += a.lastMovementMs - a.restlessStartMs
	}
	fidgetMs := a.fidgetAccumMs
	if a.fidgeting && a.lastEvidenceMs > a.fidgetStartMs {
		fidgetMs += a.lastEvidenceMs - a.fidgetStartMs
	}

	restlessness := clamp100(restlessMs / elapsed * 100)

	// Fidgeting is scored as a fraction of restless time, not of total
	// time: "a little restless but mostly fidgeting" must outscore
	// "very restless, never fidgeting".
	fidgeting := 0.0
	if restlessMs > 0 {
		fidgeting = clamp100(fidgetMs / restlessMs * 100)
	}

	general := 0.0
	if a.totalFrames > 0 {
		weighted := float64(a.mediumFrames) + a.cfg.LargeIntensityWeight*float64(a.largeFrames)
		general = clamp100(weighted / float64(a.totalFrames) * 100)
	}

	w := a.cfg.GyroIntensityWeight
	intensity := clamp100((1-w)*a.accelIntensity + w*a.gyroIntensity)

	return models.MotionMetrics{
		FidgetingScore:       fidgeting,
		GeneralMovementScore: general,
		DirectionChanges:     a.directionChanges,
		SuddenMovements:      a.suddenMovements,
		MovementIntensity:    intensity,
		Restlessness:         restlessness,
		SampleCount:          n,
	}
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
