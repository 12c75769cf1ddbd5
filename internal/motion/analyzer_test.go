package motion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recognicam-go/internal/config"
	"recognicam-go/internal/models"
)

const sampleIntervalMs = 20 // 50 Hz

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return NewAnalyzer(config.Default().Motion, nil)
}

// feedConstant feeds n identical samples starting at startMs. After the
// filter warms up these produce zero-magnitude differentials.
func feedConstant(a *Analyzer, startMs float64, n int, x, y, z float64) float64 {
	ts := startMs
	for i := 0; i < n; i++ {
		a.IngestAccel(models.AccelSample{Timestamp: ts, X: x, Y: y, Z: z})
		ts += sampleIntervalMs
	}
	return ts
}

// feedRamp feeds n samples whose x value climbs by step each sample,
// producing constant-direction differentials of magnitude ~step.
func feedRamp(a *Analyzer, startMs float64, n int, step float64) float64 {
	ts := startMs
	x := 0.0
	for i := 0; i < n; i++ {
		a.IngestAccel(models.AccelSample{Timestamp: ts, X: x, Y: 0, Z: 9.8})
		ts += sampleIntervalMs
		x += step
	}
	return ts
}

// feedOscillation feeds a sine on the x axis: small-amplitude back-and-forth
// motion with frequent direction reversals, the fidgeting signature.
func feedOscillation(a *Analyzer, startMs float64, n int, amplitude float64, periodSamples int) float64 {
	ts := startMs
	for i := 0; i < n; i++ {
		x := amplitude * math.Sin(2*math.Pi*float64(i)/float64(periodSamples))
		a.IngestAccel(models.AccelSample{Timestamp: ts, X: x, Y: 0, Z: 9.8})
		ts += sampleIntervalMs
	}
	return ts
}

func assertBounded(t *testing.T, m models.MotionMetrics) {
	t.Helper()
	cfg := config.Default().Motion
	assert.GreaterOrEqual(t, m.FidgetingScore, 0.0)
	assert.LessOrEqual(t, m.FidgetingScore, 100.0)
	assert.GreaterOrEqual(t, m.GeneralMovementScore, 0.0)
	assert.LessOrEqual(t, m.GeneralMovementScore, 100.0)
	assert.GreaterOrEqual(t, m.Restlessness, 0.0)
	assert.LessOrEqual(t, m.Restlessness, 100.0)
	assert.GreaterOrEqual(t, m.MovementIntensity, 0.0)
	assert.LessOrEqual(t, m.MovementIntensity, 100.0)
	assert.LessOrEqual(t, m.DirectionChanges, cfg.MaxDirectionChanges)
	assert.LessOrEqual(t, m.SuddenMovements, cfg.MaxSuddenMovements)
}

func TestMetricsBeforeStart(t *testing.T) {
	a := newTestAnalyzer(t)
	m := a.CurrentMetrics()
	assert.Equal(t, models.MotionMetrics{}, m)
}

func TestIngestWithoutStartIsNoOp(t *testing.T) {
	a := newTestAnalyzer(t)
	feedRamp(a, 1000, 100, 0.5)
	assert.Equal(t, 0, a.CurrentMetrics().SampleCount)
}

func TestTooFewSamplesReturnsZeroSnapshot(t *testing.T) {
	a := newTestAnalyzer(t)
	a.StartTracking()
	// 10 samples: 7 warm the filter, 1 sets the previous vector, only 2
	// differentials reach the buffer.
	feedRamp(a, 1000, 10, 0.5)
	m := a.CurrentMetrics()
	assert.Zero(t, m.Restlessness)
	assert.Zero(t, m.FidgetingScore)
	assert.Less(t, m.SampleCount, 5)
}

func TestQuietTaskYieldsZeroScores(t *testing.T) {
	a := newTestAnalyzer(t)
	a.StartTracking()
	// 60 seconds of a device lying still: constant gravity plus nothing.
	feedConstant(a, 1000, 3000, 0, 0, 9.81)

	m := a.FinalMetrics()
	assert.Zero(t, m.FidgetingScore)
	assert.Zero(t, m.Restlessness)
	assert.Zero(t, m.DirectionChanges)
	assert.Zero(t, m.SuddenMovements)
	assertBounded(t, m)
}

func TestStationaryClearsPriorHistory(t *testing.T) {
	a := newTestAnalyzer(t)
	a.StartTracking()

	// Vigorous movement first.
	ts := feedRamp(a, 1000, 200, 0.5)
	require.Greater(t, a.CurrentMetrics().Restlessness, 0.0)

	// Then the device is set down: sub-noise differentials for well past
	// the stationary run length.
	feedConstant(a, ts, 200, 0, 0, 9.81)

	m := a.CurrentMetrics()
	assert.Zero(t, m.Restlessness, "stationary device must zero restlessness regardless of prior history")
	assert.Zero(t, m.FidgetingScore)
}

func TestRestlessButNotFidgeting(t *testing.T) {
	a := newTestAnalyzer(t)
	a.StartTracking()

	// A steady ramp is constant-direction in-band movement: it satisfies
	// only the repeating-pattern criterion (all vectors parallel), which
	// is one of three. The quorum is two, so fidgeting must not trigger.
	feedRamp(a, 1000, 500, 0.5)

	m := a.CurrentMetrics()
	assert.Greater(t, m.Restlessness, 50.0, "constant in-band movement is restless")
	assert.Zero(t, m.FidgetingScore, "single-evidence movement must not count as fidgeting")
}

func TestOscillationDetectedAsFidgeting(t *testing.T) {
	a := newTestAnalyzer(t)
	a.StartTracking()

	// ~2 Hz small-amplitude oscillation for 10 seconds: reversals,
	// repeating pattern, and alternation all present.
	feedOscillation(a, 1000, 500, 2.0, 25)

	m := a.CurrentMetrics()
	assert.Greater(t, m.Restlessness, 30.0)
	assert.Greater(t, m.FidgetingScore, 40.0, "oscillatory in-band movement is fidgeting")
	assertBounded(t, m)
}

func TestDirectionChangesOnSharpReversals(t *testing.T) {
	a := newTestAnalyzer(t)
	a.StartTracking()

	// Steep triangle wave on the x axis: 2 per sample up, then down. Each
	// turn yields consecutive movement vectors pointing the opposite way.
	ts := 1000.0
	x := 0.0
	dir := 2.0
	for i := 0; i < 500; i++ {
		a.IngestAccel(models.AccelSample{Timestamp: ts, X: x, Y: 0, Z: 9.8})
		ts += sampleIntervalMs
		x += dir
		if x >= 14 || x <= 0 {
			dir = -dir
		}
	}

	m := a.CurrentMetrics()
	assert.Greater(t, m.DirectionChanges, 5)
	assert.LessOrEqual(t, m.DirectionChanges, config.Default().Motion.MaxDirectionChanges)
}

func TestSuddenMovementDebounce(t *testing.T) {
	a := newTestAnalyzer(t)
	a.StartTracking()

	ts := feedConstant(a, 1000, 50, 0, 0, 9.81)

	// A sharp jerk. The moving average spreads the edge over the filter
	// window (~140ms), well inside the 400ms debounce, so it counts once.
	ts = feedConstant(a, ts, 10, 30, 0, 9.81)
	assert.Equal(t, 1, a.CurrentMetrics().SuddenMovements)

	// The return edge lands inside the debounce window and must not count.
	ts = feedConstant(a, ts, 10, 0, 0, 9.81)
	assert.Equal(t, 1, a.CurrentMetrics().SuddenMovements)

	// A later jerk, past the debounce window, counts again.
	ts = feedConstant(a, ts, 20, 0, 0, 9.81)
	feedConstant(a, ts, 10, 30, 0, 9.81)
	assert.Equal(t, 2, a.CurrentMetrics().SuddenMovements)
}

func TestSnapshotIdempotence(t *testing.T) {
	a := newTestAnalyzer(t)
	a.StartTracking()
	feedOscillation(a, 1000, 300, 2.0, 25)

	first := a.CurrentMetrics()
	second := a.CurrentMetrics()
	assert.Equal(t, first, second, "snapshot queries must not mutate state")
}

func TestResetLaw(t *testing.T) {
	a := newTestAnalyzer(t)
	a.StartTracking()
	feedOscillation(a, 1000, 300, 2.0, 25)
	require.Greater(t, a.CurrentMetrics().Restlessness, 0.0)

	a.ResetTracking()
	assert.Equal(t, models.MotionMetrics{}, a.FinalMetrics())
}

func TestStopIsIdempotentAndFreezesState(t *testing.T) {
	a := newTestAnalyzer(t)
	a.StartTracking()
	ts := feedOscillation(a, 1000, 300, 2.0, 25)

	a.StopTracking()
	frozen := a.FinalMetrics()

	a.StopTracking() // second stop is a no-op
	feedOscillation(a, ts, 100, 2.0, 25)

	assert.Equal(t, frozen, a.FinalMetrics(), "ingest after stop must not mutate metrics")
}

func TestGyroContributesToIntensityOnly(t *testing.T) {
	a := newTestAnalyzer(t)
	a.StartTracking()

	ts := feedConstant(a, 1000, 100, 0, 0, 9.81)
	for i := 0; i < 50; i++ {
		a.IngestGyro(models.GyroSample{Timestamp: ts, X: 3, Y: 0, Z: 0})
		ts += sampleIntervalMs
	}

	m := a.CurrentMetrics()
	assert.Greater(t, m.MovementIntensity, 0.0)
	assert.Zero(t, m.Restlessness, "rotation alone never counts as restlessness")
}

func TestOutOfOrderSamplesDropped(t *testing.T) {
	a := newTestAnalyzer(t)
	a.StartTracking()
	feedRamp(a, 1000, 100, 0.5)
	before := a.CurrentMetrics()

	// A stale timestamp must not disturb the order-dependent state.
	a.IngestAccel(models.AccelSample{Timestamp: 500, X: 50, Y: 0, Z: 0})
	assert.Equal(t, before, a.CurrentMetrics())
}
