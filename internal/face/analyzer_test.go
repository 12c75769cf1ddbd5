package face

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recognicam-go/internal/config"
	"recognicam-go/internal/models"
)

const frameIntervalMs = 50 // 20 fps

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return NewAnalyzer(config.Default().Face, nil)
}

// forwardObs builds a well-lit, forward-facing, eyes-open observation.
func forwardObs(ts float64) models.FaceFrameObservation {
	return models.FaceFrameObservation{
		Timestamp:        ts,
		FaceFound:        true,
		BoxWidth:         160,
		BoxHeight:        160,
		BoxCenterX:       320,
		BoxCenterY:       240,
		FrameWidth:       640,
		FrameHeight:      480,
		LeftEyeOpenProb:  0.85,
		RightEyeOpenProb: 0.85,
		SmileProb:        0.4,
	}
}

func feedForward(a *Analyzer, startMs float64, n int) float64 {
	ts := startMs
	for i := 0; i < n; i++ {
		a.Ingest(forwardObs(ts))
		ts += frameIntervalMs
	}
	return ts
}

func feedNoFace(a *Analyzer, startMs float64, n int) float64 {
	ts := startMs
	for i := 0; i < n; i++ {
		a.NoFace(ts)
		ts += frameIntervalMs
	}
	return ts
}

func TestZeroFramesZeroMetrics(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Start()
	assert.Equal(t, models.FaceMetrics{}, a.CurrentMetrics())
}

func TestIngestWithoutStartIsNoOp(t *testing.T) {
	a := newTestAnalyzer(t)
	feedForward(a, 1000, 20)
	assert.Equal(t, 0, a.CurrentMetrics().FrameCount)
}

func TestContinuousNoFace(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Start()
	// 30 seconds of frames with no detectable face: one long look-away,
	// not hundreds of them.
	feedNoFace(a, 1000, 600)

	m := a.FinalMetrics()
	assert.Equal(t, 1, m.LookAwayCount)
	assert.Zero(t, m.FaceVisiblePercentage)
	assert.Zero(t, m.AttentionDurationMs)
	assert.InDelta(t, 599*frameIntervalMs, m.TotalLookAwayTimeMs, 0.5)
	assert.Zero(t, m.SustainedAttentionScore)
	assert.LessOrEqual(t, m.DistractibilityIndex, 100.0)
}

func TestUndersizedFaceTreatedAsAbsent(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Start()
	ts := 1000.0
	for i := 0; i < 40; i++ {
		o := forwardObs(ts)
		o.BoxWidth = 40 // below the minimum face box
		a.Ingest(o)
		ts += frameIntervalMs
	}

	m := a.CurrentMetrics()
	assert.Zero(t, m.FaceVisiblePercentage)
	assert.Equal(t, 1, m.LookAwayCount)
}

func TestLookAwayStateMachine(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Start()

	// 1s attending, 1s turned well past the yaw limit, then back.
	ts := feedForward(a, 1000, 20)
	for i := 0; i < 20; i++ {
		o := forwardObs(ts)
		o.Yaw = 40
		a.Ingest(o)
		ts += frameIntervalMs
	}
	end := feedForward(a, ts, 20)

	m := a.CurrentMetrics()
	assert.Equal(t, 1, m.LookAwayCount)
	assert.InDelta(t, 1000, m.TotalLookAwayTimeMs, 0.5)
	assert.InDelta(t, 1000, m.AverageLookAwayMs, 0.5)
	elapsed := (end - frameIntervalMs) - 1000
	assert.InDelta(t, elapsed-1000, m.AttentionDurationMs, 0.5)
}

func TestOpenLookAwayIncludedNonDestructively(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Start()
	ts := feedForward(a, 1000, 20)
	feedNoFace(a, ts, 20)

	first := a.CurrentMetrics()
	assert.Equal(t, 1, first.LookAwayCount)
	assert.Greater(t, first.TotalLookAwayTimeMs, 900.0)

	second := a.CurrentMetrics()
	assert.Equal(t, first, second, "snapshot queries must not mutate state")
}

func TestBlinkCountingAndRefractory(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Start()

	eyes := func(ts, openProb float64) {
		o := forwardObs(ts)
		o.LeftEyeOpenProb = openProb
		o.RightEyeOpenProb = openProb
		a.Ingest(o)
	}

	feedForward(a, 1000, 20)
	// Blink one: 100ms closure.
	eyes(2000, 0.1)
	eyes(2050, 0.1)
	eyes(2100, 0.85)
	// Re-closure 50ms after the blink ended: inside the refractory period,
	// detector jitter rather than a second blink.
	eyes(2150, 0.1)
	eyes(2200, 0.1)
	eyes(2250, 0.85)
	// Blink two, well clear of the refractory period.
	eyes(2300, 0.85)
	eyes(2500, 0.1)
	eyes(2550, 0.85)
	// A 600ms closure is not a plausible blink.
	eyes(3000, 0.1)
	eyes(3600, 0.85)

	m := a.CurrentMetrics()
	assert.Equal(t, 2, m.BlinkCount)
	assert.Greater(t, m.BlinkRate, 0.0)
}

func TestFaceLossCancelsBlinkInProgress(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Start()

	feedForward(a, 1000, 10)
	o := forwardObs(1500)
	o.LeftEyeOpenProb = 0.1
	o.RightEyeOpenProb = 0.1
	a.Ingest(o)
	a.NoFace(1550)
	feedForward(a, 1600, 10)

	assert.Zero(t, a.CurrentMetrics().BlinkCount)
}

func TestEmotionChangeDebounce(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Start()

	smile := func(ts, prob float64) {
		o := forwardObs(ts)
		o.SmileProb = prob
		a.Ingest(o)
	}

	// Settle on neutral, then a real switch to happy after the debounce.
	feedForward(a, 1000, 20)
	smile(2000, 0.9)
	assert.Equal(t, 1, a.CurrentMetrics().EmotionChanges)

	// Rapid flapping between the two labels must not move the counter.
	for i := 0; i < 8; i++ {
		ts := 2050 + float64(i)*frameIntervalMs
		if i%2 == 0 {
			smile(ts, 0.4)
		} else {
			smile(ts, 0.9)
		}
	}
	assert.Equal(t, 1, a.CurrentMetrics().EmotionChanges)

	// Hold happy past the debounce window, then a real switch back.
	for ts := 2500.0; ts < 3000; ts += frameIntervalMs {
		smile(ts, 0.9)
	}
	smile(3000, 0.4)
	assert.Equal(t, 2, a.CurrentMetrics().EmotionChanges)
}

func TestDistractibilityEvents(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Start()

	a.Ingest(forwardObs(1000))

	o := forwardObs(1050)
	o.SmileProb = 0.95 // expression jump
	a.Ingest(o)

	o = forwardObs(1100)
	o.SmileProb = 0.95
	o.BoxCenterX = 100 // position jump of 220px in a 640px frame
	a.Ingest(o)

	assert.Equal(t, 2, a.distractEvents)
	assert.Greater(t, a.CurrentMetrics().FacialMovementScore, 0.0)
}

func TestSustainedAttentionOnCleanRun(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Start()
	feedForward(a, 1000, 200)

	m := a.CurrentMetrics()
	assert.Greater(t, m.SustainedAttentionScore, 90.0)
	assert.LessOrEqual(t, m.SustainedAttentionScore, 100.0)
	assert.InDelta(t, 100, m.FaceVisiblePercentage, 0.001)
	assert.Zero(t, m.LookAwayCount)
}

func TestStopFreezesState(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Start()
	ts := feedForward(a, 1000, 100)

	a.Stop()
	frozen := a.FinalMetrics()

	a.Stop() // idempotent
	feedNoFace(a, ts, 50)
	assert.Equal(t, frozen, a.FinalMetrics())
}

func TestResetDiscardsEverything(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Start()
	feedForward(a, 1000, 50)
	require.NotZero(t, a.CurrentMetrics().FrameCount)

	a.Reset()
	assert.Equal(t, models.FaceMetrics{}, a.CurrentMetrics())
}

func TestOutOfOrderFramesDropped(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Start()
	feedForward(a, 1000, 20)
	before := a.CurrentMetrics()

	a.NoFace(500)
	assert.Equal(t, before, a.CurrentMetrics())
}
