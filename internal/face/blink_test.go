package face

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"recognicam-go/internal/config"
)

func TestBlinkBurstDetection(t *testing.T) {
	cfg := config.Default().Face
	b := newBlinkDetector(&cfg)

	blink := func(closeAt, openAt float64) bool {
		b.observe(closeAt, 0.1, 0.1)
		return b.observe(openAt, 0.9, 0.9)
	}

	// Three counted blinks inside the burst window; only the third one
	// crosses the burst threshold.
	assert.False(t, blink(1000, 1100))
	assert.False(t, blink(1300, 1400))
	assert.True(t, blink(1600, 1700))
	assert.Equal(t, 3, b.count)

	// A fourth blink far outside the window is not part of a burst.
	assert.False(t, blink(9000, 9100))
	assert.Equal(t, 4, b.count)
}

func TestBlinkImplausibleDurations(t *testing.T) {
	cfg := config.Default().Face
	b := newBlinkDetector(&cfg)

	// Too short to be a real blink.
	b.observe(1000, 0.1, 0.1)
	b.observe(1020, 0.9, 0.9)
	assert.Zero(t, b.count)

	// Too long: eyes closed, not blinking.
	b.observe(2000, 0.1, 0.1)
	b.observe(2700, 0.9, 0.9)
	assert.Zero(t, b.count)

	// One closed eye is still a closure.
	b.observe(3000, 0.1, 0.9)
	b.observe(3100, 0.9, 0.9)
	assert.Equal(t, 1, b.count)
}
