package face

import "recognicam-go/internal/config"

// blinkDetector is a small finite-state machine over eye-open probabilities.
// A blink starts when at least one eye drops below the closed threshold and
// completes when both reopen. Completed blinks count only if their duration
// is physiologically plausible and the previous counted blink ended more than
// a refractory period earlier, which rejects detector jitter.
type blinkDetector struct {
	cfg *config.FaceConfig

	eyesClosed    bool
	closedAtMs    float64
	lastBlinkEnd  float64
	count         int

	// Recent counted-blink end times, for burst detection. Fixed capacity;
	// oldest evicted first.
	recent []float64
}

func newBlinkDetector(cfg *config.FaceConfig) *blinkDetector {
	return &blinkDetector{cfg: cfg, recent: make([]float64, 0, 8)}
}

// observe feeds one frame's eye probabilities. It returns true when this
// frame completes a blink burst (several counted blinks inside a short
// window), which the analyzer flags as a distractibility event.
func (b *blinkDetector) observe(ts, leftOpen, rightOpen float64) bool {
	closed := leftOpen < b.cfg.EyeClosedProb || rightOpen < b.cfg.EyeClosedProb

	if closed && !b.eyesClosed {
		b.eyesClosed = true
		b.closedAtMs = ts
		return false
	}

	if !closed && b.eyesClosed {
		b.eyesClosed = false
		dur := ts - b.closedAtMs
		if dur < float64(b.cfg.BlinkMinMs) || dur > float64(b.cfg.BlinkMaxMs) {
			return false
		}
		if b.lastBlinkEnd > 0 && b.closedAtMs-b.lastBlinkEnd < float64(b.cfg.BlinkRefractoryMs) {
			return false
		}

		b.count++
		b.lastBlinkEnd = ts
		if len(b.recent) == cap(b.recent) {
			b.recent = b.recent[1:]
		}
		b.recent = append(b.recent, ts)
		return b.inBurst(ts)
	}

	return false
}

func (b *blinkDetector) inBurst(ts float64) bool {
	window := float64(b.cfg.BlinkBurstWindowMs)
	n := 0
	for _, t := range b.recent {
		if ts-t <= window {
			n++
		}
	}
	return n >= b.cfg.BlinkBurstCount
}

// lostFace clears the in-progress closure; a vanished face is not a blink.
func (b *blinkDetector) lostFace() {
	b.eyesClosed = false
}

func (b *blinkDetector) reset() {
	b.eyesClosed = false
	b.closedAtMs = 0
	b.lastBlinkEnd = 0
	b.count = 0
	b.recent = b.recent[:0]
}
