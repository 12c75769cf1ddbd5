package motion

import "math"

// Pattern classification separates genuine fidgeting from incidental motion.
// Each function inspects a short time-bounded window of differential samples
// and reports one kind of evidence; the analyzer requires a quorum before
// declaring the fidgeting sub-state.

const minVectorMagnitude = 1e-6

func dotNormalized(a, b Sample) (float64, bool) {
	ma := math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
	mb := math.Sqrt(b.X*b.X + b.Y*b.Y + b.Z*b.Z)
	if ma < minVectorMagnitude || mb < minVectorMagnitude {
		return 0, false
	}
	return (a.X*b.X + a.Y*b.Y + a.Z*b.Z) / (ma * mb), true
}

// countReversals counts consecutive sample pairs whose movement vectors point
// in roughly opposite directions (normalized dot product below dotThreshold,
// which is negative).
func countReversals(window []Sample, dotThreshold float64) int {
	reversals := 0
	for i := 1; i < len(window); i++ {
		if d, ok := dotNormalized(window[i-1], window[i]); ok && d < dotThreshold {
			reversals++
		}
	}
	return reversals
}

// countRepeatingPairs counts non-adjacent sample pairs with cosine similarity
// above cosineMin: the signature of a motion that keeps retracing itself.
// The window is time-bounded (a couple of seconds), so the quadratic scan is
// bounded work per call.
func countRepeatingPairs(window []Sample, cosineMin float64) int {
	pairs := 0
	for i := 0; i < len(window); i++ {
		for j := i + 2; j < len(window); j++ {
			if d, ok := dotNormalized(window[i], window[j]); ok && d >= cosineMin {
				pairs++
			}
		}
	}
	return pairs
}

// countAlternationCycles detects a back-and-forth signature: runs of samples
// in one direction followed by runs in the opposite direction. Two direction
// flips make one full cycle.
func countAlternationCycles(window []Sample, dotThreshold float64) int {
	flips := 0
	for i := 1; i < len(window); i++ {
		if d, ok := dotNormalized(window[i-1], window[i]); ok && d < dotThreshold {
			flips++
		}
	}
	return flips / 2
}
