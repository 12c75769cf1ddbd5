package scoring

import "math"

// mean returns the arithmetic mean, 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// coefficientOfVariation returns stddev/mean with Bessel's correction,
// 0 when fewer than two samples or a non-positive mean make it meaningless.
func coefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	avg := mean(values)
	if avg <= 0 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		diff := v - avg
		sumSq += diff * diff
	}
	variance := sumSq / float64(len(values)-1)
	return math.Sqrt(variance) / avg
}

// fastFraction returns the share of values below factor*mean.
func fastFraction(values []float64, factor float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := mean(values)
	if avg <= 0 {
		return 0
	}
	fast := 0
	for _, v := range values {
		if v < factor*avg {
			fast++
		}
	}
	return float64(fast) / float64(len(values))
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
