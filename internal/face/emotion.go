package face

// Emotion is a coarse expression label derived from the detector's
// classification probabilities. These are heuristics over smile probability,
// eye openness, and head tilt, not a trained classifier.
type Emotion string

const (
	EmotionNeutral   Emotion = "neutral"
	EmotionHappy     Emotion = "happy"
	EmotionSurprised Emotion = "surprised"
	EmotionConfused  Emotion = "confused"
	EmotionTired     Emotion = "tired"
	EmotionYawning   Emotion = "yawning"
)

// classifyEmotion maps one frame's probabilities to a label.
func classifyEmotion(avgEyeOpen, smileProb, roll float64) Emotion {
	switch {
	// A yawn reads as a wide-open mouth (high smile score) with eyes
	// squeezed nearly shut.
	case avgEyeOpen < 0.4 && smileProb > 0.6:
		return EmotionYawning
	case avgEyeOpen < 0.45:
		return EmotionTired
	case smileProb >= 0.6:
		return EmotionHappy
	case avgEyeOpen > 0.9 && smileProb >= 0.3:
		return EmotionSurprised
	// Pronounced head tilt with a flat expression.
	case (roll > 15 || roll < -15) && smileProb < 0.4:
		return EmotionConfused
	default:
		return EmotionNeutral
	}
}
