package models

// AccelSample is one raw accelerometer reading from the device. Timestamps
// are milliseconds on any monotonic clock; only deltas matter.
type AccelSample struct {
	Timestamp float64 `json:"timestamp"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
}

// GyroSample is one raw gyroscope reading, rad/s per axis.
type GyroSample struct {
	Timestamp float64 `json:"timestamp"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
}

// FaceFrameObservation is the structured output of the external face detector
// for one processed camera frame. The acquisition layer owns the camera and
// the detector model; the engine consumes only this.
type FaceFrameObservation struct {
	Timestamp        float64 `json:"timestamp"`
	FaceFound        bool    `json:"faceFound"`
	BoxWidth         float64 `json:"boxWidth"`
	BoxHeight        float64 `json:"boxHeight"`
	BoxCenterX       float64 `json:"boxCenterX"`
	BoxCenterY       float64 `json:"boxCenterY"`
	FrameWidth       float64 `json:"frameWidth"`
	FrameHeight      float64 `json:"frameHeight"`
	Yaw              float64 `json:"yaw"`
	Pitch            float64 `json:"pitch"`
	Roll             float64 `json:"roll"`
	LeftEyeOpenProb  float64 `json:"leftEyeOpenProb"`
	RightEyeOpenProb float64 `json:"rightEyeOpenProb"`
	SmileProb        float64 `json:"smileProb"`
}
