package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond
)

// Engine tone
const (
	// EngineIdleHz is the engine fundamental at zero RPM
	EngineIdleHz = 38.0

	// EngineRedlineHz is the engine fundamental at max RPM
	EngineRedlineHz = 190.0

	// EngineIdleVolume is the engine gain with no throttle
	EngineIdleVolume = 0.18

	// EngineThrottleVolume is the additional gain at full throttle
	EngineThrottleVolume = 0.22

	// EngineGlideRate is the per-sample smoothing factor toward target pitch/volume
	EngineGlideRate = 0.0015
)

// Skid noise
const (
	// SkidSlipThreshold is the lateral slip speed in m/s below which tyres are silent
	SkidSlipThreshold = 1.5

	// SkidSlipFull is the slip speed in m/s at which skid volume saturates
	SkidSlipFull = 8.0

	// SkidMaxVolume is the skid gain at saturation
	SkidMaxVolume = 0.25

	// BrakeSkidWeight adds skid volume from brake input while moving
	BrakeSkidWeight = 0.5
)
