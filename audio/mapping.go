package audio

import (
	"math"

	"github.com/lixenwraith/vi-racer/parameter"
	"github.com/lixenwraith/vi-racer/telemetry"
	"github.com/lixenwraith/vi-racer/vmath"
)

// EngineTarget maps a snapshot to the engine tone fundamental in Hz and its gain
func EngineTarget(s telemetry.Snapshot) (freq, volume float64) {
	rpm := vmath.Clamp01(s.NormalizedRPM)
	freq = vmath.Lerp(parameter.EngineIdleHz, parameter.EngineRedlineHz, rpm)
	volume = parameter.EngineIdleVolume + parameter.EngineThrottleVolume*math.Abs(vmath.Clamp(s.Throttle, -1, 1))
	return freq, volume
}

// SkidVolume maps tyre slip and braking to skid noise gain
// Silent below the slip threshold or with no wheel on the ground
func SkidVolume(s telemetry.Snapshot) float64 {
	if s.GroundedWheels() == 0 {
		return 0
	}
	slip := (s.MaxSlip() - parameter.SkidSlipThreshold) / (parameter.SkidSlipFull - parameter.SkidSlipThreshold)
	level := vmath.Clamp01(slip)
	if math.Abs(s.ForwardSpeed) > parameter.SkidSlipThreshold {
		level += parameter.BrakeSkidWeight * vmath.Clamp01(s.Brake)
	}
	return parameter.SkidMaxVolume * vmath.Clamp01(level)
}
