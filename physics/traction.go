package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/parameter"
	"github.com/lixenwraith/vi-racer/vmath"
)

// DriveMode is the longitudinal regime a wheel resolved to this tick
type DriveMode uint8

const (
	DriveCoast DriveMode = iota
	DriveThrottle
	DriveBrake
	DriveReverse
)

func (m DriveMode) String() string {
	switch m {
	case DriveCoast:
		return "coast"
	case DriveThrottle:
		return "throttle"
	case DriveBrake:
		return "brake"
	case DriveReverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// IsGround reports whether a contact normal is flat enough relative to the wheel's up axis to drive on
func IsGround(normal, wheelUp mgl64.Vec3, minDot float64) bool {
	return normal.Dot(wheelUp) > minDot
}

// FrictionLimit returns mu * grip * normalForce, never negative
func FrictionLimit(mu, grip, normalForce float64) float64 {
	l := mu * grip * normalForce
	if !vmath.IsFinite(l) || l < 0 {
		return 0
	}
	return l
}

// LateralInput carries one wheel's sideways slip state
type LateralInput struct {
	SlipVelocity float64 // body velocity at the wheel along the slip axis
	Grip         float64 // (0, 1], reduced while the handbrake is held
	Mu           float64
	NormalForce  float64
	CarryingMass float64
	Dt           float64
}

// LateralForce returns the signed force along the slip axis that cancels the
// grip-scaled slip over one tick, bounded by the friction limit
func LateralForce(in LateralInput) float64 {
	if in.NormalForce <= 0 || in.Dt < parameter.MinTickDuration {
		return 0
	}
	grip := vmath.Clamp01(in.Grip)
	desired := in.CarryingMass * (-in.SlipVelocity * grip) / in.Dt
	if !vmath.IsFinite(desired) {
		return 0
	}
	return vmath.ClampAbs(desired, FrictionLimit(in.Mu, grip, in.NormalForce))
}

// DriveInput carries one wheel's longitudinal inputs
// Speed is the body velocity at the wheel along the drive axis, positive forward
type DriveInput struct {
	Throttle           float64 // [-1, 1]
	Distribution       float64
	Speed              float64
	ForwardRatio       float64 // ratio of the engaged forward gear
	ReverseRatio       float64
	FinalDrive         float64
	PeakTorque         float64
	TorqueCurve        Curve
	CurveInput         float64
	WheelRadius        float64
	Mass               float64
	CarryingMass       float64
	BrakeStrength      float64 // deceleration per unit input
	DragCoefficient    float64
	RollingResistance  float64
	ReverseEngageSpeed float64
	Dt                 float64
}

// LongitudinalForce returns the signed force along the drive axis and the mode that produced it
// Positive throttle drives, negative throttle brakes above ReverseEngageSpeed and drives
// backward below it, zero throttle coasts against drag
// Brake and drag never exceed what stops the wheel's share of mass in one tick
func LongitudinalForce(in DriveInput) (float64, DriveMode) {
	if in.Dt < parameter.MinTickDuration || in.Distribution <= 0 {
		return 0, DriveCoast
	}
	throttle := in.Throttle
	if !vmath.IsFinite(throttle) {
		throttle = 0
	}
	throttle = vmath.Clamp(throttle, -1, 1)

	switch {
	case throttle > 0:
		return wheelTorqueForce(in, throttle, in.ForwardRatio), DriveThrottle

	case throttle < 0 && in.Speed > in.ReverseEngageSpeed:
		brake := -throttle * in.BrakeStrength * in.Mass * in.Distribution
		return -stopLimited(brake, in), DriveBrake

	case throttle < 0:
		return -wheelTorqueForce(in, -throttle, in.ReverseRatio), DriveReverse
	}

	if vmath.NearZero(in.Speed) {
		return 0, DriveCoast
	}
	drag := in.DragCoefficient*math.Abs(in.Speed)*in.Mass*in.Distribution +
		in.RollingResistance*in.Mass*in.Distribution
	return -vmath.Sign(in.Speed) * stopLimited(drag, in), DriveCoast
}

// wheelTorqueForce converts engine torque through the gearing into force at the contact patch
func wheelTorqueForce(in DriveInput, amount, ratio float64) float64 {
	curve := 1.0
	if in.TorqueCurve != nil {
		curve = in.TorqueCurve.Evaluate(vmath.Clamp01(in.CurveInput))
	}
	torque := in.PeakTorque * curve * amount * in.Distribution * math.Abs(ratio) * in.FinalDrive
	f, ok := vmath.SafeDiv(torque, in.WheelRadius)
	if !ok || f < 0 {
		return 0
	}
	return f
}

// stopLimited caps an opposing force magnitude so it cannot reverse the wheel's motion within one tick
func stopLimited(magnitude float64, in DriveInput) float64 {
	if magnitude <= 0 || !vmath.IsFinite(magnitude) {
		return 0
	}
	return math.Min(magnitude, in.CarryingMass*math.Abs(in.Speed)/in.Dt)
}

// HandbrakeInput carries one wheel's handbrake state
type HandbrakeInput struct {
	Engaged      bool
	Speed        float64
	Strength     float64 // deceleration per unit distribution
	Distribution float64
	Mass         float64
	Threshold    float64
}

// HandbrakeForce returns a force opposing Speed while engaged and moving faster than Threshold
func HandbrakeForce(in HandbrakeInput) float64 {
	if !in.Engaged || math.Abs(in.Speed) <= in.Threshold {
		return 0
	}
	f := -vmath.Sign(in.Speed) * in.Strength * in.Distribution * in.Mass
	if !vmath.IsFinite(f) {
		return 0
	}
	return f
}
