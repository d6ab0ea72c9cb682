package physics

import (
	"math"

	"github.com/lixenwraith/vi-racer/parameter"
	"github.com/lixenwraith/vi-racer/vmath"
)

// Ackermann returns the inner and outer front wheel angles in degrees for a
// desired steer angle phi, signed like phi
// ok is false for a degenerate wheelbase, both angles are then 0
func Ackermann(phi, wheelbase, track float64) (inner, outer float64, ok bool) {
	if wheelbase <= parameter.Epsilon || !vmath.IsFinite(phi) {
		return 0, 0, false
	}
	if phi == 0 {
		return 0, 0, true
	}

	a := vmath.DegToRad(math.Abs(phi))
	s, c := math.Sincos(a)
	numer := 2 * wheelbase * s
	inner = vmath.RadToDeg(math.Atan2(numer, 2*wheelbase*c-track*s))
	outer = vmath.RadToDeg(math.Atan2(numer, 2*wheelbase*c+track*s))

	sign := vmath.Sign(phi)
	return inner * sign, outer * sign, true
}

// SteerTargets returns per-side target angles, positive phi turns left so the
// left wheel is the inner one
func SteerTargets(phi, wheelbase, track float64) (left, right float64) {
	inner, outer, ok := Ackermann(phi, wheelbase, track)
	if !ok {
		return 0, 0
	}
	if phi >= 0 {
		return inner, outer
	}
	return outer, inner
}

// SteerStep returns the largest angle change allowed this tick
func SteerStep(steeringSpeed, effectiveness, dt float64) float64 {
	step := steeringSpeed * effectiveness * dt
	if !vmath.IsFinite(step) || step < 0 {
		return 0
	}
	return step
}

// SteerToward moves a wheel angle toward its target by at most step degrees
func SteerToward(current, target, step float64) float64 {
	return vmath.Approach(current, target, step)
}
