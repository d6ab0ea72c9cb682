package vmath

import (
	"math"

	"github.com/lixenwraith/vi-racer/parameter"
)

// --- Scalar ---

// Clamp limits x to [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Clamp01 limits x to [0, 1]
func Clamp01(x float64) float64 {
	return Clamp(x, 0, 1)
}

// ClampAbs limits x to [-limit, limit], negative limit collapses to 0
func ClampAbs(x, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return Clamp(x, -limit, limit)
}

// Sign returns -1, 0, or 1
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

// Lerp interpolates between a and b by t, t is not clamped
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Approach moves current toward target by at most maxDelta, never overshooting
// Negative maxDelta is treated as 0
func Approach(current, target, maxDelta float64) float64 {
	if maxDelta <= 0 {
		return current
	}
	if current < target {
		return math.Min(current+maxDelta, target)
	}
	return math.Max(current-maxDelta, target)
}

// NearZero reports whether |x| is below parameter.Epsilon
func NearZero(x float64) bool {
	return math.Abs(x) < parameter.Epsilon
}

// IsFinite reports whether x is neither NaN nor ±Inf
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// SafeDiv returns a/b, or (0, false) when b is near zero or the result is not finite
func SafeDiv(a, b float64) (float64, bool) {
	if NearZero(b) {
		return 0, false
	}
	r := a / b
	if !IsFinite(r) {
		return 0, false
	}
	return r, true
}

// DegToRad converts degrees to radians
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

// RadToDeg converts radians to degrees
func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }
