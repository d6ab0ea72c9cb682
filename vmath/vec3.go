package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body frame convention: +X forward, +Y left, +Z up (right-handed)
var (
	AxisForward = mgl64.Vec3{1, 0, 0}
	AxisLeft    = mgl64.Vec3{0, 1, 0}
	AxisUp      = mgl64.Vec3{0, 0, 1}
)

// ForwardOf returns the world-space forward axis of rotation q
func ForwardOf(q mgl64.Quat) mgl64.Vec3 { return q.Rotate(AxisForward) }

// LeftOf returns the world-space left axis of rotation q
func LeftOf(q mgl64.Quat) mgl64.Vec3 { return q.Rotate(AxisLeft) }

// UpOf returns the world-space up axis of rotation q
func UpOf(q mgl64.Quat) mgl64.Vec3 { return q.Rotate(AxisUp) }

// FromYaw returns a rotation of deg degrees about the up axis, positive turns left
func FromYaw(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(DegToRad(deg), AxisUp)
}

// Yaw returns the heading of q in degrees, measured from +X toward +Y
// Forward axis projected onto the ground plane; pure pitch returns 0
func Yaw(q mgl64.Quat) float64 {
	f := ForwardOf(q)
	if NearZero(f.X()) && NearZero(f.Y()) {
		return 0
	}
	return RadToDeg(math.Atan2(f.Y(), f.X()))
}

// V3Normalize returns the unit vector of v, zero-safe
// mgl64 Normalize divides by length unguarded
func V3Normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if NearZero(l) {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// V3Project returns the component of v along unit direction dir
func V3Project(v, dir mgl64.Vec3) mgl64.Vec3 {
	return dir.Mul(v.Dot(dir))
}

// V3Reject returns v with its component along unit direction dir removed
func V3Reject(v, dir mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(V3Project(v, dir))
}

// V3IsFinite reports whether every component of v is finite
func V3IsFinite(v mgl64.Vec3) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}

// V3ClampMagnitude limits vector magnitude, preserving direction
func V3ClampMagnitude(v mgl64.Vec3, maxMag float64) mgl64.Vec3 {
	if maxMag <= 0 {
		return mgl64.Vec3{}
	}
	l := v.Len()
	if l <= maxMag {
		return v
	}
	return v.Mul(maxMag / l)
}

// V3Near reports whether every component of a and b differs by at most tol
// mgl64 ApproxEqual is relative and rejects tiny residues against exact zero
func V3Near(a, b mgl64.Vec3, tol float64) bool {
	return math.Abs(a[0]-b[0]) <= tol && math.Abs(a[1]-b[1]) <= tol && math.Abs(a[2]-b[2]) <= tol
}
