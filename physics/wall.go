package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// WallRequest describes the outboard ray of one wheel
type WallRequest struct {
	Origin      mgl64.Vec3
	Direction   mgl64.Vec3 // unit outboard axle direction
	Reach       float64    // half the wheel width
	Restitution float64
	Filter      Filter
}

// WallResult reports the wall guard outcome for one wheel
type WallResult struct {
	Hit          bool
	Point        mgl64.Vec3
	Normal       mgl64.Vec3
	ClosingSpeed float64
	Impulse      mgl64.Vec3
}

// Corrected reports whether an impulse was applied
func (w WallResult) Corrected() bool {
	return w.Impulse != (mgl64.Vec3{})
}

// ResolveWall casts outboard from the wheel and, when the body is moving into the
// hit surface, applies an impulse cancelling that approach scaled by restitution
// Separating or tangential motion is left untouched
func ResolveWall(q SpatialQuery, body Body, req WallRequest) WallResult {
	if q == nil || body == nil || req.Reach <= 0 {
		return WallResult{}
	}

	c := q.Cast(Ray(), req.Origin, req.Origin.Add(req.Direction.Mul(req.Reach)), req.Filter)
	if !c.Hit {
		return WallResult{}
	}

	res := WallResult{Hit: true, Point: c.EndPosition, Normal: c.Normal}
	closing := -body.VelocityAt(c.EndPosition).Dot(c.Normal)
	if closing <= 0 {
		return res
	}

	res.ClosingSpeed = closing
	res.Impulse = c.Normal.Mul(closing * body.Mass() * req.Restitution)
	body.ApplyImpulseAt(c.EndPosition, res.Impulse)
	return res
}
