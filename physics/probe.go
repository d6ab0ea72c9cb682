package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/parameter"
	"github.com/lixenwraith/vi-racer/vmath"
)

// ProbeRequest describes one wheel's downward ground probe in world space
type ProbeRequest struct {
	Mount       mgl64.Vec3 // wheel mount point
	Down        mgl64.Vec3 // unit cast direction
	Axle        mgl64.Vec3 // unit wheel axle, cylinder axis
	Inward      mgl64.Vec3 // unit direction toward the vehicle centerline
	RestHeight  float64
	WheelRadius float64
	WheelWidth  float64
	InwardStep  float64
	InwardMax   float64
	Filter      Filter
}

// ProbeResult is the accepted probe contact and how it was obtained
// Offset is the inward shift of the accepted attempt
// Degraded is set when every attempt started embedded and the last one was kept
type ProbeResult struct {
	Contact
	Offset   float64
	Attempts int
	Degraded bool
}

// Length returns the probe cast length, rest height plus wheel radius
func (r ProbeRequest) Length() float64 {
	return r.RestHeight + r.WheelRadius
}

// Probe sweeps a thin cylinder down from the mount and retries inward while the
// cylinder starts embedded (typically against a wall), up to InwardMax
// The loop is bounded by ProbeMaxIterations regardless of step size
func Probe(q SpatialQuery, req ProbeRequest) ProbeResult {
	length := req.Length()
	if q == nil || length <= parameter.Epsilon || !vmath.IsFinite(length) {
		return ProbeResult{Contact: Contact{StartPosition: req.Mount, EndPosition: req.Mount}}
	}

	shape := Cylinder(req.WheelRadius*parameter.ProbeRadiusFactor, req.WheelWidth, req.Axle)
	cast := req.Down.Mul(length)

	var res ProbeResult
	offset := 0.0
	for i := 0; i <= parameter.ProbeMaxIterations; i++ {
		from := req.Mount.Add(req.Inward.Mul(offset))
		c := q.Cast(shape, from, from.Add(cast), req.Filter)
		res = ProbeResult{Contact: c, Offset: offset, Attempts: i + 1}
		if !c.StartedEmbedded {
			return res
		}

		next := offset + req.InwardStep
		if req.InwardStep <= parameter.Epsilon || next > req.InwardMax+parameter.Epsilon {
			break
		}
		offset = next
	}

	res.Degraded = true
	return res
}

// WallOrigin returns the probe end position with the inward offset undone
func WallOrigin(res ProbeResult, inward mgl64.Vec3) mgl64.Vec3 {
	return res.EndPosition.Sub(inward.Mul(res.Offset))
}
