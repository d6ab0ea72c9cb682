package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/parameter"
	"github.com/lixenwraith/vi-racer/physics"
	"github.com/lixenwraith/vi-racer/vmath"
)

// Cylinder casts are approximated by sweeping rays from points on the cylinder
// surface: cylinderRings rings across the width, cylinderSpokes points per rim
const (
	cylinderRings  = 3
	cylinderSpokes = 8
)

// hit is one ray intersection, t in [0, length]
type hit struct {
	t        float64
	normal   mgl64.Vec3
	embedded bool
}

// Cast implements physics.SpatialQuery
func (s *Scene) Cast(shape physics.Shape, from, to mgl64.Vec3, filter physics.Filter) physics.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	delta := to.Sub(from)
	length := delta.Len()
	dir := vmath.V3Normalize(delta)
	res := physics.Contact{StartPosition: from, EndPosition: to}

	var samples []mgl64.Vec3
	if shape.Kind == physics.ShapeCylinder {
		samples = cylinderSamples(shape, from, dir)
	} else {
		samples = []mgl64.Vec3{from}
	}

	best := hit{t: math.Inf(1)}
	for _, p := range samples {
		h, ok := s.raycast(p, dir, length, filter)
		if !ok {
			continue
		}
		if h.embedded {
			res.StartedEmbedded = true
		}
		if h.t < best.t {
			best = h
		}
	}
	if math.IsInf(best.t, 1) {
		return res
	}

	res.Hit = true
	res.Distance = best.t
	res.Normal = best.normal
	res.EndPosition = from.Add(dir.Mul(best.t))
	return res
}

// cylinderSamples returns the axis center plus rim points of each ring
// Rim points lie in the plane perpendicular to the axis
func cylinderSamples(shape physics.Shape, origin, dir mgl64.Vec3) []mgl64.Vec3 {
	axis := vmath.V3Normalize(shape.Axis)
	if axis == (mgl64.Vec3{}) {
		return []mgl64.Vec3{origin}
	}
	u := vmath.V3Normalize(vmath.V3Reject(dir, axis))
	if u == (mgl64.Vec3{}) {
		u = vmath.V3Normalize(vmath.V3Reject(vmath.AxisUp, axis))
		if u == (mgl64.Vec3{}) {
			u = vmath.V3Normalize(vmath.V3Reject(vmath.AxisForward, axis))
		}
	}
	w := axis.Cross(u)

	out := make([]mgl64.Vec3, 0, cylinderRings*(cylinderSpokes+1))
	for r := 0; r < cylinderRings; r++ {
		along := (float64(r)/float64(cylinderRings-1) - 0.5) * shape.Width
		center := origin.Add(axis.Mul(along))
		out = append(out, center)
		for k := 0; k < cylinderSpokes; k++ {
			a := 2 * math.Pi * float64(k) / cylinderSpokes
			sin, cos := math.Sincos(a)
			out = append(out, center.Add(u.Mul(cos*shape.Radius)).Add(w.Mul(sin*shape.Radius)))
		}
	}
	return out
}

// raycast returns the nearest unfiltered hit along dir within length
func (s *Scene) raycast(origin, dir mgl64.Vec3, length float64, filter physics.Filter) (hit, bool) {
	best, found := hit{t: math.Inf(1)}, false
	consider := func(h hit, ok bool) {
		if ok && (h.t < best.t || (h.t == best.t && h.embedded)) {
			best, found = h, true
		}
	}
	for _, pl := range s.planes {
		if filter.Excludes(0, pl.Tags) {
			continue
		}
		consider(rayPlane(pl, origin, dir, length))
	}
	for _, box := range s.boxes {
		if filter.Excludes(box.Owner(), box.Tags) {
			continue
		}
		consider(rayBox(box, origin, dir, length))
	}
	return best, found
}

func rayPlane(pl Plane, origin, dir mgl64.Vec3, length float64) (hit, bool) {
	height := pl.Normal.Dot(origin) - pl.Offset
	if height < 0 {
		return hit{t: 0, normal: pl.Normal, embedded: true}, true
	}
	denom := pl.Normal.Dot(dir)
	if denom > -parameter.Epsilon {
		return hit{}, false
	}
	t := -height / denom
	if t > length {
		return hit{}, false
	}
	return hit{t: t, normal: pl.Normal}, true
}

// rayBox is the slab test in box space
func rayBox(box *Box, origin, dir mgl64.Vec3, length float64) (hit, bool) {
	center, rot := box.pose()
	inv := rot.Conjugate()
	o := inv.Rotate(origin.Sub(center))
	d := inv.Rotate(dir)
	h := box.HalfExtents

	if math.Abs(o[0]) < h[0] && math.Abs(o[1]) < h[1] && math.Abs(o[2]) < h[2] {
		_, n, _ := boxPenetration(box, origin)
		return hit{t: 0, normal: n, embedded: true}, true
	}

	tmin, tmax := 0.0, length
	var enter mgl64.Vec3
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < parameter.Epsilon {
			if o[i] < -h[i] || o[i] > h[i] {
				return hit{}, false
			}
			continue
		}
		t1 := (-h[i] - o[i]) / d[i]
		t2 := (h[i] - o[i]) / d[i]
		var n mgl64.Vec3
		n[i] = -1
		if t1 > t2 {
			t1, t2 = t2, t1
			n[i] = 1
		}
		if t1 > tmin {
			tmin, enter = t1, n
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return hit{}, false
		}
	}
	if enter == (mgl64.Vec3{}) {
		// origin on the surface, moving along it
		return hit{}, false
	}
	return hit{t: tmin, normal: rot.Rotate(enter)}, true
}
