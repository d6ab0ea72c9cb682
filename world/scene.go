package world

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/parameter"
	"github.com/lixenwraith/vi-racer/physics"
	"github.com/lixenwraith/vi-racer/vmath"
)

// DefaultAngularDamping is the angular velocity fraction bodies lose per second
const DefaultAngularDamping = 0.5

// Plane is an infinite static half-space, solid where dot(Normal, p) < Offset
type Plane struct {
	Normal mgl64.Vec3
	Offset float64
	Tags   []string
}

// Box is an oriented box collider, static unless bound to a body
type Box struct {
	Center      mgl64.Vec3
	Rotation    mgl64.Quat
	HalfExtents mgl64.Vec3
	Tags        []string
	body        *Body
}

// Owner returns the body id of a dynamic box, 0 for static geometry
func (b *Box) Owner() physics.BodyID {
	if b.body == nil {
		return 0
	}
	return b.body.ID()
}

// pose returns the current center and rotation, following the body for dynamic boxes
func (b *Box) pose() (mgl64.Vec3, mgl64.Quat) {
	if b.body == nil {
		return b.Center, b.Rotation
	}
	return b.body.Position(), b.body.Rotation()
}

// Scene is a minimal collision world: static planes and boxes plus box bodies
// Implements physics.SpatialQuery, safe for concurrent Cast
type Scene struct {
	mu      sync.RWMutex
	gravity mgl64.Vec3
	planes  []Plane
	boxes   []*Box
	bodies  []*Body
}

// NewScene creates an empty scene with the given gravity vector
func NewScene(gravity mgl64.Vec3) *Scene {
	return &Scene{gravity: gravity}
}

// Gravity returns the scene gravity vector
func (s *Scene) Gravity() mgl64.Vec3 { return s.gravity }

// AddGround adds a horizontal ground plane at height z
func (s *Scene) AddGround(z float64, tags ...string) {
	s.AddPlane(vmath.AxisUp, z, tags...)
}

// AddPlane adds a static plane, normal is normalized
func (s *Scene) AddPlane(normal mgl64.Vec3, offset float64, tags ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planes = append(s.planes, Plane{Normal: vmath.V3Normalize(normal), Offset: offset, Tags: tags})
}

// AddBox adds a static oriented box
func (s *Scene) AddBox(center mgl64.Vec3, rotation mgl64.Quat, halfExtents mgl64.Vec3, tags ...string) *Box {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &Box{Center: center, Rotation: rotation.Normalize(), HalfExtents: halfExtents, Tags: tags}
	s.boxes = append(s.boxes, b)
	return b
}

// AddWalls encloses a square arena of the given half extent with four static walls
func (s *Scene) AddWalls(halfExtent, height, thickness float64, tags ...string) {
	ht := thickness / 2
	hh := height / 2
	long := halfExtent + thickness
	s.AddBox(mgl64.Vec3{halfExtent + ht, 0, hh}, mgl64.QuatIdent(), mgl64.Vec3{ht, long, hh}, tags...)
	s.AddBox(mgl64.Vec3{-halfExtent - ht, 0, hh}, mgl64.QuatIdent(), mgl64.Vec3{ht, long, hh}, tags...)
	s.AddBox(mgl64.Vec3{0, halfExtent + ht, hh}, mgl64.QuatIdent(), mgl64.Vec3{long, ht, hh}, tags...)
	s.AddBox(mgl64.Vec3{0, -halfExtent - ht, hh}, mgl64.QuatIdent(), mgl64.Vec3{long, ht, hh}, tags...)
}

// AddBody registers a body for integration and as a dynamic box collider
func (s *Scene) AddBody(b *Body) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = append(s.bodies, b)
	s.boxes = append(s.boxes, &Box{HalfExtents: b.HalfExtents(), Tags: b.Tags(), body: b})
}

// Bodies returns the registered bodies
func (s *Scene) Bodies() []*Body {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// Boxes returns static boxes, for rendering
func (s *Scene) Boxes() []*Box {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Box, 0, len(s.boxes))
	for _, b := range s.boxes {
		if b.body == nil {
			out = append(out, b)
		}
	}
	return out
}

// Step integrates every body then pushes chassis boxes out of static geometry
func (s *Scene) Step(dt float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bodies {
		b.Integrate(dt, s.gravity)
		s.resolveStatic(b)
	}
}

// resolveStatic moves a body out of the deepest static penetration of its corners
// and removes the velocity component driving into that surface
func (s *Scene) resolveStatic(b *Body) {
	for pass := 0; pass < 2; pass++ {
		depth, normal := 0.0, mgl64.Vec3{}
		for _, c := range b.corners() {
			if d, n, ok := s.staticPenetration(c); ok && d > depth {
				depth, normal = d, n
			}
		}
		if depth <= parameter.Epsilon {
			return
		}

		b.mu.Lock()
		b.position = b.position.Add(normal.Mul(depth))
		if into := b.linearVelocity.Dot(normal); into < 0 {
			b.linearVelocity = b.linearVelocity.Sub(normal.Mul(into))
		}
		b.mu.Unlock()
	}
}

// staticPenetration returns how deep p lies inside static geometry and the exit normal
func (s *Scene) staticPenetration(p mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	best, normal, found := 0.0, mgl64.Vec3{}, false
	for _, pl := range s.planes {
		if d := pl.Offset - pl.Normal.Dot(p); d > best {
			best, normal, found = d, pl.Normal, true
		}
	}
	for _, box := range s.boxes {
		if box.body != nil {
			continue
		}
		if d, n, ok := boxPenetration(box, p); ok && d > best {
			best, normal, found = d, n, true
		}
	}
	return best, normal, found
}

// boxPenetration returns the distance from an interior point to the nearest face of box
func boxPenetration(box *Box, p mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	center, rot := box.pose()
	local := rot.Conjugate().Rotate(p.Sub(center))
	h := box.HalfExtents

	best := math.Inf(1)
	var axis int
	var sign float64
	for i := 0; i < 3; i++ {
		d := h[i] - math.Abs(local[i])
		if d < 0 {
			return 0, mgl64.Vec3{}, false
		}
		if d < best {
			best, axis, sign = d, i, vmath.Sign(local[i])
		}
	}
	if sign == 0 {
		sign = 1
	}
	var n mgl64.Vec3
	n[axis] = sign
	return best, rot.Rotate(n), true
}
