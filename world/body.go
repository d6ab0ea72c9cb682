package world

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/physics"
	"github.com/lixenwraith/vi-racer/vmath"
)

// Body is a rigid box with diagonal inertia
// Forces and impulses accumulate between steps and are resolved together by Integrate,
// so the order in which wheels push never changes the result
type Body struct {
	mu sync.Mutex

	id          physics.BodyID
	mass        float64
	invMass     float64
	halfExtents mgl64.Vec3
	invInertia  mgl64.Vec3 // body frame, diagonal
	tags        []string

	position        mgl64.Vec3
	rotation        mgl64.Quat
	linearVelocity  mgl64.Vec3
	angularVelocity mgl64.Vec3

	force      mgl64.Vec3
	torque     mgl64.Vec3
	linImpulse mgl64.Vec3
	angImpulse mgl64.Vec3

	// AngularDamping is the fraction of angular velocity removed per second
	AngularDamping float64
}

// NewBody creates a box body at rest, halfExtents along the body's forward, left and up axes
func NewBody(id physics.BodyID, mass float64, halfExtents mgl64.Vec3, position mgl64.Vec3, rotation mgl64.Quat, tags ...string) *Body {
	b := &Body{
		id:             id,
		mass:           mass,
		halfExtents:    halfExtents,
		tags:           tags,
		position:       position,
		rotation:       rotation.Normalize(),
		AngularDamping: DefaultAngularDamping,
	}
	if mass > 0 {
		b.invMass = 1 / mass
		hx, hy, hz := halfExtents.X(), halfExtents.Y(), halfExtents.Z()
		// solid box: I = m/3 * (a² + b²) for half extents a, b
		b.invInertia = mgl64.Vec3{
			safeInv(mass / 3 * (hy*hy + hz*hz)),
			safeInv(mass / 3 * (hx*hx + hz*hz)),
			safeInv(mass / 3 * (hx*hx + hy*hy)),
		}
	}
	return b
}

func safeInv(x float64) float64 {
	r, ok := vmath.SafeDiv(1, x)
	if !ok {
		return 0
	}
	return r
}

func (b *Body) ID() physics.BodyID { return b.id }

func (b *Body) Mass() float64 { return b.mass }

// HalfExtents returns the chassis box size
func (b *Body) HalfExtents() mgl64.Vec3 { return b.halfExtents }

// Tags returns the collider tags of the chassis
func (b *Body) Tags() []string { return b.tags }

func (b *Body) Position() mgl64.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.position
}

func (b *Body) Rotation() mgl64.Quat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rotation
}

func (b *Body) LinearVelocity() mgl64.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.linearVelocity
}

// AngularVelocity returns world-space angular velocity in rad/s
func (b *Body) AngularVelocity() mgl64.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.angularVelocity
}

// VelocityAt returns the velocity of the body-fixed point currently at point
func (b *Body) VelocityAt(point mgl64.Vec3) mgl64.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.linearVelocity.Add(b.angularVelocity.Cross(point.Sub(b.position)))
}

// ApplyForceAt accumulates a force for the next Integrate
func (b *Body) ApplyForceAt(point, force mgl64.Vec3) {
	if !vmath.V3IsFinite(force) || !vmath.V3IsFinite(point) {
		return
	}
	b.mu.Lock()
	b.force = b.force.Add(force)
	b.torque = b.torque.Add(point.Sub(b.position).Cross(force))
	b.mu.Unlock()
}

// ApplyImpulseAt accumulates an impulse resolved at the start of the next Integrate
func (b *Body) ApplyImpulseAt(point, impulse mgl64.Vec3) {
	if !vmath.V3IsFinite(impulse) || !vmath.V3IsFinite(point) {
		return
	}
	b.mu.Lock()
	b.linImpulse = b.linImpulse.Add(impulse)
	b.angImpulse = b.angImpulse.Add(point.Sub(b.position).Cross(impulse))
	b.mu.Unlock()
}

// SetLinearVelocity overrides the linear velocity
func (b *Body) SetLinearVelocity(v mgl64.Vec3) {
	b.mu.Lock()
	b.linearVelocity = v
	b.mu.Unlock()
}

// SetAngularVelocity overrides the angular velocity
func (b *Body) SetAngularVelocity(w mgl64.Vec3) {
	b.mu.Lock()
	b.angularVelocity = w
	b.mu.Unlock()
}

// Teleport moves the body, stopping it and dropping pending forces
func (b *Body) Teleport(position mgl64.Vec3, rotation mgl64.Quat) {
	b.mu.Lock()
	b.position = position
	b.rotation = rotation.Normalize()
	b.linearVelocity = mgl64.Vec3{}
	b.angularVelocity = mgl64.Vec3{}
	b.clearAccumulators()
	b.mu.Unlock()
}

// PendingForce returns the accumulated force not yet integrated
func (b *Body) PendingForce() mgl64.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.force
}

// PendingImpulse returns the accumulated impulse not yet integrated
func (b *Body) PendingImpulse() mgl64.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.linImpulse
}

// Integrate resolves impulses, then forces and gravity, with semi-implicit Euler
func (b *Body) Integrate(dt float64, gravity mgl64.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.invMass == 0 || dt <= 0 {
		b.clearAccumulators()
		return
	}

	b.linearVelocity = b.linearVelocity.Add(b.linImpulse.Mul(b.invMass))
	b.angularVelocity = b.angularVelocity.Add(b.applyInvInertia(b.angImpulse))

	b.linearVelocity = b.linearVelocity.Add(b.force.Mul(b.invMass).Add(gravity).Mul(dt))
	b.angularVelocity = b.angularVelocity.Add(b.applyInvInertia(b.torque).Mul(dt))
	if b.AngularDamping > 0 {
		b.angularVelocity = b.angularVelocity.Mul(vmath.Clamp01(1 - b.AngularDamping*dt))
	}

	b.position = b.position.Add(b.linearVelocity.Mul(dt))

	// q' = q + dt/2 * ω * q
	w := b.angularVelocity
	spin := mgl64.Quat{W: 0, V: w}.Mul(b.rotation).Scale(0.5 * dt)
	b.rotation = b.rotation.Add(spin).Normalize()

	b.clearAccumulators()
}

// applyInvInertia maps a world-space torque or angular impulse to angular acceleration or velocity change
func (b *Body) applyInvInertia(v mgl64.Vec3) mgl64.Vec3 {
	local := b.rotation.Conjugate().Rotate(v)
	local = mgl64.Vec3{local[0] * b.invInertia[0], local[1] * b.invInertia[1], local[2] * b.invInertia[2]}
	return b.rotation.Rotate(local)
}

func (b *Body) clearAccumulators() {
	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
	b.linImpulse = mgl64.Vec3{}
	b.angImpulse = mgl64.Vec3{}
}

// corners returns the eight chassis corners in world space
func (b *Body) corners() [8]mgl64.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out [8]mgl64.Vec3
	h := b.halfExtents
	i := 0
	for _, sx := range [2]float64{-1, 1} {
		for _, sy := range [2]float64{-1, 1} {
			for _, sz := range [2]float64{-1, 1} {
				local := mgl64.Vec3{sx * h[0], sy * h[1], sz * h[2]}
				out[i] = b.position.Add(b.rotation.Rotate(local))
				i++
			}
		}
	}
	return out
}
