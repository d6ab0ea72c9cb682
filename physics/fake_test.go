package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// scriptedQuery returns queued contacts in order and records each cast origin
type scriptedQuery struct {
	contacts []Contact
	origins  []mgl64.Vec3
	shapes   []Shape
}

func (q *scriptedQuery) Cast(shape Shape, from, to mgl64.Vec3, filter Filter) Contact {
	q.origins = append(q.origins, from)
	q.shapes = append(q.shapes, shape)
	if len(q.contacts) == 0 {
		return Contact{StartPosition: from, EndPosition: to}
	}
	c := q.contacts[0]
	if len(q.contacts) > 1 {
		q.contacts = q.contacts[1:]
	}
	c.StartPosition = from
	return c
}

// pointBody is a translating body with no rotation
type pointBody struct {
	id       BodyID
	mass     float64
	velocity mgl64.Vec3
	impulses []mgl64.Vec3
	forces   []mgl64.Vec3
}

func (b *pointBody) ID() BodyID { return b.id }
func (b *pointBody) Position() mgl64.Vec3 { return mgl64.Vec3{} }
func (b *pointBody) Rotation() mgl64.Quat { return mgl64.QuatIdent() }
func (b *pointBody) LinearVelocity() mgl64.Vec3 { return b.velocity }
func (b *pointBody) Mass() float64 { return b.mass }
func (b *pointBody) VelocityAt(mgl64.Vec3) mgl64.Vec3 { return b.velocity }
func (b *pointBody) ApplyForceAt(_, force mgl64.Vec3) { b.forces = append(b.forces, force) }
func (b *pointBody) ApplyImpulseAt(_, impulse mgl64.Vec3) { b.impulses = append(b.impulses, impulse) }
