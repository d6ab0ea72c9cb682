package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Collider tags shared by hosts and the vehicle core
const (
	TagWheel   = "wheel"
	TagVehicle = "vehicle"
)

// BodyID identifies a rigid body and the colliders it owns, zero means none
type BodyID uint64

// ShapeKind selects the swept volume of a cast
type ShapeKind uint8

const (
	ShapeRay ShapeKind = iota
	ShapeCylinder
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeRay:
		return "ray"
	case ShapeCylinder:
		return "cylinder"
	default:
		return "unknown"
	}
}

// Shape describes what is swept from a cast origin to its end
// Cylinder axis is world space and unit length, Width is measured along it
type Shape struct {
	Kind   ShapeKind
	Radius float64
	Width  float64
	Axis   mgl64.Vec3
}

// Ray returns a zero-volume cast shape
func Ray() Shape { return Shape{Kind: ShapeRay} }

// Cylinder returns a cylinder cast shape around axis
func Cylinder(radius, width float64, axis mgl64.Vec3) Shape {
	return Shape{Kind: ShapeCylinder, Radius: radius, Width: width, Axis: axis}
}

// Filter excludes colliders from a cast
type Filter struct {
	IgnoreOwner BodyID
	IgnoreTags  []string
}

// Excludes reports whether a collider with the given owner and tags is skipped
func (f Filter) Excludes(owner BodyID, tags []string) bool {
	if f.IgnoreOwner != 0 && owner == f.IgnoreOwner {
		return true
	}
	for _, ignored := range f.IgnoreTags {
		for _, t := range tags {
			if t == ignored {
				return true
			}
		}
	}
	return false
}

// Contact is the outcome of a shape cast
// EndPosition is the shape origin at the point of contact, or the cast end on a miss
// StartedEmbedded is set when the shape overlapped geometry at its origin
type Contact struct {
	Hit             bool
	StartedEmbedded bool
	Distance        float64
	Normal          mgl64.Vec3
	StartPosition   mgl64.Vec3
	EndPosition     mgl64.Vec3
}

// SpatialQuery is the host collision world seen by the vehicle core
type SpatialQuery interface {
	Cast(shape Shape, from, to mgl64.Vec3, filter Filter) Contact
}

// Body is the rigid body a vehicle reads its pose from and pushes forces into
// Forces and impulses are accumulated by the host and resolved on its own integration step
type Body interface {
	ID() BodyID
	Position() mgl64.Vec3
	Rotation() mgl64.Quat
	LinearVelocity() mgl64.Vec3
	Mass() float64
	VelocityAt(point mgl64.Vec3) mgl64.Vec3
	ApplyForceAt(point, force mgl64.Vec3)
	ApplyImpulseAt(point, impulse mgl64.Vec3)
}

// Teleporter is implemented by bodies that accept an instantaneous pose change
type Teleporter interface {
	Teleport(position mgl64.Vec3, rotation mgl64.Quat)
}

// Curve maps a normalized input in [0, 1] to a scalar
type Curve interface {
	Evaluate(x float64) float64
}
