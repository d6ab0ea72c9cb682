package telemetry

import (
	"github.com/go-gl/mathgl/mgl64"
)

// WheelSnapshot is one wheel's state at the end of a tick
type WheelSnapshot struct {
	Name              string
	Grounded          bool
	Hit               bool
	Embedded          bool
	Degraded          bool
	Handbrake         bool
	WallHit           bool
	Distance          float64
	InwardOffset      float64
	Travel            float64
	NormalForce       float64
	LateralForce      float64
	LongitudinalForce float64
	SlipVelocity      float64
	SteerAngle        float64
	Spin              float64
	Mount             mgl64.Vec3
	ContactNormal     mgl64.Vec3
	ContactPoint      mgl64.Vec3
	WallImpulse       mgl64.Vec3
	DriveMode         string
}

// Snapshot is a value copy of one vehicle after a tick
// Observers may retain it, nothing in it aliases live vehicle state
type Snapshot struct {
	Vehicle       string
	Tick          uint64
	Position      mgl64.Vec3
	Rotation      mgl64.Quat
	Velocity      mgl64.Vec3
	ForwardSpeed  float64
	DisplaySpeed  float64
	Gear          int
	RPM           float64
	NormalizedRPM float64
	Throttle      float64
	Steer         float64
	Brake         float64
	Handbrake     bool
	Shifted       bool
	SteeringWheel float64
	Wheels        [4]WheelSnapshot
}

// MaxSlip returns the largest absolute slip velocity of any grounded wheel
func (s Snapshot) MaxSlip() float64 {
	m := 0.0
	for _, w := range s.Wheels {
		if !w.Grounded {
			continue
		}
		v := w.SlipVelocity
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}

// GroundedWheels counts wheels with drivable contact
func (s Snapshot) GroundedWheels() int {
	n := 0
	for _, w := range s.Wheels {
		if w.Grounded {
			n++
		}
	}
	return n
}

// Observer receives a snapshot after every simulated tick, on the simulation goroutine
// Implementations must return quickly and must not call back into the vehicle
type Observer interface {
	Observe(Snapshot)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Snapshot)

func (f ObserverFunc) Observe(s Snapshot) { f(s) }
