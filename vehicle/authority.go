package vehicle

import (
	"fmt"

	"github.com/lixenwraith/vi-racer/physics"
	"github.com/lixenwraith/vi-racer/vmath"
)

// State is the replicated subset of a vehicle's runtime state
// Body pose and velocity travel with the host body, not here
type State struct {
	Tick          uint64
	Gear          int
	RPM           float64
	SteerLeft     float64
	SteerRight    float64
	SteeringWheel float64
}

// Authoritative reports whether this process simulates the vehicle
func (v *Vehicle) Authoritative() bool { return v.authoritative }

// SetAuthority transfers simulation ownership
// The transfer is a barrier: pending input, contacts, forces, handbrake flags
// and shift hold-off are discarded rather than merged
func (v *Vehicle) SetAuthority(local bool) {
	if v.authoritative == local {
		return
	}
	v.authoritative = local
	v.discardTickState()
	v.log.Debug().Bool("local", local).Uint64("tick", v.tick).Msg("Vehicle authority changed")
}

// State returns the replicated state of the vehicle
func (v *Vehicle) State() State {
	s := State{Tick: v.tick, Gear: v.CurrentGear(), RPM: v.CurrentRPM(), SteeringWheel: v.steeringWheel}
	if v.disabled == nil {
		s.SteerLeft = v.wheels[FrontLeft].steerAngle
		s.SteerRight = v.wheels[FrontRight].steerAngle
	}
	return s
}

// ApplyReplicated installs state received from the authoritative simulator
// Steer angles are clamped to the configured maximum
func (v *Vehicle) ApplyReplicated(s State) error {
	if v.disabled != nil {
		return ErrDisabled
	}
	if v.authoritative {
		return ErrAuthoritative
	}
	if err := v.drivetrain.Restore(s.Gear, s.RPM); err != nil {
		return fmt.Errorf("replicated state tick %d: %w", s.Tick, err)
	}

	// Ackermann inner angle can exceed the configured max steer angle
	limit := v.maxWheelAngle()
	clean := func(a float64) float64 {
		if !vmath.IsFinite(a) {
			return 0
		}
		return vmath.ClampAbs(a, limit)
	}
	v.wheels[FrontLeft].steerAngle = clean(s.SteerLeft)
	v.wheels[FrontRight].steerAngle = clean(s.SteerRight)
	if vmath.IsFinite(s.SteeringWheel) {
		v.steeringWheel = s.SteeringWheel
	}
	v.tick = s.Tick
	return nil
}

// maxWheelAngle returns the inner wheel angle at full lock
func (v *Vehicle) maxWheelAngle() float64 {
	left, _ := physics.SteerTargets(v.cfg.Steering.MaxAngle, v.wheelbase, v.track)
	return left
}
