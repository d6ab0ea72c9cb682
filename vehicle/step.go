package vehicle

import (
	"fmt"
	"math"

	"github.com/lixenwraith/vi-racer/parameter"
	"github.com/lixenwraith/vi-racer/physics"
	"github.com/lixenwraith/vi-racer/telemetry"
	"github.com/lixenwraith/vi-racer/vmath"
)

// FixedUpdate advances the vehicle by one simulation step of dt seconds
// Order: per-wheel probe and wall guard, suspension, traction, steering, drivetrain
// Forces go to the body's accumulators, integration is the host's job
// Returns ErrDisabled, ErrNotAuthoritative or ErrInvalidTick without touching state
func (v *Vehicle) FixedUpdate(dt float64) error {
	if v.disabled != nil {
		return ErrDisabled
	}
	if !v.authoritative {
		return ErrNotAuthoritative
	}
	if !vmath.IsFinite(dt) || dt < parameter.MinTickDuration {
		v.metrics.tickSkipped()
		return fmt.Errorf("dt %g: %w", dt, ErrInvalidTick)
	}

	in := v.input
	p := pose{position: v.body.Position(), rotation: v.body.Rotation()}
	carrying := physics.CarryingMass(v.body.Mass(), WheelCount)

	for _, w := range v.wheels {
		w.sense(p)
	}
	for _, w := range v.wheels {
		w.applySuspension(p, carrying)
	}

	v.updateHandbrake(in.Handbrake)
	for _, w := range v.wheels {
		w.applyTraction(p, in, carrying, dt)
	}

	v.updateSteering(in.Steer, dt)

	from := v.drivetrain.Gear()
	v.shifted = v.drivetrain.Update(physics.DrivetrainInput{
		Throttle:     in.Throttle,
		ForwardSpeed: v.body.LinearVelocity().Dot(vmath.ForwardOf(p.rotation)),
		WheelRadius:  v.drivenRadius,
		Dt:           dt,
	})
	if v.shifted {
		v.metrics.gearShift()
		v.log.Debug().
			Int("from", from).
			Int("to", v.drivetrain.Gear()).
			Float64("rpm", v.drivetrain.RPM()).
			Msg("Gear shift")
	}

	v.tick++
	v.metrics.tickDone()
	v.publish(p)
	return nil
}

// updateHandbrake engages the rear axle while held and clears it on release
func (v *Vehicle) updateHandbrake(held bool) {
	for _, w := range v.wheels {
		w.handbrake = held && !w.position.Front()
	}
}

// updateSteering moves the front wheels toward their Ackermann targets at a
// speed-dependent bounded rate, and the cosmetic steering wheel toward the raw input
func (v *Vehicle) updateSteering(steer, dt float64) {
	phi := steer * v.cfg.Steering.MaxAngle
	left, right := physics.SteerTargets(phi, v.wheelbase, v.track)

	speedFactor := vmath.Clamp01(v.body.LinearVelocity().Len() / v.cfg.MaxSpeed)
	step := physics.SteerStep(v.cfg.Steering.Speed, v.effectiveness.Evaluate(speedFactor), dt)

	fl, fr := v.wheels[FrontLeft], v.wheels[FrontRight]
	fl.steerAngle = physics.SteerToward(fl.steerAngle, left, step)
	fr.steerAngle = physics.SteerToward(fr.steerAngle, right, step)

	propTarget := vmath.ClampAbs(phi*parameter.SteeringPropRatio, parameter.SteeringPropMaxAngle)
	propStep := v.cfg.Steering.Speed * parameter.SteeringPropRateMultiplier * dt
	v.steeringWheel = vmath.Approach(v.steeringWheel, propTarget, propStep)
}

// torqueCurveInput returns the torque curve key, normalized RPM or normalized speed
func (v *Vehicle) torqueCurveInput() float64 {
	if v.cfg.Drivetrain.CurveKey == CurveBySpeed {
		return vmath.Clamp01(math.Abs(v.ForwardSpeed()) / v.cfg.MaxSpeed)
	}
	return v.drivetrain.NormalizedRPM()
}

// Snapshot returns a value copy of the current vehicle state
func (v *Vehicle) Snapshot() telemetry.Snapshot {
	if v.disabled != nil {
		return telemetry.Snapshot{Vehicle: v.cfg.Name, Gear: 1}
	}
	return v.snapshot(pose{position: v.body.Position(), rotation: v.body.Rotation()})
}

func (v *Vehicle) snapshot(p pose) telemetry.Snapshot {
	s := telemetry.Snapshot{
		Vehicle:       v.cfg.Name,
		Tick:          v.tick,
		Position:      p.position,
		Rotation:      p.rotation,
		Velocity:      v.body.LinearVelocity(),
		ForwardSpeed:  v.ForwardSpeed(),
		DisplaySpeed:  v.DisplaySpeed(),
		Gear:          v.drivetrain.Gear(),
		RPM:           v.drivetrain.RPM(),
		NormalizedRPM: v.drivetrain.NormalizedRPM(),
		Throttle:      v.input.Throttle,
		Steer:         v.input.Steer,
		Brake:         v.BrakeInput(),
		Handbrake:     v.input.Handbrake,
		Shifted:       v.shifted,
		SteeringWheel: v.steeringWheel,
	}
	for i, w := range v.wheels {
		s.Wheels[i] = w.snapshot(p)
	}
	return s
}

// publish fans the tick's snapshot out to observers
func (v *Vehicle) publish(p pose) {
	if len(v.observers) == 0 {
		return
	}
	s := v.snapshot(p)
	for _, obs := range v.observers {
		obs.Observe(s)
	}
}
