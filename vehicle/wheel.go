package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/parameter"
	"github.com/lixenwraith/vi-racer/physics"
	"github.com/lixenwraith/vi-racer/telemetry"
	"github.com/lixenwraith/vi-racer/vmath"
)

// Wheel is the runtime state of one wheel, owned by its Vehicle
type Wheel struct {
	vehicle      *Vehicle
	position     WheelPosition
	spec         WheelSpec
	distribution float64

	steerAngle float64 // degrees about body up, positive left
	handbrake  bool
	spin       float64 // cosmetic roll angle, degrees

	probe        physics.ProbeResult
	wall         physics.WallResult
	grounded     bool
	normalForce  float64
	lateralForce float64
	longForce    float64
	slipVelocity float64
	driveMode    physics.DriveMode
}

// pose is the body pose captured once per tick
type pose struct {
	position mgl64.Vec3
	rotation mgl64.Quat
}

// Vehicle returns the owning vehicle
func (w *Wheel) Vehicle() *Vehicle { return w.vehicle }

// Position returns which corner the wheel is mounted at
func (w *Wheel) Position() WheelPosition { return w.position }

// Spec returns the wheel's mount and size
func (w *Wheel) Spec() WheelSpec { return w.spec }

// Distribution returns the wheel's share of engine force
func (w *Wheel) Distribution() float64 { return w.distribution }

// SteerAngle returns the wheel's yaw relative to the body in degrees
func (w *Wheel) SteerAngle() float64 { return w.steerAngle }

// Contact returns the last accepted probe contact
func (w *Wheel) Contact() physics.Contact { return w.probe.Contact }

// Probe returns the last probe result including retry details
func (w *Wheel) Probe() physics.ProbeResult { return w.probe }

// Grounded reports whether the wheel had drivable contact last tick
func (w *Wheel) Grounded() bool { return w.grounded }

// HandbrakeEngaged reports whether the handbrake acts on this wheel
func (w *Wheel) HandbrakeEngaged() bool { return w.handbrake }

// NormalForce returns the last suspension force magnitude
func (w *Wheel) NormalForce() float64 { return w.normalForce }

// LateralForce returns the last signed force along the slip axis
func (w *Wheel) LateralForce() float64 { return w.lateralForce }

// LongitudinalForce returns the last signed force along the drive axis
func (w *Wheel) LongitudinalForce() float64 { return w.longForce }

// Travel returns suspension compression for display
func (w *Wheel) Travel() float64 {
	if !w.probe.Hit {
		return 0
	}
	return physics.Travel(w.vehicle.cfg.Suspension.RestHeight, w.probe.Distance)
}

// Spin returns the cosmetic roll angle in degrees
func (w *Wheel) Spin() float64 { return w.spin }

func (w *Wheel) reset() {
	w.handbrake = false
	w.probe = physics.ProbeResult{}
	w.wall = physics.WallResult{}
	w.grounded = false
	w.normalForce = 0
	w.lateralForce = 0
	w.longForce = 0
	w.slipVelocity = 0
	w.driveMode = physics.DriveCoast
}

// mount returns the world-space mount point
func (w *Wheel) mount(p pose) mgl64.Vec3 {
	return p.position.Add(p.rotation.Rotate(w.spec.Mount))
}

// rotation returns the world-space wheel orientation including steer
func (w *Wheel) rotation(p pose) mgl64.Quat {
	if w.steerAngle == 0 {
		return p.rotation
	}
	return p.rotation.Mul(vmath.FromYaw(w.steerAngle))
}

// outboard returns the steered axle direction pointing away from the centerline
func (w *Wheel) outboard(p pose) mgl64.Vec3 {
	return vmath.LeftOf(w.rotation(p)).Mul(w.position.Side())
}

// inward returns the body-fixed direction toward the centerline
func (w *Wheel) inward(p pose) mgl64.Vec3 {
	return vmath.LeftOf(p.rotation).Mul(-w.position.Side())
}

// sense runs the ground probe then, for grounded contacts, the wall guard
func (w *Wheel) sense(p pose) {
	v := w.vehicle
	rot := w.rotation(p)
	inward := w.inward(p)

	w.probe = physics.Probe(v.world, physics.ProbeRequest{
		Mount:       w.mount(p),
		Down:        vmath.UpOf(p.rotation).Mul(-1),
		Axle:        vmath.LeftOf(rot),
		Inward:      inward,
		RestHeight:  v.cfg.Suspension.RestHeight,
		WheelRadius: w.spec.Radius,
		WheelWidth:  w.spec.Width,
		InwardStep:  v.cfg.Probe.InwardStep,
		InwardMax:   v.cfg.Probe.InwardMax,
		Filter:      v.filter,
	})
	if w.probe.Degraded {
		v.metrics.probeDegraded()
		v.log.Trace().
			Stringer("wheel", w.position).
			Int("attempts", w.probe.Attempts).
			Msg("Probe embedded on every attempt, using last contact")
	}

	// The wall ray starts at the ground contact, an airborne wheel has none
	if !w.probe.Hit {
		w.wall = physics.WallResult{}
		return
	}
	w.wall = physics.ResolveWall(v.world, v.body, physics.WallRequest{
		Origin:      physics.WallOrigin(w.probe, inward),
		Direction:   w.outboard(p),
		Reach:       w.spec.Width / 2,
		Restitution: v.cfg.Wall.Restitution,
		Filter:      v.filter,
	})
	if w.wall.Corrected() {
		v.metrics.wallCorrection()
	}
}

// applySuspension pushes the body along the contact normal
func (w *Wheel) applySuspension(p pose, carrying float64) {
	w.normalForce = 0
	if !w.probe.Hit {
		return
	}
	v := w.vehicle
	at := w.mount(p)
	n := w.probe.Normal

	w.normalForce = physics.SpringForce(physics.SpringInput{
		RestHeight:     v.cfg.Suspension.RestHeight,
		Distance:       w.probe.Distance,
		Strength:       v.cfg.Suspension.Strength,
		Damping:        v.cfg.Suspension.Damping,
		CarryingMass:   carrying,
		NormalVelocity: v.body.VelocityAt(at).Dot(n),
	})
	if w.normalForce > 0 {
		v.body.ApplyForceAt(at, n.Mul(w.normalForce))
	}
}

// applyTraction resolves lateral grip, drive, brake and handbrake into one force
// Gear, RPM and steer angle are those written by the previous tick
func (w *Wheel) applyTraction(p pose, in Input, carrying, dt float64) {
	v := w.vehicle
	w.lateralForce, w.longForce, w.slipVelocity = 0, 0, 0
	w.driveMode = physics.DriveCoast

	w.grounded = w.probe.Hit && w.normalForce > 0 &&
		physics.IsGround(w.probe.Normal, vmath.UpOf(p.rotation), v.cfg.Tyres.MinGroundDot)
	if !w.grounded {
		return
	}

	rot := w.rotation(p)
	slipAxis := vmath.LeftOf(rot)
	driveAxis := vmath.ForwardOf(rot)
	at := w.mount(p)
	vel := v.body.VelocityAt(at)
	mass := v.body.Mass()

	grip := 1.0
	if w.handbrake {
		grip = v.cfg.Brakes.HandbrakeGrip
	}

	w.slipVelocity = vel.Dot(slipAxis)
	w.lateralForce = physics.LateralForce(physics.LateralInput{
		SlipVelocity: w.slipVelocity,
		Grip:         grip,
		Mu:           v.cfg.Tyres.MuLateral,
		NormalForce:  w.normalForce,
		CarryingMass: carrying,
		Dt:           dt,
	})

	speed := vel.Dot(driveAxis)
	long, mode := physics.LongitudinalForce(physics.DriveInput{
		Throttle:           in.Throttle,
		Distribution:       w.distribution,
		Speed:              speed,
		ForwardRatio:       v.drivetrain.ForwardRatio(),
		ReverseRatio:       v.drivetrain.Ratio(physics.GearReverse),
		FinalDrive:         v.cfg.Drivetrain.FinalDrive,
		PeakTorque:         v.cfg.Drivetrain.PeakTorque,
		TorqueCurve:        v.torqueCurve,
		CurveInput:         v.torqueCurveInput(),
		WheelRadius:        w.spec.Radius,
		Mass:               mass,
		CarryingMass:       carrying,
		BrakeStrength:      v.cfg.Brakes.Strength,
		DragCoefficient:    v.cfg.Tyres.DragCoefficient,
		RollingResistance:  v.cfg.Tyres.RollingResistance,
		ReverseEngageSpeed: parameter.ReverseEngageSpeed,
		Dt:                 dt,
	})
	w.driveMode = mode

	if w.handbrake {
		long += physics.HandbrakeForce(physics.HandbrakeInput{
			Engaged:      true,
			Speed:        speed,
			Strength:     v.cfg.Brakes.HandbrakeStrength,
			Distribution: parameter.HandbrakeDistribution,
			Mass:         mass,
			Threshold:    v.cfg.Brakes.HandbrakeThreshold,
		})
	}
	w.longForce = vmath.ClampAbs(long, physics.FrictionLimit(v.cfg.Tyres.MuLongitudinal, 1, w.normalForce))

	force := slipAxis.Mul(w.lateralForce).Add(driveAxis.Mul(w.longForce))
	if force != (mgl64.Vec3{}) {
		v.body.ApplyForceAt(at, force)
	}

	if !w.handbrake {
		w.spin = math.Mod(w.spin+vmath.RadToDeg(speed*dt/w.spec.Radius), 360)
	}
}

// snapshot copies the wheel's state for observers
func (w *Wheel) snapshot(p pose) telemetry.WheelSnapshot {
	return telemetry.WheelSnapshot{
		Name:              w.position.String(),
		Grounded:          w.grounded,
		Hit:               w.probe.Hit,
		Embedded:          w.probe.StartedEmbedded,
		Degraded:          w.probe.Degraded,
		Handbrake:         w.handbrake,
		WallHit:           w.wall.Hit,
		Distance:          w.probe.Distance,
		InwardOffset:      w.probe.Offset,
		Travel:            w.Travel(),
		NormalForce:       w.normalForce,
		LateralForce:      w.lateralForce,
		LongitudinalForce: w.longForce,
		SlipVelocity:      w.slipVelocity,
		SteerAngle:        w.steerAngle,
		Spin:              w.spin,
		Mount:             w.mount(p),
		ContactNormal:     w.probe.Normal,
		ContactPoint:      w.probe.EndPosition,
		WallImpulse:       w.wall.Impulse,
		DriveMode:         w.driveMode.String(),
	}
}
