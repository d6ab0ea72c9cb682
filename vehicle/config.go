package vehicle

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/parameter"
	"github.com/lixenwraith/vi-racer/physics"
	"github.com/lixenwraith/vi-racer/vmath"
)

// ErrInvalidConfig is wrapped by every ConfigError
var ErrInvalidConfig = errors.New("invalid vehicle config")

// ConfigError names the offending field of a rejected Config
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vehicle config %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("vehicle config %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidConfig, e.Err}
	}
	return []error{ErrInvalidConfig}
}

// DriveType selects how engine force is split across wheels
type DriveType string

const (
	DriveFront  DriveType = "front"
	DriveRear   DriveType = "rear"
	DriveAll    DriveType = "all"
	DriveCustom DriveType = "custom"
)

// CurveKey selects the torque curve input
type CurveKey string

const (
	CurveByRPM   CurveKey = "rpm"
	CurveBySpeed CurveKey = "speed"
)

// WheelPosition indexes the four wheels, order is fixed
type WheelPosition int

const (
	FrontLeft WheelPosition = iota
	FrontRight
	RearLeft
	RearRight
	WheelCount = 4
)

var wheelNames = [WheelCount]string{"front_left", "front_right", "rear_left", "rear_right"}

func (p WheelPosition) String() string {
	if p < 0 || p >= WheelCount {
		return "unknown"
	}
	return wheelNames[p]
}

// Front reports whether the wheel steers
func (p WheelPosition) Front() bool { return p == FrontLeft || p == FrontRight }

// Side returns +1 for left wheels and -1 for right wheels, the outboard direction along the body left axis
func (p WheelPosition) Side() float64 {
	if p == FrontLeft || p == RearLeft {
		return 1
	}
	return -1
}

// BodyConfig is chassis data for hosts that build the rigid body, the core reads mass from the body itself
type BodyConfig struct {
	Mass        float64    `mapstructure:"mass"`
	HalfExtents mgl64.Vec3 `mapstructure:"half_extents"`
}

// WheelSpec is one wheel's mount and size, mount is in body space
type WheelSpec struct {
	Mount  mgl64.Vec3 `mapstructure:"mount"`
	Radius float64    `mapstructure:"radius"`
	Width  float64    `mapstructure:"width"`
}

// SuspensionConfig strength and damping are per unit carrying mass
type SuspensionConfig struct {
	RestHeight float64 `mapstructure:"rest_height"`
	Strength   float64 `mapstructure:"strength"`
	Damping    float64 `mapstructure:"damping"`
}

// SteeringConfig speed is degrees per second, effectiveness is keyed by |v| / max speed
type SteeringConfig struct {
	Speed         float64          `mapstructure:"speed"`
	MaxAngle      float64          `mapstructure:"max_angle"`
	Effectiveness []vmath.Keyframe `mapstructure:"effectiveness"`
}

// BrakeConfig strengths are decelerations in m/s² per unit input and distribution
type BrakeConfig struct {
	Strength           float64 `mapstructure:"strength"`
	HandbrakeStrength  float64 `mapstructure:"handbrake_strength"`
	HandbrakeGrip      float64 `mapstructure:"handbrake_grip"`
	HandbrakeThreshold float64 `mapstructure:"handbrake_threshold"`
}

// DrivetrainConfig is gearing, engine torque and drive split
type DrivetrainConfig struct {
	GearRatios   []float64           `mapstructure:"gear_ratios"`
	ReverseRatio float64             `mapstructure:"reverse_ratio"`
	FinalDrive   float64             `mapstructure:"final_drive"`
	MaxRPM       float64             `mapstructure:"max_rpm"`
	ShiftUpRPM   float64             `mapstructure:"shift_up_rpm"`
	ShiftDownRPM float64             `mapstructure:"shift_down_rpm"`
	ShiftDelay   float64             `mapstructure:"shift_delay"`
	PeakTorque   float64             `mapstructure:"peak_torque"`
	TorqueCurve  []vmath.Keyframe    `mapstructure:"torque_curve"`
	CurveKey     CurveKey            `mapstructure:"curve_key"`
	DriveType    DriveType           `mapstructure:"drive_type"`
	Distribution [WheelCount]float64 `mapstructure:"distribution"`
}

// TyreConfig holds friction and resistance coefficients
type TyreConfig struct {
	MuLateral         float64 `mapstructure:"mu_lateral"`
	MuLongitudinal    float64 `mapstructure:"mu_longitudinal"`
	MinGroundDot      float64 `mapstructure:"min_ground_dot"`
	DragCoefficient   float64 `mapstructure:"drag_coefficient"`
	RollingResistance float64 `mapstructure:"rolling_resistance"`
}

// ProbeConfig controls the inward retry of embedded ground probes
type ProbeConfig struct {
	InwardStep float64 `mapstructure:"inward_step"`
	InwardMax  float64 `mapstructure:"inward_max"`
}

// WallConfig controls the wheel-versus-wall guard
type WallConfig struct {
	Restitution float64 `mapstructure:"restitution"`
}

// Config is the authored, read-only description of a vehicle
type Config struct {
	Name              string                `mapstructure:"name"`
	MaxSpeed          float64               `mapstructure:"max_speed"`
	DisplaySpeedScale float64               `mapstructure:"display_speed_scale"`
	Body              BodyConfig            `mapstructure:"body"`
	Wheels            [WheelCount]WheelSpec `mapstructure:"wheels"`
	Suspension        SuspensionConfig      `mapstructure:"suspension"`
	Steering          SteeringConfig        `mapstructure:"steering"`
	Brakes            BrakeConfig           `mapstructure:"brakes"`
	Drivetrain        DrivetrainConfig      `mapstructure:"drivetrain"`
	Tyres             TyreConfig            `mapstructure:"tyres"`
	Probe             ProbeConfig           `mapstructure:"probe"`
	Wall              WallConfig            `mapstructure:"wall"`
}

// DefaultConfig returns a front-wheel-drive hatchback
func DefaultConfig() Config {
	return Config{
		Name:              "hatchback",
		MaxSpeed:          50,
		DisplaySpeedScale: parameter.DisplaySpeedScale,
		Body: BodyConfig{
			Mass:        1200,
			HalfExtents: mgl64.Vec3{2.0, 0.85, 0.5},
		},
		Wheels: [WheelCount]WheelSpec{
			FrontLeft:  {Mount: mgl64.Vec3{1.3, 0.75, -0.25}, Radius: 0.32, Width: 0.22},
			FrontRight: {Mount: mgl64.Vec3{1.3, -0.75, -0.25}, Radius: 0.32, Width: 0.22},
			RearLeft:   {Mount: mgl64.Vec3{-1.2, 0.75, -0.25}, Radius: 0.32, Width: 0.22},
			RearRight:  {Mount: mgl64.Vec3{-1.2, -0.75, -0.25}, Radius: 0.32, Width: 0.22},
		},
		Suspension: SuspensionConfig{
			RestHeight: 0.35,
			Strength:   80,
			Damping:    9,
		},
		Steering: SteeringConfig{
			Speed:    120,
			MaxAngle: 30,
			Effectiveness: []vmath.Keyframe{
				{X: 0, Y: 1},
				{X: 0.5, Y: 0.55},
				{X: 1, Y: 0.3},
			},
		},
		Brakes: BrakeConfig{
			Strength:           12,
			HandbrakeStrength:  8,
			HandbrakeGrip:      parameter.HandbrakeGrip,
			HandbrakeThreshold: parameter.HandbrakeSpeedThreshold,
		},
		Drivetrain: DrivetrainConfig{
			GearRatios:   []float64{3.2, 2.1, 1.5, 1.15, 0.92},
			ReverseRatio: 3.0,
			FinalDrive:   3.9,
			MaxRPM:       7000,
			ShiftUpRPM:   6000,
			ShiftDownRPM: 2500,
			PeakTorque:   180,
			TorqueCurve: []vmath.Keyframe{
				{X: 0, Y: 0.6},
				{X: 0.3, Y: 0.9},
				{X: 0.7, Y: 1},
				{X: 0.9, Y: 0.8},
				{X: 1, Y: 0},
			},
			CurveKey:  CurveByRPM,
			DriveType: DriveFront,
		},
		Tyres: TyreConfig{
			MuLateral:         parameter.MuLateral,
			MuLongitudinal:    parameter.MuLongitudinal,
			MinGroundDot:      parameter.MinGroundDot,
			DragCoefficient:   parameter.DragCoefficient,
			RollingResistance: parameter.RollingResistance,
		},
		Probe: ProbeConfig{
			InwardStep: parameter.ProbeInwardStep,
			InwardMax:  parameter.ProbeInwardMax,
		},
		Wall: WallConfig{
			Restitution: parameter.WallRestitution,
		},
	}
}

// WheelDistribution returns the per-wheel engine force share for the drive type
func (c DrivetrainConfig) WheelDistribution() [WheelCount]float64 {
	switch c.DriveType {
	case DriveFront:
		return [WheelCount]float64{0.5, 0.5, 0, 0}
	case DriveRear:
		return [WheelCount]float64{0, 0, 0.5, 0.5}
	case DriveAll:
		return [WheelCount]float64{0.15, 0.15, 0.35, 0.35}
	default:
		return c.Distribution
	}
}

// Spec converts the gearing to the drivetrain model's input
func (c DrivetrainConfig) Spec() physics.DrivetrainSpec {
	return physics.DrivetrainSpec{
		GearRatios:   c.GearRatios,
		ReverseRatio: c.ReverseRatio,
		FinalDrive:   c.FinalDrive,
		MaxRPM:       c.MaxRPM,
		ShiftUpRPM:   c.ShiftUpRPM,
		ShiftDownRPM: c.ShiftDownRPM,
		ShiftDelay:   c.ShiftDelay,
	}
}

// Wheelbase returns the front-to-rear axle distance measured at the left wheels
func (c Config) Wheelbase() float64 {
	return c.Wheels[FrontLeft].Mount.Sub(c.Wheels[RearLeft].Mount).Len()
}

// Track returns the left-to-right distance measured at the front wheels
func (c Config) Track() float64 {
	return c.Wheels[FrontLeft].Mount.Sub(c.Wheels[FrontRight].Mount).Len()
}

// Validate reports every problem found, joined, each wrapping ErrInvalidConfig
func (c Config) Validate() error {
	var errs []error
	bad := func(field, format string, args ...any) {
		errs = append(errs, &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}
	positive := func(field string, v float64) {
		if !vmath.IsFinite(v) || v <= 0 {
			bad(field, "must be positive, got %g", v)
		}
	}
	nonNegative := func(field string, v float64) {
		if !vmath.IsFinite(v) || v < 0 {
			bad(field, "must be non-negative, got %g", v)
		}
	}

	positive("max_speed", c.MaxSpeed)
	nonNegative("display_speed_scale", c.DisplaySpeedScale)
	positive("body.mass", c.Body.Mass)
	for i := 0; i < 3; i++ {
		positive(fmt.Sprintf("body.half_extents[%d]", i), c.Body.HalfExtents[i])
	}

	for i, w := range c.Wheels {
		name := "wheels." + WheelPosition(i).String()
		if !vmath.V3IsFinite(w.Mount) {
			bad(name+".mount", "not finite")
		}
		positive(name+".radius", w.Radius)
		positive(name+".width", w.Width)
		if w.Mount.Y()*WheelPosition(i).Side() <= 0 {
			bad(name+".mount", "y %g on the wrong side of the centerline", w.Mount.Y())
		}
	}
	if c.Wheelbase() <= parameter.Epsilon {
		bad("wheels", "front and rear mounts coincide, wheelbase is zero")
	}
	if c.Track() <= parameter.Epsilon {
		bad("wheels", "left and right mounts coincide, track is zero")
	}

	positive("suspension.rest_height", c.Suspension.RestHeight)
	nonNegative("suspension.strength", c.Suspension.Strength)
	nonNegative("suspension.damping", c.Suspension.Damping)

	nonNegative("steering.speed", c.Steering.Speed)
	if !vmath.IsFinite(c.Steering.MaxAngle) || c.Steering.MaxAngle < 0 || c.Steering.MaxAngle >= 90 {
		bad("steering.max_angle", "must be in [0, 90), got %g", c.Steering.MaxAngle)
	}
	if _, err := vmath.NewCurve(c.Steering.Effectiveness...); err != nil {
		errs = append(errs, &ConfigError{Field: "steering.effectiveness", Err: err})
	}

	nonNegative("brakes.strength", c.Brakes.Strength)
	nonNegative("brakes.handbrake_strength", c.Brakes.HandbrakeStrength)
	if !(c.Brakes.HandbrakeGrip > 0 && c.Brakes.HandbrakeGrip <= 1) {
		bad("brakes.handbrake_grip", "must be in (0, 1], got %g", c.Brakes.HandbrakeGrip)
	}
	nonNegative("brakes.handbrake_threshold", c.Brakes.HandbrakeThreshold)

	d := c.Drivetrain
	if err := d.Spec().Validate(); err != nil {
		errs = append(errs, &ConfigError{Field: "drivetrain", Err: err})
	}
	nonNegative("drivetrain.peak_torque", d.PeakTorque)
	if _, err := vmath.NewCurve(d.TorqueCurve...); err != nil {
		errs = append(errs, &ConfigError{Field: "drivetrain.torque_curve", Err: err})
	}
	if d.CurveKey != CurveByRPM && d.CurveKey != CurveBySpeed {
		bad("drivetrain.curve_key", "unknown key %q", d.CurveKey)
	}
	switch d.DriveType {
	case DriveFront, DriveRear, DriveAll:
	case DriveCustom:
		sum := 0.0
		for i, w := range d.Distribution {
			nonNegative(fmt.Sprintf("drivetrain.distribution[%d]", i), w)
			sum += w
		}
		if !(sum > 0) {
			bad("drivetrain.distribution", "no wheel is driven")
		}
	default:
		bad("drivetrain.drive_type", "unknown drive type %q", d.DriveType)
	}

	positive("tyres.mu_lateral", c.Tyres.MuLateral)
	positive("tyres.mu_longitudinal", c.Tyres.MuLongitudinal)
	if !(c.Tyres.MinGroundDot >= -1 && c.Tyres.MinGroundDot < 1) {
		bad("tyres.min_ground_dot", "must be in [-1, 1), got %g", c.Tyres.MinGroundDot)
	}
	nonNegative("tyres.drag_coefficient", c.Tyres.DragCoefficient)
	nonNegative("tyres.rolling_resistance", c.Tyres.RollingResistance)

	nonNegative("probe.inward_step", c.Probe.InwardStep)
	nonNegative("probe.inward_max", c.Probe.InwardMax)
	if !vmath.IsFinite(c.Wall.Restitution) || c.Wall.Restitution < 0 || c.Wall.Restitution > 1 {
		bad("wall.restitution", "must be in [0, 1], got %g", c.Wall.Restitution)
	}

	return errors.Join(errs...)
}

// drivenRadius returns the mean radius of driven wheels, all wheels when none is driven
func (c Config) drivenRadius() float64 {
	dist := c.Drivetrain.WheelDistribution()
	sum, n := 0.0, 0
	for i, w := range c.Wheels {
		if dist[i] > 0 {
			sum += w.Radius
			n++
		}
	}
	if n == 0 {
		for _, w := range c.Wheels {
			sum += w.Radius
		}
		n = WheelCount
	}
	return sum / float64(n)
}

// clone deep-copies slice fields so a Vehicle never shares them with the caller
func (c Config) clone() Config {
	c.Steering.Effectiveness = append([]vmath.Keyframe(nil), c.Steering.Effectiveness...)
	c.Drivetrain.GearRatios = append([]float64(nil), c.Drivetrain.GearRatios...)
	c.Drivetrain.TorqueCurve = append([]vmath.Keyframe(nil), c.Drivetrain.TorqueCurve...)
	return c
}
