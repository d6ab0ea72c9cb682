package vehicle

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"

	"github.com/lixenwraith/vi-racer/parameter"
	"github.com/lixenwraith/vi-racer/physics"
	"github.com/lixenwraith/vi-racer/telemetry"
	"github.com/lixenwraith/vi-racer/vmath"
)

var (
	ErrDisabled         = errors.New("vehicle disabled by invalid configuration")
	ErrNotAuthoritative = errors.New("vehicle is not simulated locally")
	ErrAuthoritative    = errors.New("vehicle is simulated locally, replicated state rejected")
	ErrInvalidTick      = errors.New("tick duration must be positive and finite")
	ErrNoTeleport       = errors.New("body does not support teleport")
)

// Input is one tick of driver intent, Steer and Throttle in [-1, 1]
// Positive Steer turns left, negative Throttle brakes then reverses
type Input struct {
	Steer     float64
	Throttle  float64
	Handbrake bool
}

// sanitized clamps axes to [-1, 1] and maps non-finite values to 0
func (in Input) sanitized() Input {
	clean := func(x float64) float64 {
		if !vmath.IsFinite(x) {
			return 0
		}
		return vmath.Clamp(x, -1, 1)
	}
	return Input{Steer: clean(in.Steer), Throttle: clean(in.Throttle), Handbrake: in.Handbrake}
}

type options struct {
	log           zerolog.Logger
	meter         metric.Meter
	authoritative bool
	observers     []telemetry.Observer
}

// Option configures a Vehicle at construction
type Option func(*options)

// WithLogger sets the vehicle logger, default is disabled
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMeter sets the meter for vehicle counters, default is the global provider
func WithMeter(m metric.Meter) Option {
	return func(o *options) { o.meter = m }
}

// WithAuthority sets the initial authority, default is locally simulated
func WithAuthority(local bool) Option {
	return func(o *options) { o.authoritative = local }
}

// WithObserver registers a snapshot observer
func WithObserver(obs telemetry.Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

// Vehicle is the per-tick dynamics of one four-wheeled car bound to a host body and collision world
// All methods must be called from the goroutine that runs FixedUpdate
type Vehicle struct {
	cfg   Config
	body  physics.Body
	world physics.SpatialQuery

	wheels     [WheelCount]*Wheel
	drivetrain *physics.Drivetrain

	torqueCurve   *vmath.Curve
	effectiveness *vmath.Curve
	wheelbase     float64
	track         float64
	drivenRadius  float64
	filter        physics.Filter

	input         Input
	authoritative bool
	disabled      error
	tick          uint64
	shifted       bool
	steeringWheel float64

	observers []telemetry.Observer
	log       zerolog.Logger
	metrics   *vehicleMetrics
}

// New binds a vehicle to its body and collision world
// An invalid config is logged and returned, the returned vehicle is then inert:
// FixedUpdate reports ErrDisabled and never touches the body
func New(cfg Config, body physics.Body, world physics.SpatialQuery, opts ...Option) (*Vehicle, error) {
	o := options{log: zerolog.Nop(), authoritative: true}
	for _, opt := range opts {
		opt(&o)
	}

	cfg = cfg.clone()
	v := &Vehicle{
		cfg:           cfg,
		body:          body,
		world:         world,
		authoritative: o.authoritative,
		observers:     o.observers,
		log:           o.log.With().Str("vehicle", cfg.Name).Logger(),
	}
	v.metrics = newVehicleMetrics(o.meter, cfg.Name)

	if err := v.init(); err != nil {
		v.disabled = err
		v.log.Error().Err(err).Msg("Vehicle disabled")
		return v, err
	}

	v.log.Debug().
		Float64("wheelbase", v.wheelbase).
		Float64("track", v.track).
		Str("drive", string(cfg.Drivetrain.DriveType)).
		Msg("Vehicle ready")
	return v, nil
}

func (v *Vehicle) init() error {
	if err := v.cfg.Validate(); err != nil {
		return err
	}
	if v.body == nil {
		return &ConfigError{Field: "body", Reason: "no rigid body bound"}
	}
	if v.world == nil {
		return &ConfigError{Field: "world", Reason: "no spatial query bound"}
	}
	if m := v.body.Mass(); !vmath.IsFinite(m) || m <= 0 {
		return &ConfigError{Field: "body", Reason: fmt.Sprintf("mass must be positive, got %g", m)}
	}

	dt, err := physics.NewDrivetrain(v.cfg.Drivetrain.Spec())
	if err != nil {
		return &ConfigError{Field: "drivetrain", Err: err}
	}
	v.drivetrain = dt

	// Curves validated above
	v.torqueCurve, _ = vmath.NewCurve(v.cfg.Drivetrain.TorqueCurve...)
	v.effectiveness, _ = vmath.NewCurve(v.cfg.Steering.Effectiveness...)

	v.wheelbase = v.cfg.Wheelbase()
	v.track = v.cfg.Track()
	v.drivenRadius = v.cfg.drivenRadius()
	v.filter = physics.Filter{
		IgnoreOwner: v.body.ID(),
		IgnoreTags:  []string{physics.TagWheel, physics.TagVehicle},
	}

	dist := v.cfg.Drivetrain.WheelDistribution()
	for i := range v.wheels {
		pos := WheelPosition(i)
		v.wheels[i] = &Wheel{
			vehicle:      v,
			position:     pos,
			spec:         v.cfg.Wheels[i],
			distribution: dist[i],
		}
	}
	return nil
}

// SetInput stores driver intent consumed by the next FixedUpdate
func (v *Vehicle) SetInput(in Input) {
	v.input = in.sanitized()
}

// Input returns the pending driver intent
func (v *Vehicle) Input() Input { return v.input }

// AddObserver registers a snapshot observer
func (v *Vehicle) AddObserver(obs telemetry.Observer) {
	v.observers = append(v.observers, obs)
}

// Config returns the vehicle's configuration
func (v *Vehicle) Config() Config { return v.cfg.clone() }

// Name returns the configured vehicle name
func (v *Vehicle) Name() string { return v.cfg.Name }

// Body returns the bound rigid body
func (v *Vehicle) Body() physics.Body { return v.body }

// Disabled returns the configuration error that made the vehicle inert, or nil
func (v *Vehicle) Disabled() error { return v.disabled }

// Tick returns the number of simulated ticks
func (v *Vehicle) Tick() uint64 { return v.tick }

// Wheel returns the wheel at pos, nil for an inert vehicle
func (v *Vehicle) Wheel(pos WheelPosition) *Wheel {
	if pos < 0 || pos >= WheelCount {
		return nil
	}
	return v.wheels[pos]
}

// Wheelbase returns the front-to-rear axle distance
func (v *Vehicle) Wheelbase() float64 { return v.wheelbase }

// Track returns the left-to-right wheel distance
func (v *Vehicle) Track() float64 { return v.track }

// CurrentGear returns the engaged gear, -1 is reverse
func (v *Vehicle) CurrentGear() int {
	if v.drivetrain == nil {
		return 1
	}
	return v.drivetrain.Gear()
}

// CurrentRPM returns engine RPM
func (v *Vehicle) CurrentRPM() float64 {
	if v.drivetrain == nil {
		return 0
	}
	return v.drivetrain.RPM()
}

// NormalizedRPM returns RPM / MaxRPM in [0, 1]
func (v *Vehicle) NormalizedRPM() float64 {
	if v.drivetrain == nil {
		return 0
	}
	return v.drivetrain.NormalizedRPM()
}

// ForwardSpeed returns body velocity along its forward axis in m/s, negative when reversing
func (v *Vehicle) ForwardSpeed() float64 {
	if v.disabled != nil {
		return 0
	}
	return v.body.LinearVelocity().Dot(vmath.ForwardOf(v.body.Rotation()))
}

// DisplaySpeed returns |forward speed| scaled for the HUD
func (v *Vehicle) DisplaySpeed() float64 {
	return math.Abs(v.ForwardSpeed()) * v.cfg.DisplaySpeedScale
}

// SlipVelocity returns the last lateral slip of a wheel
func (v *Vehicle) SlipVelocity(pos WheelPosition) float64 {
	w := v.Wheel(pos)
	if w == nil {
		return 0
	}
	return w.slipVelocity
}

// BrakeInput returns brake intent in [0, 1], full while the handbrake is held
func (v *Vehicle) BrakeInput() float64 {
	if v.input.Handbrake {
		return 1
	}
	if v.input.Throttle < 0 && v.ForwardSpeed() > parameter.ReverseEngageSpeed {
		return -v.input.Throttle
	}
	return 0
}

// SteeringWheel returns the cosmetic steering wheel angle in degrees
func (v *Vehicle) SteeringWheel() float64 { return v.steeringWheel }

// Teleport moves the body to a new pose and resets per-tick, steering and drivetrain state
func (v *Vehicle) Teleport(position mgl64.Vec3, rotation mgl64.Quat) error {
	if v.disabled != nil {
		return ErrDisabled
	}
	tp, ok := v.body.(physics.Teleporter)
	if !ok {
		return ErrNoTeleport
	}
	tp.Teleport(position, rotation.Normalize())
	v.discardTickState()
	for _, w := range v.wheels {
		w.steerAngle = 0
		w.spin = 0
	}
	v.steeringWheel = 0
	v.drivetrain.Reset()
	v.log.Debug().
		Float64("x", position.X()).
		Float64("y", position.Y()).
		Float64("yaw", vmath.Yaw(rotation)).
		Msg("Vehicle teleported")
	return nil
}

// discardTickState drops everything derived from the current tick and pending input
func (v *Vehicle) discardTickState() {
	v.input = Input{}
	v.shifted = false
	if v.disabled != nil {
		return
	}
	for _, w := range v.wheels {
		w.reset()
	}
	if v.drivetrain != nil {
		v.drivetrain.ClearHoldoff()
	}
}
