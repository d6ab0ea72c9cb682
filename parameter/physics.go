package parameter

// Numeric guards
const (
	// Epsilon is the magnitude below which lengths, ratios, radii and divisors are treated as zero
	// Shared by vmath guards and the physics models
	Epsilon = 1e-6
)

// Suspension probe
const (
	// ProbeRadiusFactor is the cast cylinder radius as a fraction of wheel radius
	ProbeRadiusFactor = 0.5

	// ProbeInwardStep is the default inward retry offset increment in metres
	ProbeInwardStep = 0.02

	// ProbeInwardMax is the default largest inward retry offset in metres
	ProbeInwardMax = 0.12

	// ProbeMaxIterations is the hard cap on inward retries regardless of step/max
	ProbeMaxIterations = 16
)

// Ground classification
const (
	// MinGroundDot is the minimum dot(contactNormal, wheelUp) treated as drivable ground
	// Contacts below this are walls: suspension still pushes, traction is skipped
	MinGroundDot = 0.7
)

// Tyre friction (tuned feel, not physical law)
const (
	// MuLateral is the base lateral friction coefficient against normal force
	MuLateral = 1.5

	// MuLongitudinal is the drive/brake friction coefficient against normal force
	MuLongitudinal = 1.5

	// HandbrakeGrip is the lateral grip factor on a wheel with the handbrake engaged
	HandbrakeGrip = 0.2

	// HandbrakeSpeedThreshold is the wheel speed in m/s below which the handbrake applies no force
	HandbrakeSpeedThreshold = 0.1

	// HandbrakeDistribution is the per-wheel share of handbrake force on the rear axle
	HandbrakeDistribution = 0.5
)

// Drag
const (
	// DragCoefficient scales the velocity-proportional coasting drag (1/s)
	DragCoefficient = 0.15

	// RollingResistance is the constant coasting deceleration in m/s²
	RollingResistance = 0.35
)

// Wall collision guard
const (
	// WallRestitution scales the anti-penetration impulse
	WallRestitution = 0.8
)

// Reverse
const (
	// ReverseEngageSpeed is the forward speed in m/s under which brake input drives backward
	ReverseEngageSpeed = 0.5
)

// Cosmetic steering wheel prop
const (
	// SteeringPropRatio amplifies the raw steer angle for the steering wheel prop
	SteeringPropRatio = 8.0

	// SteeringPropRateMultiplier scales the prop angular rate relative to SteeringSpeed
	SteeringPropRateMultiplier = 6.0

	// SteeringPropMaxAngle clamps the prop angle in degrees
	SteeringPropMaxAngle = 450.0
)

// Display
const (
	// DisplaySpeedScale converts m/s to the HUD unit (km/h)
	DisplaySpeedScale = 3.6
)
