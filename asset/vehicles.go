package asset

// Vehicle presets layered over vehicle.DefaultConfig, keys absent here keep their defaults
// Arrays (wheels, gear_ratios, curves) replace the default array entirely

// HatchbackVehicleConfig is a light front-wheel-drive car
const HatchbackVehicleConfig = `
name = "hatchback"

[drivetrain]
drive_type = "front"
`

// RoadsterVehicleConfig is a rear-wheel-drive car with more torque and a short wheelbase
const RoadsterVehicleConfig = `
name = "roadster"
max_speed = 60

[body]
mass = 1050
half_extents = [1.9, 0.88, 0.45]

[[wheels]]
mount = [1.2, 0.78, -0.22]
radius = 0.31
width = 0.24

[[wheels]]
mount = [1.2, -0.78, -0.22]
radius = 0.31
width = 0.24

[[wheels]]
mount = [-1.15, 0.8, -0.22]
radius = 0.33
width = 0.26

[[wheels]]
mount = [-1.15, -0.8, -0.22]
radius = 0.33
width = 0.26

[suspension]
rest_height = 0.3
strength = 110
damping = 11

[steering]
speed = 150
max_angle = 32

[brakes]
strength = 14
handbrake_strength = 10
handbrake_grip = 0.22

[drivetrain]
drive_type = "rear"
gear_ratios = [3.4, 2.3, 1.7, 1.3, 1.05, 0.86]
final_drive = 3.7
max_rpm = 7800
shift_up_rpm = 7000
shift_down_rpm = 3000
peak_torque = 260
torque_curve = [
    { x = 0.0, y = 0.5 },
    { x = 0.4, y = 0.95 },
    { x = 0.75, y = 1.0 },
    { x = 0.92, y = 0.85 },
    { x = 1.0, y = 0.0 },
]

[tyres]
mu_lateral = 1.6
mu_longitudinal = 1.6
`

// RallyVehicleConfig is an all-wheel-drive car on long soft suspension with loose-surface grip
const RallyVehicleConfig = `
name = "rally"
max_speed = 48

[body]
mass = 1300

[suspension]
rest_height = 0.45
strength = 60
damping = 8

[steering]
speed = 140
max_angle = 34
effectiveness = [
    { x = 0.0, y = 1.0 },
    { x = 0.6, y = 0.7 },
    { x = 1.0, y = 0.45 },
]

[brakes]
handbrake_strength = 9
handbrake_grip = 0.3

[drivetrain]
drive_type = "all"
gear_ratios = [3.0, 2.0, 1.45, 1.12, 0.9]
peak_torque = 240

[tyres]
mu_lateral = 1.2
mu_longitudinal = 1.3
drag_coefficient = 0.18
`

// VehiclePresets maps preset names to their TOML documents
var VehiclePresets = map[string]string{
	"hatchback": HatchbackVehicleConfig,
	"roadster":  RoadsterVehicleConfig,
	"rally":     RallyVehicleConfig,
}
