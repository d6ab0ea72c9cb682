package parameter

import "time"

// Simulation Loop & Engine Timing
const (
	// DefaultTickRate is the fixed simulation rate in ticks per second
	DefaultTickRate = 60

	// DefaultTickInterval is the fixed simulation step
	DefaultTickInterval = time.Second / DefaultTickRate

	// FrameUpdateInterval is the sandbox render interval (~30 FPS)
	FrameUpdateInterval = 33 * time.Millisecond

	// MaxStepsPerAdvance caps catch-up ticks per scheduler wake
	// Accumulated time beyond the cap is dropped to avoid a spiral of death
	MaxStepsPerAdvance = 8

	// MinTickDuration is the smallest dt in seconds the dynamics step accepts
	MinTickDuration = 1e-6
)

// World Defaults
const (
	// Gravity is the downward acceleration in m/s²
	Gravity = 9.81

	// DefaultArenaHalfExtent is half the side of the sandbox arena in metres
	DefaultArenaHalfExtent = 60.0

	// DefaultWallHeight of the sandbox arena walls in metres
	DefaultWallHeight = 2.0

	// DefaultWallThickness of the sandbox arena walls in metres
	DefaultWallThickness = 1.0
)

// Telemetry
const (
	// TelemetryHistorySize is the ring capacity of the snapshot recorder
	TelemetryHistorySize = 256

	// TelemetryExportEvery exports every Nth tick to external sinks
	TelemetryExportEvery = 6
)
