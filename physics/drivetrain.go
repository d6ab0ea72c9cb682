package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/vi-racer/parameter"
	"github.com/lixenwraith/vi-racer/vmath"
)

// GearReverse is the reverse gear index, forward gears are 1..N and there is no neutral
const GearReverse = -1

var (
	ErrNoGears       = errors.New("drivetrain has no forward gears")
	ErrGearRatio     = errors.New("gear ratio must be positive and finite")
	ErrShiftPoints   = errors.New("shift points must satisfy 0 <= down < up <= max rpm")
	ErrInvalidGear   = errors.New("gear out of range")
	ErrDrivetrainArg = errors.New("drivetrain parameter must be positive and finite")
)

// DrivetrainSpec is the authored gearing of a vehicle
// ReverseRatio is used by magnitude, authored data may carry it negative
type DrivetrainSpec struct {
	GearRatios   []float64
	ReverseRatio float64
	FinalDrive   float64
	MaxRPM       float64
	ShiftUpRPM   float64
	ShiftDownRPM float64
	ShiftDelay   float64 // seconds between forward shifts, 0 disables
}

// Validate reports every problem with the spec joined into one error
func (s DrivetrainSpec) Validate() error {
	var errs []error
	if len(s.GearRatios) == 0 {
		errs = append(errs, ErrNoGears)
	}
	for i, r := range s.GearRatios {
		if !vmath.IsFinite(r) || r <= 0 {
			errs = append(errs, fmt.Errorf("gear %d ratio %g: %w", i+1, r, ErrGearRatio))
		}
	}
	if !vmath.IsFinite(s.ReverseRatio) || s.ReverseRatio == 0 {
		errs = append(errs, fmt.Errorf("reverse ratio %g: %w", s.ReverseRatio, ErrGearRatio))
	}
	if !vmath.IsFinite(s.FinalDrive) || s.FinalDrive <= 0 {
		errs = append(errs, fmt.Errorf("final drive %g: %w", s.FinalDrive, ErrDrivetrainArg))
	}
	if !vmath.IsFinite(s.MaxRPM) || s.MaxRPM <= 0 {
		errs = append(errs, fmt.Errorf("max rpm %g: %w", s.MaxRPM, ErrDrivetrainArg))
	}
	if !(s.ShiftDownRPM >= 0 && s.ShiftDownRPM < s.ShiftUpRPM && s.ShiftUpRPM <= s.MaxRPM) {
		errs = append(errs, fmt.Errorf("down %g up %g max %g: %w", s.ShiftDownRPM, s.ShiftUpRPM, s.MaxRPM, ErrShiftPoints))
	}
	if !vmath.IsFinite(s.ShiftDelay) || s.ShiftDelay < 0 {
		errs = append(errs, fmt.Errorf("shift delay %g: %w", s.ShiftDelay, ErrDrivetrainArg))
	}
	return errors.Join(errs...)
}

// DrivetrainInput is what the gear logic sees each tick
type DrivetrainInput struct {
	Throttle     float64
	ForwardSpeed float64 // vehicle speed along its forward axis
	WheelRadius  float64 // mean driven wheel radius
	Dt           float64
}

// Drivetrain holds the current gear and engine RPM
// Not safe for concurrent use, owned by one vehicle's tick
type Drivetrain struct {
	spec    DrivetrainSpec
	gear    int
	rpm     float64
	holdoff float64
}

// NewDrivetrain validates spec and starts in first gear at 0 RPM
func NewDrivetrain(spec DrivetrainSpec) (*Drivetrain, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	ratios := make([]float64, len(spec.GearRatios))
	copy(ratios, spec.GearRatios)
	spec.GearRatios = ratios
	return &Drivetrain{spec: spec, gear: 1}, nil
}

// Gear returns the engaged gear, never 0
func (d *Drivetrain) Gear() int { return d.gear }

// RPM returns engine RPM in [0, MaxRPM]
func (d *Drivetrain) RPM() float64 { return d.rpm }

// NormalizedRPM returns RPM / MaxRPM
func (d *Drivetrain) NormalizedRPM() float64 { return d.rpm / d.spec.MaxRPM }

// GearCount returns the number of forward gears
func (d *Drivetrain) GearCount() int { return len(d.spec.GearRatios) }

// Spec returns the gearing the drivetrain was built with
func (d *Drivetrain) Spec() DrivetrainSpec { return d.spec }

// Ratio returns the ratio magnitude of gear, 0 for an invalid gear
func (d *Drivetrain) Ratio(gear int) float64 {
	switch {
	case gear == GearReverse:
		return math.Abs(d.spec.ReverseRatio)
	case gear >= 1 && gear <= len(d.spec.GearRatios):
		return d.spec.GearRatios[gear-1]
	default:
		return 0
	}
}

// ForwardRatio returns the ratio used for forward drive, first gear while in reverse
func (d *Drivetrain) ForwardRatio() float64 {
	if d.gear < 1 {
		return d.spec.GearRatios[0]
	}
	return d.Ratio(d.gear)
}

// Update recomputes RPM and applies at most one gear transition
// Negative throttle selects reverse, leaving reverse returns to first gear,
// positive throttle shifts on the RPM thresholds
// Returns true when the gear changed
func (d *Drivetrain) Update(in DrivetrainInput) bool {
	if vmath.IsFinite(in.Dt) && in.Dt > 0 {
		d.holdoff = math.Max(0, d.holdoff-in.Dt)
	}
	d.refreshRPM(in)

	from := d.gear
	switch {
	case in.Throttle < 0:
		d.gear = GearReverse
	case d.gear == GearReverse:
		d.gear = 1
	case in.Throttle > 0 && d.holdoff <= parameter.Epsilon:
		if d.rpm > d.spec.ShiftUpRPM && d.gear < len(d.spec.GearRatios) {
			d.gear++
		} else if d.rpm < d.spec.ShiftDownRPM && d.gear > 1 {
			d.gear--
		}
	}

	if d.gear == from {
		return false
	}
	if from > 0 && d.gear > 0 {
		d.holdoff = d.spec.ShiftDelay
	}
	d.refreshRPM(in)
	return true
}

// refreshRPM derives RPM from vehicle speed through the engaged ratio
// A degenerate wheel circumference or non-finite speed leaves RPM unchanged
func (d *Drivetrain) refreshRPM(in DrivetrainInput) {
	circumference := math.Pi * in.WheelRadius
	if circumference < parameter.Epsilon || !vmath.IsFinite(in.ForwardSpeed) {
		return
	}
	rps := math.Abs(in.ForwardSpeed) / circumference
	rpm := rps * d.Ratio(d.gear) * d.spec.FinalDrive * 60
	if !vmath.IsFinite(rpm) {
		rpm = d.spec.MaxRPM
	}
	d.rpm = vmath.Clamp(rpm, 0, d.spec.MaxRPM)
}

// ClearHoldoff drops any pending shift delay
func (d *Drivetrain) ClearHoldoff() { d.holdoff = 0 }

// Reset returns to first gear at 0 RPM
func (d *Drivetrain) Reset() {
	d.gear = 1
	d.rpm = 0
	d.holdoff = 0
}

// Restore sets gear and RPM from replicated state
func (d *Drivetrain) Restore(gear int, rpm float64) error {
	if d.Ratio(gear) == 0 {
		return fmt.Errorf("gear %d of %d: %w", gear, len(d.spec.GearRatios), ErrInvalidGear)
	}
	if !vmath.IsFinite(rpm) {
		rpm = 0
	}
	d.gear = gear
	d.rpm = vmath.Clamp(rpm, 0, d.spec.MaxRPM)
	d.holdoff = 0
	return nil
}
