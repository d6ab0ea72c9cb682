package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/vmath"
)

const testDt = 1.0 / 60

func TestIsGround(t *testing.T) {
	up := mgl64.Vec3{0, 0, 1}
	tests := []struct {
		name   string
		normal mgl64.Vec3
		want   bool
	}{
		{"flat", mgl64.Vec3{0, 0, 1}, true},
		{"gentle slope", vmath.V3Normalize(mgl64.Vec3{0.3, 0, 1}), true},
		{"wall", mgl64.Vec3{0, 1, 0}, false},
		{"steep", vmath.V3Normalize(mgl64.Vec3{1, 0, 0.9}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGround(tt.normal, up, 0.7); got != tt.want {
				t.Errorf("IsGround = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLateralForce_ZeroWithoutLoad(t *testing.T) {
	got := LateralForce(LateralInput{SlipVelocity: 5, Grip: 1, Mu: 1.5, NormalForce: 0, CarryingMass: 300, Dt: testDt})
	if got != 0 {
		t.Errorf("force = %v, want 0", got)
	}
}

func TestLateralForce_OpposesSlip(t *testing.T) {
	for _, slip := range []float64{-3, -0.01, 0.01, 3} {
		got := LateralForce(LateralInput{SlipVelocity: slip, Grip: 1, Mu: 1.5, NormalForce: 3000, CarryingMass: 300, Dt: testDt})
		if got*slip >= 0 {
			t.Errorf("slip %v gave force %v", slip, got)
		}
	}
}

func TestLateralForce_BoundedByFriction(t *testing.T) {
	for _, grip := range []float64{0.2, 0.5, 1} {
		for _, slip := range []float64{-40, -5, 0.5, 5, 40} {
			in := LateralInput{SlipVelocity: slip, Grip: grip, Mu: 1.5, NormalForce: 2900, CarryingMass: 300, Dt: testDt}
			got := LateralForce(in)
			limit := 1.5 * grip * 2900
			if math.Abs(got) > limit+1e-9 {
				t.Errorf("grip %v slip %v: |%v| > %v", grip, slip, got, limit)
			}
		}
	}
}

func TestLateralForce_SmallSlipCancelledExactly(t *testing.T) {
	in := LateralInput{SlipVelocity: 0.01, Grip: 1, Mu: 1.5, NormalForce: 3000, CarryingMass: 300, Dt: testDt}
	want := -300 * 0.01 / testDt
	if got := LateralForce(in); math.Abs(got-want) > 1e-9 {
		t.Errorf("force = %v, want %v", got, want)
	}
}

func driveInput() DriveInput {
	return DriveInput{
		Distribution:       0.5,
		ForwardRatio:       3.2,
		ReverseRatio:       3.0,
		FinalDrive:         3.9,
		PeakTorque:         180,
		TorqueCurve:        vmath.ConstantCurve(1),
		WheelRadius:        0.32,
		Mass:               1200,
		CarryingMass:       300,
		BrakeStrength:      12,
		DragCoefficient:    0.15,
		RollingResistance:  0.35,
		ReverseEngageSpeed: 0.5,
		Dt:                 testDt,
	}
}

func TestLongitudinalForce_ThrottleFromStandstill(t *testing.T) {
	in := driveInput()
	in.Throttle = 1
	got, mode := LongitudinalForce(in)
	if got <= 0 || mode != DriveThrottle {
		t.Fatalf("force = %v mode = %v", got, mode)
	}
	want := 180 * 1 * 0.5 * 3.2 * 3.9 / 0.32
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("force = %v, want %v", got, want)
	}
}

func TestLongitudinalForce_DragOpposesVelocity(t *testing.T) {
	for _, speed := range []float64{-20, -0.2, 0.2, 20} {
		in := driveInput()
		in.Speed = speed
		got, mode := LongitudinalForce(in)
		if mode != DriveCoast {
			t.Errorf("mode = %v", mode)
		}
		if got == 0 || got*speed >= 0 {
			t.Errorf("speed %v gave drag %v", speed, got)
		}
	}
}

func TestLongitudinalForce_DragCannotReverseMotion(t *testing.T) {
	in := driveInput()
	in.Speed = 0.001
	in.RollingResistance = 50
	got, _ := LongitudinalForce(in)
	// velocity change over one tick for the wheel's share of mass
	dv := got / in.CarryingMass * in.Dt
	if in.Speed+dv < -1e-12 {
		t.Errorf("drag %v reverses speed %v", got, in.Speed)
	}
}

func TestLongitudinalForce_BrakeAboveEngageSpeed(t *testing.T) {
	in := driveInput()
	in.Throttle = -1
	in.Speed = 15
	got, mode := LongitudinalForce(in)
	if mode != DriveBrake || got >= 0 {
		t.Fatalf("force = %v mode = %v", got, mode)
	}
	if want := -12 * 1200 * 0.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("brake = %v, want %v", got, want)
	}
}

func TestLongitudinalForce_ReverseBelowEngageSpeed(t *testing.T) {
	for _, speed := range []float64{0.4, 0, -3} {
		in := driveInput()
		in.Throttle = -0.5
		in.Speed = speed
		got, mode := LongitudinalForce(in)
		if mode != DriveReverse || got >= 0 {
			t.Errorf("speed %v: force = %v mode = %v", speed, got, mode)
		}
	}
}

func TestLongitudinalForce_UndrivenWheel(t *testing.T) {
	in := driveInput()
	in.Distribution = 0
	in.Throttle = 1
	in.Speed = 10
	if got, _ := LongitudinalForce(in); got != 0 {
		t.Errorf("force = %v, want 0", got)
	}
}

func TestLongitudinalForce_DegenerateRadius(t *testing.T) {
	in := driveInput()
	in.Throttle = 1
	in.WheelRadius = 0
	if got, _ := LongitudinalForce(in); got != 0 {
		t.Errorf("force = %v, want 0", got)
	}
}

func TestHandbrakeForce(t *testing.T) {
	tests := []struct {
		name    string
		engaged bool
		speed   float64
		want    float64
	}{
		{"released", false, 10, 0},
		{"below threshold", true, 0.05, 0},
		{"at threshold", true, 0.1, 0},
		{"forward slide", true, 10, -100 * 0.5 * 1200},
		{"backward slide", true, -4, 100 * 0.5 * 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandbrakeForce(HandbrakeInput{
				Engaged:      tt.engaged,
				Speed:        tt.speed,
				Strength:     100,
				Distribution: 0.5,
				Mass:         1200,
				Threshold:    0.1,
			})
			if got != tt.want {
				t.Errorf("force = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrictionLimit_NeverNegative(t *testing.T) {
	if got := FrictionLimit(1.5, 1, -100); got != 0 {
		t.Errorf("limit = %v", got)
	}
	if got := FrictionLimit(1.5, 1, math.Inf(1)); got != 0 {
		t.Errorf("limit = %v", got)
	}
}
