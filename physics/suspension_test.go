package physics

import (
	"math"
	"testing"
)

func TestSpringForce(t *testing.T) {
	tests := []struct {
		name string
		in   SpringInput
		want float64
	}{
		{"at rest", SpringInput{RestHeight: 0.35, Distance: 0.35, Strength: 80, Damping: 9, CarryingMass: 300}, 0},
		{"compressed", SpringInput{RestHeight: 0.35, Distance: 0.25, Strength: 80, Damping: 9, CarryingMass: 300}, 0.1 * 80 * 300},
		{"compressing adds damping", SpringInput{RestHeight: 0.35, Distance: 0.25, Strength: 80, Damping: 9, CarryingMass: 300, NormalVelocity: -1}, 0.1*80*300 + 9*300},
		{"extended clamps to zero", SpringInput{RestHeight: 0.35, Distance: 0.5, Strength: 80, Damping: 9, CarryingMass: 300}, 0},
		{"fast rebound clamps to zero", SpringInput{RestHeight: 0.35, Distance: 0.3, Strength: 80, Damping: 9, CarryingMass: 300, NormalVelocity: 5}, 0},
		{"nan distance", SpringInput{RestHeight: 0.35, Distance: math.NaN(), Strength: 80, CarryingMass: 300}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpringForce(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SpringForce = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpringForce_NeverNegative(t *testing.T) {
	for d := -1.0; d <= 2; d += 0.05 {
		for v := -20.0; v <= 20; v += 2.5 {
			f := SpringForce(SpringInput{RestHeight: 0.35, Distance: d, Strength: 80, Damping: 9, CarryingMass: 300, NormalVelocity: v})
			if f < 0 {
				t.Fatalf("d=%v v=%v force=%v", d, v, f)
			}
		}
	}
}

func TestCarryingMass(t *testing.T) {
	if got := CarryingMass(1200, 4); got != 300 {
		t.Errorf("CarryingMass = %v", got)
	}
	if got := CarryingMass(1200, 0); got != 0 {
		t.Errorf("zero wheels = %v", got)
	}
}

func TestTravel_Clamped(t *testing.T) {
	if got := Travel(0.35, 0.5); got != 0 {
		t.Errorf("extended travel = %v", got)
	}
	if got := Travel(0.35, -0.1); got != 0.35 {
		t.Errorf("bottomed travel = %v", got)
	}
}
