package physics

import (
	"math"
	"testing"
)

func TestAckermann_ZeroIsStraight(t *testing.T) {
	inner, outer, ok := Ackermann(0, 2.5, 1.5)
	if !ok || inner != 0 || outer != 0 {
		t.Errorf("Ackermann(0) = %v, %v, %v", inner, outer, ok)
	}
}

func TestAckermann_InnerTurnsMore(t *testing.T) {
	for _, phi := range []float64{-30, -10, -1, 1, 10, 30} {
		inner, outer, ok := Ackermann(phi, 2.5, 1.5)
		if !ok {
			t.Fatalf("phi %v rejected", phi)
		}
		if math.Abs(inner) <= math.Abs(outer) {
			t.Errorf("phi %v: |inner| %v <= |outer| %v", phi, inner, outer)
		}
		if inner*phi <= 0 || outer*phi <= 0 {
			t.Errorf("phi %v: sign mismatch inner %v outer %v", phi, inner, outer)
		}
	}
}

func TestAckermann_ZeroTrackMatchesPhi(t *testing.T) {
	inner, outer, _ := Ackermann(20, 2.5, 0)
	if math.Abs(inner-20) > 1e-9 || math.Abs(outer-20) > 1e-9 {
		t.Errorf("inner %v outer %v, want 20", inner, outer)
	}
}

func TestAckermann_MatchesTurnCenter(t *testing.T) {
	const wheelbase, track, phi = 2.5, 1.5, 25.0
	inner, outer, _ := Ackermann(phi, wheelbase, track)

	// both wheels must point at the same rear-axle turn center
	radius := wheelbase / math.Tan(phi*math.Pi/180)
	wantInner := math.Atan(wheelbase/(radius-track/2)) * 180 / math.Pi
	wantOuter := math.Atan(wheelbase/(radius+track/2)) * 180 / math.Pi
	if math.Abs(inner-wantInner) > 1e-9 || math.Abs(outer-wantOuter) > 1e-9 {
		t.Errorf("got %v/%v, want %v/%v", inner, outer, wantInner, wantOuter)
	}
}

func TestAckermann_DegenerateWheelbase(t *testing.T) {
	if _, _, ok := Ackermann(10, 0, 1.5); ok {
		t.Error("zero wheelbase accepted")
	}
}

func TestSteerTargets_LeftTurnLeftInner(t *testing.T) {
	left, right := SteerTargets(20, 2.5, 1.5)
	if left <= right || right <= 0 {
		t.Errorf("left turn: left %v right %v", left, right)
	}
	left, right = SteerTargets(-20, 2.5, 1.5)
	if right >= left || left >= 0 {
		t.Errorf("right turn: left %v right %v", left, right)
	}
}

func TestSteerToward_RateBounded(t *testing.T) {
	const dt = 1.0 / 60
	step := SteerStep(120, 0.5, dt)
	if math.Abs(step-1) > 1e-12 {
		t.Fatalf("step = %v, want 1", step)
	}

	angle := 0.0
	for i := 0; i < 100; i++ {
		next := SteerToward(angle, 30, step)
		if math.Abs(next-angle) > step+1e-12 {
			t.Fatalf("tick %d moved %v > %v", i, next-angle, step)
		}
		angle = next
	}
	if angle != 30 {
		t.Errorf("final angle = %v, want 30", angle)
	}
}

func TestSteerStep_RejectsNegative(t *testing.T) {
	if got := SteerStep(120, -1, 1.0/60); got != 0 {
		t.Errorf("step = %v", got)
	}
	if got := SteerStep(math.NaN(), 1, 1.0/60); got != 0 {
		t.Errorf("step = %v", got)
	}
}
