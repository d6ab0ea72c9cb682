package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/telemetry"
	"github.com/lixenwraith/vi-racer/vmath"
)

func TestGearLabel(t *testing.T) {
	tests := []struct {
		gear int
		want string
	}{
		{-1, "R"},
		{1, "1"},
		{5, "5"},
	}
	for _, tt := range tests {
		if got := gearLabel(tt.gear); got != tt.want {
			t.Errorf("gearLabel(%d) = %q, want %q", tt.gear, got, tt.want)
		}
	}
}

func TestRPMBar(t *testing.T) {
	tests := []struct {
		norm float64
		want string
	}{
		{0, "[    ]"},
		{0.5, "[==  ]"},
		{1, "[====]"},
		{3, "[====]"},
		{-1, "[    ]"},
	}
	for _, tt := range tests {
		if got := rpmBar(tt.norm, 4); got != tt.want {
			t.Errorf("rpmBar(%v) = %q, want %q", tt.norm, got, tt.want)
		}
	}
}

func TestCamera_RoundTrip(t *testing.T) {
	cam := camera{center: mgl64.Vec3{10, -5, 0}, width: 80, height: 24}

	x, y := cam.toCell(cam.center)
	if x != 40 || y != hudLines+(24-hudLines)/2 {
		t.Errorf("center cell = (%d, %d)", x, y)
	}

	// +Y is up on screen, one metre is cellsPerMetre rows
	_, yUp := cam.toCell(cam.center.Add(mgl64.Vec3{0, 1, 0}))
	if yUp != y-int(cellsPerMetre) {
		t.Errorf("one metre left moved to row %d from %d", yUp, y)
	}

	p := cam.toWorld(x+8, y)
	if !vmath.V3Near(p, mgl64.Vec3{12, -5, 0}, 1e-9) {
		t.Errorf("toWorld = %v", p)
	}
}

func TestInsideFootprint(t *testing.T) {
	rot := vmath.FromYaw(90)
	half := mgl64.Vec3{4, 1, 1}
	if !insideFootprint(mgl64.Vec3{0, 3, 0}, mgl64.Vec3{}, rot, half) {
		t.Error("point along rotated long axis should be inside")
	}
	if insideFootprint(mgl64.Vec3{3, 0, 0}, mgl64.Vec3{}, rot, half) {
		t.Error("point along rotated short axis should be outside")
	}
}

func TestWheelGlyph(t *testing.T) {
	tests := []struct {
		name  string
		wheel telemetry.WheelSnapshot
		want  rune
	}{
		{"grounded", telemetry.WheelSnapshot{Grounded: true}, 'O'},
		{"airborne", telemetry.WheelSnapshot{}, 'o'},
		{"handbrake", telemetry.WheelSnapshot{Grounded: true, Handbrake: true}, 'x'},
		{"wall wins", telemetry.WheelSnapshot{Grounded: true, Handbrake: true, WallHit: true}, '!'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := wheelGlyph(tt.wheel); got != tt.want {
				t.Errorf("glyph = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeadingRune(t *testing.T) {
	tests := []struct {
		yaw  float64
		want rune
	}{
		{0, '→'},
		{90, '↑'},
		{180, '←'},
		{-90, '↓'},
		{-135, '↙'},
	}
	for _, tt := range tests {
		if got := headingRune(tt.yaw); got != tt.want {
			t.Errorf("headingRune(%v) = %q, want %q", tt.yaw, got, tt.want)
		}
	}
}

func TestShortName(t *testing.T) {
	if got := shortName("front_left"); got != "FL" {
		t.Errorf("shortName = %q", got)
	}
}

func TestDraw_SimulationScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(80, 24)

	snap := telemetry.Snapshot{
		Vehicle:  "hatchback",
		Gear:     -1,
		Rotation: mgl64.QuatIdent(),
	}
	snap.Wheels[0] = telemetry.WheelSnapshot{Name: "front_left", Grounded: true, Mount: mgl64.Vec3{1.2, 0.75, 0}}
	draw(screen, hud{snap: snap, extents: mgl64.Vec3{2, 0.85, 0.5}, paused: true})

	r, _, _, _ := screen.GetContent(0, 0)
	if r != 'h' {
		t.Errorf("HUD first cell = %q", r)
	}
	x, y := camera{width: 80, height: 24}.toCell(mgl64.Vec3{1.2, 0.75, 0})
	if r, _, _, _ := screen.GetContent(x, y); r != 'O' {
		t.Errorf("wheel cell = %q", r)
	}
}
