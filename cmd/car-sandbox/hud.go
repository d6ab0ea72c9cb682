package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/telemetry"
	"github.com/lixenwraith/vi-racer/vmath"
	"github.com/lixenwraith/vi-racer/world"
)

// Terminal cells are about twice as tall as wide
const (
	cellsPerMetre = 2.0
	cellAspect    = 2.0
	hudLines      = 4
	rpmBarWidth   = 20
)

var (
	styleDefault   = tcell.StyleDefault
	styleWall      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleRamp      = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleChassis   = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleWheel     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleAirborne  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleHandbrake = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleWallHit   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHUD       = tcell.StyleDefault.Foreground(tcell.ColorLightGreen)
	styleRedline   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleOverlay   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
)

// camera maps ground-plane world coordinates to screen cells, +X right and +Y up on screen
type camera struct {
	center        mgl64.Vec3
	width, height int
}

func (c camera) toCell(p mgl64.Vec3) (int, int) {
	dx := (p.X() - c.center.X()) * cellsPerMetre * cellAspect
	dy := (p.Y() - c.center.Y()) * cellsPerMetre
	return c.width/2 + int(math.Round(dx)), hudLines + (c.height-hudLines)/2 - int(math.Round(dy))
}

func (c camera) toWorld(x, y int) mgl64.Vec3 {
	wx := float64(x-c.width/2)/(cellsPerMetre*cellAspect) + c.center.X()
	wy := float64(hudLines+(c.height-hudLines)/2-y)/cellsPerMetre + c.center.Y()
	return mgl64.Vec3{wx, wy, 0}
}

// insideFootprint reports whether ground point p lies within the box's top-down footprint
func insideFootprint(p, center mgl64.Vec3, rot mgl64.Quat, half mgl64.Vec3) bool {
	// Height is ignored, pitched ramps draw slightly short
	local := rot.Conjugate().Rotate(p.Sub(center))
	return math.Abs(local.X()) <= half.X() && math.Abs(local.Y()) <= half.Y()
}

// hud is the frame state copied out of the simulation under its lock
type hud struct {
	snap    telemetry.Snapshot
	boxes   []*world.Box
	extents mgl64.Vec3
	paused  bool
	muted   bool
	ticks   uint64
	dropped uint64
}

func draw(screen tcell.Screen, h hud) {
	screen.Clear()
	w, ht := screen.Size()
	cam := camera{center: h.snap.Position, width: w, height: ht}

	drawArena(screen, cam, h.boxes)
	drawCar(screen, cam, h)
	drawHUD(screen, w, h)
	if h.paused {
		drawText(screen, w/2-4, ht/2, styleOverlay, " PAUSED ")
	}
	drawText(screen, 0, ht-1, styleDefault, "arrows/wasd drive  space handbrake  r reset  p pause  m mute  q quit")
	screen.Show()
}

func drawArena(screen tcell.Screen, cam camera, boxes []*world.Box) {
	for y := hudLines; y < cam.height-1; y++ {
		for x := 0; x < cam.width; x++ {
			p := cam.toWorld(x, y)
			for _, b := range boxes {
				if !insideFootprint(p, b.Center, b.Rotation, b.HalfExtents) {
					continue
				}
				if hasTag(b.Tags, tagRamp) {
					screen.SetContent(x, y, '/', nil, styleRamp)
				} else {
					screen.SetContent(x, y, '#', nil, styleWall)
				}
				break
			}
		}
	}
}

func drawCar(screen tcell.Screen, cam camera, h hud) {
	s := h.snap
	yaw := vmath.FromYaw(vmath.Yaw(s.Rotation))
	ext := h.extents

	// Chassis outline sampled along its edges
	steps := int(math.Ceil(math.Max(ext.X(), ext.Y())*cellsPerMetre*cellAspect)) * 2
	for i := 0; i <= steps; i++ {
		t := float64(i)/float64(steps)*2 - 1
		for _, local := range []mgl64.Vec3{
			{ext.X() * t, ext.Y(), 0}, {ext.X() * t, -ext.Y(), 0},
			{ext.X(), ext.Y() * t, 0}, {-ext.X(), ext.Y() * t, 0},
		} {
			x, y := cam.toCell(s.Position.Add(yaw.Rotate(local)))
			screen.SetContent(x, y, '·', nil, styleChassis)
		}
	}

	nose := s.Position.Add(yaw.Rotate(mgl64.Vec3{ext.X() + 0.5, 0, 0}))
	x, y := cam.toCell(nose)
	screen.SetContent(x, y, headingRune(vmath.Yaw(s.Rotation)), nil, styleChassis)

	for _, wh := range s.Wheels {
		x, y := cam.toCell(wh.Mount)
		r, st := wheelGlyph(wh)
		screen.SetContent(x, y, r, nil, st)
	}
}

// wheelGlyph picks a wheel's rune and style from its state
func wheelGlyph(w telemetry.WheelSnapshot) (rune, tcell.Style) {
	switch {
	case w.WallHit:
		return '!', styleWallHit
	case w.Handbrake:
		return 'x', styleHandbrake
	case !w.Grounded:
		return 'o', styleAirborne
	default:
		return 'O', styleWheel
	}
}

// headingRune returns an arrow for a yaw in degrees, 0 pointing right
func headingRune(yaw float64) rune {
	arrows := []rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}
	idx := int(math.Round(yaw/45)) % len(arrows)
	if idx < 0 {
		idx += len(arrows)
	}
	return arrows[idx]
}

func drawHUD(screen tcell.Screen, width int, h hud) {
	s := h.snap
	drawText(screen, 0, 0, styleHUD, fmt.Sprintf("%-10s %6.1f km/h  gear %-2s  %s %5.0f rpm",
		s.Vehicle, s.DisplaySpeed, gearLabel(s.Gear), rpmBar(s.NormalizedRPM, rpmBarWidth), s.RPM))
	if s.NormalizedRPM > 0.9 {
		drawText(screen, 0, 0, styleRedline, fmt.Sprintf("%-10s", s.Vehicle))
	}

	flags := make([]string, 0, 3)
	if s.Handbrake {
		flags = append(flags, "HANDBRAKE")
	}
	if h.muted {
		flags = append(flags, "muted")
	}
	if h.dropped > 0 {
		flags = append(flags, fmt.Sprintf("dropped %d", h.dropped))
	}
	drawText(screen, 0, 1, styleHUD, fmt.Sprintf("steer %+5.2f  throttle %+5.2f  brake %4.2f  wheel %+6.1f°  tick %d  %s",
		s.Steer, s.Throttle, s.Brake, s.SteeringWheel, h.ticks, strings.Join(flags, " ")))

	line := strings.Builder{}
	for i, w := range s.Wheels {
		if i > 0 {
			line.WriteString(" | ")
		}
		fmt.Fprintf(&line, "%s N%5.0f slip%+5.1f %s", shortName(w.Name), w.NormalForce, w.SlipVelocity, w.DriveMode)
	}
	text := line.String()
	if len(text) > width {
		text = text[:width]
	}
	drawText(screen, 0, 2, styleHUD, text)
}

// gearLabel renders gear numbers with R for reverse
func gearLabel(gear int) string {
	if gear < 0 {
		return "R"
	}
	return fmt.Sprintf("%d", gear)
}

// rpmBar renders normalized RPM as a fixed-width bar
func rpmBar(norm float64, width int) string {
	filled := int(math.Round(vmath.Clamp01(norm) * float64(width)))
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

func shortName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p != "" {
			b.WriteString(strings.ToUpper(p[:1]))
		}
	}
	return b.String()
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
