package main

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-racer/vehicle"
)

// action is a sandbox command decoded from a key event
type action int

const (
	actNone action = iota
	actSteerLeft
	actSteerRight
	actThrottle
	actBrake
	actHandbrake
	actReset
	actPause
	actMute
	actQuit
)

// keyHold is how long a key press keeps an axis engaged
// Terminals report presses and auto-repeats but no releases
const keyHold = 180 * time.Millisecond

func keyAction(ev *tcell.EventKey) action {
	switch ev.Key() {
	case tcell.KeyLeft:
		return actSteerLeft
	case tcell.KeyRight:
		return actSteerRight
	case tcell.KeyUp:
		return actThrottle
	case tcell.KeyDown:
		return actBrake
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actQuit
	case tcell.KeyRune:
	default:
		return actNone
	}

	switch ev.Rune() {
	case 'a', 'h':
		return actSteerLeft
	case 'd', 'l':
		return actSteerRight
	case 'w', 'k':
		return actThrottle
	case 's', 'j':
		return actBrake
	case ' ':
		return actHandbrake
	case 'r':
		return actReset
	case 'p':
		return actPause
	case 'm':
		return actMute
	case 'q':
		return actQuit
	}
	return actNone
}

// driverInput turns key presses into held axes that expire keyHold after the last repeat
type driverInput struct {
	steer, throttle float64

	steerUntil     time.Time
	throttleUntil  time.Time
	handbrakeUntil time.Time
}

// press records a driving action at now, non-driving actions are ignored
func (d *driverInput) press(a action, now time.Time) {
	until := now.Add(keyHold)
	switch a {
	case actSteerLeft:
		d.steer, d.steerUntil = 1, until
	case actSteerRight:
		d.steer, d.steerUntil = -1, until
	case actThrottle:
		d.throttle, d.throttleUntil = 1, until
	case actBrake:
		d.throttle, d.throttleUntil = -1, until
	case actHandbrake:
		d.handbrakeUntil = until
	}
}

// sample returns the vehicle input held at now
func (d *driverInput) sample(now time.Time) vehicle.Input {
	var in vehicle.Input
	if now.Before(d.steerUntil) {
		in.Steer = d.steer
	}
	if now.Before(d.throttleUntil) {
		in.Throttle = d.throttle
	}
	in.Handbrake = now.Before(d.handbrakeUntil)
	return in
}

// clear releases every axis
func (d *driverInput) clear() {
	*d = driverInput{}
}
