package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func TestKeyAction(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		ch   rune
		want action
	}{
		{"arrow left", tcell.KeyLeft, 0, actSteerLeft},
		{"arrow right", tcell.KeyRight, 0, actSteerRight},
		{"arrow up", tcell.KeyUp, 0, actThrottle},
		{"arrow down", tcell.KeyDown, 0, actBrake},
		{"escape", tcell.KeyEscape, 0, actQuit},
		{"ctrl-c", tcell.KeyCtrlC, 0, actQuit},
		{"wasd steer", tcell.KeyRune, 'a', actSteerLeft},
		{"vi steer", tcell.KeyRune, 'l', actSteerRight},
		{"vi throttle", tcell.KeyRune, 'k', actThrottle},
		{"wasd brake", tcell.KeyRune, 's', actBrake},
		{"space", tcell.KeyRune, ' ', actHandbrake},
		{"reset", tcell.KeyRune, 'r', actReset},
		{"pause", tcell.KeyRune, 'p', actPause},
		{"mute", tcell.KeyRune, 'm', actMute},
		{"quit", tcell.KeyRune, 'q', actQuit},
		{"unbound rune", tcell.KeyRune, 'z', actNone},
		{"unbound key", tcell.KeyTab, 0, actNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tcell.NewEventKey(tt.key, tt.ch, tcell.ModNone)
			if got := keyAction(ev); got != tt.want {
				t.Errorf("keyAction = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDriverInput_HoldExpires(t *testing.T) {
	var d driverInput
	now := time.Unix(100, 0)

	d.press(actSteerLeft, now)
	d.press(actThrottle, now)
	d.press(actHandbrake, now)

	in := d.sample(now.Add(keyHold / 2))
	if in.Steer != 1 || in.Throttle != 1 || !in.Handbrake {
		t.Fatalf("held input = %+v", in)
	}

	in = d.sample(now.Add(keyHold))
	if in.Steer != 0 || in.Throttle != 0 || in.Handbrake {
		t.Errorf("expired input = %+v", in)
	}
}

func TestDriverInput_RepeatExtendsAndOpposingReplaces(t *testing.T) {
	var d driverInput
	now := time.Unix(100, 0)

	d.press(actThrottle, now)
	d.press(actThrottle, now.Add(keyHold-time.Millisecond))
	if in := d.sample(now.Add(keyHold + time.Millisecond)); in.Throttle != 1 {
		t.Errorf("repeat did not extend hold: %+v", in)
	}

	d.press(actBrake, now.Add(keyHold))
	if in := d.sample(now.Add(keyHold + time.Millisecond)); in.Throttle != -1 {
		t.Errorf("brake did not replace throttle: %+v", in)
	}

	d.press(actSteerRight, now)
	if in := d.sample(now); in.Steer != -1 {
		t.Errorf("steer right = %v, want -1", in.Steer)
	}
}

func TestDriverInput_ClearAndIgnoredActions(t *testing.T) {
	var d driverInput
	now := time.Unix(100, 0)

	d.press(actReset, now)
	d.press(actQuit, now)
	if d != (driverInput{}) {
		t.Errorf("non-driving actions changed state: %+v", d)
	}

	d.press(actSteerLeft, now)
	d.clear()
	if in := d.sample(now); in.Steer != 0 {
		t.Errorf("cleared steer = %v", in.Steer)
	}
}
