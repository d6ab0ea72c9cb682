package telemetry

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRecorder_RingOrder(t *testing.T) {
	r := NewRecorder(3)
	if _, ok := r.Latest(); ok {
		t.Fatal("empty recorder returned a snapshot")
	}

	for i := uint64(1); i <= 5; i++ {
		r.Observe(Snapshot{Tick: i})
	}

	latest, ok := r.Latest()
	if !ok || latest.Tick != 5 {
		t.Errorf("latest = %d, %v", latest.Tick, ok)
	}

	hist := r.History()
	if len(hist) != 3 {
		t.Fatalf("history len = %d, want 3", len(hist))
	}
	for i, want := range []uint64{3, 4, 5} {
		if hist[i].Tick != want {
			t.Errorf("history[%d] = %d, want %d", i, hist[i].Tick, want)
		}
	}

	r.Reset()
	if r.Len() != 0 {
		t.Errorf("len after reset = %d", r.Len())
	}
}

func TestSnapshot_MaxSlipIgnoresAirborne(t *testing.T) {
	var s Snapshot
	s.Wheels[0] = WheelSnapshot{Grounded: true, SlipVelocity: -2}
	s.Wheels[1] = WheelSnapshot{Grounded: false, SlipVelocity: 9}
	s.Wheels[2] = WheelSnapshot{Grounded: true, SlipVelocity: 1}

	if got := s.MaxSlip(); got != 2 {
		t.Errorf("MaxSlip = %v, want 2", got)
	}
	if got := s.GroundedWheels(); got != 2 {
		t.Errorf("GroundedWheels = %d, want 2", got)
	}
}

func TestObserverFunc(t *testing.T) {
	var got uint64
	var o Observer = ObserverFunc(func(s Snapshot) { got = s.Tick })
	o.Observe(Snapshot{Tick: 7})
	if got != 7 {
		t.Errorf("tick = %d", got)
	}
}

func TestInfluxSink_BackupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.lp.gz")
	sink := NewInfluxSink(InfluxConfig{Every: 2, BackupPath: path}, zerolog.Nop())
	sink.now = func() time.Time { return time.Unix(100, 0) }

	if err := sink.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	for i := uint64(1); i <= 5; i++ {
		sink.Observe(Snapshot{Vehicle: "hatchback", Tick: i, Gear: 2})
	}
	if got := sink.Written(); got != 3 {
		t.Errorf("written = %d, want 3", got)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open backup: %v", err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// 3 sampled ticks, one vehicle point and four wheel points each
	if len(lines) != 15 {
		t.Fatalf("lines = %d, want 15", len(lines))
	}
	if !strings.HasPrefix(lines[0], MeasurementVehicle+",vehicle=hatchback ") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[0], "gear=2i") {
		t.Errorf("gear field missing: %q", lines[0])
	}
}

func TestInfluxSink_NoTarget(t *testing.T) {
	sink := NewInfluxSink(InfluxConfig{}, zerolog.Nop())
	if err := sink.Connect(context.Background()); err == nil {
		t.Fatal("expected error without url or backup path")
	}
	sink.Observe(Snapshot{Tick: 1})
	if sink.Written() != 0 {
		t.Error("unconnected sink reported a write")
	}
}
