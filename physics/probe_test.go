package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/parameter"
)

func baseProbeRequest() ProbeRequest {
	return ProbeRequest{
		Mount:       mgl64.Vec3{1, 0.8, 0.5},
		Down:        mgl64.Vec3{0, 0, -1},
		Axle:        mgl64.Vec3{0, 1, 0},
		Inward:      mgl64.Vec3{0, -1, 0},
		RestHeight:  0.35,
		WheelRadius: 0.32,
		WheelWidth:  0.22,
		InwardStep:  0.02,
		InwardMax:   0.12,
	}
}

func TestProbe_CleanHitFirstAttempt(t *testing.T) {
	q := &scriptedQuery{contacts: []Contact{{Hit: true, Distance: 0.3, Normal: mgl64.Vec3{0, 0, 1}}}}
	res := Probe(q, baseProbeRequest())

	if !res.Hit || res.Distance != 0.3 {
		t.Fatalf("contact = %+v", res.Contact)
	}
	if res.Attempts != 1 || res.Offset != 0 || res.Degraded {
		t.Errorf("attempts=%d offset=%v degraded=%v", res.Attempts, res.Offset, res.Degraded)
	}
	if q.shapes[0].Kind != ShapeCylinder {
		t.Errorf("shape = %v, want cylinder", q.shapes[0].Kind)
	}
	if got, want := q.shapes[0].Radius, 0.32*parameter.ProbeRadiusFactor; got != want {
		t.Errorf("radius = %v, want %v", got, want)
	}
}

func TestProbe_RetriesInwardWhileEmbedded(t *testing.T) {
	q := &scriptedQuery{contacts: []Contact{
		{Hit: true, StartedEmbedded: true},
		{Hit: true, StartedEmbedded: true},
		{Hit: true, Distance: 0.25, Normal: mgl64.Vec3{0, 0, 1}},
	}}
	req := baseProbeRequest()
	res := Probe(q, req)

	if res.Degraded {
		t.Fatal("expected a clean contact after retries")
	}
	if res.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", res.Attempts)
	}
	if math.Abs(res.Offset-0.04) > 1e-12 {
		t.Errorf("offset = %v, want 0.04", res.Offset)
	}
	last := q.origins[len(q.origins)-1]
	if !last.ApproxEqual(req.Mount.Add(req.Inward.Mul(0.04))) {
		t.Errorf("last origin = %v", last)
	}
}

func TestProbe_DegradedWhenAlwaysEmbedded(t *testing.T) {
	q := &scriptedQuery{contacts: []Contact{{Hit: true, StartedEmbedded: true}}}
	req := baseProbeRequest()
	res := Probe(q, req)

	if !res.Degraded {
		t.Fatal("expected degraded result")
	}
	// offsets 0, 0.02 ... 0.12
	if res.Attempts != 7 {
		t.Errorf("attempts = %d, want 7", res.Attempts)
	}
	if res.Offset > req.InwardMax+parameter.Epsilon {
		t.Errorf("offset %v exceeds max %v", res.Offset, req.InwardMax)
	}
}

func TestProbe_BoundedWithTinyStep(t *testing.T) {
	q := &scriptedQuery{contacts: []Contact{{Hit: true, StartedEmbedded: true}}}
	req := baseProbeRequest()
	req.InwardStep = 1e-4
	res := Probe(q, req)

	if !res.Degraded {
		t.Fatal("expected degraded result")
	}
	if res.Attempts > parameter.ProbeMaxIterations+1 {
		t.Errorf("attempts = %d exceeds bound", res.Attempts)
	}
}

func TestProbe_ZeroStepSingleAttempt(t *testing.T) {
	q := &scriptedQuery{contacts: []Contact{{Hit: true, StartedEmbedded: true}}}
	req := baseProbeRequest()
	req.InwardStep = 0
	res := Probe(q, req)

	if res.Attempts != 1 || !res.Degraded {
		t.Errorf("attempts=%d degraded=%v", res.Attempts, res.Degraded)
	}
}

func TestProbe_MissReportsNoHit(t *testing.T) {
	q := &scriptedQuery{}
	res := Probe(q, baseProbeRequest())
	if res.Hit || res.Degraded {
		t.Errorf("miss = %+v", res)
	}
}

func TestWallOrigin_UndoesOffset(t *testing.T) {
	res := ProbeResult{Contact: Contact{EndPosition: mgl64.Vec3{0, 0.7, 0.1}}, Offset: 0.1}
	got := WallOrigin(res, mgl64.Vec3{0, -1, 0})
	if !got.ApproxEqual(mgl64.Vec3{0, 0.8, 0.1}) {
		t.Errorf("origin = %v", got)
	}
}
