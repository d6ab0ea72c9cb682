package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-racer/engine"
	"github.com/lixenwraith/vi-racer/vehicle"
)

func newTestSimulation(t *testing.T) (*simulation, *engine.MockTimeProvider) {
	t.Helper()
	cfg, err := loadConfig("")
	require.NoError(t, err)
	vcfg, err := resolveVehicle(cfg)
	require.NoError(t, err)

	mock := engine.NewMockTimeProvider(time.Unix(0, 0))
	sim, err := newSimulation(cfg, vcfg, engine.NewPausableClock(mock), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(sim.close)
	return sim, mock
}

func steps(sim *simulation, n int) {
	for i := 0; i < n; i++ {
		sim.scheduler.Step()
	}
}

func TestSimulation_SettlesOnArenaFloor(t *testing.T) {
	sim, _ := newTestSimulation(t)
	steps(sim, 300)

	snap := sim.car.Snapshot()
	assert.Equal(t, 4, snap.GroundedWheels())
	assert.Less(t, sim.body.LinearVelocity().Len(), 0.2)
	assert.Greater(t, snap.Position.Z(), 0.0)
	assert.Equal(t, uint64(300), sim.scheduler.TickCount())

	latest, ok := sim.recorder.Latest()
	require.True(t, ok)
	assert.Equal(t, snap.Tick, latest.Tick)
}

func TestSimulation_AdvanceFollowsClock(t *testing.T) {
	sim, _ := newTestSimulation(t)
	interval := sim.scheduler.TickInterval()

	n := sim.scheduler.Advance(3*interval + interval/2)
	assert.Equal(t, 3, n)
	assert.Equal(t, uint64(3), sim.car.Tick())
}

func TestSimulation_FrameCopiesStateAndInput(t *testing.T) {
	sim, _ := newTestSimulation(t)
	steps(sim, 10)

	h := sim.frame(vehicle.Input{Throttle: 1, Steer: -0.5}, true)
	assert.Equal(t, 1.0, sim.car.Input().Throttle)
	assert.Equal(t, -0.5, sim.car.Input().Steer)
	assert.True(t, h.muted)
	assert.False(t, h.paused)
	assert.Equal(t, uint64(10), h.ticks)
	assert.Equal(t, sim.body.HalfExtents(), h.extents)
	// Four walls and four ramps
	assert.Len(t, h.boxes, 8)
}

func TestSimulation_ResetReturnsToSpawn(t *testing.T) {
	sim, _ := newTestSimulation(t)
	steps(sim, 120)
	sim.frame(vehicle.Input{Throttle: 1}, true)
	steps(sim, 120)

	require.Greater(t, sim.body.Position().X(), 0.5, "car should have driven forward")

	sim.reset()
	assert.True(t, sim.body.Position().ApproxEqual(sim.spawn))
	assert.True(t, sim.body.LinearVelocity().ApproxEqual(mgl64.Vec3{}))
	assert.Equal(t, 0, sim.recorder.Len())
	assert.Equal(t, 1, sim.car.CurrentGear())
}

func TestBuildArena_WithoutRamps(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	cfg.Arena.Ramps = false
	vcfg, err := resolveVehicle(cfg)
	require.NoError(t, err)

	sim, err := newSimulation(cfg, vcfg, engine.NewPausableClock(engine.NewMockTimeProvider(time.Unix(0, 0))), zerolog.Nop())
	require.NoError(t, err)
	defer sim.close()
	assert.Len(t, sim.scene.Boxes(), 4)
}

func TestResolveVehicle(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)

	cfg.Vehicle = "roadster"
	vcfg, err := resolveVehicle(cfg)
	require.NoError(t, err)
	assert.Equal(t, "roadster", vcfg.Name)

	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = \"custom\"\n"), 0o644))
	cfg.VehicleFile = path
	vcfg, err = resolveVehicle(cfg)
	require.NoError(t, err)
	assert.Equal(t, "custom", vcfg.Name, "vehicle file wins over preset")

	cfg.VehicleFile = ""
	cfg.Vehicle = "tractor"
	_, err = resolveVehicle(cfg)
	assert.Error(t, err)
}

func TestSpawnHeight_ClearsGround(t *testing.T) {
	for _, name := range vehicle.Presets() {
		vcfg, err := vehicle.LoadPreset(name)
		require.NoError(t, err)
		h := spawnHeight(vcfg)
		assert.Greater(t, h, vcfg.Body.HalfExtents.Z(), name)
	}
}
