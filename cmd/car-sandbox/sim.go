package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-racer/engine"
	"github.com/lixenwraith/vi-racer/parameter"
	"github.com/lixenwraith/vi-racer/physics"
	"github.com/lixenwraith/vi-racer/telemetry"
	"github.com/lixenwraith/vi-racer/vehicle"
	"github.com/lixenwraith/vi-racer/vmath"
	"github.com/lixenwraith/vi-racer/world"
)

const (
	carBodyID physics.BodyID = 1
	tagWall                  = "wall"
	tagRamp                  = "ramp"
)

// simulation owns the scene, the player car and the fixed-tick scheduler
type simulation struct {
	scene     *world.Scene
	body      *world.Body
	car       *vehicle.Vehicle
	scheduler *engine.ClockScheduler
	updates   <-chan uint64
	recorder  *telemetry.Recorder
	sink      *telemetry.InfluxSink
	spawn     mgl64.Vec3
	log       zerolog.Logger
}

// resolveVehicle picks the vehicle file when set, the preset otherwise
func resolveVehicle(cfg sandboxConfig) (vehicle.Config, error) {
	if cfg.VehicleFile != "" {
		return vehicle.LoadConfig(cfg.VehicleFile)
	}
	return vehicle.LoadPreset(cfg.Vehicle)
}

func newSimulation(cfg sandboxConfig, vcfg vehicle.Config, clock *engine.PausableClock, log zerolog.Logger) (*simulation, error) {
	scene := world.NewScene(mgl64.Vec3{0, 0, -parameter.Gravity})
	buildArena(scene, cfg)

	spawn := mgl64.Vec3{0, 0, spawnHeight(vcfg)}
	body := world.NewBody(carBodyID, vcfg.Body.Mass, vcfg.Body.HalfExtents, spawn, mgl64.QuatIdent(), physics.TagVehicle)
	scene.AddBody(body)

	rec := telemetry.NewRecorder(parameter.TelemetryHistorySize)
	car, err := vehicle.New(vcfg, body, scene,
		vehicle.WithLogger(log),
		vehicle.WithObserver(rec),
	)
	if err != nil {
		return nil, fmt.Errorf("creating vehicle %s: %w", vcfg.Name, err)
	}

	interval := time.Second / time.Duration(cfg.TickRate)
	scheduler, updates := engine.NewClockScheduler(clock, scene,
		engine.WithTickInterval(interval),
		engine.WithSchedulerLogger(log),
	)
	scheduler.Register(car)

	s := &simulation{
		scene:     scene,
		body:      body,
		car:       car,
		scheduler: scheduler,
		updates:   updates,
		recorder:  rec,
		spawn:     spawn,
		log:       log,
	}

	if cfg.Telemetry.Enabled {
		sink := telemetry.NewInfluxSink(cfg.Telemetry.Influx, log)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := sink.Connect(ctx); err != nil {
			log.Warn().Err(err).Msg("Telemetry export disabled")
		} else {
			s.sink = sink
			car.AddObserver(sink)
		}
	}
	return s, nil
}

// buildArena lays a walled square of ground with optional ramps
func buildArena(scene *world.Scene, cfg sandboxConfig) {
	a := cfg.Arena
	scene.AddGround(0)
	scene.AddWalls(a.HalfExtent, a.WallHeight, a.WallThickness, tagWall)
	if !a.Ramps {
		return
	}
	// Pitched boxes half sunk into the ground, one per quadrant
	d := a.HalfExtent / 2
	pitch := vmath.DegToRad(12)
	for i, c := range []mgl64.Vec2{{d, 0}, {-d, 0}, {0, d}, {0, -d}} {
		yaw := mgl64.QuatRotate(float64(i)*math.Pi/2, vmath.AxisUp)
		rot := yaw.Mul(mgl64.QuatRotate(-pitch, vmath.AxisLeft))
		scene.AddBox(mgl64.Vec3{c.X(), c.Y(), -0.4}, rot, mgl64.Vec3{4, 3, 0.8}, tagRamp)
	}
}

// spawnHeight places the car so the wheels start just above ground
func spawnHeight(cfg vehicle.Config) float64 {
	h := 0.0
	for _, w := range cfg.Wheels {
		h = math.Max(h, -w.Mount.Z()+cfg.Suspension.RestHeight+w.Radius*parameter.ProbeRadiusFactor)
	}
	return math.Max(h, cfg.Body.HalfExtents.Z()+0.05)
}

// reset teleports the car back to spawn and clears history
func (s *simulation) reset() {
	s.scheduler.RunLocked(func() {
		if err := s.car.Teleport(s.spawn, mgl64.QuatIdent()); err != nil {
			s.log.Warn().Err(err).Msg("Reset failed")
		}
		s.recorder.Reset()
	})
	s.log.Info().Msg("Vehicle reset to spawn")
}

func (s *simulation) close() {
	s.scheduler.Stop()
	if s.sink != nil {
		if err := s.sink.Close(); err != nil {
			s.log.Warn().Err(err).Msg("Closing telemetry sink")
		}
	}
}
