package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-racer/audio"
	"github.com/lixenwraith/vi-racer/core"
	"github.com/lixenwraith/vi-racer/engine"
	"github.com/lixenwraith/vi-racer/parameter"
	"github.com/lixenwraith/vi-racer/telemetry"
	"github.com/lixenwraith/vi-racer/vehicle"
)

var (
	configFlag      = flag.String("config", "", "Sandbox config file (toml, yaml or json)")
	vehicleFlag     = flag.String("vehicle", "", "Vehicle preset name, overrides config")
	vehicleFileFlag = flag.String("vehicle-file", "", "Vehicle config file, overrides preset")
	debugFlag       = flag.Bool("debug", false, "Write a debug log under ./logs")
	listFlag        = flag.Bool("list", false, "List vehicle presets and exit")
)

func main() {
	flag.Parse()

	if *listFlag {
		for _, n := range vehicle.Presets() {
			fmt.Println(n)
		}
		return
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *vehicleFlag != "" {
		cfg.Vehicle = *vehicleFlag
	}
	if *vehicleFileFlag != "" {
		cfg.VehicleFile = *vehicleFileFlag
	}
	if *debugFlag {
		cfg.Debug = true
	}

	logFile, log := setupLogging(cfg.Debug, cfg.LogLevel)
	if logFile != nil {
		defer logFile.Close()
	}

	vcfg, err := resolveVehicle(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Vehicle error: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	// Crashes on any goroutine restore the terminal before reporting
	core.SetCrashHook(screen.Fini)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	defer screen.Fini()

	sim, err := newSimulation(cfg, vcfg, engine.NewPausableClock(nil), log)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Simulation error: %v\n", err)
		os.Exit(1)
	}
	defer sim.close()

	sound := audio.NewSoundManager(log)
	if !cfg.Mute && sound.Initialize() != nil {
		cfg.Mute = true
	}
	defer sound.Cleanup()
	sound.SetMuted(cfg.Mute)
	sim.car.AddObserver(sound)

	log.Info().
		Str("vehicle", vcfg.Name).
		Int("tick_rate", cfg.TickRate).
		Bool("telemetry", sim.sink != nil).
		Msg("Sandbox started")

	sim.scheduler.Start()

	events := make(chan tcell.Event, 64)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	frameTicker := time.NewTicker(parameter.FrameUpdateInterval)
	defer frameTicker.Stop()

	var driver driverInput
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				now := time.Now()
				switch a := keyAction(ev); a {
				case actQuit:
					log.Info().Uint64("ticks", sim.scheduler.TickCount()).Msg("Sandbox exiting")
					return
				case actPause:
					if sim.scheduler.IsPaused() {
						sim.scheduler.Resume()
					} else {
						sim.scheduler.Pause()
						driver.clear()
					}
				case actReset:
					driver.clear()
					sim.reset()
				case actMute:
					// Speaker opens lazily on the first unmute
					if sound.Muted() && sound.Initialize() != nil {
						break
					}
					sound.SetMuted(!sound.Muted())
				default:
					if !sim.scheduler.IsPaused() {
						driver.press(a, now)
					}
				}
			}

		case <-sim.updates:
			// Ticks are rendered on the next frame

		case <-frameTicker.C:
			draw(screen, sim.frame(driver.sample(time.Now()), sound.Muted()))
		}
	}
}

// frame pushes the sampled driver input and copies render state under the scheduler lock
func (s *simulation) frame(in vehicle.Input, muted bool) hud {
	h := hud{
		extents: s.body.HalfExtents(),
		muted:   muted,
		paused:  s.scheduler.IsPaused(),
		dropped: s.scheduler.DroppedTicks(),
		ticks:   s.scheduler.TickCount(),
	}
	s.scheduler.RunLocked(func() {
		s.car.SetInput(in)
		h.snap = s.car.Snapshot()
		h.boxes = s.scene.Boxes()
	})
	return h
}

var _ telemetry.Observer = (*audio.SoundManager)(nil)
