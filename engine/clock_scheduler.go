package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/lixenwraith/vi-racer/core"
	"github.com/lixenwraith/vi-racer/parameter"
)

const instrumentationName = "github.com/lixenwraith/vi-racer/engine"

// Stepper is advanced once per fixed tick before integration, typically a vehicle
type Stepper interface {
	FixedUpdate(dt float64) error
}

// Integrator turns accumulated forces into motion once per fixed tick, typically a scene
type Integrator interface {
	Step(dt float64)
}

// ErrorHandler receives a stepper's tick error, the tick continues with the next stepper
type ErrorHandler func(s Stepper, err error)

// ClockScheduler runs simulation on a fixed tick against a pausable clock
// Wall time is accumulated and consumed in whole ticks, catch-up capped per wake
// Steppers run under the scheduler lock, read shared state through RunLocked
type ClockScheduler struct {
	clock        *PausableClock
	tickInterval time.Duration
	maxSteps     int

	mu          sync.Mutex
	steppers    []Stepper
	integrator  Integrator
	accumulator time.Duration
	lastAdvance time.Time
	onError     ErrorHandler

	tickCount atomic.Uint64
	dropped   atomic.Uint64

	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	running    atomic.Bool
	updateDone chan uint64

	log      zerolog.Logger
	ticks    metric.Int64Counter
	overruns metric.Int64Counter
}

// SchedulerOption configures a ClockScheduler
type SchedulerOption func(*ClockScheduler)

// WithTickInterval sets the fixed step, default parameter.DefaultTickInterval
func WithTickInterval(d time.Duration) SchedulerOption {
	return func(cs *ClockScheduler) {
		if d > 0 {
			cs.tickInterval = d
		}
	}
}

// WithMaxSteps caps ticks run per Advance, default parameter.MaxStepsPerAdvance
func WithMaxSteps(n int) SchedulerOption {
	return func(cs *ClockScheduler) {
		if n > 0 {
			cs.maxSteps = n
		}
	}
}

// WithSchedulerLogger sets the scheduler logger
func WithSchedulerLogger(log zerolog.Logger) SchedulerOption {
	return func(cs *ClockScheduler) { cs.log = log }
}

// WithSchedulerMeter sets the meter for tick counters
func WithSchedulerMeter(m metric.Meter) SchedulerOption {
	return func(cs *ClockScheduler) { cs.initMetrics(m) }
}

// WithErrorHandler sets the stepper error callback, default logs at debug level
func WithErrorHandler(h ErrorHandler) SchedulerOption {
	return func(cs *ClockScheduler) { cs.onError = h }
}

// NewClockScheduler creates a stopped scheduler that integrates through integrator
// Returns the scheduler and an update channel signalled with the tick count after each productive wake
func NewClockScheduler(clock *PausableClock, integrator Integrator, opts ...SchedulerOption) (*ClockScheduler, <-chan uint64) {
	if clock == nil {
		clock = NewPausableClock(nil)
	}
	cs := &ClockScheduler{
		clock:        clock,
		tickInterval: parameter.DefaultTickInterval,
		maxSteps:     parameter.MaxStepsPerAdvance,
		integrator:   integrator,
		lastAdvance:  clock.Now(),
		stopChan:     make(chan struct{}),
		updateDone:   make(chan uint64, 1),
		log:          zerolog.Nop(),
	}
	cs.initMetrics(nil)
	for _, opt := range opts {
		opt(cs)
	}
	if cs.onError == nil {
		cs.onError = func(_ Stepper, err error) {
			cs.log.Debug().Err(err).Msg("Stepper tick rejected")
		}
	}
	return cs, cs.updateDone
}

func (cs *ClockScheduler) initMetrics(m metric.Meter) {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	cs.ticks = counter(m, "engine.ticks", "Fixed simulation ticks")
	cs.overruns = counter(m, "engine.ticks.dropped", "Ticks discarded by the catch-up cap")
}

func counter(m metric.Meter, name, desc string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}

// Register adds a stepper, steppers run in registration order
func (cs *ClockScheduler) Register(s Stepper) {
	cs.mu.Lock()
	cs.steppers = append(cs.steppers, s)
	cs.mu.Unlock()
}

// TickInterval returns the fixed step
func (cs *ClockScheduler) TickInterval() time.Duration { return cs.tickInterval }

// TickCount returns ticks run since creation or the last Reset
func (cs *ClockScheduler) TickCount() uint64 { return cs.tickCount.Load() }

// DroppedTicks returns ticks discarded by the catch-up cap
func (cs *ClockScheduler) DroppedTicks() uint64 { return cs.dropped.Load() }

// Clock returns the simulation clock
func (cs *ClockScheduler) Clock() *PausableClock { return cs.clock }

// Start begins the scheduler loop
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.mu.Lock()
		cs.lastAdvance = cs.clock.Now()
		cs.mu.Unlock()
		cs.wg.Add(1)
		core.Go(cs.schedulerLoop)
	}
}

// Stop halts the scheduler loop and waits for the current wake to finish
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}

// Pause freezes simulation time, pending partial ticks are kept
func (cs *ClockScheduler) Pause() { cs.clock.Pause() }

// Resume continues simulation time
func (cs *ClockScheduler) Resume() { cs.clock.Resume() }

// IsPaused reports whether simulation time is frozen
func (cs *ClockScheduler) IsPaused() bool { return cs.clock.IsPaused() }

// RunLocked runs fn holding the scheduler lock, no tick runs concurrently
func (cs *ClockScheduler) RunLocked(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	fn()
}

// Reset zeroes the tick counter and discards accumulated time
func (cs *ClockScheduler) Reset() {
	cs.mu.Lock()
	cs.accumulator = 0
	cs.lastAdvance = cs.clock.Now()
	cs.tickCount.Store(0)
	cs.mu.Unlock()
}

// schedulerLoop wakes once per tick interval and advances by the clock delta
func (cs *ClockScheduler) schedulerLoop() {
	defer cs.wg.Done()

	ticker := time.NewTicker(cs.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		case <-ticker.C:
		}

		if cs.clock.IsPaused() {
			continue
		}
		cs.mu.Lock()
		now := cs.clock.Now()
		elapsed := now.Sub(cs.lastAdvance)
		cs.lastAdvance = now
		steps := cs.advanceLocked(elapsed)
		cs.mu.Unlock()

		if steps > 0 {
			select {
			case cs.updateDone <- cs.tickCount.Load():
			default:
			}
		}
	}
}

// Advance adds elapsed simulation time and runs every whole tick it covers, up to the catch-up cap
// Returns the number of ticks run
func (cs *ClockScheduler) Advance(elapsed time.Duration) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.advanceLocked(elapsed)
}

func (cs *ClockScheduler) advanceLocked(elapsed time.Duration) int {
	if elapsed > 0 {
		cs.accumulator += elapsed
	}

	steps := 0
	for cs.accumulator >= cs.tickInterval && steps < cs.maxSteps {
		cs.stepLocked()
		cs.accumulator -= cs.tickInterval
		steps++
	}

	if cs.accumulator >= cs.tickInterval {
		behind := uint64(cs.accumulator / cs.tickInterval)
		cs.accumulator %= cs.tickInterval
		cs.dropped.Add(behind)
		cs.overruns.Add(context.Background(), int64(behind))
		cs.log.Warn().
			Uint64("dropped", behind).
			Int("ran", steps).
			Msg("Scheduler behind, discarding ticks")
	}
	return steps
}

// Step runs exactly one tick regardless of accumulated time
func (cs *ClockScheduler) Step() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.stepLocked()
}

// stepLocked runs every stepper then the integrator with the fixed dt
func (cs *ClockScheduler) stepLocked() {
	dt := cs.tickInterval.Seconds()
	for _, s := range cs.steppers {
		if err := s.FixedUpdate(dt); err != nil {
			cs.onError(s, err)
		}
	}
	if cs.integrator != nil {
		cs.integrator.Step(dt)
	}
	cs.tickCount.Add(1)
	cs.ticks.Add(context.Background(), 1)
}
