package audio

import (
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/vi-racer/parameter"
)

// atomicFloat is a float64 shared between the simulation and speaker goroutines
type atomicFloat struct{ bits atomic.Uint64 }

func (f *atomicFloat) Load() float64 { return math.Float64frombits(f.bits.Load()) }
func (f *atomicFloat) Store(v float64) { f.bits.Store(math.Float64bits(v)) }

// EngineTone is an endless engine drone, a sawtooth fundamental blended with a sine an octave down
// Pitch and gain glide toward targets set from any goroutine
type EngineTone struct {
	rate     beep.SampleRate
	phase    float64
	subPhase float64
	freq     float64
	gain     float64

	targetFreq atomicFloat
	targetGain atomicFloat
}

// NewEngineTone creates a silent tone at idle pitch
func NewEngineTone(rate beep.SampleRate) *EngineTone {
	t := &EngineTone{rate: rate, freq: parameter.EngineIdleHz}
	t.targetFreq.Store(parameter.EngineIdleHz)
	return t
}

// SetTarget sets the pitch and gain the tone glides toward
func (t *EngineTone) SetTarget(freq, gain float64) {
	t.targetFreq.Store(freq)
	t.targetGain.Store(gain)
}

// Frequency returns the current, not target, fundamental
func (t *EngineTone) Frequency() float64 { return t.freq }

// Gain returns the current, not target, gain
func (t *EngineTone) Gain() float64 { return t.gain }

func (t *EngineTone) Stream(samples [][2]float64) (n int, ok bool) {
	tf, tg := t.targetFreq.Load(), t.targetGain.Load()
	for i := range samples {
		t.freq += (tf - t.freq) * parameter.EngineGlideRate
		t.gain += (tg - t.gain) * parameter.EngineGlideRate

		saw := 2*t.phase - 1
		sub := math.Sin(2 * math.Pi * t.subPhase)
		v := t.gain * (0.6*saw + 0.4*sub)
		samples[i][0] = v
		samples[i][1] = v

		step := t.freq / float64(t.rate)
		t.phase += step
		t.phase -= math.Floor(t.phase)
		t.subPhase += step / 2
		t.subPhase -= math.Floor(t.subPhase)
	}
	return len(samples), true
}

func (t *EngineTone) Err() error { return nil }

// SkidNoise is endless low-passed noise whose gain follows a target
type SkidNoise struct {
	rng  *rand.Rand
	lp   float64
	gain float64

	targetGain atomicFloat
}

// NewSkidNoise creates silent skid noise, seed fixes the noise sequence
func NewSkidNoise(seed int64) *SkidNoise {
	return &SkidNoise{rng: rand.New(rand.NewSource(seed))}
}

// SetTarget sets the gain the noise glides toward
func (s *SkidNoise) SetTarget(gain float64) { s.targetGain.Store(gain) }

// Gain returns the current gain
func (s *SkidNoise) Gain() float64 { return s.gain }

func (s *SkidNoise) Stream(samples [][2]float64) (n int, ok bool) {
	tg := s.targetGain.Load()
	for i := range samples {
		s.gain += (tg - s.gain) * parameter.EngineGlideRate * 4
		s.lp += (s.rng.Float64()*2 - 1 - s.lp) * 0.35
		v := s.gain * s.lp
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (s *SkidNoise) Err() error { return nil }
