package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-racer/parameter"
	"github.com/lixenwraith/vi-racer/telemetry"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// SoundManager voices one vehicle: engine tone plus tyre skid, fed by telemetry snapshots
// Implements telemetry.Observer, usable without a speaker for silent runs
type SoundManager struct {
	mu          sync.Mutex
	engine      *EngineTone
	skid        *SkidNoise
	mixer       *beep.Mixer
	master      *effects.Volume
	initialized bool
	log         zerolog.Logger
}

// NewSoundManager creates a muted-until-initialized sound manager
func NewSoundManager(log zerolog.Logger) *SoundManager {
	sm := &SoundManager{
		engine: NewEngineTone(sampleRate),
		skid:   NewSkidNoise(time.Now().UnixNano()),
		mixer:  &beep.Mixer{},
		log:    log,
	}
	sm.mixer.Add(sm.engine, sm.skid)
	sm.master = &effects.Volume{Streamer: sm.mixer, Base: 2}
	return sm
}

// Initialize opens the speaker and starts playback
// A missing audio backend is returned as an error, the manager keeps working silently
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		sm.log.Warn().Err(err).Msg("Audio backend unavailable, running silent")
		return err
	}
	speaker.Play(sm.master)
	sm.initialized = true
	sm.log.Debug().Int("rate", int(sampleRate)).Msg("Audio started")
	return nil
}

// Observe retargets the voices from a snapshot
func (sm *SoundManager) Observe(s telemetry.Snapshot) {
	sm.engine.SetTarget(EngineTarget(s))
	sm.skid.SetTarget(SkidVolume(s))
}

// SetMuted silences or restores output without stopping the voices
func (sm *SoundManager) SetMuted(muted bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	sm.master.Silent = muted
}

// Muted reports the mute state
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return sm.master.Silent
}

// Cleanup stops playback
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Clear()
	sm.initialized = false
}

var _ telemetry.Observer = (*SoundManager)(nil)
