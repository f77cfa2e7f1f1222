// Package audio synthesizes and mixes the game's sound effects and
// background music into a PCM stream for the output device.
package audio

import (
	"encoding/binary"
	"sync"
	"time"

	"go.uber.org/zap"

	"bubble-pop/internal/config"
)

// MaxActiveSounds caps concurrent effects; the oldest is dropped first.
const MaxActiveSounds = 16

// Mixer mixes background music and queued effects into signed 16-bit
// little-endian PCM. It implements io.Reader and never reports EOF: when
// nothing is playing it produces silence.
type Mixer struct {
	mu         sync.Mutex
	sampleRate int
	channels   int
	sfxVolume  float64

	// Synthesized effects, mono
	sounds map[Sound][]float32

	// Active sounds being played
	active []*activeSound

	music *MusicPlayer

	mixBuf   []float64
	musicBuf [][2]float64

	log *zap.Logger
}

type activeSound struct {
	sound    Sound
	data     []float32
	delay    int // frames of silence before the sound starts
	position int
	volume   float64
}

// NewMixer synthesizes the effect bank for cfg's sample rate.
func NewMixer(cfg config.AudioConfig, log *zap.Logger) *Mixer {
	if log == nil {
		log = zap.NewNop()
	}
	channels := cfg.Channels
	if channels != 1 {
		channels = 2
	}
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = config.DefaultAudio().SampleRate
	}

	m := &Mixer{
		sampleRate: rate,
		channels:   channels,
		sfxVolume:  clampVolume(cfg.SFXVolume),
		sounds:     Synthesize(rate),
		log:        log,
	}
	log.Debug("🔊 Effects synthesized",
		zap.Int("sounds", len(m.sounds)),
		zap.Int("sample_rate", rate),
		zap.Int("channels", channels))
	return m
}

// SampleRate returns the output rate in Hz.
func (m *Mixer) SampleRate() int { return m.sampleRate }

// Channels returns the interleaved channel count.
func (m *Mixer) Channels() int { return m.channels }

// SetMusic attaches the background music source (nil detaches it).
func (m *Mixer) SetMusic(mp *MusicPlayer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.music = mp
}

// SetSFXVolume sets the effect volume (0.0 to 1.0).
func (m *Mixer) SetSFXVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolume = clampVolume(v)
}

// Queue schedules a sound to start after delay, scaled by gain.
func (m *Mixer) Queue(s Sound, delay time.Duration, gain float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.sounds[s]
	if !ok || len(data) == 0 {
		return
	}

	m.active = append(m.active, &activeSound{
		sound:  s,
		data:   data,
		delay:  int(delay.Seconds() * float64(m.sampleRate)),
		volume: gain,
	})

	if len(m.active) > MaxActiveSounds {
		m.active = m.active[len(m.active)-MaxActiveSounds:]
	}
}

// Active returns the number of sounds still playing or waiting to start.
func (m *Mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Read fills p with whole PCM frames. It mixes music first, then effects,
// and applies soft limiting to avoid harsh clipping.
func (m *Mixer) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameBytes := 2 * m.channels
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	n := frames * m.channels
	if cap(m.mixBuf) < n {
		m.mixBuf = make([]float64, n)
	}
	mix := m.mixBuf[:n]
	clear(mix)

	// Background music (lowest priority, continuous)
	if m.music != nil {
		if cap(m.musicBuf) < frames {
			m.musicBuf = make([][2]float64, frames)
		}
		buf := m.musicBuf[:frames]
		m.music.ReadFrames(buf)
		for f, s := range buf {
			if m.channels == 1 {
				mix[f] += (s[0] + s[1]) / 2
				continue
			}
			mix[f*2] += s[0]
			mix[f*2+1] += s[1]
		}
	}

	// Effects
	alive := m.active[:0]
	for _, s := range m.active {
		for f := 0; f < frames; f++ {
			if s.delay > 0 {
				s.delay--
				continue
			}
			if s.position >= len(s.data) {
				break
			}
			v := float64(s.data[s.position]) * s.volume * m.sfxVolume
			for c := 0; c < m.channels; c++ {
				mix[f*m.channels+c] += v
			}
			s.position++
		}
		if s.position < len(s.data) {
			alive = append(alive, s)
		}
	}
	clear(m.active[len(alive):])
	m.active = alive

	for i, v := range mix {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(floatToInt16(v)))
	}
	return frames * frameBytes, nil
}

// floatToInt16 converts a float64 sample (-1.0 to 1.0) to int16 with a soft
// knee above ±30000.
func floatToInt16(sample float64) int16 {
	scaled := sample * 32767.0

	if scaled > 30000 {
		scaled = 30000 + (scaled-30000)/4
	} else if scaled < -30000 {
		scaled = -30000 + (scaled+30000)/4
	}

	if scaled > 32767 {
		scaled = 32767
	} else if scaled < -32768 {
		scaled = -32768
	}
	return int16(scaled)
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
