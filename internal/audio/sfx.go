package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Sound identifies a synthesized effect.
type Sound int

const (
	SoundPop Sound = iota
	SoundCorrect
	SoundWrong
	SoundSpecialKawaii
	SoundSpecialMochi
	SoundSpecialDaisuki
)

// SpecialSounds are the voice-like chimes played on a lucky correct pop.
var SpecialSounds = []Sound{SoundSpecialKawaii, SoundSpecialMochi, SoundSpecialDaisuki}

func (s Sound) String() string {
	switch s {
	case SoundPop:
		return "pop"
	case SoundCorrect:
		return "correct"
	case SoundWrong:
		return "wrong"
	case SoundSpecialKawaii:
		return "special_kawaii"
	case SoundSpecialMochi:
		return "special_mochi"
	case SoundSpecialDaisuki:
		return "special_daisuki"
	default:
		return "unknown"
	}
}

type waveform int

const (
	waveSine waveform = iota
	waveTriangle
	waveSquare
	waveSaw
	waveNoise
)

// tone is an oscillator whose frequency glides linearly from start to end.
type tone struct {
	from, to float64
	wave     waveform
	rate     beep.SampleRate
	total    int
	pos      int
	phase    float64
	seed     uint64
}

func newTone(rate beep.SampleRate, from, to float64, d time.Duration, wave waveform) beep.Streamer {
	return &tone{from: from, to: to, wave: wave, rate: rate, total: rate.N(d), seed: 0x9e3779b97f4a7c15}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}
		var v float64
		switch t.wave {
		case waveSine:
			v = math.Sin(2 * math.Pi * t.phase)
		case waveTriangle:
			v = 4*math.Abs(t.phase-0.5) - 1
		case waveSquare:
			if t.phase < 0.5 {
				v = 1
			} else {
				v = -1
			}
		case waveSaw:
			v = 2 * (t.phase - 0.5)
		case waveNoise:
			t.seed = t.seed*6364136223846793005 + 1442695040888963407
			v = float64(int64(t.seed>>33)-int64(1<<30)) / float64(1<<30)
		}
		samples[i][0], samples[i][1] = v, v

		freq := t.from + (t.to-t.from)*float64(t.pos)/float64(t.total)
		t.phase += freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// envelope shapes a stream with a linear attack and an exponential decay.
type envelope struct {
	streamer beep.Streamer
	attack   int
	decay    float64 // per-sample multiplier after the attack
	pos      int
	level    float64
}

func newEnvelope(s beep.Streamer, attack, halfLife time.Duration, rate beep.SampleRate) beep.Streamer {
	hl := float64(rate.N(halfLife))
	if hl < 1 {
		hl = 1
	}
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		decay:    math.Pow(0.5, 1/hl),
		level:    1,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := e.level
		if e.pos < e.attack {
			g = float64(e.pos) / float64(e.attack)
		} else {
			e.level *= e.decay
		}
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// gain wraps s in a beep volume effect; zero or less is silent.
func gain(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// note is a short enveloped tone with an octave overtone.
func note(rate beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	return beep.Mix(
		gain(newEnvelope(newTone(rate, freq, freq, d, waveSine), 4*time.Millisecond, 60*time.Millisecond, rate), 0.7),
		gain(newEnvelope(newTone(rate, 2*freq, 2*freq, d, waveTriangle), 2*time.Millisecond, 30*time.Millisecond, rate), 0.25),
	)
}

// arpeggio plays notes back to back.
func arpeggio(rate beep.SampleRate, step time.Duration, freqs ...float64) beep.Streamer {
	parts := make([]beep.Streamer, len(freqs))
	for i, f := range freqs {
		parts[i] = note(rate, f, step)
	}
	return beep.Seq(parts...)
}

// synthesize builds the stream for one sound.
func synthesize(s Sound, rate beep.SampleRate) beep.Streamer {
	switch s {
	case SoundPop:
		body := newEnvelope(newTone(rate, 620, 180, 90*time.Millisecond, waveSine), time.Millisecond, 18*time.Millisecond, rate)
		click := newEnvelope(newTone(rate, 0, 0, 25*time.Millisecond, waveNoise), 0, 4*time.Millisecond, rate)
		return beep.Mix(gain(body, 0.9), gain(click, 0.35))
	case SoundCorrect:
		return beep.Seq(note(rate, 880, 110*time.Millisecond), note(rate, 1318.5, 240*time.Millisecond))
	case SoundWrong:
		d := 280 * time.Millisecond
		return beep.Mix(
			gain(newEnvelope(newTone(rate, 150, 110, d, waveSaw), 5*time.Millisecond, 120*time.Millisecond, rate), 0.5),
			gain(newEnvelope(newTone(rate, 155, 113, d, waveSquare), 5*time.Millisecond, 120*time.Millisecond, rate), 0.2),
		)
	case SoundSpecialKawaii:
		return arpeggio(rate, 90*time.Millisecond, 1046.5, 1318.5, 1568)
	case SoundSpecialMochi:
		return arpeggio(rate, 80*time.Millisecond, 784, 659.3, 784, 1046.5)
	case SoundSpecialDaisuki:
		glide := newEnvelope(newTone(rate, 1568, 1046.5, 160*time.Millisecond, waveSine), 5*time.Millisecond, 90*time.Millisecond, rate)
		return beep.Seq(gain(glide, 0.7), note(rate, 1318.5, 200*time.Millisecond))
	default:
		return beep.Silence(0)
	}
}

// maxSoundLength bounds a rendered effect.
const maxSoundLength = 2 * time.Second

// render drains a finite stream into mono float32 samples.
func render(s beep.Streamer, rate beep.SampleRate) []float32 {
	limit := rate.N(maxSoundLength)
	out := make([]float32, 0, rate.N(300*time.Millisecond))
	buf := make([][2]float64, 512)
	for len(out) < limit {
		n, ok := s.Stream(buf)
		for i := 0; i < n && len(out) < limit; i++ {
			out = append(out, float32((buf[i][0]+buf[i][1])/2))
		}
		if !ok || n == 0 {
			break
		}
	}
	return out
}

// Synthesize renders every effect at the given sample rate.
func Synthesize(sampleRate int) map[Sound][]float32 {
	rate := beep.SampleRate(sampleRate)
	all := []Sound{SoundPop, SoundCorrect, SoundWrong}
	all = append(all, SpecialSounds...)

	out := make(map[Sound][]float32, len(all))
	for _, s := range all {
		out[s] = render(synthesize(s, rate), rate)
	}
	return out
}
