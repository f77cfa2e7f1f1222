package audio

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/vorbis"
	"go.uber.org/zap"
)

// MusicPlayer streams an OGG Vorbis loop with on-demand decoding. It stays
// silent until Start is called, mirroring a browser that only unlocks audio
// on the first user gesture.
type MusicPlayer struct {
	mu sync.Mutex

	// Decoded stream and its source
	streamer beep.StreamSeeker
	closer   io.Closer
	format   beep.Format

	// Resampled stream (if the file's rate differs from the mixer's)
	resampled beep.Streamer

	volume  float64
	started bool
	paused  bool
	loaded  bool
	loops   int

	filePath         string
	targetSampleRate int

	log *zap.Logger
}

// NewMusicPlayer opens path for looped playback. If the file fails to load
// it returns a player that outputs silence.
func NewMusicPlayer(path string, volume float64, sampleRate int, log *zap.Logger) *MusicPlayer {
	if log == nil {
		log = zap.NewNop()
	}
	mp := &MusicPlayer{
		filePath:         path,
		volume:           clampVolume(volume),
		targetSampleRate: sampleRate,
		log:              log,
	}

	if err := mp.load(); err != nil {
		log.Warn("⚠️ Background music disabled", zap.Error(err))
	}
	return mp
}

// newMusicFromStream wraps an already-decoded stream.
func newMusicFromStream(s beep.StreamSeeker, format beep.Format, volume float64, sampleRate int, log *zap.Logger) *MusicPlayer {
	if log == nil {
		log = zap.NewNop()
	}
	mp := &MusicPlayer{
		volume:           clampVolume(volume),
		targetSampleRate: sampleRate,
		log:              log,
	}
	mp.attach(s, nil, format)
	return mp
}

func (mp *MusicPlayer) load() error {
	if mp.filePath == "" {
		return fmt.Errorf("no music path configured")
	}
	file, err := os.Open(mp.filePath)
	if err != nil {
		return fmt.Errorf("open music: %w", err)
	}

	streamer, format, err := vorbis.Decode(file)
	if err != nil {
		file.Close()
		return fmt.Errorf("decode %s: %w", mp.filePath, err)
	}

	mp.attach(streamer, streamer, format)
	mp.log.Info("✅ Background music loaded",
		zap.String("path", mp.filePath),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Int("channels", format.NumChannels))
	return nil
}

func (mp *MusicPlayer) attach(s beep.StreamSeeker, c io.Closer, format beep.Format) {
	mp.streamer = s
	mp.closer = c
	mp.format = format
	mp.loaded = true

	if int(format.SampleRate) != mp.targetSampleRate {
		mp.log.Debug("Resampling music",
			zap.Int("from", int(format.SampleRate)),
			zap.Int("to", mp.targetSampleRate))
		mp.resampled = beep.Resample(4, format.SampleRate, beep.SampleRate(mp.targetSampleRate), s)
	} else {
		mp.resampled = s
	}
}

// ReadFrames fills buf with stereo frames scaled by the music volume, or
// silence when the music is not playing. It loops at end of stream.
func (mp *MusicPlayer) ReadFrames(buf [][2]float64) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if !mp.playingLocked() {
		clear(buf)
		return len(buf)
	}

	n, ok := mp.resampled.Stream(buf)
	if !ok || n < len(buf) {
		if err := mp.streamer.Seek(0); err != nil {
			mp.log.Warn("⚠️ Music loop seek failed", zap.Error(err))
		} else {
			mp.loops++
		}
		if n < len(buf) {
			m, _ := mp.resampled.Stream(buf[n:])
			clear(buf[n+m:])
		}
	}

	for i := range buf {
		buf[i][0] *= mp.volume
		buf[i][1] *= mp.volume
	}
	return len(buf)
}

// Start unlocks playback. Later calls only clear a pause.
func (mp *MusicPlayer) Start() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.started = true
	mp.paused = false
}

// Pause silences the loop, keeping its position.
func (mp *MusicPlayer) Pause() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.paused = true
}

// Resume continues a paused loop; it has no effect before Start.
func (mp *MusicPlayer) Resume() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.paused = false
}

// Playing reports whether ReadFrames currently produces music.
func (mp *MusicPlayer) Playing() bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.playingLocked()
}

func (mp *MusicPlayer) playingLocked() bool {
	return mp.loaded && mp.started && !mp.paused && mp.resampled != nil
}

// Loops returns how many times the track wrapped around.
func (mp *MusicPlayer) Loops() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.loops
}

// SetVolume adjusts the music volume (0.0 to 1.0).
func (mp *MusicPlayer) SetVolume(v float64) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.volume = clampVolume(v)
}

// IsLoaded returns true if music was successfully loaded.
func (mp *MusicPlayer) IsLoaded() bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.loaded
}

// Close releases the decoder.
func (mp *MusicPlayer) Close() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.loaded = false
	if mp.closer != nil {
		return mp.closer.Close()
	}
	return nil
}
