package game

import (
	"image"
	"image/color"
	"math/rand"
	"sync"
)

// recordSurface counts draw calls and tracks the transform stack.
type recordSurface struct {
	clears   int
	fills    int
	strokes  int
	images   int
	depth    int
	alphas   []float64
	lastSrc  image.Rectangle
	lastDest [2]float64
	colors   []color.Color

	panicOnImage bool
}

func (s *recordSurface) Clear()                                         { s.clears++ }
func (s *recordSurface) Push()                                          { s.depth++ }
func (s *recordSurface) Pop()                                           { s.depth-- }
func (s *recordSurface) Translate(x, y float64)                         {}
func (s *recordSurface) Rotate(angle float64)                           {}
func (s *recordSurface) Scale(sx, sy float64)                           {}
func (s *recordSurface) SetAlpha(a float64)                             { s.alphas = append(s.alphas, a) }
func (s *recordSurface) Depth() int                                     { return s.depth }
func (s *recordSurface) Unwind(depth int)                               { s.depth = depth }
func (s *recordSurface) StrokeCircle(x, y, r, w float64, c color.Color) { s.strokes++ }

func (s *recordSurface) FillCircle(x, y, r float64, c color.Color) {
	s.fills++
	s.colors = append(s.colors, c)
}

func (s *recordSurface) DrawImage(img image.Image, src image.Rectangle, dx, dy float64) {
	if s.panicOnImage {
		panic("broken sprite")
	}
	s.images++
	s.lastSrc = src
	s.lastDest = [2]float64{dx, dy}
}

// mapAssets is an in-memory AssetSource whose readiness can be toggled.
type mapAssets struct {
	mu     sync.Mutex
	assets map[string]Asset
	ready  map[string]bool
	chars  []string
	spirit string
}

func newMapAssets() *mapAssets {
	return &mapAssets{
		assets: make(map[string]Asset),
		ready:  make(map[string]bool),
		spirit: "spirit",
	}
}

func (m *mapAssets) add(a Asset, ready bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[a.Name] = a
	m.ready[a.Name] = ready
	if a.Name != m.spirit {
		m.chars = append(m.chars, a.Name)
	}
}

func (m *mapAssets) setReady(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready[name] = true
}

func (m *mapAssets) Lookup(name string) (Asset, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready[name] {
		return Asset{}, false
	}
	return m.assets[name], true
}

func (m *mapAssets) Characters() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.chars...)
}

func (m *mapAssets) SpiritName() string { return m.spirit }

func sprite(name string, w, h int) Asset {
	return Asset{Name: name, Image: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

// recordFeedback captures sink notifications.
type recordFeedback struct {
	mu        sync.Mutex
	pops      []PopEvent
	cues      []SpeechCue
	penalties []int
	levels    []GameMode
	pauses    []bool
}

func (f *recordFeedback) Popped(ev PopEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pops = append(f.pops, ev)
}

func (f *recordFeedback) CharacterSpawned(cue SpeechCue) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cues = append(f.cues, cue)
}

func (f *recordFeedback) PenaltySpawned(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.penalties = append(f.penalties, n)
}

func (f *recordFeedback) LevelStarted(mode GameMode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.levels = append(f.levels, mode)
}

func (f *recordFeedback) PauseChanged(paused bool, state GameState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauses = append(f.pauses, paused)
}

func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
