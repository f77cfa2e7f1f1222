// Package assets loads character sprites, keys out their white backgrounds
// and serves them to the game core once ready.
package assets

import (
	"fmt"
	"image"
	_ "image/jpeg" // Support JPEG format
	_ "image/png"  // Support PNG format
	"io/fs"
	"path"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // Support WebP format

	"bubble-pop/internal/game"
)

// DefaultWorkers is the number of concurrent decoders.
const DefaultWorkers = 4

// Library decodes manifest entries in the background. Lookups never block:
// an entry is invisible until its image has been processed.
type Library struct {
	mu      sync.RWMutex
	fsys    fs.FS
	entries map[string]Entry
	ready   map[string]game.Asset
	failed  map[string]error
	pending map[string]bool

	characters []string
	spirit     string

	sem chan struct{} // Semaphore for concurrent decodes
	wg  sync.WaitGroup
	log *zap.Logger
}

var _ game.AssetSource = (*Library)(nil)

// NewLibrary creates a library over fsys. Nothing is loaded until Load.
func NewLibrary(fsys fs.FS, m Manifest, workers int, log *zap.Logger) *Library {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if log == nil {
		log = zap.NewNop()
	}
	l := &Library{
		fsys:       fsys,
		entries:    make(map[string]Entry, len(m.Assets)),
		ready:      make(map[string]game.Asset, len(m.Assets)),
		failed:     make(map[string]error),
		pending:    make(map[string]bool),
		characters: m.Characters(),
		spirit:     m.Spirit(),
		sem:        make(chan struct{}, workers),
		log:        log,
	}
	for _, e := range m.Assets {
		l.entries[e.Name] = e
	}
	return l
}

// Load starts decoding every entry that is neither ready nor in flight.
func (l *Library) Load() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for name, e := range l.entries {
		if _, ok := l.ready[name]; ok || l.pending[name] {
			continue
		}
		delete(l.failed, name)
		l.pending[name] = true
		l.wg.Add(1)
		go l.loadAsync(e)
	}
}

// Wait blocks until all in-flight loads finish.
func (l *Library) Wait() {
	l.wg.Wait()
}

func (l *Library) loadAsync(e Entry) {
	defer l.wg.Done()

	l.sem <- struct{}{}
	defer func() { <-l.sem }()

	start := time.Now()
	img, format, err := l.decode(e.File)

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pending, e.Name)

	if err != nil {
		l.failed[e.Name] = err
		l.log.Warn("⚠️ Asset load failed", zap.String("name", e.Name), zap.Error(err))
		return
	}

	l.ready[e.Name] = l.toAsset(e, RemoveWhiteBackground(img))
	l.log.Debug("🖼️ Asset ready",
		zap.String("name", e.Name),
		zap.String("format", format),
		zap.Duration("took", time.Since(start)),
	)
}

func (l *Library) decode(file string) (image.Image, string, error) {
	f, err := l.fsys.Open(path.Clean(file))
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", file, err)
	}
	return img, format, nil
}

func (l *Library) toAsset(e Entry, img image.Image) game.Asset {
	a := game.Asset{Name: e.Name, Image: img, Label: e.Label}
	if e.Grid != nil {
		a.Grid = &game.Grid{Cols: e.Grid.Cols, Rows: e.Grid.Rows}
	}
	return a
}

// Put registers an already decoded image for a manifest entry, keying out
// its background. Unknown names are rejected.
func (l *Library) Put(name string, img image.Image) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[name]
	if !ok {
		return fmt.Errorf("unknown asset %q", name)
	}
	l.ready[name] = l.toAsset(e, RemoveWhiteBackground(img))
	delete(l.failed, name)
	return nil
}

// Lookup implements game.AssetSource.
func (l *Library) Lookup(name string) (game.Asset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.ready[name]
	return a, ok
}

// Characters implements game.AssetSource.
func (l *Library) Characters() []string {
	return slices.Clone(l.characters)
}

// SpiritName implements game.AssetSource.
func (l *Library) SpiritName() string {
	return l.spirit
}

// Stats reports how many entries are ready, failed and in flight.
func (l *Library) Stats() (ready, failed, pending int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ready), len(l.failed), len(l.pending)
}

// Missing returns entries that failed to load.
func (l *Library) Missing() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.failed))
	for name := range l.failed {
		out = append(out, name)
	}
	return out
}
