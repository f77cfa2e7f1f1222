// Package speech selects the localized lines spoken by the game and keeps the
// most recent one as an on-screen caption.
package speech

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"bubble-pop/internal/game"
)

// Message keys.
const (
	KeyIntro      = "intro.colorfind"
	KeyCheerFind  = "cheer.colorfind"
	KeyCheerSheet = "cheer.spritesheet"
	KeyCheer      = "cheer.generic"
	KeyMenuTitle  = "menu.title"
	KeyMenuHint   = "menu.hint"
	KeyPaused     = "hud.paused"
	KeyModeNormal = "mode.normal"
	KeyModeFind   = "mode.colorfind"
)

// Caption timing.
const (
	CaptionHold = 1600 * time.Millisecond
	CaptionFade = 600 * time.Millisecond
)

var supported = []language.Tag{language.Japanese, language.English}

var lines = map[language.Tag]map[string]string{
	language.Japanese: {
		KeyIntro:      "おなじ色、探せるかな？",
		KeyCheerFind:  "やったね！",
		KeyCheerSheet: "やったー！",
		KeyCheer:      "わーい！",
		KeyMenuTitle:  "バブルポップ",
		KeyMenuHint:   "1: ふつう　2: 色さがし",
		KeyPaused:     "おやすみ中",
		KeyModeNormal: "ふつう",
		KeyModeFind:   "色さがし",
	},
	language.English: {
		KeyIntro:      "Can you find the same color?",
		KeyCheerFind:  "You did it!",
		KeyCheerSheet: "Hooray!",
		KeyCheer:      "Wheee!",
		KeyMenuTitle:  "Bubble Pop",
		KeyMenuHint:   "1: Normal   2: Color Find",
		KeyPaused:     "Paused",
		KeyModeNormal: "Normal",
		KeyModeFind:   "Color Find",
	},
}

func newCatalog() (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.Japanese))
	for tag, msgs := range lines {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

// Utterance is the most recent line and when it was spoken.
type Utterance struct {
	Text     string
	Seq      uint64
	SpokenAt time.Time
}

// Narrator implements game.FeedbackSink for speech. Like the audio sink it
// stays quiet until the first level starts. A new line replaces the
// previous one immediately.
type Narrator struct {
	mu      sync.Mutex
	printer *message.Printer
	tag     language.Tag
	enabled bool
	current Utterance
	clock   func() time.Time
	log     *zap.Logger
}

// NewNarrator picks the closest supported language for lang (a BCP 47 tag).
// Unknown or malformed tags fall back to Japanese.
func NewNarrator(lang string, clock func() time.Time, log *zap.Logger) *Narrator {
	if log == nil {
		log = zap.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}

	tag := MatchLanguage(lang)
	n := &Narrator{tag: tag, clock: clock, log: log}

	cat, err := newCatalog()
	if err != nil {
		log.Error("❌ Speech catalog failed", zap.Error(err))
		n.printer = message.NewPrinter(tag)
		return n
	}
	n.printer = message.NewPrinter(tag, message.Catalog(cat))
	log.Debug("🗣️ Narrator ready", zap.String("language", tag.String()))
	return n
}

// MatchLanguage maps a requested tag onto the supported set.
func MatchLanguage(lang string) language.Tag {
	requested, err := language.Parse(lang)
	if err != nil {
		return supported[0]
	}
	_, idx, conf := language.NewMatcher(supported).Match(requested)
	if conf == language.No {
		return supported[0]
	}
	return supported[idx]
}

// Language returns the tag lines are printed in.
func (n *Narrator) Language() language.Tag { return n.tag }

// Text returns the localized line for key.
func (n *Narrator) Text(key string) string {
	return n.printer.Sprintf(key)
}

// ModeName returns the localized name of a game mode.
func (n *Narrator) ModeName(mode game.GameMode) string {
	if mode == game.ModeColorFind {
		return n.Text(KeyModeFind)
	}
	return n.Text(KeyModeNormal)
}

// Say replaces the current utterance with text.
func (n *Narrator) Say(text string) {
	if text == "" {
		return
	}
	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		return
	}
	now := n.clock()
	interrupted := n.current.Text != "" && now.Sub(n.current.SpokenAt) < CaptionHold
	n.current = Utterance{Text: text, Seq: n.current.Seq + 1, SpokenAt: now}
	seq := n.current.Seq
	n.mu.Unlock()

	n.log.Info("🗣️ speak",
		zap.String("text", text),
		zap.Uint64("seq", seq),
		zap.Bool("interrupted", interrupted))
}

// Current returns the latest utterance.
func (n *Narrator) Current() Utterance {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Caption returns the caption text and its opacity: fully opaque for
// CaptionHold, then fading to zero over CaptionFade.
func (n *Narrator) Caption() (string, float64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current.Text == "" {
		return "", 0
	}
	age := n.clock().Sub(n.current.SpokenAt)
	switch {
	case age < CaptionHold:
		return n.current.Text, 1
	case age < CaptionHold+CaptionFade:
		return n.current.Text, 1 - float64(age-CaptionHold)/float64(CaptionFade)
	default:
		return "", 0
	}
}

// LevelStarted enables speech and announces color-find rounds.
func (n *Narrator) LevelStarted(mode game.GameMode) {
	n.mu.Lock()
	n.enabled = true
	n.mu.Unlock()

	if mode == game.ModeColorFind {
		n.Say(n.Text(KeyIntro))
	}
}

// CharacterSpawned speaks the line for the new character.
func (n *Narrator) CharacterSpawned(cue game.SpeechCue) {
	n.Say(n.CueText(cue))
}

// CueText returns the line for cue.
func (n *Narrator) CueText(cue game.SpeechCue) string {
	switch cue.Kind {
	case game.CueColorFind:
		return n.Text(KeyCheerFind)
	case game.CueSpriteSheet:
		return n.Text(KeyCheerSheet)
	case game.CueNamed:
		if cue.Label != "" {
			return cue.Label
		}
	}
	return n.Text(KeyCheer)
}

func (n *Narrator) Popped(game.PopEvent) {}

func (n *Narrator) PenaltySpawned(int) {}

func (n *Narrator) PauseChanged(bool, game.GameState) {}
