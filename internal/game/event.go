package game

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeLevelStart
	EventTypeReset
	EventTypeMenu
	EventTypePause
	EventTypeResume
	EventTypePop
	EventTypeWrongPick
)

// EventVersion of the journal schema
const EventVersion uint8 = 1

// Event is one gameplay journal entry.
type Event struct {
	Version   uint8     `json:"version"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"` // Unix nano
	Sequence  uint64    `json:"sequence"`
	Frame     uint64    `json:"frame"`
	Source    string    `json:"source"` // "input" or "lifecycle", used for rate limiting
	Payload   []byte    `json:"payload"`
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeLevelStart:
		return "level_start"
	case EventTypeReset:
		return "reset"
	case EventTypeMenu:
		return "menu"
	case EventTypePause:
		return "pause"
	case EventTypeResume:
		return "resume"
	case EventTypePop:
		return "pop"
	case EventTypeWrongPick:
		return "wrong_pick"
	default:
		return "unknown"
	}
}

// LevelPayload describes a level start or reset.
type LevelPayload struct {
	Mode      string  `json:"mode"`
	TargetHue float64 `json:"targetHue"`
}

// PopPayload describes a popped sphere.
type PopPayload struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Hue      float64 `json:"hue"`
	IsTarget bool    `json:"isTarget"`
	Spirits  int     `json:"spirits,omitempty"`
}

// NewEvent builds an event with a JSON payload.
func NewEvent(eventType EventType, frame uint64, source string, payload interface{}) Event {
	var data []byte
	if payload != nil {
		data, _ = json.Marshal(payload)
	}
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		Frame:     frame,
		Source:    source,
		Payload:   data,
	}
}
