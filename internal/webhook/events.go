package webhook

import (
	"encoding/json"
	"slices"
)

// WrapperType tags the outer envelope of a callback.
type WrapperType string

const (
	WrapperEventCallback   WrapperType = "event_callback"
	WrapperURLVerification WrapperType = "url_verification"
)

var wrapperTypes = []WrapperType{WrapperEventCallback, WrapperURLVerification}

// EventType tags the inner event. Anything the bot does not act on is EventSkip.
type EventType string

const (
	EventSkip       EventType = "skip"
	EventAppMention EventType = "app_mention"
)

var eventTypes = []EventType{EventSkip, EventAppMention}

// ParseOrDefault decodes a string tag and returns it when it is one of known.
// A missing, unknown or non-string tag yields def instead of an error.
func ParseOrDefault[T ~string](raw json.RawMessage, known []T, def T) T {
	if len(raw) == 0 {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return def
	}
	if !slices.Contains(known, T(s)) {
		return def
	}
	return T(s)
}

type Event struct {
	Type EventType `json:"type"`
	Text string    `json:"text"`
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type json.RawMessage `json:"type"`
		Text string          `json:"text"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Type = ParseOrDefault(aux.Type, eventTypes, EventSkip)
	e.Text = aux.Text
	return nil
}

// Envelope is the outer callback body.
type Envelope struct {
	Type      WrapperType `json:"type"`
	Challenge string      `json:"challenge"`
	Event     Event       `json:"event"`
}

func (e *Envelope) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type      json.RawMessage `json:"type"`
		Challenge string          `json:"challenge"`
		Event     json.RawMessage `json:"event"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Type = ParseOrDefault(aux.Type, wrapperTypes, WrapperEventCallback)
	e.Challenge = aux.Challenge
	e.Event = Event{Type: EventSkip}
	if len(aux.Event) > 0 && string(aux.Event) != "null" {
		if err := json.Unmarshal(aux.Event, &e.Event); err != nil {
			// An ill-shaped event is skipped rather than rejected.
			e.Event = Event{Type: EventSkip}
		}
	}
	return nil
}
