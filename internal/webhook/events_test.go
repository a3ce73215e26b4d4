package webhook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeDefaults(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wrapper   WrapperType
		event     EventType
		text      string
		challenge string
	}{
		{"verification", `{"type":"url_verification","challenge":"c1"}`, WrapperURLVerification, EventSkip, "", "c1"},
		{"mention", `{"type":"event_callback","event":{"type":"app_mention","text":"<@U1> deploy"}}`, WrapperEventCallback, EventAppMention, "<@U1> deploy", ""},
		{"unknown wrapper", `{"type":"rate_limited"}`, WrapperEventCallback, EventSkip, "", ""},
		{"unknown event", `{"event":{"type":"message","text":"hi"}}`, WrapperEventCallback, EventSkip, "hi", ""},
		{"ill-typed tag", `{"type":7,"event":{"type":true}}`, WrapperEventCallback, EventSkip, "", ""},
		{"ill-shaped event", `{"event":"nope"}`, WrapperEventCallback, EventSkip, "", ""},
		{"empty", `{}`, WrapperEventCallback, EventSkip, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env Envelope
			require.NoError(t, json.Unmarshal([]byte(tt.body), &env))
			assert.Equal(t, tt.wrapper, env.Type)
			assert.Equal(t, tt.event, env.Event.Type)
			assert.Equal(t, tt.text, env.Event.Text)
			assert.Equal(t, tt.challenge, env.Challenge)
		})
	}
}

func TestEnvelopeRejectsNonObject(t *testing.T) {
	var env Envelope
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &env))
}

func TestParseOrDefault(t *testing.T) {
	assert.Equal(t, EventAppMention, ParseOrDefault(json.RawMessage(`"app_mention"`), eventTypes, EventSkip))
	assert.Equal(t, EventSkip, ParseOrDefault(nil, eventTypes, EventSkip))
	assert.Equal(t, EventSkip, ParseOrDefault(json.RawMessage(`null`), eventTypes, EventSkip))
}
