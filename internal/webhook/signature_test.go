package webhook

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/eddy/pkg/errors"
)

const testSecret = "8f742231b10e8888abcd99yyyzzz85a5"

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"type":"url_verification","challenge":"abc"}`)
	sig := Sign(testSecret, "1531420618", body)
	require.True(t, strings.HasPrefix(sig, "v0="))

	tests := []struct {
		name      string
		secret    string
		timestamp string
		signature string
		wantErr   bool
	}{
		{"valid", testSecret, "1531420618", sig, false},
		{"no prefix", testSecret, "1531420618", strings.TrimPrefix(sig, "v0="), false},
		{"upper case hex", testSecret, "1531420618", "v0=" + strings.ToUpper(strings.TrimPrefix(sig, "v0=")), false},
		{"wrong timestamp", testSecret, "1531420619", sig, true},
		{"wrong secret", "other", "1531420618", sig, true},
		{"not hex", testSecret, "1531420618", "v0=zz", true},
		{"empty secret", "", "1531420618", sig, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignature(tt.secret, tt.timestamp, body, tt.signature)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	body := []byte(`{"event":{}}`)

	r := httptest.NewRequest(http.MethodPost, "/slack/events", bytes.NewReader(body))
	r.Header.Set(HeaderTimestamp, "42")
	r.Header.Set(HeaderSignature, Sign(testSecret, "42", body))
	got, err := Authenticate(r, testSecret)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	r = httptest.NewRequest(http.MethodPost, "/slack/events", bytes.NewReader(body))
	r.Header.Set(HeaderSignature, Sign(testSecret, "42", body))
	_, err = Authenticate(r, testSecret)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	r = httptest.NewRequest(http.MethodPost, "/slack/events", bytes.NewReader(body))
	r.Header.Set(HeaderTimestamp, "42")
	_, err = Authenticate(r, testSecret)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
