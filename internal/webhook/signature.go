// Package webhook serves the chat-bot endpoint: it authenticates signed event
// callbacks, answers URL verification challenges and resolves app mentions
// against the keyword index.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/eddy/pkg/errors"
)

const (
	HeaderTimestamp = "X-Slack-Request-Timestamp"
	HeaderSignature = "X-Slack-Signature"

	signatureVersion = "v0"
	maxBodyBytes     = 1 << 20
)

// Sign returns the v0 signature for a request, formatted as the
// signature header carries it.
func Sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s:%s:", signatureVersion, timestamp)
	mac.Write(body)
	return signatureVersion + "=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks signature against HMAC-SHA256 of "v0:timestamp:body".
// The hex digest may carry a "v0=" prefix and is compared case-insensitively.
func VerifySignature(secret, timestamp string, body []byte, signature string) error {
	if secret == "" {
		return apperrors.New(apperrors.ErrUnauthorized, http.StatusUnauthorized, "signing secret not configured")
	}
	given := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(signature)), signatureVersion+"=")
	got, err := hex.DecodeString(given)
	if err != nil {
		return apperrors.New(apperrors.ErrUnauthorized, http.StatusUnauthorized, "malformed signature")
	}
	want, _ := hex.DecodeString(strings.TrimPrefix(Sign(secret, timestamp, body), signatureVersion+"="))
	if !hmac.Equal(got, want) {
		return apperrors.New(apperrors.ErrUnauthorized, http.StatusUnauthorized, "signature mismatch")
	}
	return nil
}

// Authenticate reads the request body and verifies it against the timestamp
// and signature headers. The body is returned for decoding.
func Authenticate(r *http.Request, secret string) ([]byte, error) {
	timestamp := r.Header.Get(HeaderTimestamp)
	if timestamp == "" {
		return nil, apperrors.New(apperrors.ErrUnauthorized, http.StatusUnauthorized, "missing "+HeaderTimestamp)
	}
	signature := r.Header.Get(HeaderSignature)
	if signature == "" {
		return nil, apperrors.New(apperrors.ErrUnauthorized, http.StatusUnauthorized, "missing "+HeaderSignature)
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "reading body: "+err.Error())
	}
	if err := VerifySignature(secret, timestamp, body, signature); err != nil {
		return nil, err
	}
	return body, nil
}
