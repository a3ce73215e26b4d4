// Package middleware provides HTTP middleware for request metrics and
// per-client rate limiting.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/metrics"
)

// Metrics returns middleware that records request count and latency. A nil
// m disables recording.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			m.WebhookRequestsTotal.WithLabelValues(
				r.Method,
				r.URL.Path,
				strconv.Itoa(sw.status),
			).Inc()

			m.WebhookRequestDuration.WithLabelValues(
				r.Method,
				r.URL.Path,
			).Observe(time.Since(start).Seconds())
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.status = code
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.wroteHeader {
		sw.wroteHeader = true
	}
	return sw.ResponseWriter.Write(b)
}
