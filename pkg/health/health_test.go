package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunWorstStatusWins(t *testing.T) {
	c := NewChecker()
	c.Register("redis", PingCheck(func(context.Context) error { return nil }, StatusDown))
	c.Register("kafka", PingCheck(func(context.Context) error { return errors.New("no brokers") }, StatusDegraded))

	report := c.Run(context.Background())
	assert.Equal(t, StatusDegraded, report.Status)
	assert.Equal(t, StatusUp, report.Components["redis"].Status)
	assert.Equal(t, "no brokers", report.Components["kafka"].Message)

	c.Register("store", PingCheck(nil, StatusDown))
	assert.Equal(t, StatusDown, c.Run(context.Background()).Status)
}

func TestReadyHandler(t *testing.T) {
	c := NewChecker()
	c.Register("redis", PingCheck(func(context.Context) error { return errors.New("refused") }, StatusDown))

	rec := httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "refused")

	rec = httptest.NewRecorder()
	c.LiveHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
