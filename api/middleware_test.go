package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"caravan/config"
	"caravan/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestRateLimitMiddleware tests per-client limiting with an exhausted burst
func TestRateLimitMiddleware(t *testing.T) {
	reg, err := registry.Build(coreDataset(t))
	require.NoError(t, err)

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.API.RateLimit = 1
	cfg.API.RateBurst = 1

	a := NewAPI(registry.NewHandle(reg), nil, cfg, zap.NewNop().Sugar())
	defer a.Stop(context.Background())

	first := httptest.NewRequest("GET", "/health", nil)
	first.RemoteAddr = "10.0.0.1:40000"
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)

	second := httptest.NewRequest("GET", "/health", nil)
	second.RemoteAddr = "10.0.0.1:40001"
	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, second)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "burst of one is spent")

	other := httptest.NewRequest("GET", "/health", nil)
	other.RemoteAddr = "10.0.0.2:40000"
	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code, "limits are per client IP")
}

// TestClientIP tests host extraction from RemoteAddr
func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.168.1.50:51234"
	assert.Equal(t, "192.168.1.50", clientIP(r))

	r.RemoteAddr = "unixsocket"
	assert.Equal(t, "unixsocket", clientIP(r), "unparseable address passes through")
}
