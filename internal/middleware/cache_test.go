package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FranBistrovic/QuantumHotel/internal/config"
)

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"items":[]}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{1, 2, 3})
	assert.False(t, ok)

	// Header length pointing past the buffer must not be trusted.
	bs, err := encodePayload(http.StatusOK, http.Header{}, nil)
	require.NoError(t, err)
	bs[7] = 0xFF
	_, _, _, ok = decodePayload(bs)
	assert.False(t, ok)
}

func newTestContext(method, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/room-categories/available")
	return c
}

func TestCacheKeyVariesByQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, newTestContext(http.MethodGet, "/v1/room-categories/available?from=2026-03-01&to=2026-03-05"))
	b := cacheKeyFrom(cfg, newTestContext(http.MethodGet, "/v1/room-categories/available?from=2026-03-01&to=2026-03-08"))
	c := cacheKeyFrom(cfg, newTestContext(http.MethodGet, "/v1/room-categories/available?from=2026-03-01&to=2026-03-05"))

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
}

func TestBuildRateKeyStrategies(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	c := newTestContext(http.MethodGet, "/v1/room-categories")
	c.Set("user_id", uint64(42))
	assert.Equal(t, "rl:user:42", buildRateKey(cfg, c))

	anon := newTestContext(http.MethodGet, "/v1/room-categories")
	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, anon))

	cfg.KeyStrategy = "route"
	assert.Equal(t, "rl:route:GET /v1/room-categories/available", buildRateKey(cfg, anon))
}
