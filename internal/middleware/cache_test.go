package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdotbuilder/turf-match-finder/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
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
	_, _, _, ok := decodePayload([]byte("short"))
	assert.False(t, ok)

	// header length pointing past the buffer
	bs, err := encodePayload(http.StatusOK, http.Header{}, nil)
	require.NoError(t, err)
	bs[7] = 0xFF
	_, _, _, ok = decodePayload(bs)
	assert.False(t, ok)
}

func TestCacheKeyVariesByQuery(t *testing.T) {
	e := echo.New()
	mk := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/fields")
		return cacheKey("cache", c)
	}
	assert.Equal(t, mk("/v1/fields"), mk("/v1/fields"))
	assert.NotEqual(t, mk("/v1/fields"), mk("/v1/fields?city=x"))
}

func TestMiddlewarePassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	for _, mw := range []echo.MiddlewareFunc{
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil),
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, mw(next)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	}
}

func TestAsInt64(t *testing.T) {
	assert.EqualValues(t, 7, asInt64(int64(7)))
	assert.EqualValues(t, 7, asInt64("7"))
	assert.EqualValues(t, 0, asInt64(3.5))
	assert.EqualValues(t, 0, asInt64(nil))
}
