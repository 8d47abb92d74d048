package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRateLimit_NoRedisPassesThrough(t *testing.T) {
	h := SubmitRateLimit(nil, 1, time.Minute)(okHandler)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit-entry", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestSubmitRateLimit_FailsOpenWhenRedisUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	h := SubmitRateLimit(client, 1, time.Minute)(okHandler)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit-entry", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func submitFrom(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/submit-entry", nil)
	req.RemoteAddr = ip + ":4000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSubmitRateLimit_BlocksAfterLimit(t *testing.T) {
	mr, client := newMiniredisClient(t)
	h := SubmitRateLimit(client, 2, time.Minute)(okHandler)

	w := submitFrom(h, "10.3.3.3")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, time.Minute, mr.TTL(SubmitRateLimitKeyPrefix+"10.3.3.3"))

	w = submitFrom(h, "10.3.3.3")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = submitFrom(h, "10.3.3.3")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"success":false,"error":"Too many submissions. Please try again later."}`, w.Body.String())

	assert.Equal(t, http.StatusOK, submitFrom(h, "10.4.4.4").Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, submitFrom(h, "10.3.3.3").Code)
}

func TestSubmitRateLimit_RestoresMissingTTL(t *testing.T) {
	mr, client := newMiniredisClient(t)
	key := SubmitRateLimitKeyPrefix + "10.5.5.5"
	// Counter left behind without an expiry
	require.NoError(t, mr.Set(key, "7"))
	require.Equal(t, time.Duration(0), mr.TTL(key))

	h := SubmitRateLimit(client, 2, time.Minute)(okHandler)

	assert.Equal(t, http.StatusTooManyRequests, submitFrom(h, "10.5.5.5").Code)
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, submitFrom(h, "10.5.5.5").Code)
}
