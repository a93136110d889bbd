package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, upstream *httptest.Server, rl config.RateLimitConfig) *Server {
	t.Helper()

	if rl.Requests == 0 {
		rl.Requests = 100
	}
	if rl.Window == 0 {
		rl.Window = time.Minute
	}
	if rl.RPS == 0 {
		rl.RPS = 1000
	}
	if rl.Burst == 0 {
		rl.Burst = 1000
	}

	logger := zerolog.New(io.Discard)
	srv, err := NewServer(config.GatewayConfig{
		Port:      0,
		ServerURL: upstream.URL,
		RateLimit: rl,
	}, repository.NewMemoryRateLimiter(), &logger)
	require.NoError(t, err)
	return srv
}

func TestGatewayProxiesRequests(t *testing.T) {
	var hits atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer upstream.Close()

	srv := newTestGateway(t, upstream, config.RateLimitConfig{})

	req := httptest.NewRequest(http.MethodGet, "/items/search?text=drill", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGatewayValidatesBookingBody(t *testing.T) {
	var hits atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "item_id")
		w.WriteHeader(http.StatusCreated)
	}))
	defer upstream.Close()

	srv := newTestGateway(t, upstream, config.RateLimitConfig{})

	t.Run("PastPeriodRejectedLocally", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]any{
			"item_id": 3,
			"start":   time.Now().Add(-time.Hour),
			"end":     time.Now().Add(time.Hour),
		})
		req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(payload))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, int32(0), hits.Load())
	})

	t.Run("InvalidJSONRejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader([]byte("{broken")))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ValidBookingForwarded", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]any{
			"item_id": 3,
			"start":   time.Now().Add(time.Hour),
			"end":     time.Now().Add(2 * time.Hour),
		})
		req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(payload))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, int32(1), hits.Load())
	})
}

func TestGatewayValidatesItemAndComment(t *testing.T) {
	var hits atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer upstream.Close()

	srv := newTestGateway(t, upstream, config.RateLimitConfig{})

	post := func(path, body string) int {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("BlankItemNameRejected", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, post("/items", `{"name":"  "}`))
		assert.Equal(t, int32(0), hits.Load())
	})

	t.Run("NamedItemForwarded", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, post("/items", `{"name":"Drill"}`))
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("BlankCommentRejected", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, post("/items/3/comment", `{"text":""}`))
	})

	t.Run("BadItemIDRejected", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, post("/items/0/comment", `{"text":"great"}`))
	})

	t.Run("CommentForwarded", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, post("/items/3/comment", `{"text":"great"}`))
		assert.Equal(t, int32(2), hits.Load())
	})
}

func TestGatewayRateLimitsCallers(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	srv := newTestGateway(t, upstream, config.RateLimitConfig{Requests: 2, Window: time.Minute})

	send := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		req.Header.Set(headerUserID, userID)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("7"))
	assert.Equal(t, http.StatusOK, send("7"))
	assert.Equal(t, http.StatusTooManyRequests, send("7"))

	// A different caller still has budget.
	assert.Equal(t, http.StatusOK, send("8"))
}

func TestGatewayBadUpstreamURL(t *testing.T) {
	logger := zerolog.New(io.Discard)
	_, err := NewServer(config.GatewayConfig{ServerURL: "://broken"}, nil, &logger)
	assert.Error(t, err)
}
