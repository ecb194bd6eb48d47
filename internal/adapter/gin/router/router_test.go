package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"usercodec/internal/adapter/gin/handler"
	"usercodec/internal/adapter/gin/middleware"
	"usercodec/internal/usecase/user"
)

func setupRouter(t *testing.T, limiter *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(t)
	uc := user.New(user.Config{BatchWorkers: 2, BatchMaxItems: 10}, log)
	return SetupRouter(handler.NewUserHandler(uc, 1<<20, log), limiter, "usercodec", log)
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, bytes.NewBufferString(body)))
	return w
}

func TestHealth(t *testing.T) {
	r := setupRouter(t, nil)

	w := do(r, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"usercodec"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestDecodeEndToEnd(t *testing.T) {
	r := setupRouter(t, nil)

	t.Run("example record", func(t *testing.T) {
		w := do(r, http.MethodPost, "/v1/users/decode",
			`{"createdAt":"2023-12-31T23:59:59+00:00","id":"u1","isAdmin":true,"karma":0}`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp handler.DecodeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.JSONEq(t, `{"createdAt":"2023-12-31T23:59:59Z","id":"u1","isAdmin":true,"karma":0}`, string(resp.User))
		assert.Equal(t, 0, resp.CreatedAtOffsetMinutes)
	})

	t.Run("offset kept", func(t *testing.T) {
		w := do(r, http.MethodPost, "/v1/users/decode",
			`{"createdAt":"2024-03-01T10:00:00+05:30","id":"u2","isAdmin":false,"karma":-2147483648}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"createdAt":"2024-03-01T10:00:00+05:30"`)
		assert.Contains(t, w.Body.String(), `"karma":-2147483648`)
		assert.Contains(t, w.Body.String(), `"createdAtOffsetMinutes":330`)
	})

	t.Run("unknown field strict", func(t *testing.T) {
		body := `{"createdAt":"2024-03-01T10:00:00Z","id":"u3","isAdmin":false,"karma":1,"role":"x"}`

		assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/v1/users/decode", body).Code)

		w := do(r, http.MethodPost, "/v1/users/decode?strict=true", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"reason":"unknown_field"`)
		assert.Contains(t, w.Body.String(), `"field":"role"`)
	})

	t.Run("batch", func(t *testing.T) {
		w := do(r, http.MethodPost, "/v1/users/decode/batch", `[
			{"createdAt":"2024-03-01T10:00:00Z","id":"a","isAdmin":false,"karma":1},
			{"createdAt":"2024-03-01T10:00:00","id":"b","isAdmin":false,"karma":1}
		]`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp handler.BatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 2)
		assert.Equal(t, 1, resp.Failed)
		assert.Nil(t, resp.Results[0].Error)
		require.NotNil(t, resp.Results[1].Error)
		assert.Equal(t, "invalid_timestamp", resp.Results[1].Error.Reason)
	})
}

func TestRateLimitedRoutes(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := middleware.NewRateLimiter(client, middleware.RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstCapacity:     1,
		Enabled:           true,
	}, zaptest.NewLogger(t))
	r := setupRouter(t, limiter)

	body := `{"createdAt":"2024-03-01T10:00:00Z","id":"a","isAdmin":false,"karma":1}`
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/v1/users/decode", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/v1/users/decode", body).Code)

	// health is outside the limited group
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "").Code)
	}
}
