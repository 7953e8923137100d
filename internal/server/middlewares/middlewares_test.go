package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/forecast-gateway/internal/config"
	"github.com/vzahanych/forecast-gateway/internal/server/utils"
	"github.com/vzahanych/forecast-gateway/pkg/telemetry"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if remote != "" {
		req.RemoteAddr = remote
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())

	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = utils.GetRequestIDFromGinContext(c)
		c.Status(http.StatusNoContent)
	})

	rr := serve(r, http.MethodGet, "/", "")
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware(), RecoveryMiddleware(zaptest.NewLogger(t), false))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	rr := serve(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"status":500,"error":"internal server error","code":"INTERNAL_ERROR"}`, rr.Body.String())
}

func TestRateLimiter_PerClient(t *testing.T) {
	limiter := NewRateLimiter(config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2, TTL: 60})

	r := gin.New()
	r.Use(limiter.Handler(zaptest.NewLogger(t)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "10.0.0.1:2222").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/", "10.0.0.1:3333").Code)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "10.0.0.2:1111").Code, "other clients keep their own bucket")
}

func TestRateLimiter_SweepsIdleVisitors(t *testing.T) {
	limiter := NewRateLimiter(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1, TTL: 60})

	clock := time.Now()
	limiter.now = func() time.Time { return clock }

	limiter.allow("10.0.0.1")
	limiter.allow("10.0.0.2")
	assert.Len(t, limiter.visitors, 2)

	clock = clock.Add(2 * time.Minute)
	limiter.allow("10.0.0.3")
	assert.Len(t, limiter.visitors, 1)
}

func TestMetricsMiddleware_Stats(t *testing.T) {
	m := NewMetricsMiddleware(zaptest.NewLogger(t), &telemetry.Telemetry{})

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/ok", "")
	serve(r, http.MethodGet, "/ok", "")
	serve(r, http.MethodGet, "/missing", "")

	stats := m.Stats()
	assert.Equal(t, int64(2), stats.RequestsTotal["GET /ok_200"])
	assert.Equal(t, int64(1), stats.RequestsTotal["GET unmatched_404"])
	assert.Equal(t, int64(0), stats.ActiveRequests)
	assert.GreaterOrEqual(t, stats.AvgDurationSeconds, 0.0)
}

func TestTelemetryMiddleware_StoresContext(t *testing.T) {
	r := gin.New()
	r.Use(TelemetryMiddleware(zaptest.NewLogger(t), nil))

	var stored bool
	r.GET("/", func(c *gin.Context) {
		_, stored = c.Get(utils.SpanContextKey)
		c.Status(http.StatusOK)
	})

	serve(r, http.MethodGet, "/", "")
	assert.True(t, stored)
}
