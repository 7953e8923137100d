package handlers

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/forecast-gateway/internal/server/middlewares"
	"go.uber.org/zap"
)

// HTTPStatsProvider exposes the request counters kept by the metrics
// middleware.
type HTTPStatsProvider interface {
	Stats() middlewares.HTTPStats
}

// MetricsHandler serves Prometheus text metrics and counts engine call
// outcomes reported by the forecast gateway.
type MetricsHandler struct {
	logger      *zap.Logger
	http        HTTPStatsProvider
	mutex       sync.RWMutex
	engineCalls map[string]int64
}

func NewMetricsHandler(logger *zap.Logger, http HTTPStatsProvider) *MetricsHandler {
	return &MetricsHandler{
		logger:      logger,
		http:        http,
		engineCalls: make(map[string]int64),
	}
}

// RecordEngineCall records one gateway outcome for an engine.
func (h *MetricsHandler) RecordEngineCall(ctx context.Context, engine, outcome string) {
	h.mutex.Lock()
	h.engineCalls[engine+"|"+outcome]++
	h.mutex.Unlock()
}

func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if h.http != nil {
		stats := h.http.Stats()

		b.WriteString("# HELP http_requests_total Total number of HTTP requests\n")
		b.WriteString("# TYPE http_requests_total counter\n")
		for _, key := range sortedKeys(stats.RequestsTotal) {
			fmt.Fprintf(&b, "http_requests_total{route_status=%q} %d\n", key, stats.RequestsTotal[key])
		}

		b.WriteString("\n# HELP http_request_duration_seconds_avg Average duration of HTTP requests\n")
		b.WriteString("# TYPE http_request_duration_seconds_avg gauge\n")
		b.WriteString("http_request_duration_seconds_avg " + strconv.FormatFloat(stats.AvgDurationSeconds, 'f', 6, 64) + "\n")

		b.WriteString("\n# HELP http_active_requests Number of active HTTP requests\n")
		b.WriteString("# TYPE http_active_requests gauge\n")
		b.WriteString("http_active_requests " + strconv.FormatInt(stats.ActiveRequests, 10) + "\n\n")
	}

	h.mutex.RLock()
	calls := make(map[string]int64, len(h.engineCalls))
	for k, v := range h.engineCalls {
		calls[k] = v
	}
	h.mutex.RUnlock()

	b.WriteString("# HELP forecast_engine_calls_total Forecast engine calls by outcome\n")
	b.WriteString("# TYPE forecast_engine_calls_total counter\n")
	for _, key := range sortedKeys(calls) {
		engine, outcome, _ := strings.Cut(key, "|")
		fmt.Fprintf(&b, "forecast_engine_calls_total{engine=%q,outcome=%q} %d\n", engine, outcome, calls[key])
	}

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(200, b.String())
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
