package middleware

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"warehouse-service/internal/document"

	"github.com/labstack/echo/v4"
)

// Metrics holds request counters for the process. Safe for concurrent use.
type Metrics struct {
	totalRequests   int64
	activeRequests  int64
	totalErrors     int64
	totalLatencyMs  int64
	maxLatencyMs    int64
	documentsServed int64
	startTime       time.Time

	mu             sync.Mutex
	endpointCounts map[string]int64
	statusCodes    map[int]int64
	now            func() time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		startTime:      time.Now(),
		endpointCounts: make(map[string]int64),
		statusCodes:    make(map[int]int64),
		now:            time.Now,
	}
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	TotalRequests   int64            `json:"total_requests"`
	ActiveRequests  int64            `json:"active_requests"`
	TotalErrors     int64            `json:"total_errors"`
	ErrorRate       float64          `json:"error_rate_pct"`
	AvgLatencyMs    float64          `json:"avg_latency_ms"`
	MaxLatencyMs    int64            `json:"max_latency_ms"`
	DocumentsServed int64            `json:"documents_served"`
	UptimeSeconds   float64          `json:"uptime_seconds"`
	EndpointCounts  map[string]int64 `json:"endpoint_counts"`
	StatusCodes     map[int]int64    `json:"status_codes"`
}

// Middleware tracks request count, latency, active requests and error rate.
// Endpoints are recorded by route pattern, never by raw URL.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			atomic.AddInt64(&m.activeRequests, 1)
			start := m.now()

			err := next(c)

			latencyMs := m.now().Sub(start).Milliseconds()
			atomic.AddInt64(&m.activeRequests, -1)
			atomic.AddInt64(&m.totalRequests, 1)
			atomic.AddInt64(&m.totalLatencyMs, latencyMs)

			for {
				current := atomic.LoadInt64(&m.maxLatencyMs)
				if latencyMs <= current {
					break
				}
				if atomic.CompareAndSwapInt64(&m.maxLatencyMs, current, latencyMs) {
					break
				}
			}

			status := c.Response().Status
			if status >= http.StatusBadRequest {
				atomic.AddInt64(&m.totalErrors, 1)
			}
			if status == http.StatusOK && c.Response().Header().Get(echo.HeaderContentType) == document.ContentType {
				atomic.AddInt64(&m.documentsServed, 1)
			}

			path := c.Path()
			if path == "" {
				path = unmatchedRoute
			}

			m.mu.Lock()
			m.endpointCounts[c.Request().Method+" "+path]++
			m.statusCodes[status]++
			m.mu.Unlock()

			return err
		}
	}
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	total := atomic.LoadInt64(&m.totalRequests)
	errs := atomic.LoadInt64(&m.totalErrors)
	totalLatency := atomic.LoadInt64(&m.totalLatencyMs)

	var avgLatency, errorRate float64
	if total > 0 {
		avgLatency = float64(totalLatency) / float64(total)
		errorRate = float64(errs) / float64(total) * 100
	}

	m.mu.Lock()
	endpointCounts := make(map[string]int64, len(m.endpointCounts))
	for k, v := range m.endpointCounts {
		endpointCounts[k] = v
	}
	statusCodes := make(map[int]int64, len(m.statusCodes))
	for k, v := range m.statusCodes {
		statusCodes[k] = v
	}
	m.mu.Unlock()

	return MetricsSnapshot{
		TotalRequests:   total,
		ActiveRequests:  atomic.LoadInt64(&m.activeRequests),
		TotalErrors:     errs,
		ErrorRate:       errorRate,
		AvgLatencyMs:    avgLatency,
		MaxLatencyMs:    atomic.LoadInt64(&m.maxLatencyMs),
		DocumentsServed: atomic.LoadInt64(&m.documentsServed),
		UptimeSeconds:   m.now().Sub(m.startTime).Seconds(),
		EndpointCounts:  endpointCounts,
		StatusCodes:     statusCodes,
	}
}

// Handler serves the current snapshot as JSON.
func (m *Metrics) Handler(c echo.Context) error {
	return c.JSON(http.StatusOK, m.Snapshot())
}
