package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application metrics
type Metrics struct {
	RequestCount   int64
	ErrorCount     int64
	CacheHits      int64
	CacheMisses    int64
	GitHubAPICalls int64
	StartTime      time.Time

	// Response time samples for percentiles (last 1000 kept)
	responseTimes []time.Duration
	responseMutex sync.RWMutex

	// Status code tracking
	requestCountByStatus map[int]int64
	statusMutex          sync.RWMutex
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:            time.Now(),
		responseTimes:        make([]time.Duration, 0, 1000),
		requestCountByStatus: make(map[int]int64),
	}
}

// IncrementRequest increments the request count
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementCacheHit increments cache hit count
func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

// IncrementCacheMiss increments cache miss count
func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// IncrementGitHubCalls increments GitHub API call count
func (m *Metrics) IncrementGitHubCalls() {
	atomic.AddInt64(&m.GitHubAPICalls, 1)
}

// RecordResponseTime records a response time sample for percentiles
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	m.responseMutex.Lock()
	m.responseTimes = append(m.responseTimes, duration)
	if len(m.responseTimes) > 1000 {
		m.responseTimes = m.responseTimes[1:]
	}
	m.responseMutex.Unlock()
}

// RecordRequestByStatus records request count by HTTP status code
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.statusMutex.Lock()
	defer m.statusMutex.Unlock()
	m.requestCountByStatus[statusCode]++
}

// GetStats returns a snapshot of all metrics
func (m *Metrics) GetStats() map[string]interface{} {
	m.responseMutex.RLock()
	samples := make([]time.Duration, len(m.responseTimes))
	copy(samples, m.responseTimes)
	m.responseMutex.RUnlock()

	m.statusMutex.RLock()
	byStatus := make(map[int]int64, len(m.requestCountByStatus))
	for code, count := range m.requestCountByStatus {
		byStatus[code] = count
	}
	m.statusMutex.RUnlock()

	stats := map[string]interface{}{
		"uptime_seconds":     time.Since(m.StartTime).Seconds(),
		"request_count":      atomic.LoadInt64(&m.RequestCount),
		"error_count":        atomic.LoadInt64(&m.ErrorCount),
		"cache_hits":         atomic.LoadInt64(&m.CacheHits),
		"cache_misses":       atomic.LoadInt64(&m.CacheMisses),
		"github_api_calls":   atomic.LoadInt64(&m.GitHubAPICalls),
		"requests_by_status": byStatus,
	}

	if len(samples) > 0 {
		sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

		var total time.Duration
		for _, s := range samples {
			total += s
		}

		stats["response_time_ms"] = map[string]float64{
			"avg": float64(total.Milliseconds()) / float64(len(samples)),
			"p50": float64(percentile(samples, 50).Milliseconds()),
			"p95": float64(percentile(samples, 95).Milliseconds()),
			"p99": float64(percentile(samples, 99).Milliseconds()),
		}
	}

	return stats
}

// percentile returns the p-th percentile of sorted samples
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	idx := (len(sorted) * p) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
