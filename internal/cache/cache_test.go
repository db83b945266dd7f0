package cache

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hackforge/hackathon-recommender/internal/monitoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", []byte("value"))

	data, found := c.Get("key")
	require.True(t, found)
	assert.Equal(t, []byte("value"), data)
}

func TestCache_Miss(t *testing.T) {
	c := New(time.Minute)

	_, found := c.Get("absent")
	assert.False(t, found)
}

func TestCache_Expiry(t *testing.T) {
	c := New(10 * time.Millisecond)

	c.Set("key", []byte("value"))
	time.Sleep(20 * time.Millisecond)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestCache_Stats(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	stats := c.Stats()
	assert.Equal(t, 2, stats["total_items"])
	assert.Equal(t, 2, stats["active_items"])
}

func TestMiddleware_CachesAnalyzeResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := New(time.Minute)
	metrics := monitoring.NewMetrics()
	calls := 0

	r := gin.New()
	r.Use(c.Middleware(metrics))
	r.POST("/analyze", func(ctx *gin.Context) {
		calls++
		ctx.JSON(http.StatusOK, gin.H{"result": "ok"})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/analyze", strings.NewReader(`{"username":"octocat"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"result":"ok"}`, w.Body.String())
	}

	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(2), metrics.CacheHits)
	assert.Equal(t, int64(1), metrics.CacheMisses)
}

func TestMiddleware_DistinctBodiesAreDistinctEntries(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := New(time.Minute)
	metrics := monitoring.NewMetrics()
	calls := 0

	r := gin.New()
	r.Use(c.Middleware(metrics))
	r.POST("/analyze", func(ctx *gin.Context) {
		calls++
		ctx.JSON(http.StatusOK, gin.H{"n": calls})
	})

	for _, body := range []string{`{"username":"a"}`, `{"username":"b"}`} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/analyze", strings.NewReader(body))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 2, calls)
}

func TestMiddleware_IgnoresOtherRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := New(time.Minute)
	metrics := monitoring.NewMetrics()

	r := gin.New()
	r.Use(c.Middleware(metrics))
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), metrics.CacheHits)
	assert.Equal(t, int64(0), metrics.CacheMisses)
	assert.Equal(t, 0, c.Stats()["total_items"])
}
