package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hackforge/hackathon-recommender/internal/adapters"
	"github.com/hackforge/hackathon-recommender/internal/agents"
	"github.com/hackforge/hackathon-recommender/internal/cache"
	"github.com/hackforge/hackathon-recommender/internal/config"
	"github.com/hackforge/hackathon-recommender/internal/errors"
	"github.com/hackforge/hackathon-recommender/internal/monitoring"
	"github.com/hackforge/hackathon-recommender/internal/ratelimit"
	"github.com/hackforge/hackathon-recommender/internal/recommend"
	"github.com/hackforge/hackathon-recommender/internal/service"
	"github.com/hackforge/hackathon-recommender/internal/types"
)

const version = "1.0.0"

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	registry := agents.Load(cfg.Agents.ConfigPath)

	// The gateway is configured but not dialed; logged so operators can
	// see what the process would talk to.
	slog.Info("Configured tool gateway (not connected)", "gateway_url", resolveGatewayURL(cfg.GatewayURL, registry))

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	githubAdapter := adapters.NewGitHubAdapter(cfg.GitHub.Token, cfg.GitHub.BaseURL, appLogger)
	generator := recommend.NewGenerator()

	agentService := service.NewAgentService(registry, githubAdapter, generator, appLogger)

	appCache := cache.New(cfg.Cache.TTL)
	limiter := ratelimit.New(ratelimit.Config{PerMinute: cfg.RateLimit.PerMinute})

	r := setupRouter(agentService, appMetrics, appLogger, appCache, limiter)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Server.Port, "agents", registry.Names())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// setupRouter wires middleware and routes onto a fresh Gin engine.
// resolveGatewayURL picks the tool gateway endpoint. A gateway_url entry
// in the agents file wins over the environment-derived fallback.
func resolveGatewayURL(fallback string, registry *agents.Registry) string {
	if v := registry.ConfigValue("gateway_url"); v != "" {
		return v
	}
	return fallback
}

func setupRouter(agentService *service.AgentService, appMetrics *monitoring.Metrics, appLogger *monitoring.Logger, appCache *cache.Cache, limiter *ratelimit.Limiter) *gin.Engine {
	r := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	// ErrorHandler sits inside the cache middleware so cached responses
	// are only ever captured after the error path has written its status.
	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))
	r.Use(errors.RecoveryHandler())
	r.Use(limiter.Middleware())
	r.Use(appCache.Middleware(appMetrics))
	r.Use(errors.ErrorHandler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
		})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "AI Agents Hackathon Recommender API",
			"version": version,
		})
	})

	r.GET("/agents", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"agents": agentService.AgentNames(),
		})
	})

	r.POST("/analyze", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		var req types.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errors.NewValidationError("invalid request body: username is required"))
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" {
			c.Error(errors.NewValidationError("username cannot be empty"))
			return
		}

		resp := agentService.Analyze(ctx, req.Username, req.Agent)
		if resp.Profile != nil {
			appMetrics.IncrementGitHubCalls()
		}

		// Envelope faults (unknown agent, degraded upstream) are reported
		// in-band, not as transport errors.
		c.JSON(http.StatusOK, resp)
	})

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, appMetrics.GetStats())
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, appCache.Stats())
	})

	return r
}
