package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hackforge/hackathon-recommender/internal/agents"
	"github.com/hackforge/hackathon-recommender/internal/monitoring"
	"github.com/hackforge/hackathon-recommender/internal/recommend"
	"github.com/hackforge/hackathon-recommender/internal/types"
)

// ProfileFetcher produces a profile for a username. Implementations
// degrade internally and never return an error.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, username string) *types.Profile
}

// AgentService orchestrates agent lookup, profile fetching and
// recommendation generation.
type AgentService struct {
	registry  *agents.Registry
	fetcher   ProfileFetcher
	generator *recommend.Generator
	logger    *monitoring.Logger
}

// NewAgentService wires the analysis pipeline.
func NewAgentService(registry *agents.Registry, fetcher ProfileFetcher, generator *recommend.Generator, logger *monitoring.Logger) *AgentService {
	return &AgentService{
		registry:  registry,
		fetcher:   fetcher,
		generator: generator,
		logger:    logger,
	}
}

// AgentNames returns the configured agent identifiers.
func (s *AgentService) AgentNames() []string {
	return s.registry.Names()
}

// Analyze runs the full pipeline for a username. Faults are rendered
// into the response envelope with Success=false; nothing propagates to
// the transport layer.
func (s *AgentService) Analyze(ctx context.Context, username, agentName string) (resp *types.AnalysisResponse) {
	if agentName == "" {
		agentName = agents.DefaultAgent
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Analysis panicked", "username", username, "agent", agentName, "panic", r)
			resp = &types.AnalysisResponse{
				Success: false,
				Agent:   agentName,
				Error:   fmt.Sprintf("analysis failed: %v", r),
			}
		}
	}()

	if _, err := s.registry.Get(agentName); err != nil {
		slog.Warn("Analysis requested for unknown agent", "agent", agentName, "username", username)
		return &types.AnalysisResponse{
			Success: false,
			Agent:   agentName,
			Error:   err.Error(),
		}
	}

	slog.Info("Starting analysis", "username", username, "agent", agentName)
	start := time.Now()

	profile := s.fetcher.FetchProfile(ctx, username)
	recommendations := s.generator.Generate(profile)

	s.logger.AnalysisLogger(username, agentName, true, profile.Degraded(), time.Since(start))

	return &types.AnalysisResponse{
		Success:         true,
		Agent:           agentName,
		Recommendations: recommendations,
		Profile:         profile,
	}
}
