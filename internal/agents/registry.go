package agents

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultAgent is the agent used when a request does not name one.
const DefaultAgent = "hackathon_recommender"

// Definition describes a single recommendation strategy.
type Definition struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Registry is the immutable agent table, built once at process start.
type Registry struct {
	agents map[string]Definition
	config map[string]string
}

type registryFile struct {
	Agents map[string]Definition `yaml:"agents"`
	Config map[string]string     `yaml:"config"`
}

// Load reads the agent table from a YAML file. A missing or unreadable
// file falls back to the single built-in default entry rather than
// failing startup.
func Load(path string) *Registry {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Agent config not readable, using built-in default", "path", path, "error", err)
		return defaultRegistry()
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		slog.Warn("Agent config malformed, using built-in default", "path", path, "error", err)
		return defaultRegistry()
	}

	if len(file.Agents) == 0 {
		slog.Warn("Agent config has no agents, using built-in default", "path", path)
		return defaultRegistry()
	}

	slog.Info("Loaded agent config", "path", path, "agents", len(file.Agents))
	return &Registry{agents: file.Agents, config: file.Config}
}

func defaultRegistry() *Registry {
	return &Registry{
		agents: map[string]Definition{
			DefaultAgent: {
				Name:        "Hackathon Project Recommender",
				Description: "Analyzes GitHub profiles to recommend personalized hackathon projects",
			},
		},
	}
}

// Get returns the definition for the named agent.
func (r *Registry) Get(name string) (Definition, error) {
	def, ok := r.agents[name]
	if !ok {
		return Definition{}, fmt.Errorf("agent %s not found in configuration", name)
	}
	return def, nil
}

// Names returns the configured agent identifiers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConfigValue returns an optional value from the config section of the
// agents file.
func (r *Registry) ConfigValue(key string) string {
	return r.config[key]
}
