package recommend

import (
	"fmt"
	"strings"

	"github.com/hackforge/hackathon-recommender/internal/types"
)

// maxCards caps how many project cards one recommendation carries.
const maxCards = 5

// bioExcerptLen caps how much of the bio appears in the profile summary.
const bioExcerptLen = 50

// Card is one formatted project suggestion within the recommendation
// output.
type Card struct {
	Title       string
	Description string
	Stack       string
}

// rule pairs a predicate with a card producer. Rules are evaluated
// independently in fixed order, not as cascading if/else, so individual
// rules stay testable and the table stays extensible.
type rule struct {
	matches func(p *types.Profile) bool
	build   func(p *types.Profile) Card
}

// Generator maps a profile to recommendation text. It holds only the
// immutable rule table, so a single instance is safe for concurrent use.
type Generator struct {
	rules []rule
}

// NewGenerator builds a generator with the fixed rule table.
func NewGenerator() *Generator {
	return &Generator{
		rules: []rule{
			{
				matches: hasLanguage("Python"),
				build: func(p *types.Profile) Card {
					return Card{
						Title:       "🐍 AI-Powered Python Assistant",
						Description: fmt.Sprintf("Build an intelligent Python coding companion leveraging your %s expertise.", primaryLanguage(p)),
						Stack:       "Python + OpenAI API + FastAPI + Docker",
					}
				},
			},
			{
				matches: func(p *types.Profile) bool {
					return hasLanguage("JavaScript")(p) || hasLanguage("TypeScript")(p)
				},
				build: func(p *types.Profile) Card {
					return Card{
						Title:       "⚡ Interactive Web Agent",
						Description: fmt.Sprintf("Create a dynamic web application with AI integration using your %s skills.", primaryLanguage(p)),
						Stack:       "Next.js + Node.js + AI APIs + PostgreSQL",
					}
				},
			},
			{
				matches: hasLanguage("Go"),
				build: func(p *types.Profile) Card {
					return Card{
						Title:       "🚀 High-Performance API Agent",
						Description: "Build a lightning-fast microservice architecture with AI capabilities.",
						Stack:       "Go + Docker + Kubernetes + Redis",
					}
				},
			},
			{
				matches: func(p *types.Profile) bool { return p.Repos > 20 },
				build: func(p *types.Profile) Card {
					return Card{
						Title:       "🔍 Advanced Code Analyzer",
						Description: fmt.Sprintf("With %d repositories, create a sophisticated tool that analyzes codebases for improvements.", p.Repos),
						Stack:       fmt.Sprintf("%s + AST parsing + ML models + Web UI", primaryLanguage(p)),
					}
				},
			},
		},
	}
}

// defaultCards are emitted when no rule matched the profile.
func defaultCards() []Card {
	return []Card{
		{
			Title:       "🤖 Universal AI Assistant",
			Description: "Start your AI journey with a versatile assistant that can grow with your skills.",
			Stack:       "Python + OpenAI API + Streamlit + SQLite",
		},
		{
			Title:       "📚 Smart Learning Companion",
			Description: "Build an AI that helps developers learn new technologies.",
			Stack:       "Next.js + Python + Vector DB + AI APIs",
		},
	}
}

// Cards evaluates the rule table against a profile. The result always
// holds between 1 and maxCards entries.
func (g *Generator) Cards(p *types.Profile) []Card {
	cards := make([]Card, 0, maxCards)
	for _, r := range g.rules {
		if len(cards) == maxCards {
			break
		}
		if r.matches(p) {
			cards = append(cards, r.build(p))
		}
	}

	if len(cards) == 0 {
		cards = defaultCards()
	}
	if len(cards) > maxCards {
		cards = cards[:maxCards]
	}
	return cards
}

// ExperienceLevel classifies a repository count into a coarse tier.
// Boundaries are strict greater-than.
func ExperienceLevel(repoCount int) string {
	switch {
	case repoCount > 50:
		return "Expert"
	case repoCount > 20:
		return "Advanced"
	case repoCount > 5:
		return "Intermediate"
	default:
		return "Beginner"
	}
}

// Generate renders the full recommendation document for a profile. Pure
// and deterministic: identical profiles produce identical text.
func (g *Generator) Generate(p *types.Profile) string {
	experience := ExperienceLevel(p.Repos)
	primary := primaryLanguage(p)
	cards := g.Cards(p)

	var b strings.Builder

	fmt.Fprintf(&b, "🏆 AI Agents Hackathon Project Recommendations for %s\n\n", p.Username)

	b.WriteString("📊 Profile Analysis:\n")
	fmt.Fprintf(&b, "• GitHub profile: %d repositories, %d followers\n", p.Repos, p.Followers)
	fmt.Fprintf(&b, "• Primary languages: %s\n", languageSummary(p))
	fmt.Fprintf(&b, "• Experience level: %s\n", experience)
	fmt.Fprintf(&b, "• Coding focus: %s\n\n", codingFocus(p))

	b.WriteString("🚀 Personalized Project Recommendations:\n\n")
	for i, card := range cards {
		fmt.Fprintf(&b, "%d. **%s**\n   %s\n   Tech Stack: %s\n\n", i+1, card.Title, card.Description, card.Stack)
	}

	fmt.Fprintf(&b, "💡 Personalized Tips for %s:\n", p.Username)
	fmt.Fprintf(&b, "• Leverage your %s expertise as a foundation\n", primary)
	fmt.Fprintf(&b, "• Consider your %d repositories as inspiration for new projects\n", p.Repos)
	fmt.Fprintf(&b, "• Build on your existing GitHub presence (%d followers)\n", p.Followers)
	fmt.Fprintf(&b, "• %s gives you unique perspective\n\n", perspective(p))

	b.WriteString("🛠️ Recommended Tech Stack:\n")
	fmt.Fprintf(&b, "• Primary: %s (your strongest language)\n", primary)
	b.WriteString("• AI/ML: OpenAI API, Anthropic Claude, or Hugging Face\n")
	fmt.Fprintf(&b, "• Backend: %s\n", backendSuggestion(p))
	b.WriteString("• Database: PostgreSQL, MongoDB, or vector databases\n")
	b.WriteString("• Deployment: Docker, Vercel, or cloud platforms\n\n")

	fmt.Fprintf(&b, "Ready to build something amazing? Your %s level and %s skills are perfect for these projects! 🎯",
		strings.ToLower(experience), primary)

	return b.String()
}

func hasLanguage(lang string) func(p *types.Profile) bool {
	return func(p *types.Profile) bool {
		for _, l := range p.Languages {
			if l == lang {
				return true
			}
		}
		return false
	}
}

func primaryLanguage(p *types.Profile) string {
	if len(p.Languages) > 0 {
		return p.Languages[0]
	}
	return "Multiple"
}

func languageSummary(p *types.Profile) string {
	if len(p.Languages) == 0 {
		return "Multiple technologies"
	}
	langs := p.Languages
	if len(langs) > 3 {
		langs = langs[:3]
	}
	return strings.Join(langs, ", ")
}

func codingFocus(p *types.Profile) string {
	if p.Bio == "" {
		return "Full-stack development"
	}
	excerpt := []rune(p.Bio)
	if len(excerpt) > bioExcerptLen {
		excerpt = excerpt[:bioExcerptLen]
	}
	return string(excerpt) + "..."
}

func perspective(p *types.Profile) string {
	if p.Company != "" {
		return p.Company + " experience"
	}
	return "Open source"
}

func backendSuggestion(p *types.Profile) string {
	switch {
	case hasLanguage("Python")(p):
		return "FastAPI"
	case hasLanguage("JavaScript")(p):
		return "Express.js"
	default:
		return "Your preferred framework"
	}
}
