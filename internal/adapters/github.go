package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/hackforge/hackathon-recommender/internal/monitoring"
	"github.com/hackforge/hackathon-recommender/internal/types"
)

const (
	// reposAnalyzed caps how many repositories contribute to the
	// language tally.
	reposAnalyzed = 20
	// topLanguages caps how many languages appear on the profile.
	topLanguages = 5
	// recentRepos caps how many repository names appear on the profile.
	recentRepos = 5
)

// githubUser mirrors the fields of the GitHub user record this service
// reads.
type githubUser struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	CreatedAt   string `json:"created_at"`
}

// githubRepo mirrors the fields of a GitHub repository entry this
// service reads.
type githubRepo struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

// GitHubAdapter fetches profile data from the GitHub REST API.
type GitHubAdapter struct {
	token   string
	baseURL string
	client  *http.Client
	logger  *monitoring.Logger
}

// NewGitHubAdapter creates a GitHub adapter against the given base URL,
// attaching the bearer token to requests when one is configured. Every
// upstream call is logged through the provided logger.
func NewGitHubAdapter(token, baseURL string, logger *monitoring.Logger) *GitHubAdapter {
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxConnsPerHost:       20,
		MaxIdleConnsPerHost:   5,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	if logger == nil {
		logger = monitoring.NewLogger()
	}

	return &GitHubAdapter{
		token:   token,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		logger: logger,
	}
}

// FetchProfile fetches and normalizes a user's GitHub profile. It never
// returns an error: any transport failure, non-200 user response, or
// malformed payload degrades to a minimal Profile carrying the error
// message and zeroed counters.
func (g *GitHubAdapter) FetchProfile(ctx context.Context, username string) *types.Profile {
	user, err := g.fetchUser(ctx, username)
	if err != nil {
		slog.Error("GitHub API error", "username", username, "error", err)
		return &types.Profile{
			Username:    username,
			Languages:   []string{},
			RecentRepos: []string{},
			Error:       err.Error(),
		}
	}

	// A failed repository listing is non-fatal; the profile keeps the
	// user record and an empty repo list.
	repos, err := g.fetchRepos(ctx, username)
	if err != nil {
		slog.Warn("GitHub repo listing failed, continuing without repos", "username", username, "error", err)
		repos = nil
	}

	name := user.Name
	if name == "" {
		name = username
	}

	recent := make([]string, 0, recentRepos)
	for _, repo := range repos {
		if len(recent) == recentRepos {
			break
		}
		recent = append(recent, repo.Name)
	}

	return &types.Profile{
		Username:        username,
		Name:            name,
		Bio:             user.Bio,
		Repos:           user.PublicRepos,
		Followers:       user.Followers,
		Following:       user.Following,
		Languages:       tallyLanguages(repos),
		Company:         user.Company,
		Location:        user.Location,
		CreatedAt:       user.CreatedAt,
		RepositoryCount: len(repos),
		RecentRepos:     recent,
	}
}

// fetchUser retrieves the user record. A non-200 status is fatal for the
// whole fetch attempt.
func (g *GitHubAdapter) fetchUser(ctx context.Context, username string) (*githubUser, error) {
	resp, err := g.get(ctx, fmt.Sprintf("%s/users/%s", g.baseURL, username))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("github API error: status %d", resp.StatusCode)
	}

	var user githubUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data: %w", err)
	}

	return &user, nil
}

// fetchRepos retrieves the first page of the user's repositories.
func (g *GitHubAdapter) fetchRepos(ctx context.Context, username string) ([]githubRepo, error) {
	resp, err := g.get(ctx, fmt.Sprintf("%s/users/%s/repos?per_page=100", g.baseURL, username))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("github API error: status %d", resp.StatusCode)
	}

	var repos []githubRepo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("failed to decode repos: %w", err)
	}

	return repos, nil
}

func (g *GitHubAdapter) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "Hackathon-Recommender/1.0")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	success := err == nil && resp.StatusCode == http.StatusOK
	g.logger.ExternalAPILogger("GitHub", http.MethodGet, url, success, time.Since(start))

	return resp, err
}

// tallyLanguages counts primary languages across at most the first
// reposAnalyzed entries and returns the top languages by descending
// count, ties broken by first appearance in the list.
func tallyLanguages(repos []githubRepo) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	limit := len(repos)
	if limit > reposAnalyzed {
		limit = reposAnalyzed
	}

	for _, repo := range repos[:limit] {
		if repo.Language == "" {
			continue
		}
		if _, seen := counts[repo.Language]; !seen {
			firstSeen[repo.Language] = order
			order++
		}
		counts[repo.Language]++
	}

	languages := make([]string, 0, len(counts))
	for lang := range counts {
		languages = append(languages, lang)
	}

	sort.SliceStable(languages, func(i, j int) bool {
		if counts[languages[i]] != counts[languages[j]] {
			return counts[languages[i]] > counts[languages[j]]
		}
		return firstSeen[languages[i]] < firstSeen[languages[j]]
	})

	if len(languages) > topLanguages {
		languages = languages[:topLanguages]
	}

	return languages
}
