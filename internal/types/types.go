package types

// Profile is a normalized summary of a GitHub account derived from the
// user and repository API responses. Created fresh per request, never
// persisted.
type Profile struct {
	Username        string   `json:"username"`
	Name            string   `json:"name"`
	Bio             string   `json:"bio"`
	Repos           int      `json:"repos"`
	Followers       int      `json:"followers"`
	Following       int      `json:"following"`
	Languages       []string `json:"languages"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	CreatedAt       string   `json:"created_at"`
	RepositoryCount int      `json:"repository_count"`
	RecentRepos     []string `json:"recent_repos"`
	// Error is set when the upstream fetch degraded; counters are zeroed
	// in that case.
	Error string `json:"error,omitempty"`
}

// Degraded reports whether the profile carries an upstream fetch error.
func (p *Profile) Degraded() bool {
	return p.Error != ""
}

// AnalyzeRequest represents the request structure for the analyze endpoint.
type AnalyzeRequest struct {
	Username string `json:"username" binding:"required"`
	Agent    string `json:"agent"`
}

// AnalysisResponse is the response envelope for the analyze endpoint.
// Exactly one of (Recommendations+Profile) or Error is populated, gated
// by Success.
type AnalysisResponse struct {
	Success         bool     `json:"success"`
	Agent           string   `json:"agent"`
	Recommendations string   `json:"recommendations,omitempty"`
	Profile         *Profile `json:"profile,omitempty"`
	Error           string   `json:"error,omitempty"`
}
