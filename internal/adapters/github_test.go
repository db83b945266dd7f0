package adapters

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackforge/hackathon-recommender/internal/monitoring"
)

func newGitHubStub(t *testing.T, userStatus int, userBody string, reposStatus int, reposBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(reposStatus)
		fmt.Fprint(w, reposBody)
	})
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(userStatus)
		fmt.Fprint(w, userBody)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewGitHubAdapter(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "with token", token: "ghp_test_token"},
		{name: "without token", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewGitHubAdapter(tt.token, "https://api.github.com", nil)
			assert.NotNil(t, adapter)
			assert.Equal(t, tt.token, adapter.token)
			assert.Equal(t, "https://api.github.com", adapter.baseURL)
		})
	}
}

func TestFetchProfile_Success(t *testing.T) {
	userBody := `{
		"login": "octocat",
		"name": "The Octocat",
		"bio": "Building things",
		"public_repos": 8,
		"followers": 120,
		"following": 9,
		"company": "GitHub",
		"location": "San Francisco",
		"created_at": "2011-01-25T18:44:36Z"
	}`
	reposBody := `[
		{"name": "hello-world", "language": "Python"},
		{"name": "spoon-knife", "language": "Python"},
		{"name": "web-thing", "language": "JavaScript"},
		{"name": "fast-api", "language": "Go"},
		{"name": "another-web", "language": "JavaScript"},
		{"name": "scripts", "language": "Python"}
	]`
	srv := newGitHubStub(t, http.StatusOK, userBody, http.StatusOK, reposBody)

	adapter := NewGitHubAdapter("", srv.URL, nil)
	profile := adapter.FetchProfile(context.Background(), "octocat")

	require.NotNil(t, profile)
	assert.False(t, profile.Degraded())
	assert.Equal(t, "octocat", profile.Username)
	assert.Equal(t, "The Octocat", profile.Name)
	assert.Equal(t, "Building things", profile.Bio)
	assert.Equal(t, 8, profile.Repos)
	assert.Equal(t, 120, profile.Followers)
	assert.Equal(t, 9, profile.Following)
	assert.Equal(t, "GitHub", profile.Company)
	assert.Equal(t, "San Francisco", profile.Location)
	assert.Equal(t, "2011-01-25T18:44:36Z", profile.CreatedAt)
	assert.Equal(t, 6, profile.RepositoryCount)
	assert.Equal(t, []string{"hello-world", "spoon-knife", "web-thing", "fast-api", "another-web"}, profile.RecentRepos)

	// Python appears three times, JavaScript twice, Go once; ties broken
	// by list order.
	assert.Equal(t, []string{"Python", "JavaScript", "Go"}, profile.Languages)
}

func TestFetchProfile_NameFallsBackToUsername(t *testing.T) {
	srv := newGitHubStub(t, http.StatusOK, `{"login": "octocat", "public_repos": 1}`, http.StatusOK, `[]`)

	adapter := NewGitHubAdapter("", srv.URL, nil)
	profile := adapter.FetchProfile(context.Background(), "octocat")

	assert.Equal(t, "octocat", profile.Name)
	assert.Empty(t, profile.Bio)
	assert.Empty(t, profile.Company)
	assert.Empty(t, profile.Languages)
}

func TestFetchProfile_UserNotFoundDegrades(t *testing.T) {
	srv := newGitHubStub(t, http.StatusNotFound, `{"message": "Not Found"}`, http.StatusOK, `[]`)

	adapter := NewGitHubAdapter("", srv.URL, nil)
	profile := adapter.FetchProfile(context.Background(), "octocat")

	require.NotNil(t, profile)
	assert.True(t, profile.Degraded())
	assert.Contains(t, profile.Error, "status 404")
	assert.Equal(t, "octocat", profile.Username)
	assert.Zero(t, profile.Repos)
	assert.Zero(t, profile.Followers)
	assert.Zero(t, profile.Following)
	assert.Empty(t, profile.Languages)
}

func TestFetchProfile_RepoFailureIsNonFatal(t *testing.T) {
	userBody := `{"login": "octocat", "name": "The Octocat", "public_repos": 3, "followers": 5}`
	srv := newGitHubStub(t, http.StatusOK, userBody, http.StatusForbidden, `{"message": "rate limited"}`)

	adapter := NewGitHubAdapter("", srv.URL, nil)
	profile := adapter.FetchProfile(context.Background(), "octocat")

	require.NotNil(t, profile)
	assert.False(t, profile.Degraded())
	assert.Equal(t, 3, profile.Repos)
	assert.Equal(t, 5, profile.Followers)
	assert.Zero(t, profile.RepositoryCount)
	assert.Empty(t, profile.Languages)
	assert.Empty(t, profile.RecentRepos)
}

func TestFetchProfile_TransportFailureDegrades(t *testing.T) {
	srv := newGitHubStub(t, http.StatusOK, `{}`, http.StatusOK, `[]`)
	srv.Close()

	adapter := NewGitHubAdapter("", srv.URL, nil)
	profile := adapter.FetchProfile(context.Background(), "octocat")

	require.NotNil(t, profile)
	assert.True(t, profile.Degraded())
	assert.Zero(t, profile.Repos)
}

func TestFetchProfile_MalformedUserPayloadDegrades(t *testing.T) {
	srv := newGitHubStub(t, http.StatusOK, `{"login": `, http.StatusOK, `[]`)

	adapter := NewGitHubAdapter("", srv.URL, nil)
	profile := adapter.FetchProfile(context.Background(), "octocat")

	assert.True(t, profile.Degraded())
	assert.Contains(t, profile.Error, "decode")
}

func TestFetchProfile_SendsAuthAndAcceptHeaders(t *testing.T) {
	var gotAuth, gotAccept string
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, `{"login": "octocat"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	adapter := NewGitHubAdapter("ghp_test_token", srv.URL, nil)
	adapter.FetchProfile(context.Background(), "octocat")

	assert.Equal(t, "Bearer ghp_test_token", gotAuth)
	assert.Equal(t, "application/vnd.github.v3+json", gotAccept)
}

func TestFetchProfile_LogsUpstreamCalls(t *testing.T) {
	srv := newGitHubStub(t, http.StatusOK, `{"login": "octocat", "public_repos": 1}`, http.StatusNotFound, `{"message": "Not Found"}`)

	var buf bytes.Buffer
	logger := &monitoring.Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	adapter := NewGitHubAdapter("", srv.URL, logger)
	adapter.FetchProfile(context.Background(), "octocat")

	out := buf.String()
	assert.Contains(t, out, "External API Call")
	assert.Contains(t, out, `"api_name":"GitHub"`)
	assert.Contains(t, out, "/users/octocat")
	// The user fetch succeeded, the repo listing did not.
	assert.Contains(t, out, `"success":true`)
	assert.Contains(t, out, `"success":false`)
}

func TestTallyLanguages(t *testing.T) {
	tests := []struct {
		name     string
		repos    []githubRepo
		expected []string
	}{
		{
			name: "counts and tie-break by list order",
			repos: []githubRepo{
				{Language: "Python"},
				{Language: "Python"},
				{Language: "JavaScript"},
				{Language: "Go"},
				{Language: "JavaScript"},
				{Language: "Python"},
			},
			expected: []string{"Python", "JavaScript", "Go"},
		},
		{
			name:     "empty repo list",
			repos:    nil,
			expected: []string{},
		},
		{
			name: "repos without a language are skipped",
			repos: []githubRepo{
				{Language: ""},
				{Language: "Rust"},
				{Language: ""},
			},
			expected: []string{"Rust"},
		},
		{
			name: "caps at five languages",
			repos: []githubRepo{
				{Language: "A"}, {Language: "A"}, {Language: "A"},
				{Language: "B"}, {Language: "B"},
				{Language: "C"}, {Language: "C"},
				{Language: "D"},
				{Language: "E"},
				{Language: "F"},
			},
			expected: []string{"A", "B", "C", "D", "E"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tallyLanguages(tt.repos))
		})
	}
}

func TestTallyLanguages_OnlyFirstTwentyReposCount(t *testing.T) {
	repos := make([]githubRepo, 0, 25)
	for i := 0; i < 20; i++ {
		repos = append(repos, githubRepo{Language: "Python"})
	}
	for i := 0; i < 5; i++ {
		repos = append(repos, githubRepo{Language: "Haskell"})
	}

	assert.Equal(t, []string{"Python"}, tallyLanguages(repos))
}
