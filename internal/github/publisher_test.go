package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v58/github"
	"github.com/qiniu/qareport/internal/config"
	"github.com/qiniu/qareport/internal/github/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportBody = "### 📣 Project Update: 2024-06-01\n\n#### 🔑 Key Takeaways\n- Wrote parser\n"

func newTestClient(t *testing.T, serverURL string) *github.Client {
	t.Helper()
	client := github.NewClient(nil)
	u, err := url.Parse(serverURL + "/")
	require.NoError(t, err)
	client.BaseURL = u
	return client
}

func TestIssuePublisher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/qiniu/qareport/issues/7/comments", r.URL.Path)

		var comment github.IssueComment
		require.NoError(t, json.NewDecoder(r.Body).Decode(&comment))
		assert.Equal(t, reportBody, comment.GetBody())

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(github.IssueComment{
			ID:      github.Int64(99),
			HTMLURL: github.String("https://github.com/qiniu/qareport/issues/7#issuecomment-99"),
		})
	}))
	defer server.Close()

	publisher := NewIssuePublisher(newTestClient(t, server.URL), "qiniu", "qareport", 7)
	assert.Equal(t, "qiniu/qareport#7", publisher.Target())

	link, err := publisher.Publish(context.Background(), reportBody)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/qiniu/qareport/issues/7#issuecomment-99", link)
}

func TestIssuePublisher_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"Not Found"}`)
	}))
	defer server.Close()

	publisher := NewIssuePublisher(newTestClient(t, server.URL), "qiniu", "qareport", 7)
	_, err := publisher.Publish(context.Background(), reportBody)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create issue comment on qiniu/qareport#7")
}

func TestDiscussionPublisher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var payload struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Contains(t, payload.Query, "addDiscussionComment(input: $input)")

		input, ok := payload.Variables["input"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "D_kwDOA", input["discussionId"])
		assert.Equal(t, reportBody, input["body"])

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"addDiscussionComment":{"comment":{"id":"DC_1","url":"https://github.com/qiniu/qareport/discussions/3#discussioncomment-1"}}}}`)
	}))
	defer server.Close()

	publisher := NewDiscussionPublisher(NewEnterpriseGraphQLClient(server.URL, server.Client()), "D_kwDOA")
	assert.Equal(t, "discussion D_kwDOA", publisher.Target())

	link, err := publisher.Publish(context.Background(), reportBody)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/qiniu/qareport/discussions/3#discussioncomment-1", link)
}

func TestDiscussionPublisher_GraphQLError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":null,"errors":[{"message":"Could not resolve to a node with the global id of 'bad'"}]}`)
	}))
	defer server.Close()

	publisher := NewDiscussionPublisher(NewEnterpriseGraphQLClient(server.URL, server.Client()), "bad")
	_, err := publisher.Publish(context.Background(), reportBody)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add comment to discussion bad")
}

func TestNewPublisherWithAuthenticator(t *testing.T) {
	authenticator := auth.NewPATAuthenticator("ghp_test_token")

	t.Run("issue", func(t *testing.T) {
		cfg := &config.Config{GitHub: config.GitHubConfig{
			Token:   "ghp_test_token",
			Publish: config.PublishConfig{Target: config.PublishTargetIssue, Repository: "qiniu/qareport", IssueNumber: 7},
		}}

		publisher, err := NewPublisherWithAuthenticator(context.Background(), cfg, authenticator)
		require.NoError(t, err)
		assert.IsType(t, &IssuePublisher{}, publisher)
		assert.Equal(t, "qiniu/qareport#7", publisher.Target())
	})

	t.Run("discussion", func(t *testing.T) {
		cfg := &config.Config{GitHub: config.GitHubConfig{
			Token:   "ghp_test_token",
			Publish: config.PublishConfig{Target: config.PublishTargetDiscussion, DiscussionID: "D_kwDOA"},
		}}

		publisher, err := NewPublisherWithAuthenticator(context.Background(), cfg, authenticator)
		require.NoError(t, err)
		assert.IsType(t, &DiscussionPublisher{}, publisher)
	})

	t.Run("unknown target", func(t *testing.T) {
		cfg := &config.Config{GitHub: config.GitHubConfig{Publish: config.PublishConfig{Target: "wiki"}}}

		_, err := NewPublisherWithAuthenticator(context.Background(), cfg, authenticator)
		assert.ErrorContains(t, err, "invalid publish target")
	})
}

func TestNewPublisher_ValidatesConfig(t *testing.T) {
	_, err := NewPublisher(context.Background(), nil)
	assert.ErrorContains(t, err, "configuration is required")

	cfg := &config.Config{GitHub: config.GitHubConfig{
		Publish: config.PublishConfig{Target: config.PublishTargetIssue, Repository: "qiniu/qareport", IssueNumber: 7},
	}}
	_, err = NewPublisher(context.Background(), cfg)
	assert.ErrorContains(t, err, "GitHub authentication is required")

	cfg.GitHub.Publish.IssueNumber = 0
	_, err = NewPublisher(context.Background(), cfg)
	assert.ErrorContains(t, err, "invalid publish configuration")
}

// newFakeGitHub serves /user for the given token plus the issue comment and GraphQL endpoints
func newFakeGitHub(t *testing.T, token string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Bad credentials"}`)
			return
		}

		switch r.URL.Path {
		case "/user":
			json.NewEncoder(w).Encode(github.User{Login: github.String("qa-bot")})
		case "/repos/qiniu/qareport/issues/7/comments":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(github.IssueComment{
				ID:      github.Int64(99),
				HTMLURL: github.String("https://github.com/qiniu/qareport/issues/7#issuecomment-99"),
			})
		case "/graphql":
			io.WriteString(w, `{"data":{"addDiscussionComment":{"comment":{"id":"DC_1","url":"https://github.com/qiniu/qareport/discussions/3#discussioncomment-1"}}}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewPublisher_ValidatesAccess(t *testing.T) {
	server := newFakeGitHub(t, "ghp_good")

	tests := []struct {
		name     string
		publish  config.PublishConfig
		expected string
	}{
		{
			name:     "issue",
			publish:  config.PublishConfig{Target: config.PublishTargetIssue, Repository: "qiniu/qareport", IssueNumber: 7},
			expected: "https://github.com/qiniu/qareport/issues/7#issuecomment-99",
		},
		{
			name:     "discussion",
			publish:  config.PublishConfig{Target: config.PublishTargetDiscussion, DiscussionID: "D_kwDOA"},
			expected: "https://github.com/qiniu/qareport/discussions/3#discussioncomment-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{GitHub: config.GitHubConfig{
				Token:   "ghp_good",
				APIURL:  server.URL,
				Publish: tt.publish,
			}}

			publisher, err := NewPublisher(context.Background(), cfg)
			require.NoError(t, err)

			link, err := publisher.Publish(context.Background(), reportBody)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, link)
		})
	}
}

func TestNewPublisher_RejectsBadCredentials(t *testing.T) {
	server := newFakeGitHub(t, "ghp_good")

	cfg := &config.Config{GitHub: config.GitHubConfig{
		Token:   "ghp_revoked",
		APIURL:  server.URL,
		Publish: config.PublishConfig{Target: config.PublishTargetIssue, Repository: "qiniu/qareport", IssueNumber: 7},
	}}

	publisher, err := NewPublisher(context.Background(), cfg)
	assert.Nil(t, publisher)
	assert.ErrorContains(t, err, "failed to validate GitHub access")
}
