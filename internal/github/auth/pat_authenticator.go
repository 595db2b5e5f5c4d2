package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v58/github"
	"golang.org/x/oauth2"
)

// PATAuthenticator implements Authenticator using Personal Access Token
type PATAuthenticator struct {
	token    string
	baseURL  string
	userInfo *github.User // Cached user information
}

// NewPATAuthenticator creates a new PAT authenticator
func NewPATAuthenticator(token string) *PATAuthenticator {
	return &PATAuthenticator{
		token: token,
	}
}

// HTTPClient returns an HTTP client carrying the token
func (p *PATAuthenticator) HTTPClient(ctx context.Context, installationID int64) (*http.Client, error) {
	if p.token == "" {
		return nil, fmt.Errorf("GitHub token is not configured")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: p.token})
	return oauth2.NewClient(ctx, ts), nil
}

// GetClient returns a GitHub client authenticated with PAT
func (p *PATAuthenticator) GetClient(ctx context.Context) (*github.Client, error) {
	httpClient, err := p.HTTPClient(ctx, 0)
	if err != nil {
		return nil, err
	}
	return newClient(httpClient, p.baseURL)
}

// GetInstallationClient returns the same client as GetClient for PAT auth
func (p *PATAuthenticator) GetInstallationClient(ctx context.Context, installationID int64) (*github.Client, error) {
	return p.GetClient(ctx)
}

// GetAuthInfo returns authentication information
func (p *PATAuthenticator) GetAuthInfo() AuthInfo {
	authInfo := AuthInfo{
		Type: AuthTypePAT,
	}
	if p.userInfo != nil {
		authInfo.User = p.userInfo.GetLogin()
	}
	return authInfo
}

// IsConfigured returns whether the PAT authenticator is properly configured
func (p *PATAuthenticator) IsConfigured() bool {
	return p.token != ""
}

// ValidateAccess validates that the PAT can access GitHub
func (p *PATAuthenticator) ValidateAccess(ctx context.Context) error {
	client, err := p.GetClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to validate GitHub access: %w", err)
	}

	p.userInfo = user
	return nil
}

// SetBaseURL points REST clients at another API root, such as GitHub Enterprise
func (p *PATAuthenticator) SetBaseURL(baseURL string) {
	p.baseURL = baseURL
}

// newClient creates a REST client, overriding the API root when baseURL is set
func newClient(httpClient *http.Client, baseURL string) (*github.Client, error) {
	client := github.NewClient(httpClient)
	if baseURL == "" {
		return client, nil
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub base URL %s: %w", baseURL, err)
	}
	client.BaseURL = u
	return client, nil
}
