package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v58/github"
)

// GitHubAppAuthenticator implements Authenticator using GitHub App
type GitHubAppAuthenticator struct {
	transport *ghinstallation.AppsTransport
	appID     int64
	baseURL   string
	appInfo   *AppInfo // Cached app information
}

// AppInfo contains cached GitHub App information
type AppInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// NewGitHubAppAuthenticator creates a new GitHub App authenticator
func NewGitHubAppAuthenticator(transport *ghinstallation.AppsTransport, appID int64) *GitHubAppAuthenticator {
	return &GitHubAppAuthenticator{
		transport: transport,
		appID:     appID,
	}
}

// GetClient returns a GitHub client authenticated with the App JWT.
// This client can only access app-level APIs, not installation-specific resources.
func (g *GitHubAppAuthenticator) GetClient(ctx context.Context) (*github.Client, error) {
	if g.transport == nil {
		return nil, fmt.Errorf("GitHub App transport is not configured")
	}
	return newClient(&http.Client{Transport: g.transport}, g.baseURL)
}

// HTTPClient returns an HTTP client authenticated as the given installation
func (g *GitHubAppAuthenticator) HTTPClient(ctx context.Context, installationID int64) (*http.Client, error) {
	if g.transport == nil {
		return nil, fmt.Errorf("GitHub App transport is not configured")
	}
	if installationID <= 0 {
		return nil, fmt.Errorf("invalid installation ID: %d", installationID)
	}

	itr := ghinstallation.NewFromAppsTransport(g.transport, installationID)
	if g.baseURL != "" {
		itr.BaseURL = strings.TrimSuffix(g.baseURL, "/")
	}
	return &http.Client{Transport: itr}, nil
}

// GetInstallationClient returns a GitHub client for a specific installation
func (g *GitHubAppAuthenticator) GetInstallationClient(ctx context.Context, installationID int64) (*github.Client, error) {
	httpClient, err := g.HTTPClient(ctx, installationID)
	if err != nil {
		return nil, err
	}
	return newClient(httpClient, g.baseURL)
}

// GetAuthInfo returns authentication information
func (g *GitHubAppAuthenticator) GetAuthInfo() AuthInfo {
	authInfo := AuthInfo{
		Type:  AuthTypeApp,
		AppID: g.appID,
	}

	if g.appInfo != nil {
		authInfo.User = g.appInfo.Name
		if g.appInfo.Owner != "" {
			authInfo.User = fmt.Sprintf("%s/%s", g.appInfo.Owner, g.appInfo.Name)
		}
	}
	return authInfo
}

// IsConfigured returns whether the GitHub App authenticator is properly configured
func (g *GitHubAppAuthenticator) IsConfigured() bool {
	return g.transport != nil && g.appID > 0
}

// ValidateAccess validates that the GitHub App can access GitHub
func (g *GitHubAppAuthenticator) ValidateAccess(ctx context.Context) error {
	client, err := g.GetClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create GitHub App client: %w", err)
	}

	app, _, err := client.Apps.Get(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to validate GitHub App access: %w", err)
	}

	g.appInfo = &AppInfo{
		ID:    app.GetID(),
		Name:  app.GetName(),
		Owner: app.GetOwner().GetLogin(),
	}
	return nil
}

// SetBaseURL points clients and token exchange at another API root, such as GitHub Enterprise
func (g *GitHubAppAuthenticator) SetBaseURL(baseURL string) {
	g.baseURL = baseURL
	if g.transport != nil {
		g.transport.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
}
