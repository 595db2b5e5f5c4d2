package auth

import (
	"context"
	"net/http"

	"github.com/google/go-github/v58/github"
)

// AuthType represents the type of authentication being used
type AuthType string

const (
	AuthTypePAT AuthType = "pat" // Personal Access Token
	AuthTypeApp AuthType = "app" // GitHub App
)

// AuthInfo contains information about the current authentication
type AuthInfo struct {
	Type  AuthType `json:"type"`
	User  string   `json:"user"`             // PAT user or App name
	AppID int64    `json:"app_id,omitempty"` // GitHub App ID (only for App auth)
}

// Authenticator defines the interface for GitHub authentication
type Authenticator interface {
	// GetClient returns a REST client authenticated with the configured method
	GetClient(ctx context.Context) (*github.Client, error)

	// GetInstallationClient returns a REST client for a specific installation.
	// PAT authenticators ignore installationID.
	GetInstallationClient(ctx context.Context, installationID int64) (*github.Client, error)

	// HTTPClient returns an authenticated HTTP client, used by the GraphQL API
	HTTPClient(ctx context.Context, installationID int64) (*http.Client, error)

	// GetAuthInfo returns information about the current authentication
	GetAuthInfo() AuthInfo

	// IsConfigured returns whether the authenticator is properly configured
	IsConfigured() bool

	// ValidateAccess validates that the authenticator can access GitHub
	ValidateAccess(ctx context.Context) error
}
