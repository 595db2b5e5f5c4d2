package auth

import (
	"fmt"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/qiniu/qareport/internal/config"
	"github.com/qiniu/x/log"
)

// AuthenticatorBuilder helps build authenticators from configuration
type AuthenticatorBuilder struct {
	config *config.Config
}

// NewAuthenticatorBuilder creates a new authenticator builder
func NewAuthenticatorBuilder(cfg *config.Config) *AuthenticatorBuilder {
	return &AuthenticatorBuilder{config: cfg}
}

// BuildAuthenticator builds an authenticator based on the configuration.
// GitHub App is preferred over PAT when both are configured.
func (b *AuthenticatorBuilder) BuildAuthenticator() (Authenticator, error) {
	if b.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	if err := b.config.ValidateGitHubConfig(); err != nil {
		return nil, fmt.Errorf("invalid GitHub configuration: %w", err)
	}

	if b.config.GitHub.AuthMode == config.AuthModeApp {
		appAuth, err := b.buildAppAuthenticator()
		if err == nil {
			return appAuth, nil
		}
		if !b.config.IsGitHubTokenConfigured() {
			return nil, err
		}
		log.Warnf("GitHub App configuration failed, falling back to token: %v", err)
	}

	return b.buildPATAuthenticator()
}

// buildPATAuthenticator builds a PAT authenticator
func (b *AuthenticatorBuilder) buildPATAuthenticator() (Authenticator, error) {
	if !b.config.IsGitHubTokenConfigured() {
		return nil, fmt.Errorf("GitHub token is not configured")
	}

	patAuth := NewPATAuthenticator(b.config.GitHub.Token)
	if b.config.GitHub.APIURL != "" {
		patAuth.SetBaseURL(b.config.GitHub.APIURL)
	}
	return patAuth, nil
}

// buildAppAuthenticator builds a GitHub App authenticator using ghinstallation
func (b *AuthenticatorBuilder) buildAppAuthenticator() (Authenticator, error) {
	appConfig := b.config.GitHub.App

	var transport *ghinstallation.AppsTransport
	var err error

	switch {
	case appConfig.PrivateKeyPath != "":
		transport, err = ghinstallation.NewAppsTransportKeyFromFile(http.DefaultTransport, appConfig.AppID, appConfig.PrivateKeyPath)
	case appConfig.PrivateKeyEnv != "":
		privateKeyData := os.Getenv(appConfig.PrivateKeyEnv)
		if privateKeyData == "" {
			return nil, fmt.Errorf("private key environment variable %s is empty", appConfig.PrivateKeyEnv)
		}
		transport, err = ghinstallation.NewAppsTransport(http.DefaultTransport, appConfig.AppID, []byte(privateKeyData))
	case appConfig.PrivateKey != "":
		transport, err = ghinstallation.NewAppsTransport(http.DefaultTransport, appConfig.AppID, []byte(appConfig.PrivateKey))
	default:
		return nil, fmt.Errorf("no private key source configured")
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App transport: %w", err)
	}

	appAuth := NewGitHubAppAuthenticator(transport, appConfig.AppID)
	if b.config.GitHub.APIURL != "" {
		appAuth.SetBaseURL(b.config.GitHub.APIURL)
	}
	return appAuth, nil
}
