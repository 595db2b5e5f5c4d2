package github

import (
	"context"
	"fmt"

	"github.com/qiniu/qareport/internal/config"
	"github.com/qiniu/qareport/internal/github/auth"
	"github.com/qiniu/x/log"
)

// NewPublisher builds the publisher selected by the publish configuration
func NewPublisher(ctx context.Context, cfg *config.Config) (Publisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	if err := cfg.ValidatePublishConfig(); err != nil {
		return nil, fmt.Errorf("invalid publish configuration: %w", err)
	}

	authenticator, err := auth.NewAuthenticatorBuilder(cfg).BuildAuthenticator()
	if err != nil {
		return nil, fmt.Errorf("failed to build authenticator: %w", err)
	}
	if !authenticator.IsConfigured() {
		return nil, fmt.Errorf("GitHub authenticator is not configured")
	}

	// 在输出报告前确认凭据可用
	timeout := cfg.GitHub.Publish.Timeout
	if timeout <= 0 {
		timeout = config.DefaultPublishTimeout
	}
	validateCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := authenticator.ValidateAccess(validateCtx); err != nil {
		return nil, err
	}

	info := authenticator.GetAuthInfo()
	log.Infof("Authenticated to GitHub as %s (%s)", info.User, info.Type)

	return NewPublisherWithAuthenticator(ctx, cfg, authenticator)
}

// NewPublisherWithAuthenticator builds the configured publisher on top of authenticator
func NewPublisherWithAuthenticator(ctx context.Context, cfg *config.Config, authenticator auth.Authenticator) (Publisher, error) {
	publish := cfg.GitHub.Publish
	installationID := cfg.GitHub.App.InstallationID

	switch publish.Target {
	case config.PublishTargetIssue:
		owner, repo, err := cfg.RepositoryOwnerName()
		if err != nil {
			return nil, err
		}
		client, err := authenticator.GetInstallationClient(ctx, installationID)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub client: %w", err)
		}
		return NewIssuePublisher(client, owner, repo, publish.IssueNumber), nil

	case config.PublishTargetDiscussion:
		httpClient, err := authenticator.HTTPClient(ctx, installationID)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub HTTP client: %w", err)
		}
		graphqlClient := NewGraphQLClientWithHTTPClient(httpClient)
		if graphqlURL := cfg.GraphQLURL(); graphqlURL != "" {
			graphqlClient = NewEnterpriseGraphQLClient(graphqlURL, httpClient)
		}
		return NewDiscussionPublisher(graphqlClient, publish.DiscussionID), nil
	}

	return nil, fmt.Errorf("invalid publish target: %s", publish.Target)
}
