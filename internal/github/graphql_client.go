package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shurcooL/githubv4"

	"github.com/qiniu/x/log"
)

// GraphQLClient wraps the GitHub GraphQL API client
type GraphQLClient struct {
	client *githubv4.Client
}

// NewGraphQLClientWithHTTPClient creates a new GraphQL client with custom HTTP client
func NewGraphQLClientWithHTTPClient(httpClient *http.Client) *GraphQLClient {
	return &GraphQLClient{
		client: githubv4.NewClient(httpClient),
	}
}

// NewEnterpriseGraphQLClient creates a GraphQL client against a custom endpoint
func NewEnterpriseGraphQLClient(url string, httpClient *http.Client) *GraphQLClient {
	return &GraphQLClient{
		client: githubv4.NewEnterpriseClient(url, httpClient),
	}
}

// addDiscussionCommentMutation is the addDiscussionComment mutation payload
type addDiscussionCommentMutation struct {
	AddDiscussionComment struct {
		Comment struct {
			ID  githubv4.ID
			URL string `graphql:"url"`
		}
	} `graphql:"addDiscussionComment(input: $input)"`
}

// AddDiscussionComment posts body to the discussion identified by its node ID
func (gc *GraphQLClient) AddDiscussionComment(ctx context.Context, discussionID, body string) (string, error) {
	var mutation addDiscussionCommentMutation
	input := githubv4.AddDiscussionCommentInput{
		DiscussionID: githubv4.ID(discussionID),
		Body:         githubv4.String(body),
	}

	if err := gc.client.Mutate(ctx, &mutation, input, nil); err != nil {
		return "", fmt.Errorf("failed to add comment to discussion %s: %w", discussionID, err)
	}
	return mutation.AddDiscussionComment.Comment.URL, nil
}

// DiscussionPublisher 以 Discussion 评论的形式发布报告
type DiscussionPublisher struct {
	client       *GraphQLClient
	discussionID string
}

// NewDiscussionPublisher 创建 Discussion 评论发布器
func NewDiscussionPublisher(client *GraphQLClient, discussionID string) *DiscussionPublisher {
	return &DiscussionPublisher{
		client:       client,
		discussionID: discussionID,
	}
}

// Target 返回发布目标描述
func (p *DiscussionPublisher) Target() string {
	return "discussion " + p.discussionID
}

// Publish 在 Discussion 上创建评论
func (p *DiscussionPublisher) Publish(ctx context.Context, body string) (string, error) {
	log.Infof("Creating report comment on %s", p.Target())

	url, err := p.client.AddDiscussionComment(ctx, p.discussionID, body)
	if err != nil {
		return "", err
	}

	log.Infof("Created discussion comment: %s", url)
	return url, nil
}
