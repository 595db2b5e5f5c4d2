package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v58/github"
	"github.com/qiniu/x/log"
)

// lowRateLimit 剩余请求数低于该值时输出告警
const lowRateLimit = 100

// Publisher 将报告发布到 GitHub，返回发布内容的链接
type Publisher interface {
	Publish(ctx context.Context, body string) (string, error)
	Target() string
}

// IssuePublisher 以 Issue 评论的形式发布报告
type IssuePublisher struct {
	client      *github.Client
	owner       string
	repo        string
	issueNumber int
}

// NewIssuePublisher 创建 Issue 评论发布器
func NewIssuePublisher(client *github.Client, owner, repo string, issueNumber int) *IssuePublisher {
	return &IssuePublisher{
		client:      client,
		owner:       owner,
		repo:        repo,
		issueNumber: issueNumber,
	}
}

// Target 返回发布目标描述
func (p *IssuePublisher) Target() string {
	return fmt.Sprintf("%s/%s#%d", p.owner, p.repo, p.issueNumber)
}

// Publish 在 Issue 上创建评论
func (p *IssuePublisher) Publish(ctx context.Context, body string) (string, error) {
	log.Infof("Creating report comment on %s", p.Target())

	comment, resp, err := p.client.Issues.CreateComment(ctx, p.owner, p.repo, p.issueNumber, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create issue comment on %s: %w", p.Target(), err)
	}

	if resp != nil && resp.Rate.Limit > 0 && resp.Rate.Remaining < lowRateLimit {
		log.Warnf("GitHub REST rate limit low: %d/%d remaining, resets at %s",
			resp.Rate.Remaining, resp.Rate.Limit, resp.Rate.Reset.Time.Format("15:04:05"))
	}

	log.Infof("Created comment %d on %s", comment.GetID(), p.Target())
	return comment.GetHTMLURL(), nil
}
