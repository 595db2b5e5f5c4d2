package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// GitHub 认证模式
const (
	AuthModeAuto  = "auto"
	AuthModeToken = "token"
	AuthModeApp   = "app"
)

// 发布目标
const (
	PublishTargetIssue      = "issue"
	PublishTargetDiscussion = "discussion"
)

const (
	DefaultConfigPath     = "qareport.yaml"
	DefaultWordWrap       = 100
	DefaultPublishTimeout = 30 * time.Second
)

type Config struct {
	Log    LogConfig    `yaml:"log"`
	Output OutputConfig `yaml:"output"`
	GitHub GitHubConfig `yaml:"github"`
}

type LogConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

type OutputConfig struct {
	Path     string `yaml:"path"`
	Render   bool   `yaml:"render"`
	WordWrap int    `yaml:"word_wrap"`
}

type GitHubConfig struct {
	Token    string          `yaml:"token"`
	AuthMode string          `yaml:"auth_mode"`
	APIURL   string          `yaml:"api_url"` // GitHub Enterprise REST 根地址，如 https://ghe.example.com/api/v3
	App      GitHubAppConfig `yaml:"app"`
	Publish  PublishConfig   `yaml:"publish"`
}

type GitHubAppConfig struct {
	AppID          int64  `yaml:"app_id"`
	InstallationID int64  `yaml:"installation_id"`
	PrivateKeyPath string `yaml:"private_key_path"`
	PrivateKeyEnv  string `yaml:"private_key_env"`
	PrivateKey     string `yaml:"private_key"`
}

type PublishConfig struct {
	Target       string        `yaml:"target"`
	Repository   string        `yaml:"repository"`
	IssueNumber  int           `yaml:"issue_number"`
	DiscussionID string        `yaml:"discussion_id"`
	Timeout      time.Duration `yaml:"timeout"`
}

func Load(configPath string) (*Config, error) {
	// 首先尝试从文件加载
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		var config Config
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		// 相对路径以配置文件所在目录为准，环境变量随后覆盖
		config.resolvePaths(configPath)
		config.loadFromEnv()
		config.SetDefaults()

		return &config, nil
	}

	// 如果文件不存在，从环境变量创建配置
	return loadFromEnv(), nil
}

// SetDefaults 为未设置的字段填充默认值
func (c *Config) SetDefaults() {
	if c.Log.Dir == "" {
		c.Log.Dir = "."
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Output.WordWrap == 0 {
		c.Output.WordWrap = DefaultWordWrap
	}
	if c.GitHub.AuthMode == "" {
		c.GitHub.AuthMode = AuthModeAuto
	}
	if c.GitHub.Publish.Target == "" {
		c.GitHub.Publish.Target = PublishTargetIssue
	}
	if c.GitHub.Publish.Timeout == 0 {
		c.GitHub.Publish.Timeout = DefaultPublishTimeout
	}
}

// resolvePaths 将配置文件中的相对路径解析为相对于配置文件所在目录
func (c *Config) resolvePaths(configPath string) {
	base := filepath.Dir(configPath)
	if absBase, err := filepath.Abs(base); err == nil {
		base = absBase
	}
	if c.Log.Dir != "" && !filepath.IsAbs(c.Log.Dir) {
		c.Log.Dir = filepath.Join(base, c.Log.Dir)
	}
	if c.Output.Path != "" && !filepath.IsAbs(c.Output.Path) {
		c.Output.Path = filepath.Join(base, c.Output.Path)
	}
}

func (c *Config) loadFromEnv() {
	if dir := os.Getenv("QAREPORT_DIR"); dir != "" {
		c.Log.Dir = dir
	}
	if level := os.Getenv("QAREPORT_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if output := os.Getenv("QAREPORT_OUTPUT"); output != "" {
		c.Output.Path = output
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.GitHub.Token = token
	}
	if apiURL := os.Getenv("GITHUB_API_URL"); apiURL != "" {
		c.GitHub.APIURL = apiURL
	}
	if mode := os.Getenv("GITHUB_AUTH_MODE"); mode != "" {
		c.GitHub.AuthMode = mode
	}
	if appIDStr := os.Getenv("GITHUB_APP_ID"); appIDStr != "" {
		if appID, err := strconv.ParseInt(appIDStr, 10, 64); err == nil {
			c.GitHub.App.AppID = appID
		}
	}
	if installationIDStr := os.Getenv("GITHUB_APP_INSTALLATION_ID"); installationIDStr != "" {
		if installationID, err := strconv.ParseInt(installationIDStr, 10, 64); err == nil {
			c.GitHub.App.InstallationID = installationID
		}
	}
	if path := os.Getenv("GITHUB_APP_PRIVATE_KEY_PATH"); path != "" {
		c.GitHub.App.PrivateKeyPath = path
	}
	if env := os.Getenv("GITHUB_APP_PRIVATE_KEY_ENV"); env != "" {
		c.GitHub.App.PrivateKeyEnv = env
	}
	if key := os.Getenv("GITHUB_APP_PRIVATE_KEY"); key != "" {
		c.GitHub.App.PrivateKey = key
	}
	if target := os.Getenv("QAREPORT_PUBLISH_TARGET"); target != "" {
		c.GitHub.Publish.Target = target
	}
	if repo := os.Getenv("QAREPORT_REPOSITORY"); repo != "" {
		c.GitHub.Publish.Repository = repo
	}
	if numberStr := os.Getenv("QAREPORT_ISSUE_NUMBER"); numberStr != "" {
		if number, err := strconv.Atoi(numberStr); err == nil {
			c.GitHub.Publish.IssueNumber = number
		}
	}
	if id := os.Getenv("QAREPORT_DISCUSSION_ID"); id != "" {
		c.GitHub.Publish.DiscussionID = id
	}
}

func loadFromEnv() *Config {
	config := &Config{}
	config.loadFromEnv()
	config.SetDefaults()
	return config
}

// Validate 校验与 GitHub 无关的基础配置
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Output.WordWrap < 0 {
		return fmt.Errorf("invalid word_wrap: %d", c.Output.WordWrap)
	}
	return nil
}

// ValidateGitHubConfig 校验 GitHub 认证配置，auto 模式下会确定实际使用的认证方式
func (c *Config) ValidateGitHubConfig() error {
	mode := c.GitHub.AuthMode
	if mode == "" || mode == AuthModeAuto {
		mode = c.GetGitHubAuthMode()
		if mode == AuthModeAuto {
			return fmt.Errorf("GitHub authentication is required: set a token or a GitHub App")
		}
	}

	switch mode {
	case AuthModeToken:
		if c.GitHub.Token == "" {
			return fmt.Errorf("GitHub token is required for token auth_mode")
		}
	case AuthModeApp:
		if c.GitHub.App.AppID == 0 {
			return fmt.Errorf("GitHub App ID is required for app auth_mode")
		}
		if !c.hasPrivateKeySource() {
			return fmt.Errorf("GitHub App private key source is required for app auth_mode")
		}
	default:
		return fmt.Errorf("invalid GitHub auth_mode: %s", c.GitHub.AuthMode)
	}

	c.GitHub.AuthMode = mode
	return nil
}

// ValidatePublishConfig 校验发布目标配置
func (c *Config) ValidatePublishConfig() error {
	switch c.GitHub.Publish.Target {
	case PublishTargetIssue:
		if _, _, err := c.RepositoryOwnerName(); err != nil {
			return err
		}
		if c.GitHub.Publish.IssueNumber <= 0 {
			return fmt.Errorf("issue_number is required for issue publish target")
		}
	case PublishTargetDiscussion:
		if c.GitHub.Publish.DiscussionID == "" {
			return fmt.Errorf("discussion_id is required for discussion publish target")
		}
	default:
		return fmt.Errorf("invalid publish target: %s", c.GitHub.Publish.Target)
	}

	if c.GetGitHubAuthMode() == AuthModeApp && c.GitHub.App.InstallationID == 0 {
		return fmt.Errorf("GitHub App installation_id is required to publish")
	}
	return nil
}

// RepositoryOwnerName 拆分 owner/name 形式的仓库名
func (c *Config) RepositoryOwnerName() (string, string, error) {
	parts := strings.Split(c.GitHub.Publish.Repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/name", c.GitHub.Publish.Repository)
	}
	return parts[0], parts[1], nil
}

// GraphQLURL 返回与 APIURL 对应的 GraphQL 地址，未设置 APIURL 时返回空串
func (c *Config) GraphQLURL() string {
	if c.GitHub.APIURL == "" {
		return ""
	}
	base := strings.TrimSuffix(c.GitHub.APIURL, "/")
	return strings.TrimSuffix(base, "/v3") + "/graphql"
}

// GetGitHubAuthMode 返回实际生效的认证模式，auto 时优先 GitHub App
func (c *Config) GetGitHubAuthMode() string {
	if c.GitHub.AuthMode != "" && c.GitHub.AuthMode != AuthModeAuto {
		return c.GitHub.AuthMode
	}
	if c.IsGitHubAppConfigured() {
		return AuthModeApp
	}
	if c.IsGitHubTokenConfigured() {
		return AuthModeToken
	}
	return AuthModeAuto
}

func (c *Config) IsGitHubAppConfigured() bool {
	return c.GitHub.App.AppID != 0 && c.hasPrivateKeySource()
}

func (c *Config) IsGitHubTokenConfigured() bool {
	return c.GitHub.Token != ""
}

func (c *Config) hasPrivateKeySource() bool {
	app := c.GitHub.App
	return app.PrivateKeyPath != "" || app.PrivateKeyEnv != "" || app.PrivateKey != ""
}
