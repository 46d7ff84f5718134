package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type GlobalConfig struct {
	GitLabToken               string
	GitLabURL                 string
	GitLabProject             string
	GitHubApiToken            string
	GitHubAppID               int
	GitHubAppInstallationID   int
	GitHubAppPrivateKey       string
	GitHubAppPrivateKeyAsFile bool
	GitHubOwner               string
	GitHubRepo                string
	LogLevel                  string

	// Only settable through the config file.
	UserMap       map[string]string
	DefaultAuthor string
}

type MigrateConfig struct {
	DryRun              bool
	ContinueFromIssueID int // 指定したIssue IIDから処理を再開
	SkipMergeRequests   bool
	MaxComments         int // 1つのIssue/MRに対するコメントの移行数の上限（未指定の場合はすべて）
}

// fileConfig mirrors the yaml layout of gitlab-issues-2-github.yaml.
type fileConfig struct {
	Source struct {
		URL     string `mapstructure:"url"`
		Token   string `mapstructure:"token"`
		Project string `mapstructure:"project"`
	} `mapstructure:"source"`
	Destination struct {
		Owner             string `mapstructure:"owner"`
		Repo              string `mapstructure:"repo"`
		Token             string `mapstructure:"token"`
		AppID             int    `mapstructure:"app_id"`
		AppInstallationID int    `mapstructure:"app_installation_id"`
		AppPrivateKey     string `mapstructure:"app_private_key"`
	} `mapstructure:"destination"`
	UserMap       map[string]string `mapstructure:"user_map"`
	DefaultAuthor string            `mapstructure:"default_author"`
	LogLevel      string            `mapstructure:"log_level"`
}

// LoadFile reads the config file into cfg. Fields already set from flags or
// environment variables are kept as-is; the file only fills the gaps. A missing
// file is fine unless an explicit path was given.
func LoadFile(path string, cfg *GlobalConfig) error {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gitlab-issues-2-github")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound && path == "" {
			// config file is optional when everything comes from flags
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return fmt.Errorf("failed to unmarshal config file: %w", err)
	}

	if cfg.GitLabURL == "" {
		cfg.GitLabURL = fc.Source.URL
	}
	if cfg.GitLabToken == "" {
		cfg.GitLabToken = fc.Source.Token
	}
	if cfg.GitLabProject == "" {
		cfg.GitLabProject = fc.Source.Project
	}
	if cfg.GitHubOwner == "" {
		cfg.GitHubOwner = fc.Destination.Owner
	}
	if cfg.GitHubRepo == "" {
		cfg.GitHubRepo = fc.Destination.Repo
	}
	if cfg.GitHubApiToken == "" {
		cfg.GitHubApiToken = fc.Destination.Token
	}
	if cfg.GitHubAppID == 0 {
		cfg.GitHubAppID = fc.Destination.AppID
	}
	if cfg.GitHubAppInstallationID == 0 {
		cfg.GitHubAppInstallationID = fc.Destination.AppInstallationID
	}
	if cfg.GitHubAppPrivateKey == "" {
		cfg.GitHubAppPrivateKey = fc.Destination.AppPrivateKey
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = fc.LogLevel
	}

	cfg.UserMap = fc.UserMap
	cfg.DefaultAuthor = fc.DefaultAuthor
	if cfg.DefaultAuthor == "" {
		cfg.DefaultAuthor = "migration-bot"
	}
	if cfg.GitLabURL == "" {
		cfg.GitLabURL = "https://gitlab.com"
	}
	return nil
}

// Validate checks that everything required before any API call is present.
func (cfg *GlobalConfig) Validate() error {
	if cfg.GitLabToken == "" {
		return fmt.Errorf("GitLab token is required (flag, GITLAB_TOKEN env, or source.token)")
	}
	if cfg.GitLabProject == "" {
		return fmt.Errorf("GitLab project is required (flag or source.project)")
	}
	if cfg.GitHubOwner == "" || cfg.GitHubRepo == "" {
		return fmt.Errorf("GitHub owner and repo are required (flags or destination.owner/destination.repo)")
	}
	hasPAT := cfg.GitHubApiToken != ""
	hasApp := cfg.GitHubAppID > 0 && cfg.GitHubAppInstallationID > 0 && cfg.GitHubAppPrivateKey != ""
	if !hasPAT && !hasApp {
		return fmt.Errorf("GitHub token or GitHub App settings are required")
	}
	return nil
}
