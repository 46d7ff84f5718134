package cmd

import (
	"os"
	"strconv"

	"github.com/krrrr38/gitlab-issues-2-github/pkg/config"
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	var cfg config.GlobalConfig
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "gitlab-issues-2-github",
		Short: "Migrate GitLab tracker content (labels, milestones, issues, merge requests) to GitHub",
		Long: `Migrate GitLab tracker content to GitHub.
This tool performs a single-pass, one-directional copy of:
- Labels and milestones
- Issues with their comments
- Merge requests (as annotated issues) with their comments
Authorship is preserved as textual annotations via a configurable user map.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ./gitlab-issues-2-github.yaml)")
	rootCmd.PersistentFlags().StringVar(&cfg.GitLabToken, "gitlab-token", "", "GitLab API token (or set GITLAB_TOKEN env)")
	rootCmd.PersistentFlags().StringVar(&cfg.GitLabURL, "gitlab-url", "", "GitLab URL")
	rootCmd.PersistentFlags().StringVar(&cfg.GitLabProject, "gitlab-project", "", "GitLab project ID or path (namespace/project-name)")
	rootCmd.PersistentFlags().StringVar(&cfg.GitHubApiToken, "github-api-token", "", "GitHub API token (or set GITHUB_API_TOKEN env)")
	rootCmd.PersistentFlags().IntVar(&cfg.GitHubAppID, "github-app-id", 0, "GitHub APP ID (or set GITHUB_APP_ID env)")
	rootCmd.PersistentFlags().IntVar(&cfg.GitHubAppInstallationID, "github-app-installation-id", 0, "GitHub APP Installation ID (or set GITHUB_APP_INSTALLATION_ID env)")
	rootCmd.PersistentFlags().StringVar(&cfg.GitHubAppPrivateKey, "github-app-private-key", "", "GitHub APP private key (or set GITHUB_APP_PRIVATE_KEY env)")
	rootCmd.PersistentFlags().BoolVar(&cfg.GitHubAppPrivateKeyAsFile, "github-app-private-key-as-file", false, "GitHub APP private key as file")
	rootCmd.PersistentFlags().StringVar(&cfg.GitHubOwner, "github-owner", "", "GitHub owner (username or organization)")
	rootCmd.PersistentFlags().StringVar(&cfg.GitHubRepo, "github-repo", "", "GitHub repository name")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error, fatal)")

	// Use environment variables if flags are not provided
	if cfg.GitLabToken == "" {
		cfg.GitLabToken = os.Getenv("GITLAB_TOKEN")
	}
	if cfg.GitHubApiToken == "" {
		cfg.GitHubApiToken = os.Getenv("GITHUB_API_TOKEN")
	}
	if cfg.GitHubAppID == 0 {
		cfg.GitHubAppID, _ = strconv.Atoi(os.Getenv("GITHUB_APP_ID"))
	}
	if cfg.GitHubAppInstallationID == 0 {
		cfg.GitHubAppInstallationID, _ = strconv.Atoi(os.Getenv("GITHUB_APP_INSTALLATION_ID"))
	}
	if cfg.GitHubAppPrivateKey == "" {
		cfg.GitHubAppPrivateKey = os.Getenv("GITHUB_APP_PRIVATE_KEY")
	}

	// Add subcommands
	rootCmd.AddCommand(NewMigrateCommand(&cfg, &configPath))

	return rootCmd
}
