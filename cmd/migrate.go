package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/krrrr38/gitlab-issues-2-github/pkg/config"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/github"
	gitlabReader "github.com/krrrr38/gitlab-issues-2-github/pkg/gitlab"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/logger"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/migration"
	"github.com/spf13/cobra"
	"github.com/xanzy/go-gitlab"
)

func NewMigrateCommand(cfg *config.GlobalConfig, configPath *string) *cobra.Command {
	var migrateConfig config.MigrateConfig
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate a GitLab project's tracker content to a GitHub repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadFile(*configPath, cfg); err != nil {
				return err
			}
			if cfg.LogLevel != "" {
				logger.SetLevel(cfg.LogLevel)
			}
			if cfg.GitHubAppPrivateKeyAsFile {
				privateKey, err := os.ReadFile(cfg.GitHubAppPrivateKey)
				if err != nil {
					return fmt.Errorf("could not read private key %s: %w", cfg.GitHubAppPrivateKey, err)
				}
				cfg.GitHubAppPrivateKey = string(privateKey)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runMigration(*cfg, migrateConfig)
		},
	}

	// Migrate command specific flags
	cmd.Flags().BoolVar(&migrateConfig.DryRun, "dry-run", false, "Walk the pipeline without writing to GitHub")
	cmd.Flags().IntVar(&migrateConfig.ContinueFromIssueID, "continue-from", 0, "Continue migration from the specified issue IID")
	cmd.Flags().BoolVar(&migrateConfig.SkipMergeRequests, "skip-merge-requests", false, "Migrate labels, milestones and issues only")
	cmd.Flags().IntVar(&migrateConfig.MaxComments, "max-comments", 0, "Max migrated comment count per issue or merge request")

	return cmd
}

func runMigration(cfg config.GlobalConfig, migrateConfig config.MigrateConfig) error {
	// Initialize GitLab client
	gitlabClient, err := gitlab.NewClient(cfg.GitLabToken, gitlab.WithBaseURL(cfg.GitLabURL))
	if err != nil {
		return fmt.Errorf("failed to create GitLab client: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// シグナルハンドリングのセットアップ（CTRL+Cなどの割り込みを処理）
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		logger.Info("Received interrupt signal, shutting down...")
		// コンテキストをキャンセルして実行中の処理に停止を通知
		cancel()
	}()

	var dest migration.Destination
	if migrateConfig.DryRun {
		logger.Info("Dry-run mode: nothing will be written to GitHub")
		dest = migration.NewDryRunDestination()
	} else {
		var githubClient *github.Client
		if cfg.GitHubApiToken != "" {
			githubClient = github.NewClientByPAT(cfg.GitHubApiToken)
		} else {
			githubClient = github.NewClientByApp(cfg.GitHubAppID, cfg.GitHubAppInstallationID, cfg.GitHubAppPrivateKey)
		}
		dest = github.NewRepoWriter(githubClient, cfg.GitHubOwner, cfg.GitHubRepo)
	}

	state := migration.NewState()
	users := migration.NewUserMap(cfg.UserMap, cfg.DefaultAuthor)
	report := migration.NewReport()
	m := &migration.Migration{
		Source:   gitlabReader.NewProjectReader(gitlabClient, cfg.GitLabProject),
		Dest:     dest,
		State:    state,
		Users:    users,
		Rewriter: migration.NewRewriter(state, users),
		Report:   report,
		Opts:     migrateConfig,
	}

	logger.Info("Migration started...")
	if err := m.Run(ctx); err != nil {
		return err
	}

	fmt.Print(report.Render(users.Fallbacks()))
	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("migration finished with %d failed entities", failed)
	}
	logger.Info("Migration completed successfully!")
	return nil
}
