package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/krrrr38/gitlab-issues-2-github/pkg/config"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/github"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/logger"
	gitlablib "github.com/xanzy/go-gitlab"
)

// Source is the read-only view of the platform content is migrated from.
type Source interface {
	GetProject(ctx context.Context) (*gitlablib.Project, error)
	ListLabels(ctx context.Context) ([]*gitlablib.Label, error)
	ListMilestones(ctx context.Context) ([]*gitlablib.Milestone, error)
	ListIssues(ctx context.Context) ([]*gitlablib.Issue, error)
	ListMergeRequests(ctx context.Context) ([]*gitlablib.MergeRequest, error)
	ListIssueNotes(ctx context.Context, issueIID int) ([]*gitlablib.Note, error)
	ListMergeRequestNotes(ctx context.Context, mrIID int) ([]*gitlablib.Note, error)
}

// Destination is the write surface of the platform content is migrated to.
type Destination interface {
	CheckAuth(ctx context.Context) error
	ListLabelNames(ctx context.Context) ([]string, error)
	ListMilestones(ctx context.Context) (map[string]int, error)
	CreateLabel(ctx context.Context, name, color, description string) error
	CreateMilestone(ctx context.Context, title, description, state string, dueOn *time.Time) (int, error)
	CreateIssue(ctx context.Context, req *github.IssueRequest) (int, error)
	CreateComment(ctx context.Context, issueNumber int, body string) error
	AddLabels(ctx context.Context, issueNumber int, labels []string) error
	CloseIssue(ctx context.Context, issueNumber int) error
}

// Migration carries the collaborators and run state shared by all stages.
type Migration struct {
	Source   Source
	Dest     Destination
	State    *State
	Users    *UserMap
	Rewriter *Rewriter
	Report   *Report
	Opts     config.MigrateConfig
}

// Stage is one step of the pipeline. The migration order encodes a real
// dependency: labels and milestones must exist before issues attach to them,
// and issues must exist before merge request text referencing them is
// rewritten.
type Stage struct {
	Name string
	Run  func(ctx context.Context, m *Migration) error
}

// Stages returns the pipeline in dependency order.
func Stages(skipMergeRequests bool) []Stage {
	stages := []Stage{
		{Name: "labels", Run: migrateLabels},
		{Name: "milestones", Run: migrateMilestones},
		{Name: "issues", Run: migrateIssues},
	}
	if !skipMergeRequests {
		stages = append(stages, Stage{Name: "merge_requests", Run: migrateMergeRequests})
	}
	return stages
}

// Run executes the preflight checks and then every stage in order. Preflight
// failures abort before anything is written; stage-internal entity failures
// are recorded in the report and do not halt the run, but a failure to list a
// whole source collection does, since continuing would silently drop content.
func (m *Migration) Run(ctx context.Context) error {
	project, err := m.Source.GetProject(ctx)
	if err != nil {
		return fmt.Errorf("source platform unreachable: %w", err)
	}
	logger.Info("Source project found", "project", project.PathWithNamespace)

	if err := m.Dest.CheckAuth(ctx); err != nil {
		return fmt.Errorf("destination platform unreachable: %w", err)
	}

	for _, stage := range Stages(m.Opts.SkipMergeRequests) {
		logger.Info("Stage started", "stage", stage.Name)
		if err := stage.Run(ctx, m); err != nil {
			return fmt.Errorf("stage %s failed: %w", stage.Name, err)
		}
		logger.Info("Stage completed", "stage", stage.Name)
	}
	return nil
}
