package migration

import (
	"context"
	"sync"
	"time"

	"github.com/krrrr38/gitlab-issues-2-github/pkg/github"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/logger"
)

// DryRunDestination walks the whole pipeline without writing anything,
// handing out synthetic destination numbers so reference rewriting behaves
// exactly as it would on a real run against an empty repository.
type DryRunDestination struct {
	mu         sync.Mutex
	issues     int
	milestones int
}

func NewDryRunDestination() *DryRunDestination {
	return &DryRunDestination{}
}

func (d *DryRunDestination) CheckAuth(ctx context.Context) error {
	return nil
}

func (d *DryRunDestination) ListLabelNames(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (d *DryRunDestination) ListMilestones(ctx context.Context) (map[string]int, error) {
	return map[string]int{}, nil
}

func (d *DryRunDestination) CreateLabel(ctx context.Context, name, color, description string) error {
	logger.Info("[dry-run] would create label", "name", name, "color", color)
	return nil
}

func (d *DryRunDestination) CreateMilestone(ctx context.Context, title, description, state string, dueOn *time.Time) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.milestones++
	logger.Info("[dry-run] would create milestone", "title", title, "state", state, "number", d.milestones)
	return d.milestones, nil
}

func (d *DryRunDestination) CreateIssue(ctx context.Context, req *github.IssueRequest) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.issues++
	logger.Info("[dry-run] would create issue", "title", req.Title, "labels", req.Labels, "number", d.issues)
	return d.issues, nil
}

func (d *DryRunDestination) CreateComment(ctx context.Context, issueNumber int, body string) error {
	logger.Info("[dry-run] would create comment", "issueNumber", issueNumber)
	return nil
}

func (d *DryRunDestination) AddLabels(ctx context.Context, issueNumber int, labels []string) error {
	logger.Info("[dry-run] would add labels", "issueNumber", issueNumber, "labels", labels)
	return nil
}

func (d *DryRunDestination) CloseIssue(ctx context.Context, issueNumber int) error {
	logger.Info("[dry-run] would close issue", "issueNumber", issueNumber)
	return nil
}
