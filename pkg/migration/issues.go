package migration

import (
	"context"
	"fmt"
	"sort"

	"github.com/krrrr38/gitlab-issues-2-github/pkg/github"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/logger"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/utils"
	gitlablib "github.com/xanzy/go-gitlab"
)

// migrateIssues copies all source issues to the destination in ascending IID
// order, so destination numbering follows the source numbering intent. Runs
// strictly after labels and milestones: issues attach to both. Comments are
// replayed right after each issue so a partially failed run still leaves
// complete issues behind.
func migrateIssues(ctx context.Context, m *Migration) error {
	issues, err := m.Source.ListIssues(ctx)
	if err != nil {
		return fmt.Errorf("failed to list source issues: %w", err)
	}
	sort.Slice(issues, func(i, j int) bool {
		return issues[i].IID < issues[j].IID
	})

	for _, issue := range issues {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if m.Opts.ContinueFromIssueID > 0 && issue.IID < m.Opts.ContinueFromIssueID {
			logger.Debug("Skipping issue (before continue-from point)", "iid", issue.IID, "title", issue.Title)
			continue
		}

		sourceRef := fmt.Sprintf("issue #%d", issue.IID)
		logger.Info("Migrating issue", "iid", issue.IID, "title", issue.Title)

		author := ""
		if issue.Author != nil {
			author = issue.Author.Username
		}
		createdAt := ""
		if issue.CreatedAt != nil {
			createdAt = issue.CreatedAt.Format("2006-01-02 15:04:05 MST")
		}

		description, warnings := m.Rewriter.Rewrite(issue.Description)
		for _, warning := range warnings {
			m.Report.Add(Result{Stage: "issues", SourceRef: sourceRef, Status: StatusWarning, Reason: warning})
		}

		meta := fmt.Sprintf("**Original issue:** %s\n**Created:** %s\n**State:** %s\n",
			issue.WebURL, createdAt, issue.State)
		header := utils.WrapDetails(utils.AttributionLine(m.Users.Resolve(author), ""), meta)
		// Leave room for the header within the body limit
		body := header + "\n\n" + utils.TruncateText(description, utils.MaxIssueBodyLength-300)

		req := &github.IssueRequest{
			// 移行済みマーカーとして "GL#<iid> " を付与
			Title:  fmt.Sprintf("GL#%d %s", issue.IID, issue.Title),
			Body:   body,
			Labels: issue.Labels,
		}
		if issue.Milestone != nil {
			if number, ok := m.State.MilestoneNumber(issue.Milestone.Title); ok {
				req.Milestone = &number
			} else {
				m.Report.Add(Result{Stage: "issues", SourceRef: sourceRef, Status: StatusWarning,
					Reason: fmt.Sprintf("milestone %q not found on destination", issue.Milestone.Title)})
			}
		}

		number, err := m.Dest.CreateIssue(ctx, req)
		if err != nil {
			logger.Warn("Failed to migrate issue", "iid", issue.IID, "error", err)
			m.Report.Add(Result{Stage: "issues", SourceRef: sourceRef, Status: StatusFailed, Reason: err.Error()})
			continue
		}
		m.State.Record(EntityIssue, issue.IID, number)
		m.Report.Add(Result{Stage: "issues", SourceRef: sourceRef, Status: StatusCreated, DestNumber: number})
		logger.Info("Migrated issue", "iid", issue.IID, "number", number)

		migrateComments(ctx, m, sourceRef, number, func(ctx context.Context) ([]*gitlablib.Note, error) {
			return m.Source.ListIssueNotes(ctx, issue.IID)
		})

		// Close after comment replay so the history lands on an open issue
		if issue.State == "closed" {
			if err := m.Dest.CloseIssue(ctx, number); err != nil {
				logger.Warn("Failed to close issue", "number", number, "error", err)
				m.Report.Add(Result{Stage: "issues", SourceRef: sourceRef, Status: StatusWarning,
					Reason: fmt.Sprintf("created but could not close: %v", err)})
			}
		}
	}
	return nil
}
