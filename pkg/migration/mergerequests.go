package migration

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/krrrr38/gitlab-issues-2-github/pkg/github"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/logger"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/utils"
	gitlablib "github.com/xanzy/go-gitlab"
)

// mergeRequestLabel marks every migrated merge request on the destination.
const mergeRequestLabel = "merge-request"

// migrateMergeRequests copies all source merge requests to the destination as
// issues annotated as historical merge requests. No branches or diffs are
// carried over; only metadata and discussion survive. Runs strictly after the
// issue stage so merge request text referencing issues resolves against a
// populated identifier map.
func migrateMergeRequests(ctx context.Context, m *Migration) error {
	// The marker label has to exist before the first merge request attaches it
	if err := m.Dest.CreateLabel(ctx, mergeRequestLabel, "ededed", "Migrated GitLab merge request"); err != nil {
		var dup *github.DuplicateError
		if !errors.As(err, &dup) {
			return fmt.Errorf("failed to ensure %s label: %w", mergeRequestLabel, err)
		}
	}

	mrs, err := m.Source.ListMergeRequests(ctx)
	if err != nil {
		return fmt.Errorf("failed to list source merge requests: %w", err)
	}
	sort.Slice(mrs, func(i, j int) bool {
		return mrs[i].IID < mrs[j].IID
	})

	for _, mr := range mrs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sourceRef := fmt.Sprintf("merge request !%d", mr.IID)
		logger.Info("Migrating merge request", "iid", mr.IID, "title", mr.Title)

		number, err := createMergeRequestIssue(ctx, m, mr)
		if err != nil {
			logger.Warn("Failed to migrate merge request", "iid", mr.IID, "error", err)
			m.Report.Add(Result{Stage: "merge_requests", SourceRef: sourceRef, Status: StatusFailed, Reason: err.Error()})
			continue
		}
		m.State.Record(EntityMergeRequest, mr.IID, number)
		m.Report.Add(Result{Stage: "merge_requests", SourceRef: sourceRef, Status: StatusCreated, DestNumber: number})
		logger.Info("Migrated merge request", "iid", mr.IID, "number", number)

		migrateComments(ctx, m, sourceRef, number, func(ctx context.Context) ([]*gitlablib.Note, error) {
			return m.Source.ListMergeRequestNotes(ctx, mr.IID)
		})

		if mr.State == "merged" || mr.State == "closed" {
			if err := m.Dest.AddLabels(ctx, number, []string{mr.State}); err != nil {
				logger.Warn("Failed to add state label", "number", number, "error", err)
			}
			if err := m.Dest.CloseIssue(ctx, number); err != nil {
				logger.Warn("Failed to close merge request issue", "number", number, "error", err)
				m.Report.Add(Result{Stage: "merge_requests", SourceRef: sourceRef, Status: StatusWarning,
					Reason: fmt.Sprintf("created but could not close: %v", err)})
			}
		}
	}
	return nil
}

// createMergeRequestIssue builds the destination issue for one merge request
func createMergeRequestIssue(ctx context.Context, m *Migration, mr *gitlablib.MergeRequest) (int, error) {
	author := ""
	if mr.Author != nil {
		author = mr.Author.Username
	}
	createdAt := ""
	if mr.CreatedAt != nil {
		createdAt = mr.CreatedAt.Format("2006-01-02 15:04:05 MST")
	}

	description, warnings := m.Rewriter.Rewrite(mr.Description)
	sourceRef := fmt.Sprintf("merge request !%d", mr.IID)
	for _, warning := range warnings {
		m.Report.Add(Result{Stage: "merge_requests", SourceRef: sourceRef, Status: StatusWarning, Reason: warning})
	}

	meta := fmt.Sprintf("**Original merge request:** %s\n**Created:** %s\n**State:** %s\n**Branches:** `%s` into `%s`\n",
		mr.WebURL, createdAt, mr.State, mr.SourceBranch, mr.TargetBranch)
	header := utils.WrapDetails(utils.AttributionLine(m.Users.Resolve(author), ""), meta)
	body := header + "\n\n" + utils.TruncateText(description, utils.MaxIssueBodyLength-300)

	labels := append([]string{mergeRequestLabel}, mr.Labels...)
	return m.Dest.CreateIssue(ctx, &github.IssueRequest{
		// 移行済みマーカーとして "GL!<iid> " を付与
		Title:  fmt.Sprintf("GL!%d %s", mr.IID, mr.Title),
		Body:   body,
		Labels: labels,
	})
}
