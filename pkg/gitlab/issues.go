package gitlab

import (
	"context"
	"fmt"

	"github.com/xanzy/go-gitlab"
)

// ListIssues retrieves all issues from the GitLab project in ascending
// creation order, so destination numbering follows the original numbering as
// closely as possible.
func (r *ProjectReader) ListIssues(ctx context.Context) ([]*gitlab.Issue, error) {
	var ret []*gitlab.Issue
	var page = 1
	for {
		issues, _, err := r.client.Issues.ListProjectIssues(r.projectID, &gitlab.ListProjectIssuesOptions{
			OrderBy: gitlab.String("created_at"),
			Sort:    gitlab.String("asc"),
			ListOptions: gitlab.ListOptions{
				PerPage: perPage,
				Page:    page,
			},
		}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list GitLab issues: %w", err)
		}
		ret = append(ret, issues...)
		if len(issues) < perPage {
			break
		}
		page += 1
	}
	return ret, nil
}
