package gitlab

import (
	"context"
	"fmt"

	"github.com/xanzy/go-gitlab"
)

// ListMergeRequests retrieves all merge requests from the GitLab project in
// ascending creation order.
func (r *ProjectReader) ListMergeRequests(ctx context.Context) ([]*gitlab.MergeRequest, error) {
	var ret []*gitlab.MergeRequest
	var page = 1
	for {
		mrs, _, err := r.client.MergeRequests.ListProjectMergeRequests(r.projectID, &gitlab.ListProjectMergeRequestsOptions{
			OrderBy: gitlab.String("created_at"),
			Sort:    gitlab.String("asc"),
			ListOptions: gitlab.ListOptions{
				PerPage: perPage,
				Page:    page,
			},
		}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list GitLab merge requests: %w", err)
		}
		ret = append(ret, mrs...)
		if len(mrs) < perPage {
			break
		}
		page += 1
	}
	return ret, nil
}

// GetProject fetches the project itself. Used as the startup reachability and
// authentication check before any migration happens.
func (r *ProjectReader) GetProject(ctx context.Context) (*gitlab.Project, error) {
	project, _, err := r.client.Projects.GetProject(r.projectID, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get GitLab project %s: %w", r.projectID, err)
	}
	return project, nil
}
