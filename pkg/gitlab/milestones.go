package gitlab

import (
	"context"
	"fmt"

	"github.com/xanzy/go-gitlab"
)

// ListMilestones retrieves all milestones from the GitLab project
func (r *ProjectReader) ListMilestones(ctx context.Context) ([]*gitlab.Milestone, error) {
	var ret []*gitlab.Milestone
	var page = 1
	for {
		milestones, _, err := r.client.Milestones.ListMilestones(r.projectID, &gitlab.ListMilestonesOptions{
			ListOptions: gitlab.ListOptions{
				PerPage: perPage,
				Page:    page,
			},
		}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list GitLab milestones: %w", err)
		}
		ret = append(ret, milestones...)
		if len(milestones) < perPage {
			break
		}
		page += 1
	}
	return ret, nil
}
