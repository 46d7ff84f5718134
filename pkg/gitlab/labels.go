package gitlab

import (
	"context"
	"fmt"

	"github.com/xanzy/go-gitlab"
)

// ListLabels retrieves all labels from the GitLab project
func (r *ProjectReader) ListLabels(ctx context.Context) ([]*gitlab.Label, error) {
	var ret []*gitlab.Label
	var page = 1
	for {
		labels, _, err := r.client.Labels.ListLabels(r.projectID, &gitlab.ListLabelsOptions{
			ListOptions: gitlab.ListOptions{
				PerPage: perPage,
				Page:    page,
			},
		}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list GitLab labels: %w", err)
		}
		ret = append(ret, labels...)
		if len(labels) < perPage {
			break
		}
		page += 1
	}
	return ret, nil
}
