package gitlab

import (
	"context"
	"fmt"

	"github.com/xanzy/go-gitlab"
)

// ListIssueNotes retrieves notes of an issue in chronological order. The order
// matters: replaying them out of order corrupts the readable history on the
// destination.
func (r *ProjectReader) ListIssueNotes(ctx context.Context, issueIID int) ([]*gitlab.Note, error) {
	var ret []*gitlab.Note
	var page = 1
	for {
		notes, _, err := r.client.Notes.ListIssueNotes(r.projectID, issueIID, &gitlab.ListIssueNotesOptions{
			OrderBy: gitlab.String("created_at"),
			Sort:    gitlab.String("asc"),
			ListOptions: gitlab.ListOptions{
				PerPage: perPage,
				Page:    page,
			},
		}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list GitLab issue notes: %w on issueIID=%d", err, issueIID)
		}
		ret = append(ret, notes...)
		if len(notes) < perPage {
			break
		}
		page += 1
	}
	return ret, nil
}

// ListMergeRequestNotes retrieves notes of a merge request in chronological order.
func (r *ProjectReader) ListMergeRequestNotes(ctx context.Context, mrIID int) ([]*gitlab.Note, error) {
	var ret []*gitlab.Note
	var page = 1
	for {
		notes, _, err := r.client.Notes.ListMergeRequestNotes(r.projectID, mrIID, &gitlab.ListMergeRequestNotesOptions{
			OrderBy: gitlab.String("created_at"),
			Sort:    gitlab.String("asc"),
			ListOptions: gitlab.ListOptions{
				PerPage: perPage,
				Page:    page,
			},
		}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list GitLab merge request notes: %w on mrIID=%d", err, mrIID)
		}
		ret = append(ret, notes...)
		if len(notes) < perPage {
			break
		}
		page += 1
	}
	return ret, nil
}
