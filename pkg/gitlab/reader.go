package gitlab

import (
	"github.com/xanzy/go-gitlab"
)

const perPage = 100

// ProjectReader wraps a GitLab client with the project it reads from. All
// operations are read-only.
type ProjectReader struct {
	client    *gitlab.Client
	projectID string
}

func NewProjectReader(client *gitlab.Client, projectID string) *ProjectReader {
	return &ProjectReader{
		client:    client,
		projectID: projectID,
	}
}
