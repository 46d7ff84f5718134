package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	githublib "github.com/google/go-github/v70/github"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/logger"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/utils"
)

// RepoWriter binds a client to the repository all migrated content is created
// in.
type RepoWriter struct {
	client *Client
	owner  string
	repo   string
}

func NewRepoWriter(client *Client, owner, repo string) *RepoWriter {
	return &RepoWriter{
		client: client,
		owner:  owner,
		repo:   repo,
	}
}

// CheckAuth verifies the credential and repository before any write happens
func (w *RepoWriter) CheckAuth(ctx context.Context) error {
	return w.client.CheckAuth(ctx, w.owner, w.repo)
}

// IssueRequest contains everything needed to create a tracker issue
type IssueRequest struct {
	Title     string
	Body      string
	Labels    []string
	Milestone *int // destination milestone number
}

// DuplicateError indicates the destination already has an equivalently named
// label or milestone. Callers treat this as a skip, not a failure.
type DuplicateError struct {
	Kind string
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q already exists on destination", e.Kind, e.Name)
}

// isAlreadyExists checks for the 422 "already_exists" validation error GitHub
// returns on duplicate label names and milestone titles
func isAlreadyExists(err error) bool {
	var errResp *githublib.ErrorResponse
	if !errors.As(err, &errResp) {
		return false
	}
	if errResp.Response == nil || errResp.Response.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	for _, e := range errResp.Errors {
		if e.Code == "already_exists" {
			return true
		}
	}
	return false
}

func wrapRequestID(err error, resp *githublib.Response) error {
	if err == nil || resp == nil {
		return err
	}
	return fmt.Errorf("%w, x-github-request-id: %s", err, resp.Response.Header.Get("x-github-request-id"))
}

// ListLabelNames returns the names of all labels on the repository
func (w *RepoWriter) ListLabelNames(ctx context.Context) ([]string, error) {
	var names []string
	var page = 1
	for {
		opts := &githublib.ListOptions{
			PerPage: 100,
			Page:    page,
		}
		labels, _, err := w.client.GetInner().Issues.ListLabels(ctx, w.owner, w.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list GitHub labels: %w", err)
		}
		for _, label := range labels {
			names = append(names, label.GetName())
		}
		if len(labels) < 100 {
			break
		}
		page += 1
	}
	return names, nil
}

// ListMilestones returns a title to milestone-number mapping of all milestones
// on the repository, open and closed
func (w *RepoWriter) ListMilestones(ctx context.Context) (map[string]int, error) {
	numbers := make(map[string]int)
	var page = 1
	for {
		opts := &githublib.MilestoneListOptions{
			State: "all",
			ListOptions: githublib.ListOptions{
				PerPage: 100,
				Page:    page,
			},
		}
		milestones, _, err := w.client.GetInner().Issues.ListMilestones(ctx, w.owner, w.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list GitHub milestones: %w", err)
		}
		for _, milestone := range milestones {
			numbers[milestone.GetTitle()] = milestone.GetNumber()
		}
		if len(milestones) < 100 {
			break
		}
		page += 1
	}
	return numbers, nil
}

// CreateLabel creates a label in the repository. A duplicate name yields a
// DuplicateError.
func (w *RepoWriter) CreateLabel(ctx context.Context, name, color, description string) error {
	logger.Debug("Creating GitHub label", "owner", w.owner, "repo", w.repo, "name", name)

	err := RetryableOperation(ctx, func() error {
		label := &githublib.Label{
			Name:        githublib.String(name),
			Color:       githublib.String(color),
			Description: githublib.String(description),
		}
		_, resp, err := w.client.GetInner().Issues.CreateLabel(ctx, w.owner, w.repo, label)
		if isAlreadyExists(err) {
			return err // do not retry
		}
		return wrapRequestID(err, resp)
	})
	if err != nil {
		if isAlreadyExists(err) {
			return &DuplicateError{Kind: "label", Name: name}
		}
		return fmt.Errorf("failed to create GitHub label: %w", err)
	}
	return nil
}

// CreateMilestone creates a milestone and returns its destination number. A
// duplicate title yields a DuplicateError.
func (w *RepoWriter) CreateMilestone(ctx context.Context, title, description, state string, dueOn *time.Time) (int, error) {
	logger.Debug("Creating GitHub milestone", "owner", w.owner, "repo", w.repo, "title", title)

	var created *githublib.Milestone
	err := RetryableOperation(ctx, func() error {
		milestone := &githublib.Milestone{
			Title:       githublib.String(title),
			Description: githublib.String(description),
			State:       githublib.String(state),
		}
		if dueOn != nil {
			milestone.DueOn = &githublib.Timestamp{Time: *dueOn}
		}
		var resp *githublib.Response
		var err error
		created, resp, err = w.client.GetInner().Issues.CreateMilestone(ctx, w.owner, w.repo, milestone)
		if isAlreadyExists(err) {
			return err // do not retry
		}
		return wrapRequestID(err, resp)
	})
	if err != nil {
		if isAlreadyExists(err) {
			return 0, &DuplicateError{Kind: "milestone", Name: title}
		}
		return 0, fmt.Errorf("failed to create GitHub milestone: %w", err)
	}
	return created.GetNumber(), nil
}

// CreateIssue creates an issue and returns its destination number
func (w *RepoWriter) CreateIssue(ctx context.Context, req *IssueRequest) (int, error) {
	logger.Debug("Creating GitHub issue",
		"owner", w.owner,
		"repo", w.repo,
		"title", req.Title,
		"labels", req.Labels)

	truncatedTitle := utils.TruncateText(req.Title, utils.MaxIssueTitleLength)
	truncatedBody := utils.TruncateText(req.Body, utils.MaxIssueBodyLength)

	var created *githublib.Issue
	err := RetryableOperation(ctx, func() error {
		// https://docs.github.com/en/rest/using-the-rest-api/rate-limits-for-the-rest-api?apiVersion=2022-11-28#calculating-points-for-the-secondary-rate-limit
		time.Sleep(1 * time.Second) // In general, no more than 80 content-generating requests per minute
		issueReq := &githublib.IssueRequest{
			Title: githublib.String(truncatedTitle),
			Body:  githublib.String(truncatedBody),
		}
		if len(req.Labels) > 0 {
			issueReq.Labels = &req.Labels
		}
		if req.Milestone != nil {
			issueReq.Milestone = req.Milestone
		}
		var resp *githublib.Response
		var err error
		created, resp, err = w.client.GetInner().Issues.Create(ctx, w.owner, w.repo, issueReq)
		return wrapRequestID(err, resp)
	})
	if err != nil {
		logger.Error("Failed to create GitHub issue",
			"owner", w.owner,
			"repo", w.repo,
			"title", req.Title,
			"error", err)
		return 0, fmt.Errorf("failed to create GitHub issue: %w", err)
	}
	return created.GetNumber(), nil
}

// CreateComment creates a comment on an issue
func (w *RepoWriter) CreateComment(ctx context.Context, issueNumber int, body string) error {
	// 文字数制限に合わせて切り詰める
	truncatedBody := utils.TruncateText(body, utils.MaxCommentLength)

	err := RetryableOperation(ctx, func() error {
		// https://docs.github.com/en/rest/using-the-rest-api/rate-limits-for-the-rest-api?apiVersion=2022-11-28#calculating-points-for-the-secondary-rate-limit
		time.Sleep(1 * time.Second) // In general, no more than 80 content-generating requests per minute
		_, resp, err := w.client.GetInner().Issues.CreateComment(ctx, w.owner, w.repo, issueNumber,
			&githublib.IssueComment{Body: &truncatedBody})
		return wrapRequestID(err, resp)
	})
	if err != nil {
		return fmt.Errorf("failed to create GitHub issue comment: %w", err)
	}
	return nil
}

// AddLabels adds labels to an existing issue
func (w *RepoWriter) AddLabels(ctx context.Context, issueNumber int, labels []string) error {
	logger.Debug("Adding labels to issue",
		"owner", w.owner,
		"repo", w.repo,
		"issueNumber", issueNumber,
		"labels", labels)

	err := RetryableOperation(ctx, func() error {
		_, _, err := w.client.GetInner().Issues.AddLabelsToIssue(ctx, w.owner, w.repo, issueNumber, labels)
		return err
	})
	if err != nil {
		logger.Error("Failed to add labels to issue",
			"owner", w.owner,
			"repo", w.repo,
			"issueNumber", issueNumber,
			"labels", labels,
			"error", err)
		return fmt.Errorf("failed to add labels to issue: %w", err)
	}
	return nil
}

// CloseIssue closes an issue after migration when the source entity was
// closed or merged
func (w *RepoWriter) CloseIssue(ctx context.Context, issueNumber int) error {
	logger.Debug("Closing issue", "owner", w.owner, "repo", w.repo, "issueNumber", issueNumber)

	err := RetryableOperation(ctx, func() error {
		state := "closed"
		_, resp, err := w.client.GetInner().Issues.Edit(ctx, w.owner, w.repo, issueNumber,
			&githublib.IssueRequest{State: &state})
		return wrapRequestID(err, resp)
	})
	if err != nil {
		logger.Error("Failed to close issue",
			"owner", w.owner,
			"repo", w.repo,
			"issueNumber", issueNumber,
			"error", err)
		return fmt.Errorf("failed to close issue: %w", err)
	}
	return nil
}
