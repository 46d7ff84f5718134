package migration_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/krrrr38/gitlab-issues-2-github/pkg/config"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/github"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gitlablib "github.com/xanzy/go-gitlab"
)

// fakeSource serves fixtures in the shape the GitLab reader returns.
type fakeSource struct {
	labels     []*gitlablib.Label
	milestones []*gitlablib.Milestone
	issues     []*gitlablib.Issue
	mrs        []*gitlablib.MergeRequest
	issueNotes map[int][]*gitlablib.Note
	mrNotes    map[int][]*gitlablib.Note
}

func (s *fakeSource) GetProject(ctx context.Context) (*gitlablib.Project, error) {
	return &gitlablib.Project{PathWithNamespace: "group/project"}, nil
}

func (s *fakeSource) ListLabels(ctx context.Context) ([]*gitlablib.Label, error) {
	return s.labels, nil
}

func (s *fakeSource) ListMilestones(ctx context.Context) ([]*gitlablib.Milestone, error) {
	return s.milestones, nil
}

func (s *fakeSource) ListIssues(ctx context.Context) ([]*gitlablib.Issue, error) {
	return s.issues, nil
}

func (s *fakeSource) ListMergeRequests(ctx context.Context) ([]*gitlablib.MergeRequest, error) {
	return s.mrs, nil
}

func (s *fakeSource) ListIssueNotes(ctx context.Context, issueIID int) ([]*gitlablib.Note, error) {
	return s.issueNotes[issueIID], nil
}

func (s *fakeSource) ListMergeRequestNotes(ctx context.Context, mrIID int) ([]*gitlablib.Note, error) {
	return s.mrNotes[mrIID], nil
}

type fakeIssue struct {
	title     string
	body      string
	labels    []string
	milestone *int
	comments  []string
	closed    bool
}

// fakeDest records every write in order and hands out sequential numbers.
type fakeDest struct {
	labels          map[string]string // name -> color
	milestoneTitles map[string]int
	nextMilestone   int
	nextIssue       int
	issues          map[int]*fakeIssue
	failCommentWith string // comment bodies containing this substring are rejected
}

func newFakeDest() *fakeDest {
	return &fakeDest{
		labels:          make(map[string]string),
		milestoneTitles: make(map[string]int),
		issues:          make(map[int]*fakeIssue),
	}
}

func (d *fakeDest) CheckAuth(ctx context.Context) error {
	return nil
}

func (d *fakeDest) ListLabelNames(ctx context.Context) ([]string, error) {
	var names []string
	for name := range d.labels {
		names = append(names, name)
	}
	return names, nil
}

func (d *fakeDest) ListMilestones(ctx context.Context) (map[string]int, error) {
	ret := make(map[string]int, len(d.milestoneTitles))
	for title, number := range d.milestoneTitles {
		ret[title] = number
	}
	return ret, nil
}

func (d *fakeDest) CreateLabel(ctx context.Context, name, color, description string) error {
	if _, ok := d.labels[name]; ok {
		return &github.DuplicateError{Kind: "label", Name: name}
	}
	d.labels[name] = color
	return nil
}

func (d *fakeDest) CreateMilestone(ctx context.Context, title, description, state string, dueOn *time.Time) (int, error) {
	if _, ok := d.milestoneTitles[title]; ok {
		return 0, &github.DuplicateError{Kind: "milestone", Name: title}
	}
	d.nextMilestone++
	d.milestoneTitles[title] = d.nextMilestone
	return d.nextMilestone, nil
}

func (d *fakeDest) CreateIssue(ctx context.Context, req *github.IssueRequest) (int, error) {
	d.nextIssue++
	d.issues[d.nextIssue] = &fakeIssue{
		title:     req.Title,
		body:      req.Body,
		labels:    req.Labels,
		milestone: req.Milestone,
	}
	return d.nextIssue, nil
}

func (d *fakeDest) CreateComment(ctx context.Context, issueNumber int, body string) error {
	if d.failCommentWith != "" && strings.Contains(body, d.failCommentWith) {
		return fmt.Errorf("destination rejected comment")
	}
	issue, ok := d.issues[issueNumber]
	if !ok {
		return fmt.Errorf("no such issue %d", issueNumber)
	}
	issue.comments = append(issue.comments, body)
	return nil
}

func (d *fakeDest) AddLabels(ctx context.Context, issueNumber int, labels []string) error {
	issue, ok := d.issues[issueNumber]
	if !ok {
		return fmt.Errorf("no such issue %d", issueNumber)
	}
	issue.labels = append(issue.labels, labels...)
	return nil
}

func (d *fakeDest) CloseIssue(ctx context.Context, issueNumber int) error {
	issue, ok := d.issues[issueNumber]
	if !ok {
		return fmt.Errorf("no such issue %d", issueNumber)
	}
	issue.closed = true
	return nil
}

func newMigration(source migration.Source, dest migration.Destination, userMap map[string]string) *migration.Migration {
	state := migration.NewState()
	users := migration.NewUserMap(userMap, "migrator-bot")
	return &migration.Migration{
		Source:   source,
		Dest:     dest,
		State:    state,
		Users:    users,
		Rewriter: migration.NewRewriter(state, users),
		Report:   migration.NewReport(),
	}
}

func noteBy(id int, username, body string, at time.Time) *gitlablib.Note {
	note := &gitlablib.Note{ID: id, Body: body, CreatedAt: &at}
	note.Author.Username = username
	return note
}

func fixtureSource() *fakeSource {
	t0 := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	return &fakeSource{
		labels: []*gitlablib.Label{
			{Name: "bug", Color: "#d9534f", Description: "Something is broken"},
		},
		milestones: []*gitlablib.Milestone{
			{ID: 100, Title: "v1", Description: "first release", State: "active"},
		},
		issues: []*gitlablib.Issue{
			{
				IID:         1,
				Title:       "crash on start",
				Description: "boom",
				State:       "closed",
				CreatedAt:   &t0,
				Author:      &gitlablib.IssueAuthor{Username: "alice"},
				Labels:      gitlablib.Labels{"bug"},
				Milestone:   &gitlablib.Milestone{ID: 100, Title: "v1"},
				WebURL:      "https://gitlab.example.com/group/project/-/issues/1",
			},
			{
				IID:         2,
				Title:       "follow up",
				Description: "related to #1",
				State:       "opened",
				CreatedAt:   &t0,
				Author:      &gitlablib.IssueAuthor{Username: "bob"},
				WebURL:      "https://gitlab.example.com/group/project/-/issues/2",
			},
		},
		mrs: []*gitlablib.MergeRequest{
			{
				IID:          1,
				Title:        "fix the crash",
				Description:  "closes #1",
				State:        "merged",
				CreatedAt:    &t0,
				Author:       &gitlablib.BasicUser{Username: "alice"},
				SourceBranch: "fix-crash",
				TargetBranch: "main",
				WebURL:       "https://gitlab.example.com/group/project/-/merge_requests/1",
			},
		},
		issueNotes: map[int][]*gitlablib.Note{
			2: {
				noteBy(201, "alice", "looking at it", t0),
				noteBy(202, "carol", "any update?", t0.Add(time.Hour)),
			},
		},
		mrNotes: map[int][]*gitlablib.Note{},
	}
}

func TestStagesOrder(t *testing.T) {
	var names []string
	for _, stage := range migration.Stages(false) {
		names = append(names, stage.Name)
	}
	assert.Equal(t, []string{"labels", "milestones", "issues", "merge_requests"}, names)

	names = nil
	for _, stage := range migration.Stages(true) {
		names = append(names, stage.Name)
	}
	assert.Equal(t, []string{"labels", "milestones", "issues"}, names)
}

func TestRunEndToEnd(t *testing.T) {
	source := fixtureSource()
	dest := newFakeDest()
	// Offset destination numbering so rewritten references are
	// distinguishable from source numbers
	dest.nextIssue = 10
	m := newMigration(source, dest, map[string]string{"alice": "alice-gh", "bob": "bob-gh"})

	require.NoError(t, m.Run(context.Background()))
	assert.Zero(t, m.Report.Failed())

	// Label with the color hash stripped
	assert.Equal(t, "d9534f", dest.labels["bug"])

	// Milestone created and recorded for issue attachment
	assert.Equal(t, 1, dest.milestoneTitles["v1"])

	// Issue #1: attributed, labeled, on the milestone, closed on destination
	issue1 := dest.issues[11]
	require.NotNil(t, issue1)
	assert.Equal(t, "GL#1 crash on start", issue1.title)
	assert.Contains(t, issue1.body, "originally by @alice-gh")
	assert.Contains(t, issue1.body, "https://gitlab.example.com/group/project/-/issues/1")
	assert.Equal(t, []string{"bug"}, issue1.labels)
	require.NotNil(t, issue1.milestone)
	assert.Equal(t, 1, *issue1.milestone)
	assert.True(t, issue1.closed)

	// Issue #2: the back reference to #1 resolves to its destination number
	issue2 := dest.issues[12]
	require.NotNil(t, issue2)
	assert.Contains(t, issue2.body, "related to #11")
	assert.Contains(t, issue2.body, "originally by @bob-gh")
	assert.False(t, issue2.closed)

	// Comments replayed in order, carol attributed to the fallback identity
	require.Len(t, issue2.comments, 2)
	assert.Contains(t, issue2.comments[0], "looking at it")
	assert.Contains(t, issue2.comments[0], "originally by @alice-gh")
	assert.Contains(t, issue2.comments[1], "any update?")
	assert.Contains(t, issue2.comments[1], "originally by @migrator-bot")
	assert.Equal(t, []string{"carol"}, m.Users.Fallbacks())

	// Merge request became a labeled, closed issue referencing issue #1's
	// destination number
	mrIssue := dest.issues[13]
	require.NotNil(t, mrIssue)
	assert.Equal(t, "GL!1 fix the crash", mrIssue.title)
	assert.Contains(t, mrIssue.body, "closes #11")
	assert.Contains(t, mrIssue.body, "`fix-crash` into `main`")
	assert.Contains(t, mrIssue.labels, "merge-request")
	assert.Contains(t, mrIssue.labels, "merged")
	assert.True(t, mrIssue.closed)
}

func TestRunForwardReferenceStaysLiteral(t *testing.T) {
	source := fixtureSource()
	// Issue #1 now references #2, which is migrated later
	source.issues[0].Description = "blocked by #2"
	dest := newFakeDest()
	m := newMigration(source, dest, nil)

	require.NoError(t, m.Run(context.Background()))

	assert.Contains(t, dest.issues[1].body, "`GitLab#2`")

	var warnings int
	for _, result := range m.Report.Results() {
		if result.Status == migration.StatusWarning {
			warnings++
		}
	}
	assert.GreaterOrEqual(t, warnings, 1)
}

func TestRunLabelsAndMilestonesIdempotent(t *testing.T) {
	source := fixtureSource()
	source.issues = nil
	source.mrs = nil

	dest := newFakeDest()
	m := newMigration(source, dest, nil)
	m.Opts = config.MigrateConfig{SkipMergeRequests: true}
	require.NoError(t, m.Run(context.Background()))

	// Second run against the same destination skips instead of duplicating
	m2 := newMigration(source, dest, nil)
	m2.Opts = config.MigrateConfig{SkipMergeRequests: true}
	require.NoError(t, m2.Run(context.Background()))

	assert.Len(t, dest.labels, 1)
	assert.Len(t, dest.milestoneTitles, 1)
	var skipped int
	for _, result := range m2.Report.Results() {
		if result.Status == migration.StatusSkipped {
			skipped++
		}
	}
	assert.Equal(t, 2, skipped)
	assert.Zero(t, m2.Report.Failed())
}

func TestRunCommentFailureDoesNotStopReplay(t *testing.T) {
	source := fixtureSource()
	dest := newFakeDest()
	dest.failCommentWith = "looking at it"
	m := newMigration(source, dest, map[string]string{"alice": "alice-gh"})

	require.NoError(t, m.Run(context.Background()))

	// The second comment still lands even though the first was rejected
	issue2 := dest.issues[2]
	require.NotNil(t, issue2)
	require.Len(t, issue2.comments, 1)
	assert.Contains(t, issue2.comments[0], "any update?")
	assert.Equal(t, 1, m.Report.Failed())
}

func TestRunSystemNotesAreDropped(t *testing.T) {
	source := fixtureSource()
	systemNote := noteBy(203, "alice", "changed the description", time.Now())
	systemNote.System = true
	source.issueNotes[2] = append([]*gitlablib.Note{systemNote}, source.issueNotes[2]...)

	dest := newFakeDest()
	m := newMigration(source, dest, nil)
	require.NoError(t, m.Run(context.Background()))

	require.NotNil(t, dest.issues[2])
	assert.Len(t, dest.issues[2].comments, 2)
}

func TestRunMaxCommentsLimit(t *testing.T) {
	source := fixtureSource()
	dest := newFakeDest()
	m := newMigration(source, dest, nil)
	m.Opts = config.MigrateConfig{MaxComments: 1}

	require.NoError(t, m.Run(context.Background()))

	require.NotNil(t, dest.issues[2])
	assert.Len(t, dest.issues[2].comments, 1)
	assert.Contains(t, dest.issues[2].comments[0], "looking at it")
}

func TestRunContinueFromSkipsEarlierIssues(t *testing.T) {
	source := fixtureSource()
	dest := newFakeDest()
	m := newMigration(source, dest, nil)
	m.Opts = config.MigrateConfig{ContinueFromIssueID: 2, SkipMergeRequests: true}

	require.NoError(t, m.Run(context.Background()))

	require.Len(t, dest.issues, 1)
	assert.Equal(t, "GL#2 follow up", dest.issues[1].title)
}
