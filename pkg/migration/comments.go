package migration

import (
	"context"
	"fmt"

	"github.com/krrrr38/gitlab-issues-2-github/pkg/logger"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/utils"
	gitlablib "github.com/xanzy/go-gitlab"
)

// migrateComments replays the notes of one source entity onto its destination
// issue. Comments within one entity are created strictly in chronological
// order, one at a time: out-of-order comments corrupt the readable history.
// Failure granularity is per comment, not per entity; a rejected comment is
// recorded and replay continues with the next one.
func migrateComments(ctx context.Context, m *Migration, sourceRef string, destNumber int, fetch func(context.Context) ([]*gitlablib.Note, error)) {
	notes, err := fetch(ctx)
	if err != nil {
		logger.Warn("Failed to fetch comments", "source", sourceRef, "error", err)
		m.Report.Add(Result{Stage: "comments", SourceRef: sourceRef, Status: StatusFailed,
			Reason: fmt.Sprintf("could not fetch comments: %v", err)})
		return
	}

	var migrated int
	for _, note := range notes {
		// System notes (state changes, assignments, ...) are tracker noise,
		// not discussion
		if note.System {
			continue
		}
		if m.Opts.MaxComments > 0 && migrated >= m.Opts.MaxComments {
			logger.Debug("Comment limit reached", "source", sourceRef, "max", m.Opts.MaxComments)
			break
		}

		noteRef := fmt.Sprintf("%s note %d", sourceRef, note.ID)
		createdAt := ""
		if note.CreatedAt != nil {
			createdAt = note.CreatedAt.Format("2006-01-02 15:04:05 MST")
		}

		text, warnings := m.Rewriter.Rewrite(note.Body)
		for _, warning := range warnings {
			m.Report.Add(Result{Stage: "comments", SourceRef: noteRef, Status: StatusWarning, Reason: warning})
		}

		body := fmt.Sprintf("%s\n\n%s",
			utils.TruncateText(text, utils.MaxCommentLength-200),
			utils.AttributionLine(m.Users.Resolve(note.Author.Username), createdAt))

		if err := m.Dest.CreateComment(ctx, destNumber, body); err != nil {
			logger.Warn("Failed to create comment", "source", noteRef, "error", err)
			m.Report.Add(Result{Stage: "comments", SourceRef: noteRef, Status: StatusFailed, Reason: err.Error()})
			continue
		}
		migrated++
		m.Report.Add(Result{Stage: "comments", SourceRef: noteRef, Status: StatusCreated, DestNumber: destNumber})
	}

	logger.Debug("Completed migration of comments", "source", sourceRef, "count", migrated)
}
