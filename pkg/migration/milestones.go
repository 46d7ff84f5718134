package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/krrrr38/gitlab-issues-2-github/pkg/github"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/logger"
)

// migrateMilestones copies all source milestones to the destination and
// records their destination numbers so issues can attach to them. Duplicate
// titles are skipped, with the number taken from the destination pre-listing.
func migrateMilestones(ctx context.Context, m *Migration) error {
	existing, err := m.Dest.ListMilestones(ctx)
	if err != nil {
		return fmt.Errorf("failed to list destination milestones: %w", err)
	}

	milestones, err := m.Source.ListMilestones(ctx)
	if err != nil {
		return fmt.Errorf("failed to list source milestones: %w", err)
	}
	if len(milestones) == 0 {
		logger.Info("There are no milestones in the source project")
		return nil
	}

	for _, milestone := range milestones {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sourceRef := fmt.Sprintf("milestone %s", milestone.Title)
		if number, ok := existing[milestone.Title]; ok {
			logger.Debug("Skipping existing milestone", "title", milestone.Title)
			m.State.Record(EntityMilestone, milestone.ID, number)
			m.State.RecordMilestoneTitle(milestone.Title, number)
			m.Report.Add(Result{Stage: "milestones", SourceRef: sourceRef, Status: StatusSkipped, DestNumber: number, Reason: "already exists on destination"})
			continue
		}

		// GitLab uses active/closed where GitHub uses open/closed
		state := milestone.State
		if state == "active" {
			state = "open"
		}

		// GitLab due dates are date-only; pin them to end of day UTC
		var dueOn *time.Time
		if milestone.DueDate != nil {
			d := time.Time(*milestone.DueDate)
			due := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 0, 0, time.UTC)
			dueOn = &due
		}

		number, err := m.Dest.CreateMilestone(ctx, milestone.Title, milestone.Description, state, dueOn)
		if err != nil {
			var dup *github.DuplicateError
			if errors.As(err, &dup) {
				m.Report.Add(Result{Stage: "milestones", SourceRef: sourceRef, Status: StatusSkipped, Reason: dup.Error()})
				continue
			}
			logger.Warn("Failed to create milestone", "title", milestone.Title, "error", err)
			m.Report.Add(Result{Stage: "milestones", SourceRef: sourceRef, Status: StatusFailed, Reason: err.Error()})
			continue
		}

		m.State.Record(EntityMilestone, milestone.ID, number)
		m.State.RecordMilestoneTitle(milestone.Title, number)
		logger.Info("Migrated milestone", "title", milestone.Title, "number", number)
		m.Report.Add(Result{Stage: "milestones", SourceRef: sourceRef, Status: StatusCreated, DestNumber: number})
	}
	return nil
}
