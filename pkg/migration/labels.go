package migration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/krrrr38/gitlab-issues-2-github/pkg/github"
	"github.com/krrrr38/gitlab-issues-2-github/pkg/logger"
)

// migrateLabels copies all source labels to the destination. Labels are
// referenced by name later, so nothing is recorded in the identifier map. A
// duplicate name on the destination means a previous run already created it;
// that is a skip, which is what makes label migration idempotent across
// re-runs.
func migrateLabels(ctx context.Context, m *Migration) error {
	existing, err := m.Dest.ListLabelNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list destination labels: %w", err)
	}
	existingNames := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		existingNames[name] = struct{}{}
	}

	labels, err := m.Source.ListLabels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list source labels: %w", err)
	}
	if len(labels) == 0 {
		logger.Info("There are no labels in the source project")
		return nil
	}

	for _, label := range labels {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sourceRef := fmt.Sprintf("label %s", label.Name)
		if _, ok := existingNames[label.Name]; ok {
			logger.Debug("Skipping existing label", "name", label.Name)
			m.Report.Add(Result{Stage: "labels", SourceRef: sourceRef, Status: StatusSkipped, Reason: "already exists on destination"})
			continue
		}

		// GitHub wants the hex color without the leading '#'
		color := strings.TrimPrefix(label.Color, "#")
		err := m.Dest.CreateLabel(ctx, label.Name, color, label.Description)
		if err != nil {
			var dup *github.DuplicateError
			if errors.As(err, &dup) {
				m.Report.Add(Result{Stage: "labels", SourceRef: sourceRef, Status: StatusSkipped, Reason: dup.Error()})
				continue
			}
			logger.Warn("Failed to create label", "name", label.Name, "error", err)
			m.Report.Add(Result{Stage: "labels", SourceRef: sourceRef, Status: StatusFailed, Reason: err.Error()})
			continue
		}

		logger.Info("Migrated label", "name", label.Name)
		m.Report.Add(Result{Stage: "labels", SourceRef: sourceRef, Status: StatusCreated})
	}
	return nil
}
