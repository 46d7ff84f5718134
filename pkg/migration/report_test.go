package migration_test

import (
	"testing"

	"github.com/krrrr38/gitlab-issues-2-github/pkg/migration"
	"github.com/stretchr/testify/assert"
)

func TestReport(t *testing.T) {
	report := migration.NewReport()
	report.Add(migration.Result{Stage: "labels", SourceRef: "label bug", Status: migration.StatusCreated})
	report.Add(migration.Result{Stage: "labels", SourceRef: "label wontfix", Status: migration.StatusSkipped, Reason: "already exists on destination"})
	report.Add(migration.Result{Stage: "issues", SourceRef: "issue #2", Status: migration.StatusCreated, DestNumber: 2})
	report.Add(migration.Result{Stage: "issues", SourceRef: "issue #3", Status: migration.StatusFailed, Reason: "boom"})
	report.Add(migration.Result{Stage: "issues", SourceRef: "issue #2", Status: migration.StatusWarning, Reason: "unresolved issue reference #9"})

	assert.Equal(t, 1, report.Failed())
	assert.Len(t, report.Results(), 5)

	rendered := report.Render([]string{"carol"})
	assert.Contains(t, rendered, "created: 2, skipped: 1, failed: 1, warnings: 1")
	assert.Contains(t, rendered, "[created] issue #2 -> #2")
	assert.Contains(t, rendered, "[skipped] label wontfix: already exists on destination")
	assert.Contains(t, rendered, "[failed]  issue #3: boom")
	assert.Contains(t, rendered, "[warning] issue #2: unresolved issue reference #9")
	assert.Contains(t, rendered, "fallback identity: carol")
}

func TestReportResultsAreCopies(t *testing.T) {
	report := migration.NewReport()
	report.Add(migration.Result{Stage: "labels", SourceRef: "label bug", Status: migration.StatusCreated})

	results := report.Results()
	results[0].SourceRef = "mutated"
	assert.Equal(t, "label bug", report.Results()[0].SourceRef)
}
