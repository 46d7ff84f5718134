package migration_test

import (
	"testing"

	"github.com/krrrr38/gitlab-issues-2-github/pkg/migration"
	"github.com/stretchr/testify/assert"
)

func TestStateRecordLookup(t *testing.T) {
	state := migration.NewState()

	_, ok := state.Lookup(migration.EntityIssue, 1)
	assert.False(t, ok)

	state.Record(migration.EntityIssue, 1, 42)
	state.Record(migration.EntityMergeRequest, 1, 43)

	destID, ok := state.Lookup(migration.EntityIssue, 1)
	assert.True(t, ok)
	assert.Equal(t, 42, destID)

	// Entity types do not share identifier spaces
	destID, ok = state.Lookup(migration.EntityMergeRequest, 1)
	assert.True(t, ok)
	assert.Equal(t, 43, destID)
}

func TestStateMilestoneTitles(t *testing.T) {
	state := migration.NewState()

	_, ok := state.MilestoneNumber("v1")
	assert.False(t, ok)

	state.RecordMilestoneTitle("v1", 7)
	number, ok := state.MilestoneNumber("v1")
	assert.True(t, ok)
	assert.Equal(t, 7, number)
}
