package migration_test

import (
	"testing"

	"github.com/krrrr38/gitlab-issues-2-github/pkg/migration"
	"github.com/stretchr/testify/assert"
)

func TestUserMapResolve(t *testing.T) {
	users := migration.NewUserMap(map[string]string{
		"alice": "alice-gh",
		"bob":   "bob-gh",
	}, "migrator-bot")

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "mapped user", source: "alice", want: "alice-gh"},
		{name: "another mapped user", source: "bob", want: "bob-gh"},
		{name: "unmapped user falls back", source: "carol", want: "migrator-bot"},
		{name: "deleted account falls back", source: "", want: "migrator-bot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, users.Resolve(tt.source))
		})
	}

	// Only real usernames without a mapping are reported
	assert.Equal(t, []string{"carol"}, users.Fallbacks())
}

func TestUserMapNilTable(t *testing.T) {
	users := migration.NewUserMap(nil, "migrator-bot")
	assert.Equal(t, "migrator-bot", users.Resolve("anyone"))
	assert.Equal(t, []string{"anyone"}, users.Fallbacks())
}
