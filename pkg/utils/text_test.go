package utils_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/krrrr38/gitlab-issues-2-github/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxLength int
		want      string
	}{
		{name: "short text unchanged", text: "hello", maxLength: 10, want: "hello"},
		{name: "exact length unchanged", text: "hello", maxLength: 5, want: "hello"},
		{
			name:      "long text truncated with suffix",
			text:      strings.Repeat("a", 100),
			maxLength: 50,
			want:      strings.Repeat("a", 50-len(utils.TruncateSuffix)) + utils.TruncateSuffix,
		},
		{name: "tiny limit cuts hard", text: "abcdefghij", maxLength: 3, want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := utils.TruncateText(tt.text, tt.maxLength)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.maxLength)
		})
	}
}

func TestTruncateTextMultibyte(t *testing.T) {
	text := strings.Repeat("あ", 100)
	got := utils.TruncateText(text, 50)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 50)
	assert.True(t, strings.HasSuffix(got, utils.TruncateSuffix))
}

func TestAttributionLine(t *testing.T) {
	assert.Equal(t, "originally by @alice-gh", utils.AttributionLine("alice-gh", ""))
	assert.Equal(t,
		"originally by @alice-gh at `2023-05-01 10:00:00 UTC`",
		utils.AttributionLine("alice-gh", "2023-05-01 10:00:00 UTC"))
}

func TestWrapDetails(t *testing.T) {
	got := utils.WrapDetails("summary line", "the detail")
	assert.Contains(t, got, "<details>")
	assert.Contains(t, got, "<summary>summary line</summary>")
	assert.Contains(t, got, "the detail")
	assert.Contains(t, got, "</details>")
}
