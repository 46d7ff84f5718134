package utils

import (
	"fmt"
	"unicode/utf8"
)

const (
	// GitHubの各種テキスト長制限
	// https://docs.github.com/en/rest/issues/issues?apiVersion=2022-11-28
	MaxIssueTitleLength = 256   // Issueのタイトル最大長
	MaxIssueBodyLength  = 65536 // Issueの本文最大長（64KB）
	MaxCommentLength    = 65536 // コメントの最大長（64KB）

	// 切り詰め表示用のサフィックス
	TruncateSuffix = "... [truncated]"
)

// TruncateText は指定された最大長に基づいてテキストを切り詰めます
func TruncateText(text string, maxLength int) string {
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}

	availableLength := maxLength - utf8.RuneCountInString(TruncateSuffix)
	if availableLength <= 0 {
		// 極端に短い場合は単にmaxLengthまで切る
		runes := []rune(text)
		return string(runes[:maxLength])
	}

	runes := []rune(text)
	return string(runes[:availableLength]) + TruncateSuffix
}

// AttributionLine renders the "originally by" footer appended to every
// migrated item and comment, since the destination attributes everything to
// the migrating account.
func AttributionLine(username, createdAt string) string {
	if createdAt == "" {
		return fmt.Sprintf("originally by @%s", username)
	}
	return fmt.Sprintf("originally by @%s at `%s`", username, createdAt)
}

// WrapDetails はメタデータヘッダーを折りたたみ表示にします
func WrapDetails(summary, detail string) string {
	return fmt.Sprintf("<details>\n<summary>%s</summary>\n\n%s\n</details>",
		summary, detail)
}
