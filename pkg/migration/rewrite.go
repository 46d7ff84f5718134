package migration

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	// GitLab usernames: alphanumeric start, then letters, digits, '_', '-',
	// '.', but never ending on '.' or '-', so a sentence-ending mention like
	// "thanks @alice." keeps its period. The leading group keeps email-like
	// text ("a@b.com") untouched.
	mentionRe = regexp.MustCompile(`(^|[^\w@.])@([a-zA-Z0-9](?:[a-zA-Z0-9_.-]*[a-zA-Z0-9_])?)`)
	// #123 issue references and !123 merge request references in GitLab
	// numbering. The boundaries keep URL fragments ("page#12") and hex color
	// literals ("#123abc") out.
	issueRefRe = regexp.MustCompile(`(^|\W)#(\d+)\b`)
	mrRefRe    = regexp.MustCompile(`(^|\W)!(\d+)\b`)
)

// Rewriter rewrites user mentions and cross-entity references in migrated
// text using the identifier mapping built up so far. References whose target
// has not been migrated yet stay behind as annotated literal text; that is
// accepted information loss, never an error.
type Rewriter struct {
	state *State
	users *UserMap
}

func NewRewriter(state *State, users *UserMap) *Rewriter {
	return &Rewriter{
		state: state,
		users: users,
	}
}

// Rewrite returns the text with mentions and references translated to the
// destination, plus a warning per reference that could not be resolved.
func (rw *Rewriter) Rewrite(text string) (string, []string) {
	var warnings []string

	ret := mentionRe.ReplaceAllStringFunc(text, func(match string) string {
		groups := mentionRe.FindStringSubmatch(match)
		return groups[1] + "@" + rw.users.Resolve(groups[2])
	})

	// Both issue and merge request references land as issue references on the
	// destination, since merge requests are migrated as issues.
	ret = issueRefRe.ReplaceAllStringFunc(ret, func(match string) string {
		groups := issueRefRe.FindStringSubmatch(match)
		sourceID, _ := strconv.Atoi(groups[2])
		if destID, ok := rw.state.Lookup(EntityIssue, sourceID); ok {
			return fmt.Sprintf("%s#%d", groups[1], destID)
		}
		warnings = append(warnings, fmt.Sprintf("unresolved issue reference #%d", sourceID))
		return fmt.Sprintf("%s`GitLab#%d`", groups[1], sourceID)
	})

	ret = mrRefRe.ReplaceAllStringFunc(ret, func(match string) string {
		groups := mrRefRe.FindStringSubmatch(match)
		sourceID, _ := strconv.Atoi(groups[2])
		if destID, ok := rw.state.Lookup(EntityMergeRequest, sourceID); ok {
			return fmt.Sprintf("%s#%d", groups[1], destID)
		}
		warnings = append(warnings, fmt.Sprintf("unresolved merge request reference !%d", sourceID))
		return fmt.Sprintf("%s`GitLab!%d`", groups[1], sourceID)
	})

	return ret, warnings
}
