package migration

import (
	"fmt"
	"strings"
	"sync"
)

// Status classifies the outcome of migrating one entity or comment.
type Status string

const (
	StatusCreated Status = "created"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
	StatusWarning Status = "warning"
)

// Result records the outcome for one source entity or comment.
type Result struct {
	Stage      string
	SourceRef  string // e.g. "label bug", "issue #12", "issue #12 note 345"
	Status     Status
	DestNumber int
	Reason     string
}

// Report is the append-only list of results of one run. A single writer lock
// keeps it safe should comment replay across entities ever run concurrently.
type Report struct {
	mu      sync.Mutex
	results []Result
}

func NewReport() *Report {
	return &Report{}
}

func (r *Report) Add(result Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

// Results returns a copy of all recorded results in insertion order.
func (r *Report) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make([]Result, len(r.results))
	copy(ret, r.results)
	return ret
}

// Failed returns the number of failed results. The process exit code depends
// on it.
func (r *Report) Failed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int
	for _, result := range r.results {
		if result.Status == StatusFailed {
			count++
		}
	}
	return count
}

// Render produces the human-readable final summary, the only output artifact
// of a run.
func (r *Report) Render(fallbackUsers []string) string {
	results := r.Results()

	counts := make(map[Status]int)
	for _, result := range results {
		counts[result.Status]++
	}

	var b strings.Builder
	b.WriteString("Migration report\n")
	b.WriteString(fmt.Sprintf("  created: %d, skipped: %d, failed: %d, warnings: %d\n",
		counts[StatusCreated], counts[StatusSkipped], counts[StatusFailed], counts[StatusWarning]))

	for _, result := range results {
		switch result.Status {
		case StatusCreated:
			b.WriteString(fmt.Sprintf("  [created] %s -> #%d\n", result.SourceRef, result.DestNumber))
		case StatusSkipped:
			b.WriteString(fmt.Sprintf("  [skipped] %s: %s\n", result.SourceRef, result.Reason))
		case StatusFailed:
			b.WriteString(fmt.Sprintf("  [failed]  %s: %s\n", result.SourceRef, result.Reason))
		case StatusWarning:
			b.WriteString(fmt.Sprintf("  [warning] %s: %s\n", result.SourceRef, result.Reason))
		}
	}

	if len(fallbackUsers) > 0 {
		b.WriteString(fmt.Sprintf("  unmapped users attributed to the fallback identity: %s\n",
			strings.Join(fallbackUsers, ", ")))
	}
	return b.String()
}
