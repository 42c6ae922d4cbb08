// Package historyquery resolves human time expressions ("3 days ago", "as
// of last Tuesday") to commit refs for diff and revert_to, a supplemental
// feature alongside the exact-commit-id form those operations already
// accept. get_file_history takes no ref and does not use it.
package historyquery

import (
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/fusesource/fabric-gitstore/internal/repohandle"
)

// Resolver parses natural-language time expressions relative to a commit
// log, resolving to the nearest commit at or before the parsed time.
type Resolver struct {
	parser *when.Parser
}

// NewResolver builds a Resolver with the English common + en rule sets.
func NewResolver() *Resolver {
	p := when.New(nil)
	p.Add(en.All...)
	p.Add(common.All...)
	return &Resolver{parser: p}
}

// ResolveRef resolves expr against now, then picks the most recent commit
// in log whose date is at or before the resolved time. log is expected
// most-recent-first, as returned by Handle.Log.
func (r *Resolver) ResolveRef(expr string, now time.Time, log []repohandle.CommitInfo) (string, error) {
	result, err := r.parser.Parse(expr, now)
	if err != nil {
		return "", fmt.Errorf("parse time expression %q: %w", expr, err)
	}
	if result == nil {
		return "", fmt.Errorf("no time expression recognized in %q", expr)
	}

	target := result.Time
	for _, c := range log {
		t, err := time.Parse(time.RFC3339, c.Date)
		if err != nil {
			continue
		}
		if !t.After(target) {
			return c.Hash, nil
		}
	}

	return "", fmt.Errorf("no commit found at or before %s", target.Format(time.RFC3339))
}
