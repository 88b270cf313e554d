package engine

import (
	"errors"
	"fmt"
	"sort"
)

// ErrWorkspaceReset is returned when a commit finishes after its table
// session was reset; the results have been discarded.
var ErrWorkspaceReset = errors.New("table session was reset while a commit was in flight")

// ErrCommitInFlight is returned when a commit or discard is requested while
// a previous commit for the same table has not settled yet.
var ErrCommitInFlight = errors.New("a commit is already in flight for this table")

// CommitError reports a partially failed commit batch. Entries that
// succeeded were removed from the ledger; the failed ones remain so the
// operator can retry.
type CommitError struct {
	Failed map[string]error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit failed for %d pending change(s)", len(e.Failed))
}

// FailedKeys returns the change keys that remain pending, sorted.
func (e *CommitError) FailedKeys() []string {
	keys := make([]string, 0, len(e.Failed))
	for k := range e.Failed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
