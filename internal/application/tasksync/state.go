package tasksync

import (
	"fmt"
	"strings"
)

// State is the synchronization state of the current identity
type State int

const (
	StateUnauthenticated State = iota
	StateFetching
	StateSynced
	StateError
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateFetching:
		return "fetching"
	case StateSynced:
		return "synced"
	case StateError:
		return "error"
	}
	return "unknown"
}

// FetchFailurePolicy decides what happens to the local snapshot when a
// fetch fails
type FetchFailurePolicy string

const (
	// KeepLastGood keeps the previous snapshot and sets the error flag
	KeepLastGood FetchFailurePolicy = "keep-last-good"
	// ClearOnError empties the snapshot and sets the error flag
	ClearOnError FetchFailurePolicy = "clear-on-error"
)

// ParseFetchFailurePolicy converts a config value to a policy.
// An empty value selects KeepLastGood.
func ParseFetchFailurePolicy(s string) (FetchFailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep-last-good", "keep_last_good", "keep":
		return KeepLastGood, nil
	case "clear-on-error", "clear_on_error", "clear":
		return ClearOnError, nil
	}
	return "", fmt.Errorf("invalid fetch failure policy %q: must be keep-last-good or clear-on-error", s)
}
