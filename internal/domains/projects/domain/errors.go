package domain

import (
	"errors"
	"fmt"
)

// ErrStorage marks failures of the project store.
var ErrStorage = errors.New("project storage failure")

// RemoteFetchError reports that the upstream repository listing could not be
// retrieved. It aborts the whole sync.
type RemoteFetchError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *RemoteFetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Status != "":
		return fmt.Sprintf("GitHub API error: %s", e.Status)
	case e.StatusCode != 0:
		return fmt.Sprintf("GitHub API error: %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("GitHub API request failed: %v", e.Err)
	default:
		return "GitHub API request failed"
	}
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }

// PerItemSyncError records a single repository that could not be upserted.
type PerItemSyncError struct {
	ID   int64
	Name string
	Err  error
}

func (e *PerItemSyncError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *PerItemSyncError) Unwrap() error { return e.Err }

// SerializationError reports a stored topic list that could not be parsed.
type SerializationError struct {
	ProjectID int64
	Err       error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("parse topics for project %d: %v", e.ProjectID, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
