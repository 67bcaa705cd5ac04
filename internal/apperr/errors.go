// Package apperr defines the sentinel errors of the task engine.
package apperr

import "errors"

var (
	// ErrEmptyText rejects persisting a task whose text trims to "".
	ErrEmptyText = errors.New("task text is empty")
	// ErrNotFound is returned by mutating operations on an unknown task id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState is returned when a reorder is attempted while the
	// active view is not in manual sort mode.
	ErrInvalidState = errors.New("reorder requires manual sort mode")
	// ErrInvalidDue rejects a due date that is not an ISO date (2006-01-02).
	ErrInvalidDue = errors.New("due date must be an ISO date")
	// ErrImport marks a malformed import payload (root is not a list).
	ErrImport = errors.New("import: not a list")
	// ErrImportBusy is returned when an import is requested while another
	// one is still pending.
	ErrImportBusy = errors.New("import already in progress")
)
