// Package models defines the domain types for the task engine.
package models

import "time"

// Priority is the urgency bucket of a task.
type Priority string

// Priority levels, highest first.
const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// ParsePriority maps a raw string to a known priority.
// Anything unrecognized collapses to PriorityNormal.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return Priority(s)
	default:
		return PriorityNormal
	}
}

// Rank returns the sort rank of a priority (high sorts first).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Task is the sole persistent entity: one item in the canonical list.
//
// Order establishes the manual sequence position. Values are unique across
// the collection but not necessarily contiguous; only relative order carries
// meaning. New tasks are inserted at the minimum edge (newest first).
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Priority  Priority  `json:"priority"`
	Due       string    `json:"due,omitempty"` // ISO date (2006-01-02) or empty
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Order     int       `json:"order"`
}

// DueDate parses the Due field. ok is false when the task has no due date
// or it fails to parse.
func (t Task) DueDate() (time.Time, bool) {
	if t.Due == "" {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", t.Due)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
