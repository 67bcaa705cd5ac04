package api

import (
	"github.com/BasaniKavya/todo-app/internal/models"
	"github.com/BasaniKavya/todo-app/internal/taskstore"
)

// CreateTaskRequest is the request body for creating a task.
type CreateTaskRequest struct {
	Text     string `json:"text"`
	Due      string `json:"due,omitempty"`
	Priority string `json:"priority,omitempty"`
	Category string `json:"category,omitempty"`
}

// UpdateTextRequest is the request body for replacing a task's text.
type UpdateTextRequest struct {
	Text string `json:"text"`
}

// MetadataRequest is the request body for a partial metadata update.
// Absent fields are left unchanged.
type MetadataRequest struct {
	Due      *string `json:"due"`
	Priority *string `json:"priority"`
	Category *string `json:"category"`
}

// ReorderRequest is the request body for a drag-based reorder.
type ReorderRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// EditUpdateRequest is the request body for updating the working buffer of
// the active edit session.
type EditUpdateRequest struct {
	Text     *string `json:"text"`
	Due      *string `json:"due"`
	Priority *string `json:"priority"`
}

// TaskListResponse wraps a projection plus canonical counts.
type TaskListResponse struct {
	Tasks  []models.Task `json:"tasks"`
	Total  int           `json:"total"`
	Active int           `json:"active"`
	Filter string        `json:"filter"`
	Sort   string        `json:"sort"`
	Query  string        `json:"query,omitempty"`
}

// ImportResponse reports how many records an import accepted.
type ImportResponse struct {
	Imported int `json:"imported"`
}

func (r MetadataRequest) toMetadata() taskstore.Metadata {
	meta := taskstore.Metadata{Due: r.Due, Category: r.Category}
	if r.Priority != nil {
		p := models.ParsePriority(*r.Priority)
		meta.Priority = &p
	}
	return meta
}
