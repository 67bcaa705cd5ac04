// Package storage defines the persistence bridge for the task collection.
package storage

import "github.com/BasaniKavya/todo-app/internal/models"

// Provider persists the canonical collection as one opaque blob.
// Load on an empty store yields an empty collection, never an error.
type Provider interface {
	// Load returns every persisted task, or an empty slice when no data
	// has been saved yet.
	Load() ([]models.Task, error)
	// Save atomically replaces the persisted collection.
	Save(tasks []models.Task) error
	// Close releases any underlying resources.
	Close() error
}
