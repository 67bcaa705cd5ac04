// Package taskstore owns the canonical ordered task collection.
//
// The store is the single source of truth: every other component reads it
// through snapshots and mutates it only through its operations. Each
// mutating operation persists synchronously through the storage provider
// before returning, so the in-memory and persisted states never diverge.
package taskstore

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BasaniKavya/todo-app/internal/apperr"
	"github.com/BasaniKavya/todo-app/internal/idgen"
	"github.com/BasaniKavya/todo-app/internal/models"
	"github.com/BasaniKavya/todo-app/internal/storage"
)

// Metadata carries the optional task attributes for create and partial
// update operations. Nil fields are left unchanged on update.
type Metadata struct {
	Due      *string
	Priority *models.Priority
	Category *string
}

// Store holds the canonical collection, kept in ascending Order.
type Store struct {
	mu       sync.Mutex
	tasks    []models.Task
	provider storage.Provider
	ids      *idgen.Generator
	now      func() time.Time
}

// New creates a Store backed by the given provider and loads persisted state.
func New(provider storage.Provider, ids *idgen.Generator) (*Store, error) {
	s := &Store{
		provider: provider,
		ids:      ids,
		now:      time.Now,
	}
	tasks, err := provider.Load()
	if err != nil {
		return nil, fmt.Errorf("taskstore: load: %w", err)
	}
	s.tasks = sortedByOrder(tasks)
	return s, nil
}

// NewWithClock is New with an injected clock for tests.
func NewWithClock(provider storage.Provider, ids *idgen.Generator, now func() time.Time) (*Store, error) {
	s, err := New(provider, ids)
	if err != nil {
		return nil, err
	}
	s.now = now
	return s, nil
}

// Tasks returns a snapshot of the canonical collection in ascending Order.
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, apperr.ErrNotFound
	}
	return s.tasks[i], nil
}

// ActiveCount returns the number of incomplete tasks ("N left").
func (s *Store) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// Create appends a new task at the front of the canonical order (newest
// first). Text trimming is applied before validation; a text that trims to
// the empty string fails with ErrEmptyText.
func (s *Store) Create(text string, meta Metadata) (models.Task, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.Task{}, apperr.ErrEmptyText
	}
	if err := validateDue(meta); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := models.Task{
		ID:        s.ids.NextID(),
		Text:      trimmed,
		Priority:  models.PriorityNormal,
		CreatedAt: s.now(),
		Order:     s.frontOrder(),
	}
	applyMetadata(&t, meta)

	s.tasks = append([]models.Task{t}, s.tasks...)
	if err := s.persist(); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// ToggleCompleted flips the completion flag of one task.
func (s *Store) ToggleCompleted(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, apperr.ErrNotFound
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	if err := s.persist(); err != nil {
		return models.Task{}, err
	}
	return s.tasks[i], nil
}

// UpdateText replaces a task's text. An update that trims to the empty
// string performs a delete instead; like Delete, that path is idempotent.
// The returned flag reports whether the task was removed.
func (s *Store) UpdateText(id, newText string) (bool, error) {
	trimmed := strings.TrimSpace(newText)

	s.mu.Lock()
	defer s.mu.Unlock()

	if trimmed == "" {
		return true, s.deleteLocked(id)
	}

	i := s.indexOf(id)
	if i < 0 {
		return false, apperr.ErrNotFound
	}
	s.tasks[i].Text = trimmed
	return false, s.persist()
}

// UpdateMetadata merges the non-nil fields of meta into the task. A due
// date must be an ISO date (2006-01-02) or empty to clear it.
func (s *Store) UpdateMetadata(id string, meta Metadata) (models.Task, error) {
	if err := validateDue(meta); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, apperr.ErrNotFound
	}
	applyMetadata(&s.tasks[i], meta)
	if err := s.persist(); err != nil {
		return models.Task{}, err
	}
	return s.tasks[i], nil
}

// Delete removes a task. Deleting an absent id is a no-op, not an error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id)
}

// ClearCompleted removes every completed task.
func (s *Store) ClearCompleted() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	return s.persist()
}

// MoveBefore removes the source task from the canonical sequence and
// reinserts it immediately before the target's current position, then
// renumbers Order for the whole sequence. source == target is a no-op.
// The manual-mode guard lives in the service layer; this is the primitive.
func (s *Store) MoveBefore(sourceID, targetID string) error {
	if sourceID == targetID {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.indexOf(sourceID)
	dst := s.indexOf(targetID)
	if src < 0 || dst < 0 {
		return apperr.ErrNotFound
	}

	moved := s.tasks[src]
	rest := append(s.tasks[:src:src], s.tasks[src+1:]...)
	// Target index shifts left when the source preceded it.
	if src < dst {
		dst--
	}
	s.tasks = append(rest[:dst:dst], append([]models.Task{moved}, rest[dst:]...)...)

	for i := range s.tasks {
		s.tasks[i].Order = i
	}
	return s.persist()
}

// ReplaceAll atomically swaps in a fully validated collection. Used only by
// the import path; records arrive pre-normalized.
func (s *Store) ReplaceAll(tasks []models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = sortedByOrder(tasks)
	return s.persist()
}

// ReloadIfChanged re-reads the provider and swaps in its content when it
// differs from the in-memory state. Returns true when a reload happened.
// Used by the store-file watcher to pick up external edits; self-writes
// load back identical content and are suppressed.
func (s *Store) ReloadIfChanged() (bool, error) {
	loaded, err := s.provider.Load()
	if err != nil {
		return false, fmt.Errorf("taskstore: reload: %w", err)
	}
	loaded = sortedByOrder(loaded)

	s.mu.Lock()
	defer s.mu.Unlock()

	if tasksEqual(s.tasks, loaded) {
		return false, nil
	}
	s.tasks = loaded
	return true, nil
}

func (s *Store) persist() error {
	if err := s.provider.Save(s.tasks); err != nil {
		return fmt.Errorf("taskstore: persist: %w", err)
	}
	return nil
}

func (s *Store) deleteLocked(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return s.persist()
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// frontOrder computes the insertion-edge order value: one less than the
// current minimum. Gaps are fine, only relative order matters.
func (s *Store) frontOrder() int {
	if len(s.tasks) == 0 {
		return 0
	}
	return s.tasks[0].Order - 1
}

// validateDue rejects a supplied due date that is not an ISO date
// (2006-01-02). Both Create and UpdateMetadata enforce it, so a due value
// that exists in the store always parses.
func validateDue(meta Metadata) error {
	if meta.Due != nil && *meta.Due != "" {
		if _, err := time.Parse("2006-01-02", *meta.Due); err != nil {
			return fmt.Errorf("%w: %q", apperr.ErrInvalidDue, *meta.Due)
		}
	}
	return nil
}

func applyMetadata(t *models.Task, meta Metadata) {
	if meta.Due != nil {
		t.Due = *meta.Due
	}
	if meta.Priority != nil {
		t.Priority = models.ParsePriority(string(*meta.Priority))
	}
	if meta.Category != nil {
		t.Category = *meta.Category
	}
}

func sortedByOrder(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func tasksEqual(a, b []models.Task) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Text != b[i].Text ||
			a[i].Completed != b[i].Completed || a[i].Priority != b[i].Priority ||
			a[i].Due != b[i].Due || a[i].Category != b[i].Category ||
			a[i].Order != b[i].Order || !a[i].CreatedAt.Equal(b[i].CreatedAt) {
			return false
		}
	}
	return true
}
