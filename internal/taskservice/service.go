// Package taskservice coordinates the task engine for its surfaces.
//
// The service owns the active view state (filter, sort, search) that the
// original interaction surface kept in ambient globals, guards reordering
// against non-manual views, and funnels edits through the session manager.
package taskservice

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/BasaniKavya/todo-app/internal/apperr"
	"github.com/BasaniKavya/todo-app/internal/editsession"
	"github.com/BasaniKavya/todo-app/internal/importer"
	"github.com/BasaniKavya/todo-app/internal/models"
	"github.com/BasaniKavya/todo-app/internal/taskstore"
	"github.com/BasaniKavya/todo-app/internal/view"
)

// Notifier is called after every successful mutation so surfaces can push
// updates (SSE, for one). kind names the mutation; id is the affected task
// or empty for bulk operations.
type Notifier func(kind, id string)

// ViewState is the active projection configuration.
type ViewState struct {
	Filter view.FilterMode
	Sort   view.SortMode
	Query  string
}

// Service is the engine facade used by the REST API, MCP server, and CLI.
type Service struct {
	store     *taskstore.Store
	edits     *editsession.Manager
	validator *importer.Validator
	importSem *semaphore.Weighted
	notify    Notifier

	mu   sync.Mutex
	view ViewState
}

// NewService creates a Service around the given store.
func NewService(store *taskstore.Store, validator *importer.Validator, notify Notifier) *Service {
	if notify == nil {
		notify = func(string, string) {}
	}
	return &Service{
		store:     store,
		edits:     editsession.NewManager(store),
		validator: validator,
		importSem: semaphore.NewWeighted(1),
		notify:    notify,
		view:      ViewState{Filter: view.FilterAll, Sort: view.SortManual},
	}
}

// SetView updates the active view state and returns it.
func (s *Service) SetView(_ context.Context, filter, sortMode, query string) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = ViewState{
		Filter: view.ParseFilterMode(filter),
		Sort:   view.ParseSortMode(sortMode),
		Query:  query,
	}
	return s.view
}

// View returns the active view state.
func (s *Service) View() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// List projects the canonical collection through the active view. It also
// returns the canonical total and the active ("N left") count, which are
// independent of the projection.
func (s *Service) List(_ context.Context) (tasks []models.Task, total, active int) {
	snapshot := s.store.Tasks()
	vs := s.View()
	return view.Project(snapshot, vs.Filter, vs.Sort, vs.Query), len(snapshot), s.store.ActiveCount()
}

// Create adds a task at the front of the canonical order.
func (s *Service) Create(_ context.Context, text string, meta taskstore.Metadata) (models.Task, error) {
	t, err := s.store.Create(text, meta)
	if err != nil {
		return models.Task{}, err
	}
	s.notify("created", t.ID)
	return t, nil
}

// Toggle flips a task's completion flag.
func (s *Service) Toggle(_ context.Context, id string) (models.Task, error) {
	t, err := s.store.ToggleCompleted(id)
	if err != nil {
		return models.Task{}, err
	}
	s.notify("toggled", t.ID)
	return t, nil
}

// UpdateText replaces a task's text; empty trimmed text deletes instead.
func (s *Service) UpdateText(_ context.Context, id, text string) (deleted bool, err error) {
	deleted, err = s.store.UpdateText(id, text)
	if err != nil {
		return false, err
	}
	if deleted {
		s.notify("deleted", id)
	} else {
		s.notify("updated", id)
	}
	return deleted, nil
}

// UpdateMetadata merges partial metadata into a task.
func (s *Service) UpdateMetadata(_ context.Context, id string, meta taskstore.Metadata) (models.Task, error) {
	t, err := s.store.UpdateMetadata(id, meta)
	if err != nil {
		return models.Task{}, err
	}
	s.notify("updated", t.ID)
	return t, nil
}

// Delete removes a task; unknown ids are a no-op.
func (s *Service) Delete(_ context.Context, id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.notify("deleted", id)
	return nil
}

// ClearCompleted removes every completed task.
func (s *Service) ClearCompleted(_ context.Context) error {
	if err := s.store.ClearCompleted(); err != nil {
		return err
	}
	s.notify("cleared", "")
	return nil
}

// Reorder moves source immediately before target in the canonical order.
// It is only valid while the active sort mode is manual.
func (s *Service) Reorder(_ context.Context, sourceID, targetID string) error {
	if s.View().Sort != view.SortManual {
		return apperr.ErrInvalidState
	}
	if err := s.store.MoveBefore(sourceID, targetID); err != nil {
		return err
	}
	s.notify("reordered", sourceID)
	return nil
}

// StartEdit opens an edit session for the task, auto-committing any
// session already active.
func (s *Service) StartEdit(_ context.Context, id string) (editsession.Buffer, error) {
	return s.edits.Start(id)
}

// UpdateEdit merges fields into the active session's working buffer.
func (s *Service) UpdateEdit(_ context.Context, text, due *string, priority *models.Priority) (editsession.Buffer, error) {
	return s.edits.Update(text, due, priority)
}

// CommitEdit applies the active session's buffer. Losing focus without an
// explicit cancel goes through here as well. The notified id comes from
// Commit itself, not a prior Active read, so it always names the session
// that was actually committed.
func (s *Service) CommitEdit(_ context.Context) (deleted bool, err error) {
	id, deleted, err := s.edits.Commit()
	if err != nil {
		return false, err
	}
	if deleted {
		s.notify("deleted", id)
	} else {
		s.notify("updated", id)
	}
	return deleted, nil
}

// CancelEdit discards the active session's buffer.
func (s *Service) CancelEdit(_ context.Context) error {
	return s.edits.Cancel()
}

// Import validates raw and atomically replaces canonical state. The caller
// is responsible for user confirmation. A second import while one is
// pending is rejected with ErrImportBusy rather than queued.
func (s *Service) Import(_ context.Context, raw []byte) (int, error) {
	if !s.importSem.TryAcquire(1) {
		return 0, apperr.ErrImportBusy
	}
	defer s.importSem.Release(1)

	tasks, err := s.validator.Validate(raw)
	if err != nil {
		return 0, err
	}
	if err := s.store.ReplaceAll(tasks); err != nil {
		return 0, err
	}
	s.notify("imported", "")
	return len(tasks), nil
}

// Export serializes the canonical collection. The output is a valid
// Import payload.
func (s *Service) Export(_ context.Context) ([]byte, error) {
	return importer.Export(s.store.Tasks())
}
