// Package editsession guards in-place edits of a single task.
//
// A session is a short-lived state machine: Idle → Editing → committed or
// cancelled, then back to Idle. At most one session is active at a time;
// starting a new one auto-commits the previous session, matching
// blur-to-commit behavior at the interaction surface. Each session permits
// exactly one terminal transition.
package editsession

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BasaniKavya/todo-app/internal/apperr"
	"github.com/BasaniKavya/todo-app/internal/models"
	"github.com/BasaniKavya/todo-app/internal/taskstore"
)

// ErrNoSession is returned by buffer and terminal operations when no edit
// session is active.
var ErrNoSession = errors.New("no active edit session")

// TaskOps is the slice of store operations a session needs.
type TaskOps interface {
	Get(id string) (models.Task, error)
	UpdateText(id, newText string) (bool, error)
	UpdateMetadata(id string, meta taskstore.Metadata) (models.Task, error)
}

// Buffer is the working copy of the fields an edit may change.
type Buffer struct {
	Text     string
	Due      string
	Priority models.Priority
}

// Manager owns the currently active session, if any.
type Manager struct {
	mu     sync.Mutex
	store  TaskOps
	taskID string // empty means Idle
	buf    Buffer
}

// NewManager creates a session manager bound to the given store.
func NewManager(store TaskOps) *Manager {
	return &Manager{store: store}
}

// Start opens an edit session for the task, capturing its current text,
// due date, and priority into the working buffer. An already active
// session is committed first.
func (m *Manager) Start(id string) (Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.taskID != "" {
		// Auto-commit policy: a failed implicit commit still ends the old
		// session, leaving canonical state untouched for that task.
		_, _, _ = m.commitLocked()
	}

	task, err := m.store.Get(id)
	if err != nil {
		return Buffer{}, err
	}
	m.taskID = id
	m.buf = Buffer{Text: task.Text, Due: task.Due, Priority: task.Priority}
	return m.buf, nil
}

// Update merges non-nil fields into the working buffer. Canonical state is
// untouched until commit. An unparseable due date is rejected here, before
// it enters the buffer, so a later commit cannot fail halfway through.
func (m *Manager) Update(text, due *string, priority *models.Priority) (Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.taskID == "" {
		return Buffer{}, ErrNoSession
	}
	if due != nil && *due != "" {
		if _, err := time.Parse("2006-01-02", *due); err != nil {
			return Buffer{}, fmt.Errorf("%w: %q", apperr.ErrInvalidDue, *due)
		}
	}
	if text != nil {
		m.buf.Text = *text
	}
	if due != nil {
		m.buf.Due = *due
	}
	if priority != nil {
		m.buf.Priority = models.ParsePriority(string(*priority))
	}
	return m.buf, nil
}

// Commit validates the working buffer and applies it to the store. A text
// that trims to the empty string degrades the commit to a deletion of the
// task. The session ends regardless of outcome; the return values report
// which task was committed and whether it was deleted.
func (m *Manager) Commit() (id string, deleted bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.taskID == "" {
		return "", false, ErrNoSession
	}
	return m.commitLocked()
}

// Cancel discards the working buffer, leaving canonical state unchanged.
func (m *Manager) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.taskID == "" {
		return ErrNoSession
	}
	m.taskID = ""
	m.buf = Buffer{}
	return nil
}

// Active returns the id of the task being edited, or "" when idle.
func (m *Manager) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taskID
}

func (m *Manager) commitLocked() (string, bool, error) {
	id, buf := m.taskID, m.buf
	// Terminal transition happens exactly once, before touching the store.
	m.taskID = ""
	m.buf = Buffer{}

	deleted, err := m.store.UpdateText(id, buf.Text)
	if err != nil || deleted {
		return id, deleted, err
	}
	_, err = m.store.UpdateMetadata(id, taskstore.Metadata{
		Due:      &buf.Due,
		Priority: &buf.Priority,
	})
	return id, false, err
}
