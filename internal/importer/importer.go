// Package importer validates and normalizes externally supplied collections.
//
// Deserialized data is never trusted: every record is coerced field by
// field into a well-typed task with defined defaults. Records are never
// rejected outright; only a payload whose root is not a list fails.
package importer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/BasaniKavya/todo-app/internal/apperr"
	"github.com/BasaniKavya/todo-app/internal/idgen"
	"github.com/BasaniKavya/todo-app/internal/models"
)

// Validator normalizes raw import payloads into typed task records.
type Validator struct {
	ids *idgen.Generator
	now func() time.Time
}

// New creates a Validator that mints ids for id-less records.
func New(ids *idgen.Generator) *Validator {
	return &Validator{ids: ids, now: time.Now}
}

// NewWithClock is New with an injected clock for tests.
func NewWithClock(ids *idgen.Generator, now func() time.Time) *Validator {
	return &Validator{ids: ids, now: now}
}

// Validate parses raw and returns a normalized collection, or ErrImport
// when the root is not a list. Per-record defaults: generated id, empty
// text (retained, unlike interactive edits), completed coerced to bool,
// normal priority, import-time createdAt. Order values are kept when every
// record carries a unique integer; otherwise the whole payload is
// renumbered by sequence position.
func (v *Validator) Validate(raw []byte) ([]models.Task, error) {
	var root any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrImport, err)
	}
	list, ok := root.([]any)
	if !ok {
		return nil, apperr.ErrImport
	}

	importedAt := v.now()
	tasks := make([]models.Task, 0, len(list))
	orders := make(map[int]struct{}, len(list))
	ordersValid := true

	for _, entry := range list {
		rec, _ := entry.(map[string]any) // non-object entries coerce to all defaults
		t := models.Task{
			ID:        coerceString(rec["id"]),
			Text:      strings.TrimSpace(coerceString(rec["text"])),
			Completed: coerceBool(rec["completed"]),
			Priority:  models.ParsePriority(coerceString(rec["priority"])),
			Due:       coerceDate(rec["due"]),
			Category:  coerceString(rec["category"]),
			CreatedAt: coerceTime(rec["created_at"], importedAt),
		}
		if t.ID == "" {
			t.ID = v.ids.NextID()
		}
		if order, ok := coerceInt(rec["order"]); ok && ordersValid {
			if _, dup := orders[order]; dup {
				ordersValid = false
			} else {
				orders[order] = struct{}{}
				t.Order = order
			}
		} else {
			ordersValid = false
		}
		tasks = append(tasks, t)
	}

	if !ordersValid {
		for i := range tasks {
			tasks[i].Order = i
		}
	}
	return tasks, nil
}

// Export serializes the collection. The output is always a valid Validate
// input and round-trips every defined field.
func Export(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("importer: export: %w", err)
	}
	return data, nil
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

// coerceBool follows loose truthiness: booleans pass through, numbers are
// true when non-zero, strings when non-empty and not "false"/"0".
func coerceBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != "" && x != "false" && x != "0"
	default:
		return false
	}
}

func coerceInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// coerceDate keeps only parseable ISO dates; anything else is absent.
func coerceDate(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ""
	}
	return s
}

// coerceTime accepts RFC 3339 timestamps, ISO dates, and unix-millisecond
// numbers, defaulting to the import time.
func coerceTime(v any, fallback time.Time) time.Time {
	switch x := v.(type) {
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, x); err == nil {
			return ts
		}
		if ts, err := time.Parse("2006-01-02", x); err == nil {
			return ts
		}
	case float64:
		if x > 0 {
			return time.UnixMilli(int64(x)).UTC()
		}
	}
	return fallback
}
