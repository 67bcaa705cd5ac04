// Package view derives read-only projections of the canonical collection.
package view

import (
	"sort"
	"strings"

	"github.com/BasaniKavya/todo-app/internal/models"
)

// FilterMode selects tasks by completion state.
type FilterMode string

// Filter modes.
const (
	FilterAll       FilterMode = "all"
	FilterActive    FilterMode = "active"
	FilterCompleted FilterMode = "completed"
)

// ParseFilterMode maps a raw string to a filter mode, defaulting to all.
func ParseFilterMode(s string) FilterMode {
	switch FilterMode(s) {
	case FilterActive, FilterCompleted:
		return FilterMode(s)
	default:
		return FilterAll
	}
}

// SortMode selects the ordering of a projection.
type SortMode string

// Sort modes. Manual displays the canonical order and is the only mode in
// which drag reordering is allowed.
const (
	SortManual      SortMode = "manual"
	SortCreatedDesc SortMode = "created_desc"
	SortDueAsc      SortMode = "due_asc"
	SortPriority    SortMode = "priority"
)

// ParseSortMode maps a raw string to a sort mode, defaulting to manual.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortCreatedDesc, SortDueAsc, SortPriority:
		return SortMode(s)
	default:
		return SortManual
	}
}

// Project computes a filtered, sorted sequence from the canonical
// collection. It never mutates its input or any Order field; callers pass
// a snapshot and receive a fresh slice.
//
// The query is a case-insensitive substring match on task text; an empty
// query matches everything. Every sort mode breaks ties by ascending Order
// so projections are deterministic.
func Project(tasks []models.Task, filter FilterMode, sortMode SortMode, query string) []models.Task {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matchesFilter(t, filter) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Text), q) {
			continue
		}
		out = append(out, t)
	}

	switch sortMode {
	case SortCreatedDesc:
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].Order < out[j].Order
		})
	case SortDueAsc:
		sort.SliceStable(out, func(i, j int) bool {
			di, iOK := out[i].DueDate()
			dj, jOK := out[j].DueDate()
			switch {
			case iOK && jOK:
				if !di.Equal(dj) {
					return di.Before(dj)
				}
				return out[i].Order < out[j].Order
			case iOK:
				return true // dated tasks sort before undated
			case jOK:
				return false
			default:
				return out[i].Order < out[j].Order
			}
		})
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			ri, rj := out[i].Priority.Rank(), out[j].Priority.Rank()
			if ri != rj {
				return ri < rj
			}
			return out[i].Order < out[j].Order
		})
	default:
		// Manual: input snapshots arrive in ascending canonical order, but
		// sort anyway so Project stands alone on arbitrary input.
		sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	}

	return out
}

func matchesFilter(t models.Task, filter FilterMode) bool {
	switch filter {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}
