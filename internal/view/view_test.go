package view

import (
	"testing"
	"time"

	"github.com/BasaniKavya/todo-app/internal/models"
)

func mkTask(id, text string, order int) models.Task {
	return models.Task{
		ID: id, Text: text, Priority: models.PriorityNormal,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Order: order,
	}
}

func projectedTexts(tasks []models.Task, filter FilterMode, sortMode SortMode, q string) []string {
	out := []string{}
	for _, t := range Project(tasks, filter, sortMode, q) {
		out = append(out, t.Text)
	}
	return out
}

func assertSeq(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("projection = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("projection = %v, want %v", got, want)
		}
	}
}

func TestFilterModes(t *testing.T) {
	a := mkTask("a", "A", 0)
	b := mkTask("b", "B", 1)
	b.Completed = true
	tasks := []models.Task{a, b}

	assertSeq(t, projectedTexts(tasks, FilterAll, SortManual, ""), []string{"A", "B"})
	assertSeq(t, projectedTexts(tasks, FilterActive, SortManual, ""), []string{"A"})
	assertSeq(t, projectedTexts(tasks, FilterCompleted, SortManual, ""), []string{"B"})
}

func TestSearchCaseInsensitive(t *testing.T) {
	tasks := []models.Task{
		mkTask("a", "Buy Milk", 0),
		mkTask("b", "write report", 1),
		mkTask("c", "buy stamps", 2),
	}
	assertSeq(t, projectedTexts(tasks, FilterAll, SortManual, "BUY"), []string{"Buy Milk", "buy stamps"})
	assertSeq(t, projectedTexts(tasks, FilterAll, SortManual, ""), []string{"Buy Milk", "write report", "buy stamps"})
}

func TestSortDueAsc(t *testing.T) {
	a := mkTask("a", "may", 0)
	a.Due = "2024-05-01"
	b := mkTask("b", "undated", 1)
	c := mkTask("c", "march", 2)
	c.Due = "2024-03-10"

	// Dated tasks ascend; undated tasks land after all dated ones.
	assertSeq(t, projectedTexts([]models.Task{a, b, c}, FilterAll, SortDueAsc, ""),
		[]string{"march", "may", "undated"})
}

func TestSortDueAscUndatedFollowOrder(t *testing.T) {
	a := mkTask("a", "second undated", 5)
	b := mkTask("b", "first undated", 1)
	c := mkTask("c", "dated", 3)
	c.Due = "2024-03-10"

	assertSeq(t, projectedTexts([]models.Task{a, b, c}, FilterAll, SortDueAsc, ""),
		[]string{"dated", "first undated", "second undated"})
}

func TestSortPriority(t *testing.T) {
	a := mkTask("a", "low", 0)
	a.Priority = models.PriorityLow
	b := mkTask("b", "high", 1)
	b.Priority = models.PriorityHigh
	c := mkTask("c", "normal", 2)

	assertSeq(t, projectedTexts([]models.Task{a, b, c}, FilterAll, SortPriority, ""),
		[]string{"high", "normal", "low"})
}

func TestSortCreatedDescTiesByOrder(t *testing.T) {
	a := mkTask("a", "older", 0)
	a.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := mkTask("b", "tie-late", 2)
	b.CreatedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	c := mkTask("c", "tie-early", 1)
	c.CreatedAt = b.CreatedAt

	assertSeq(t, projectedTexts([]models.Task{a, b, c}, FilterAll, SortCreatedDesc, ""),
		[]string{"tie-early", "tie-late", "older"})
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	tasks := []models.Task{mkTask("a", "A", 3), mkTask("b", "B", 1)}
	_ = Project(tasks, FilterAll, SortManual, "")
	if tasks[0].ID != "a" || tasks[1].ID != "b" {
		t.Error("input slice was reordered")
	}
	if tasks[0].Order != 3 || tasks[1].Order != 1 {
		t.Error("order fields were rewritten")
	}
}

func TestParseModes(t *testing.T) {
	if ParseFilterMode("bogus") != FilterAll {
		t.Error("unknown filter should default to all")
	}
	if ParseSortMode("bogus") != SortManual {
		t.Error("unknown sort should default to manual")
	}
	if ParseSortMode("due_asc") != SortDueAsc {
		t.Error("due_asc should parse")
	}
}
