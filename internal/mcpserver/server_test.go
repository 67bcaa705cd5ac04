package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/BasaniKavya/todo-app/internal/idgen"
	"github.com/BasaniKavya/todo-app/internal/importer"
	"github.com/BasaniKavya/todo-app/internal/taskservice"
	"github.com/BasaniKavya/todo-app/internal/taskstore"
	"github.com/BasaniKavya/todo-app/internal/testutil"
)

func testServer(t *testing.T) (*Server, *taskservice.Service) {
	t.Helper()

	store, _ := testutil.TestStore(t)
	svc := taskservice.NewService(store, importer.New(idgen.New()), nil)
	return New(svc), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so we call the handler
	// functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_tasks":
		result, err = srv.listTasks(ctx, req)
	case "add_task":
		result, err = srv.addTask(ctx, req)
	case "toggle_task":
		result, err = srv.toggleTask(ctx, req)
	case "edit_task":
		result, err = srv.editTask(ctx, req)
	case "delete_task":
		result, err = srv.deleteTask(ctx, req)
	case "clear_completed":
		result, err = srv.clearCompleted(ctx, req)
	case "reorder_task":
		result, err = srv.reorderTask(ctx, req)
	case "export_tasks":
		result, err = srv.exportTasks(ctx, req)
	case "get_task_contract":
		result, err = srv.getTaskContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestAddAndListTasks(t *testing.T) {
	srv, _ := testServer(t)

	res := callTool(t, srv, "add_task", map[string]interface{}{
		"text": "write tests", "priority": "high",
	})
	if res.IsError {
		t.Fatalf("add_task error: %s", resultText(res))
	}

	res = callTool(t, srv, "list_tasks", map[string]interface{}{})
	text := resultText(res)
	if !strings.Contains(text, "write tests") {
		t.Errorf("list missing task: %s", text)
	}
	if !strings.Contains(text, `"priority": "high"`) {
		t.Errorf("list missing priority: %s", text)
	}
}

func TestAddTaskBlankText(t *testing.T) {
	srv, _ := testServer(t)
	res := callTool(t, srv, "add_task", map[string]interface{}{"text": "   "})
	if !res.IsError {
		t.Error("blank text should be a tool error")
	}
}

func TestToggleAndClear(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "finish report", taskstore.Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	res := callTool(t, srv, "toggle_task", map[string]interface{}{"id": task.ID})
	if !strings.Contains(resultText(res), "completed") {
		t.Errorf("toggle result = %s", resultText(res))
	}

	callTool(t, srv, "clear_completed", map[string]interface{}{})
	_, total, _ := svc.List(ctx)
	if total != 0 {
		t.Errorf("total after clear = %d", total)
	}
}

func TestEditTaskEmptyDeletes(t *testing.T) {
	srv, svc := testServer(t)
	task, err := svc.Create(context.Background(), "temp", taskstore.Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	res := callTool(t, srv, "edit_task", map[string]interface{}{"id": task.ID, "text": "  "})
	if !strings.Contains(resultText(res), "deleted") {
		t.Errorf("result = %s", resultText(res))
	}
}

func TestReorderOutsideManualMode(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()

	a, _ := svc.Create(ctx, "A", taskstore.Metadata{})
	b, _ := svc.Create(ctx, "B", taskstore.Metadata{})
	svc.SetView(ctx, "all", "priority", "")

	res := callTool(t, srv, "reorder_task", map[string]interface{}{
		"source": a.ID, "target": b.ID,
	})
	if !res.IsError {
		t.Error("reorder outside manual mode should fail")
	}
}

func TestExportIsValidImport(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, "round trip", taskstore.Metadata{}); err != nil {
		t.Fatal(err)
	}

	res := callTool(t, srv, "export_tasks", map[string]interface{}{})
	if res.IsError {
		t.Fatalf("export error: %s", resultText(res))
	}
	if _, err := svc.Import(ctx, []byte(resultText(res))); err != nil {
		t.Errorf("export output should import cleanly: %v", err)
	}
}

func TestTaskContract(t *testing.T) {
	srv, _ := testServer(t)
	res := callTool(t, srv, "get_task_contract", map[string]interface{}{})
	if !strings.Contains(resultText(res), "Task Record Format") {
		t.Error("contract text missing")
	}
}
