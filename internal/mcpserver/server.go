// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes task engine tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/BasaniKavya/todo-app/internal/models"
	"github.com/BasaniKavya/todo-app/internal/taskservice"
	"github.com/BasaniKavya/todo-app/internal/taskstore"
)

// Server wraps the MCP server with task tools.
type Server struct {
	mcp *server.MCPServer
	svc *taskservice.Service
}

// New creates a new MCP server with all task tools registered.
func New(svc *taskservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"TodoApp",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks through the active view. Optional filter (all/active/completed), "+
			"sort (manual/created_desc/due_asc/priority), and query (substring search)."),
		mcp.WithString("filter", mcp.Description("Completion filter")),
		mcp.WithString("sort", mcp.Description("Sort mode")),
		mcp.WithString("query", mcp.Description("Case-insensitive text search")),
	), s.listTasks)

	s.mcp.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Create a task. New tasks land at the front of the manual order. "+
			"Read the task format via the get_task_contract tool before supplying metadata."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Task text (must not be blank)")),
		mcp.WithString("due", mcp.Description("Optional due date, ISO format (2006-01-02)")),
		mcp.WithString("priority", mcp.Description("high, normal, or low")),
		mcp.WithString("category", mcp.Description("Optional free-text category")),
	), s.addTask)

	s.mcp.AddTool(mcp.NewTool("toggle_task",
		mcp.WithDescription("Flip a task's completion state."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Task id")),
	), s.toggleTask)

	s.mcp.AddTool(mcp.NewTool("edit_task",
		mcp.WithDescription("Replace a task's text. Text that trims to empty deletes the task."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Task id")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Replacement text")),
	), s.editTask)

	s.mcp.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task. Unknown ids are a no-op."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Task id")),
	), s.deleteTask)

	s.mcp.AddTool(mcp.NewTool("clear_completed",
		mcp.WithDescription("Delete every completed task."),
	), s.clearCompleted)

	s.mcp.AddTool(mcp.NewTool("reorder_task",
		mcp.WithDescription("Move a task immediately before another in the manual order. "+
			"Only valid while the active sort mode is manual."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Id of the task to move")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Id of the task to land before")),
	), s.reorderTask)

	s.mcp.AddTool(mcp.NewTool("export_tasks",
		mcp.WithDescription("Export the full collection as JSON. The output is a valid import payload."),
	), s.exportTasks)

	// Resource: task record contract.
	s.mcp.AddResource(
		mcp.NewResource("todoapp://task-format", "Task Record Format",
			mcp.WithResourceDescription("Canonical task record format used by import and export."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTaskFormatResource,
	)

	s.mcp.AddTool(mcp.NewTool("get_task_contract",
		mcp.WithDescription("Returns the canonical task record format. "+
			"Call this before constructing import payloads."),
	), s.getTaskContract)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vs := s.svc.View()
	filter, sortMode, query := string(vs.Filter), string(vs.Sort), vs.Query
	if f, err := req.RequireString("filter"); err == nil {
		filter = f
	}
	if m, err := req.RequireString("sort"); err == nil {
		sortMode = m
	}
	if q, err := req.RequireString("query"); err == nil {
		query = q
	}
	s.svc.SetView(ctx, filter, sortMode, query)

	tasks, total, active := s.svc.List(ctx)
	out, _ := json.MarshalIndent(map[string]any{
		"tasks":  tasks,
		"total":  total,
		"active": active,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	meta := taskstore.Metadata{}
	if due, err := req.RequireString("due"); err == nil && due != "" {
		meta.Due = &due
	}
	if prio, err := req.RequireString("priority"); err == nil && prio != "" {
		p := models.ParsePriority(prio)
		meta.Priority = &p
	}
	if cat, err := req.RequireString("category"); err == nil && cat != "" {
		meta.Category = &cat
	}

	task, err := s.svc.Create(ctx, text, meta)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(task, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) toggleTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	task, err := s.svc.Toggle(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("toggle %s: %v", id, err)), nil
	}
	state := "active"
	if task.Completed {
		state = "completed"
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s is now %s", task.Text, state)), nil
}

func (s *Server) editTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	deleted, err := s.svc.UpdateText(ctx, id, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("edit %s: %v", id, err)), nil
	}
	if deleted {
		return mcp.NewToolResultText(fmt.Sprintf("deleted %s (empty text)", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated %s", id)), nil
}

func (s *Server) deleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) clearCompleted(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.svc.ClearCompleted(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("cleared completed tasks"), nil
}

func (s *Server) reorderTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Reorder(ctx, source, target); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("moved %s before %s", source, target)), nil
}

func (s *Server) exportTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.svc.Export(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(strings.TrimSpace(string(data))), nil
}

func (s *Server) getTaskContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(TaskFormatContract), nil
}

func (s *Server) readTaskFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "todoapp://task-format",
			MIMEType: "text/markdown",
			Text:     TaskFormatContract,
		},
	}, nil
}
