package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BasaniKavya/todo-app/internal/taskservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *taskservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Tasks CRUD and projections.
	r.Get("/tasks", h.ListTasks)
	r.Post("/tasks", h.CreateTask)
	// "completed" before "{id}" so the bulk route wins.
	r.Delete("/tasks/completed", h.ClearCompleted)
	r.Post("/tasks/reorder", h.ReorderTasks)
	r.Post("/tasks/{id}/toggle", h.ToggleTask)
	r.Put("/tasks/{id}/text", h.UpdateTaskText)
	r.Patch("/tasks/{id}", h.UpdateTaskMetadata)
	r.Delete("/tasks/{id}", h.DeleteTask)

	// Edit session.
	r.Post("/edit/commit", h.CommitEdit)
	r.Post("/edit/cancel", h.CancelEdit)
	r.Patch("/edit", h.UpdateEdit)
	r.Post("/edit/{id}", h.StartEdit)

	// Import / export.
	r.Post("/import", h.Import)
	r.Get("/export", h.Export)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
