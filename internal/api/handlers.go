package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BasaniKavya/todo-app/internal/models"
	"github.com/BasaniKavya/todo-app/internal/taskservice"
	"github.com/BasaniKavya/todo-app/internal/taskstore"
)

// Handler holds API route handlers.
type Handler struct {
	svc *taskservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *taskservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListTasks handles GET /tasks. Query params filter, sort, and q update
// the corresponding parts of the active view before projecting; the active
// count always follows canonical state, not the projection.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vs := h.svc.View()

	filter, sortMode, query := string(vs.Filter), string(vs.Sort), vs.Query
	if q.Has("filter") {
		filter = q.Get("filter")
	}
	if q.Has("sort") {
		sortMode = q.Get("sort")
	}
	if q.Has("q") {
		query = q.Get("q")
	}
	vs = h.svc.SetView(r.Context(), filter, sortMode, query)

	tasks, total, active := h.svc.List(r.Context())
	writeJSON(w, http.StatusOK, TaskListResponse{
		Tasks:  tasks,
		Total:  total,
		Active: active,
		Filter: string(vs.Filter),
		Sort:   string(vs.Sort),
		Query:  vs.Query,
	})
}

// CreateTask handles POST /tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	meta := taskstore.Metadata{}
	if req.Due != "" {
		meta.Due = &req.Due
	}
	if req.Priority != "" {
		p := models.ParsePriority(req.Priority)
		meta.Priority = &p
	}
	if req.Category != "" {
		meta.Category = &req.Category
	}

	task, err := h.svc.Create(r.Context(), req.Text, meta)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// ToggleTask handles POST /tasks/{id}/toggle.
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.svc.Toggle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// UpdateTaskText handles PUT /tasks/{id}/text. A text that trims to the
// empty string deletes the task and reports it in the response.
func (h *Handler) UpdateTaskText(w http.ResponseWriter, r *http.Request) {
	var req UpdateTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	deleted, err := h.svc.UpdateText(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// UpdateTaskMetadata handles PATCH /tasks/{id}.
func (h *Handler) UpdateTaskMetadata(w http.ResponseWriter, r *http.Request) {
	var req MetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	task, err := h.svc.UpdateMetadata(r.Context(), chi.URLParam(r, "id"), req.toMetadata())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{id}. Deletion is idempotent: an
// unknown id still yields 204.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearCompleted handles DELETE /tasks/completed.
func (h *Handler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearCompleted(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderTasks handles POST /tasks/reorder. Rejected with 409 while the
// active view is not in manual sort mode.
func (h *Handler) ReorderTasks(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Source == "" || req.Target == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("source and target are required"))
		return
	}
	if err := h.svc.Reorder(r.Context(), req.Source, req.Target); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartEdit handles POST /edit/{id}.
func (h *Handler) StartEdit(w http.ResponseWriter, r *http.Request) {
	buf, err := h.svc.StartEdit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buf)
}

// UpdateEdit handles PATCH /edit.
func (h *Handler) UpdateEdit(w http.ResponseWriter, r *http.Request) {
	var req EditUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	var prio *models.Priority
	if req.Priority != nil {
		p := models.ParsePriority(*req.Priority)
		prio = &p
	}
	buf, err := h.svc.UpdateEdit(r.Context(), req.Text, req.Due, prio)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buf)
}

// CommitEdit handles POST /edit/commit. Blur-to-commit at the interaction
// surface lands here too.
func (h *Handler) CommitEdit(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.CommitEdit(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// CancelEdit handles POST /edit/cancel.
func (h *Handler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CancelEdit(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /import. The body is the raw import document; the
// caller obtains user confirmation before invoking, since a successful
// import fully replaces canonical state.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	n, err := h.svc.Import(r.Context(), raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Imported: n})
}

// Export handles GET /export.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Export(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="tasks.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
