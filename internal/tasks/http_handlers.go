package tasks

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"tasklist/internal/analytics"
	"tasklist/internal/logger"
	"tasklist/internal/middleware"
)

type Handler struct {
	store  *Store
	view   Renderer
	events *analytics.Recorder
	log    *logrus.Entry
}

func NewHandler(store *Store, view Renderer, events *analytics.Recorder, log *logrus.Entry) *Handler {
	return &Handler{store: store, view: view, events: events, log: log}
}

// Register mounts the HTML pages and the JSON API on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.index)
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.createForm(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/tasks/", h.taskForm)

	mux.HandleFunc("/api/tasks", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.listJSON(w, r)
		case http.MethodPost:
			h.createJSON(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/tasks/", h.taskJSON)
}

// Visible derives what the list shows from the full sequence. Search and
// status filter are never combined; when both are given the filter wins.
func Visible(all []Task, query url.Values) (Page, error) {
	page := Page{Tasks: all}
	if f := query.Get("filter"); f != "" {
		status, err := ParseStatus(f)
		if err != nil {
			return page, err
		}
		page.Filter = status
		page.Tasks = FilterByStatus(all, status)
		return page, nil
	}
	page.Search = query.Get("q")
	page.Tasks = Search(all, page.Search)
	return page, nil
}

// -------------------------------
// HTML
// -------------------------------

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page, err := Visible(h.store.Tasks(), r.URL.Query())
	if err != nil {
		http.Error(w, "unknown filter", http.StatusBadRequest)
		return
	}
	if len(r.URL.Query()) == 0 {
		h.events.Log(r.Context(), analytics.FromRequest(r), analytics.EventAppOpened, map[string]any{
			"task_count": len(page.Tasks),
		})
	}
	h.render(w, r, http.StatusOK, page)
}

func (h *Handler) createForm(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.Add(r.Context(), r.FormValue("text"))
	switch {
	case errors.Is(err, ErrEmptyInput):
		h.render(w, r, http.StatusUnprocessableEntity, Page{Tasks: h.store.Tasks(), Notice: NoticeEmptyInput})
		return
	case err != nil:
		h.storageError(w, r, err)
		return
	}
	h.trackCreated(r, t)
	redirectHome(w, r)
}

// taskForm serves /tasks/{id}/toggle, /tasks/{id}/edit and /tasks/{id}/delete.
func (h *Handler) taskForm(w http.ResponseWriter, r *http.Request) {
	id, action, ok := parseTaskPath(r.URL.Path, "/tasks/")
	if !ok || action == "" {
		http.NotFound(w, r)
		return
	}

	switch {
	case action == "toggle" && r.Method == http.MethodPost:
		t, err := h.store.Toggle(r.Context(), id)
		if err == nil {
			h.trackToggled(r, t)
		}
		h.afterForm(w, r, err)

	case action == "edit" && r.Method == http.MethodGet:
		h.showTask(w, r, id, h.view.RenderPrompt, PromptEdit)

	case action == "edit" && r.Method == http.MethodPost:
		t, err := h.store.Edit(r.Context(), id, formPrompter(r))
		if err == nil {
			h.trackEdited(r, t)
		}
		h.afterForm(w, r, err)

	case action == "delete" && r.Method == http.MethodGet:
		h.showTask(w, r, id, h.view.RenderConfirm, ConfirmRemove)

	case action == "delete" && r.Method == http.MethodPost:
		err := h.store.Remove(r.Context(), id, Confirmed(r.PostFormValue("confirm") == "yes"))
		if err == nil {
			h.trackDeleted(r, id)
		}
		h.afterForm(w, r, err)

	case action == "toggle" || action == "edit" || action == "delete":
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) showTask(w http.ResponseWriter, r *http.Request, id int64,
	render func(w io.Writer, d Dialog) error, message string) {
	t, ok := h.store.Get(id)
	if !ok {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	d := Dialog{Task: t, Message: message, CSRFToken: middleware.CSRFToken(r.Context())}
	if err := render(w, d); err != nil {
		h.entry(r).WithError(err).Error("render failed")
	}
}

// afterForm ends every form mutation. Cancelled, blank and stale requests
// are no-ops and land back on the list like successful ones.
func (h *Handler) afterForm(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil &&
		!errors.Is(err, ErrCancelled) &&
		!errors.Is(err, ErrEmptyInput) &&
		!errors.Is(err, ErrMissingID) {
		h.storageError(w, r, err)
		return
	}
	redirectHome(w, r)
}

// formPrompter answers the edit prompt from the submitted form. Pressing
// cancel, or posting no text field at all, cancels.
func formPrompter(r *http.Request) Prompter {
	if err := r.ParseForm(); err != nil {
		return Cancel
	}
	if r.PostForm.Has("cancel") || !r.PostForm.Has("text") {
		return Cancel
	}
	return Answer(r.PostForm.Get("text"))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page Page) {
	page.CSRFToken = middleware.CSRFToken(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.view.Render(w, page); err != nil {
		h.entry(r).WithError(err).Error("render failed")
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// -------------------------------
// JSON
// -------------------------------

func (h *Handler) listJSON(w http.ResponseWriter, r *http.Request) {
	page, err := Visible(h.store.Tasks(), r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if page.Tasks == nil {
		page.Tasks = []Task{}
	}
	writeJSON(w, http.StatusOK, page.Tasks)
}

func (h *Handler) createJSON(w http.ResponseWriter, r *http.Request) {
	var body createRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	t, err := h.store.Add(r.Context(), body.Text)
	if err != nil {
		h.jsonError(w, r, err)
		return
	}
	h.trackCreated(r, t)
	writeJSON(w, http.StatusCreated, t)
}

// taskJSON serves /api/tasks/{id} and /api/tasks/{id}/toggle.
func (h *Handler) taskJSON(w http.ResponseWriter, r *http.Request) {
	id, action, ok := parseTaskPath(r.URL.Path, "/api/tasks/")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			t, found := h.store.Get(id)
			if !found {
				writeError(w, http.StatusNotFound, ErrMissingID.Error())
				return
			}
			writeJSON(w, http.StatusOK, t)
		case http.MethodPut:
			h.editJSON(w, r, id)
		case http.MethodDelete:
			h.deleteJSON(w, r, id)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	case "toggle":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		t, err := h.store.Toggle(r.Context(), id)
		if err != nil {
			h.jsonError(w, r, err)
			return
		}
		h.trackToggled(r, t)
		writeJSON(w, http.StatusOK, t)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *Handler) editJSON(w http.ResponseWriter, r *http.Request, id int64) {
	var body editRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	p := Cancel
	if body.Text != nil {
		p = Answer(*body.Text)
	}
	t, err := h.store.Edit(r.Context(), id, p)
	if err != nil {
		h.jsonError(w, r, err)
		return
	}
	h.trackEdited(r, t)
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) deleteJSON(w http.ResponseWriter, r *http.Request, id int64) {
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if err := h.store.Remove(r.Context(), id, Confirmed(confirm)); err != nil {
		h.jsonError(w, r, err)
		return
	}
	h.trackDeleted(r, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) jsonError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrEmptyInput):
		writeError(w, http.StatusBadRequest, ErrEmptyInput.Error())
	case errors.Is(err, ErrCancelled):
		writeError(w, http.StatusConflict, ErrCancelled.Error())
	case errors.Is(err, ErrMissingID):
		writeError(w, http.StatusNotFound, ErrMissingID.Error())
	case errors.Is(err, ErrIDsExhausted):
		writeError(w, http.StatusInsufficientStorage, ErrIDsExhausted.Error())
	default:
		h.entry(r).WithError(err).Error("storage failure")
		writeError(w, http.StatusInternalServerError, "storage error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// -------------------------------
// helpers
// -------------------------------

func (h *Handler) storageError(w http.ResponseWriter, r *http.Request, err error) {
	h.entry(r).WithError(err).Error("storage failure")
	http.Error(w, "storage error", http.StatusInternalServerError)
}

func (h *Handler) entry(r *http.Request) *logrus.Entry {
	return logger.WithRequestID(h.log, middleware.GetRequestID(r.Context()))
}

func (h *Handler) trackCreated(r *http.Request, t Task) {
	h.events.Log(r.Context(), analytics.FromRequest(r), analytics.EventTaskCreated, map[string]any{
		"task_id":  t.ID,
		"text_len": len(t.Text),
	})
}

func (h *Handler) trackToggled(r *http.Request, t Task) {
	h.events.Log(r.Context(), analytics.FromRequest(r), analytics.EventTaskToggled, map[string]any{
		"task_id":   t.ID,
		"completed": t.Completed,
	})
}

func (h *Handler) trackEdited(r *http.Request, t Task) {
	h.events.Log(r.Context(), analytics.FromRequest(r), analytics.EventTaskEdited, map[string]any{
		"task_id":  t.ID,
		"text_len": len(t.Text),
	})
}

func (h *Handler) trackDeleted(r *http.Request, id int64) {
	h.events.Log(r.Context(), analytics.FromRequest(r), analytics.EventTaskDeleted, map[string]any{
		"task_id": id,
	})
}

// parseTaskPath splits "/tasks/12/edit" into 12 and "edit".
func parseTaskPath(path, prefix string) (id int64, action string, ok bool) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == path {
		return 0, "", false
	}
	idPart, action, _ := strings.Cut(strings.TrimSuffix(rest, "/"), "/")
	if strings.Contains(action, "/") {
		return 0, "", false
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return id, action, true
}
