package todo

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/go-todo-api/internal/apperror"
	"github.com/redmonkez12/go-todo-api/internal/httputil"
	"github.com/redmonkez12/go-todo-api/internal/logging"
)

// Handler contains HTTP handlers for the todo endpoints
type Handler struct {
	service *Service
	// trustProxy lets X-Forwarded-* headers shape the url of each todo
	trustProxy bool
}

func NewHandler(service *Service, trustProxy bool) *Handler {
	return &Handler{service: service, trustProxy: trustProxy}
}

// CreateRequest is the body of POST /todos.
type CreateRequest struct {
	Title string `json:"title"`
	Order int    `json:"order"`
}

// Routes mounts the todo endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Delete("/", h.DeleteAll)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List returns every todo
// @Summary      List todos
// @Description  Return all todos ordered by their order field
// @Tags         todos
// @Produce      json
// @Success      200 {array}  Response
// @Failure      500 {object} httputil.MessageResponse
// @Router       /todos [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	todos, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.RespondJSON(w, PresentAll(todos, httputil.BaseURL(r, h.trustProxy)), http.StatusOK)
}

// Get returns one todo
// @Summary      Get a todo
// @Tags         todos
// @Produce      json
// @Param        id path int true "Todo ID"
// @Success      200 {object} Response
// @Failure      404 {object} httputil.MessageResponse "Todo not found"
// @Router       /todos/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.RespondJSON(w, Present(*t, httputil.BaseURL(r, h.trustProxy)), http.StatusOK)
}

// Create adds a todo
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        request body CreateRequest true "New todo"
// @Success      200 {object} Response
// @Failure      400 {object} httputil.MessageResponse "Invalid request body"
// @Router       /todos [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logging.GetLoggerFromContext(r.Context()).Warn("invalid todo request body", "error", err.Error())
		httputil.RespondMessage(w, "Invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	t, err := h.service.Create(r.Context(), req.Title, req.Order)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.RespondJSON(w, Present(*t, httputil.BaseURL(r, h.trustProxy)), http.StatusOK)
}

// Update changes the given fields of a todo
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id path int true "Todo ID"
// @Param        request body Patch true "Fields to change"
// @Success      200 {object} Response
// @Failure      400 {object} httputil.MessageResponse "Invalid request body"
// @Failure      404 {object} httputil.MessageResponse "Todo not found"
// @Router       /todos/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	var patch Patch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		logging.GetLoggerFromContext(r.Context()).Warn("invalid todo patch body", "error", err.Error())
		httputil.RespondMessage(w, "Invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	t, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.RespondJSON(w, Present(*t, httputil.BaseURL(r, h.trustProxy)), http.StatusOK)
}

// DeleteAll removes every todo
// @Summary      Delete all todos
// @Tags         todos
// @Produce      json
// @Success      200 {array}  Response "The deleted todos"
// @Failure      500 {object} httputil.MessageResponse
// @Router       /todos [delete]
func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	todos, err := h.service.DeleteAll(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.RespondJSON(w, PresentAll(todos, httputil.BaseURL(r, h.trustProxy)), http.StatusOK)
}

// Delete removes one todo
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Param        id path int true "Todo ID"
// @Success      200 {object} Response "The deleted todo"
// @Failure      404 {object} httputil.MessageResponse "Todo not found"
// @Router       /todos/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	t, err := h.service.Delete(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.RespondJSON(w, Present(*t, httputil.BaseURL(r, h.trustProxy)), http.StatusOK)
}

// todoID parses the {id} URL parameter. Anything that is not a positive
// integer cannot name a todo and gets a 404.
func todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, r, ErrNotFound)
		return 0, false
	}
	return id, true
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperror.KindOf(err)
	if kind == apperror.KindInternal {
		logging.GetLoggerFromContext(r.Context()).Error("todo request failed", "error", err.Error())
	}
	httputil.RespondMessage(w, apperror.MessageOf(err, "Internal server error"), httputil.CodeFor(kind), apperror.HTTPStatus(kind))
}
