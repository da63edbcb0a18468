package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptforge/promptforge/internal/auth"
	"github.com/promptforge/promptforge/internal/handler/dto"
	"github.com/promptforge/promptforge/internal/service"
)

// PromptSetHandler handles CRUD for saved prompt collections.
type PromptSetHandler struct {
	svc    *service.PromptSetService
	logger *slog.Logger
}

// NewPromptSetHandler creates a new PromptSetHandler.
func NewPromptSetHandler(svc *service.PromptSetService, logger *slog.Logger) *PromptSetHandler {
	return &PromptSetHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/prompt-sets.
func (h *PromptSetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePromptSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	set, err := h.svc.Create(r.Context(), service.CreatePromptSetInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		AuthorID:    auth.UserIDFromContext(r.Context()),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("prompt_set_created",
		"set_id", set.ID,
		"author_id", set.AuthorID,
	)

	writeJSON(w, http.StatusCreated, dto.ToPromptSetResponse(set))
}

// Get handles GET /api/v1/prompt-sets/{id}.
func (h *PromptSetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Prompt set ID is required")
		return
	}

	set, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPromptSetResponse(set))
}

// List handles GET /api/v1/prompt-sets. Returns the caller's own sets.
func (h *PromptSetHandler) List(w http.ResponseWriter, r *http.Request) {
	sets, err := h.svc.ListMine(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPromptSetListResponse(sets))
}

// Update handles PATCH /api/v1/prompt-sets/{id}.
func (h *PromptSetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Prompt set ID is required")
		return
	}

	var req dto.UpdatePromptSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	set, err := h.svc.Update(r.Context(), service.UpdatePromptSetInput{
		ID:          id,
		CallerID:    auth.UserIDFromContext(r.Context()),
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPromptSetResponse(set))
}

// Delete handles DELETE /api/v1/prompt-sets/{id}.
func (h *PromptSetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Prompt set ID is required")
		return
	}

	if err := h.svc.Delete(r.Context(), id, auth.UserIDFromContext(r.Context())); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Upvote handles POST /api/v1/prompt-sets/{id}/upvote.
func (h *PromptSetHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Prompt set ID is required")
		return
	}

	upvotes, err := h.svc.Upvote(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UpvoteResponse{Upvotes: upvotes})
}

// AddPrompt handles POST /api/v1/prompt-sets/{id}/prompts.
func (h *PromptSetHandler) AddPrompt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Prompt set ID is required")
		return
	}

	var req dto.AddPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	prompt, err := h.svc.AddPrompt(r.Context(), service.AddPromptInput{
		SetID:    id,
		CallerID: auth.UserIDFromContext(r.Context()),
		Title:    req.Title,
		Text:     req.Text,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToPromptResponse(prompt))
}

// ListPrompts handles GET /api/v1/prompt-sets/{id}/prompts.
func (h *PromptSetHandler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Prompt set ID is required")
		return
	}

	prompts, err := h.svc.ListPrompts(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPromptListResponse(prompts))
}

// DeletePrompt handles DELETE /api/v1/prompt-sets/{id}/prompts/{promptID}.
func (h *PromptSetHandler) DeletePrompt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	promptID := chi.URLParam(r, "promptID")
	if id == "" || promptID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Prompt set and prompt IDs are required")
		return
	}

	if err := h.svc.DeletePrompt(r.Context(), id, promptID, auth.UserIDFromContext(r.Context())); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps prompt set service errors to HTTP responses.
func (h *PromptSetHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPromptSetNotFound):
		writeError(w, http.StatusNotFound, "PROMPT_SET_NOT_FOUND", "Prompt set not found")
	case errors.Is(err, service.ErrPromptNotFound):
		writeError(w, http.StatusNotFound, "PROMPT_NOT_FOUND", "Prompt not found")
	case errors.Is(err, service.ErrNotOwner):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not own this prompt set")
	case errors.Is(err, service.ErrMissingTitle):
		writeError(w, http.StatusBadRequest, "MISSING_TITLE", "Title is required")
	case errors.Is(err, service.ErrMissingText):
		writeError(w, http.StatusBadRequest, "MISSING_TEXT", "Prompt text is required")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
