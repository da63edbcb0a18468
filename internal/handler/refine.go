package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/promptforge/promptforge/internal/auth"
	"github.com/promptforge/promptforge/internal/handler/dto"
	"github.com/promptforge/promptforge/internal/model"
	"github.com/promptforge/promptforge/internal/service"
)

// RefineHandler handles the quota-gated refine endpoints.
type RefineHandler struct {
	svc    *service.RefineService
	logger *slog.Logger
}

// NewRefineHandler creates a new RefineHandler.
func NewRefineHandler(svc *service.RefineService, logger *slog.Logger) *RefineHandler {
	return &RefineHandler{
		svc:    svc,
		logger: logger,
	}
}

// Basic handles POST /api/v1/refine/basic.
func (h *RefineHandler) Basic(w http.ResponseWriter, r *http.Request) {
	h.refine(w, r, model.TierBasic)
}

// Pro handles POST /api/v1/refine/pro.
func (h *RefineHandler) Pro(w http.ResponseWriter, r *http.Request) {
	h.refine(w, r, model.TierPro)
}

func (h *RefineHandler) refine(w http.ResponseWriter, r *http.Request, tier model.Tier) {
	session := auth.MustSessionFromContext(r.Context())

	var req dto.RefineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.Refine(r.Context(), session.UserID, tier, req.Prompt)
	if err != nil {
		h.handleServiceError(w, err, tier)
		return
	}

	h.logger.Info("prompt_refined",
		"user_id", session.UserID,
		"tier", string(tier),
		"remaining", result.Remaining,
	)

	writeJSON(w, http.StatusOK, dto.RefineResponse{
		Tier:      string(result.Tier),
		Refined:   result.Text,
		Remaining: result.Remaining,
	})
}

// handleServiceError maps refine pipeline errors to HTTP responses.
func (h *RefineHandler) handleServiceError(w http.ResponseWriter, err error, tier model.Tier) {
	switch {
	case errors.Is(err, service.ErrEmptyPrompt):
		writeError(w, http.StatusBadRequest, "EMPTY_PROMPT", "Prompt is required")
	case errors.Is(err, service.ErrPromptTooLong):
		writeError(w, http.StatusBadRequest, "PROMPT_TOO_LONG", "Prompt exceeds maximum length")
	case errors.Is(err, service.ErrInvalidTier):
		writeError(w, http.StatusBadRequest, "INVALID_TIER", "Unknown tier")
	case errors.Is(err, service.ErrQuotaExceeded):
		writeError(w, http.StatusPaymentRequired, "QUOTA_EXCEEDED", "Usage limit reached for this tier")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrUpstream):
		h.logger.Warn("upstream_error", "tier", string(tier), "error", err)
		writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Provider request failed")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
