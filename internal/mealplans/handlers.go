package mealplans

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fdg312/diet-planner/internal/planner"
)

// Handler handles HTTP requests for meal plans.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new meal plans handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// HandleGenerate handles POST /v1/diet/generate
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	plan, err := h.service.Generate(r.Context(), req)
	if err != nil {
		h.handleError(w, "generate meal plan", err)
		return
	}

	writeJSON(w, http.StatusOK, PlanResponse{Plan: plan})
}

// HandleGet handles GET /v1/diet/plan?profile_id=
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	plan, err := h.service.GetActive(r.Context(), r.URL.Query().Get("profile_id"))
	if err != nil {
		h.handleError(w, "get meal plan", err)
		return
	}
	writeJSON(w, http.StatusOK, PlanResponse{Plan: plan})
}

// HandleGetToday handles GET /v1/diet/today?profile_id=&date=YYYY-MM-DD
func (h *Handler) HandleGetToday(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.service.GetDay(r.Context(), q.Get("profile_id"), q.Get("date"))
	if err != nil {
		h.handleError(w, "get day plan", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /v1/diet/plan?profile_id=
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteActive(r.Context(), r.URL.Query().Get("profile_id")); err != nil {
		h.handleError(w, "delete meal plan", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleError(w http.ResponseWriter, op string, err error) {
	var insufficient *planner.InsufficientDataError
	switch {
	case errors.As(err, &insufficient):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_catalog", insufficient.Error())
	case errors.Is(err, ErrProfileIDRequired), errors.Is(err, ErrInvalidProfileID), errors.Is(err, ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to "+op)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
