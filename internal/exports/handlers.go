package exports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fdg312/diet-planner/internal/mealplans"
	"github.com/fdg312/diet-planner/internal/storage"
)

// Handlers handles HTTP requests for plan exports
type Handlers struct {
	service *Service
	logger  *zap.Logger
}

func NewHandlers(service *Service, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// HandleCreate handles POST /v1/diet/plan/export
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	export, err := h.service.CreateExport(r.Context(), req)
	if err != nil {
		h.handleError(w, "create export", err)
		return
	}

	dto, err := h.toDTO(r, export)
	if err != nil {
		h.handleError(w, "build download url", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dto)
}

// HandleDownload handles GET /v1/exports/{id}/download
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid export ID")
		return
	}

	export, err := h.service.GetExport(r.Context(), id)
	if err != nil {
		h.handleError(w, "get export", err)
		return
	}

	if export.ObjectKey != nil && !h.service.localMode() {
		url, err := h.service.DownloadURL(r.Context(), export, getBaseURL(r))
		if err != nil {
			h.handleError(w, "build download url", err)
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	data, err := h.service.Data(r.Context(), export)
	if err != nil {
		h.handleError(w, "read export", err)
		return
	}

	filename := fmt.Sprintf("meal_plan_%s.%s", export.CreatedAt.UTC().Format("2006-01-02"), export.Format)
	w.Header().Set("Content-Type", contentType(export.Format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// HandleDelete handles DELETE /v1/exports/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid export ID")
		return
	}

	if err := h.service.DeleteExport(r.Context(), id); err != nil {
		h.handleError(w, "delete export", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) toDTO(r *http.Request, export *storage.PlanExport) (ExportDTO, error) {
	url, err := h.service.DownloadURL(r.Context(), export, getBaseURL(r))
	if err != nil {
		return ExportDTO{}, err
	}
	return ExportDTO{
		ID:          export.ID,
		ProfileID:   export.ProfileID,
		PlanID:      export.PlanID,
		Format:      export.Format,
		DownloadURL: url,
		SizeBytes:   export.SizeBytes,
		CreatedAt:   export.CreatedAt,
	}, nil
}

func (h *Handlers) handleError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidFormat):
		writeError(w, http.StatusBadRequest, "invalid_format", err.Error())
	case errors.Is(err, ErrNoPlan):
		writeError(w, http.StatusNotFound, "plan_not_found", "Generate a meal plan first")
	case errors.Is(err, ErrExportNotFound):
		writeError(w, http.StatusNotFound, "export_not_found", "Export not found")
	case errors.Is(err, mealplans.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
	case errors.Is(err, ErrLimitReached):
		writeError(w, http.StatusTooManyRequests, "export_limit_reached", err.Error())
	case errors.Is(err, mealplans.ErrProfileIDRequired), errors.Is(err, mealplans.ErrInvalidProfileID):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func getBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
