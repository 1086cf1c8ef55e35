package foods

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fdg312/diet-planner/internal/storage"
)

// Handler handles HTTP requests for the food catalog.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new foods handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// HandleList handles GET /v1/foods?diet_type=&meal_type=&q=&limit=&offset=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.FoodFilter{
		Query:    q.Get("q"),
		DietType: q.Get("diet_type"),
		MealType: q.Get("meal_type"),
		Limit:    parseIntQuery(r, "limit", defaultLimit),
		Offset:   parseIntQuery(r, "offset", 0),
	}

	foods, total, applied, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list foods failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list foods")
		return
	}

	items := make([]FoodDTO, len(foods))
	for i, f := range foods {
		items[i] = toDTO(f)
	}

	writeJSON(w, http.StatusOK, ListFoodsResponse{
		Items:  items,
		Total:  total,
		Limit:  applied.Limit,
		Offset: applied.Offset,
	})
}

// HandleUpsert handles POST /v1/foods
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	creating := req.ID == ""

	food, err := h.service.Upsert(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalid):
			writeError(w, http.StatusBadRequest, "invalid_request", strings.TrimPrefix(err.Error(), ErrInvalid.Error()+": "))
		case errors.Is(err, ErrConflict):
			writeError(w, http.StatusConflict, "duplicate_name", err.Error())
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Food not found")
		default:
			h.logger.Error("upsert food failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to save food")
		}
		return
	}

	status := http.StatusOK
	if creating {
		status = http.StatusCreated
	}
	writeJSON(w, status, toDTO(food))
}

// HandleDelete handles DELETE /v1/foods/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Food not found")
			return
		}
		h.logger.Error("delete food failed", zap.String("food_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete food")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toDTO(f storage.Food) FoodDTO {
	mealTypes := f.MealTypes
	if mealTypes == nil {
		mealTypes = []string{}
	}
	return FoodDTO{
		ID:        f.ID,
		Name:      f.Name,
		Calories:  f.Calories,
		ProteinG:  f.ProteinG,
		CarbsG:    f.CarbsG,
		FatG:      f.FatG,
		MealTypes: mealTypes,
		DietType:  f.DietType,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultValue
	}
	return val
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
