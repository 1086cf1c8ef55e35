package foods

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/storage/memory"
)

type failingFoodsRepo struct{}

func (failingFoodsRepo) List(ctx context.Context, filter storage.FoodFilter) ([]storage.Food, int, error) {
	return nil, 0, errors.New("db down")
}

func (failingFoodsRepo) ListByDietTypes(ctx context.Context, dietTypes []string) ([]storage.Food, error) {
	return nil, errors.New("db down")
}

func (failingFoodsRepo) Upsert(ctx context.Context, req storage.FoodUpsert) (storage.Food, error) {
	return storage.Food{}, errors.New("db down")
}

func (failingFoodsRepo) Delete(ctx context.Context, id string) error {
	return errors.New("db down")
}

func newTestMux(repo storage.FoodsStorage) *http.ServeMux {
	handler := NewHandler(NewService(repo), zap.NewNop())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/foods", handler.HandleList)
	mux.HandleFunc("POST /v1/foods", handler.HandleUpsert)
	mux.HandleFunc("DELETE /v1/foods/{id}", handler.HandleDelete)
	return mux
}

func postFood(t *testing.T, mux http.Handler, req UpsertFoodRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(req)
	r := httptest.NewRequest(http.MethodPost, "/v1/foods", bytes.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func oatmeal() UpsertFoodRequest {
	return UpsertFoodRequest{
		Name:      "Oatmeal with Banana",
		Calories:  300,
		ProteinG:  10,
		CarbsG:    54,
		FatG:      6,
		MealTypes: []string{"breakfast"},
		DietType:  "balanced",
	}
}

func TestHandleUpsertCreate(t *testing.T) {
	mux := newTestMux(memory.New().GetFoodsStorage())

	w := postFood(t, mux, oatmeal())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var dto FoodDTO
	if err := json.NewDecoder(w.Body).Decode(&dto); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if dto.ID == "" {
		t.Error("expected generated id")
	}
	if dto.Calories != 300 || dto.DietType != "balanced" {
		t.Errorf("unexpected dto: %+v", dto)
	}
}

func TestHandleUpsertUpdate(t *testing.T) {
	mux := newTestMux(memory.New().GetFoodsStorage())

	var created FoodDTO
	json.NewDecoder(postFood(t, mux, oatmeal()).Body).Decode(&created)

	req := oatmeal()
	req.ID = created.ID
	req.Calories = 320
	w := postFood(t, mux, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var updated FoodDTO
	json.NewDecoder(w.Body).Decode(&updated)
	if updated.ID != created.ID || updated.Calories != 320 {
		t.Errorf("unexpected update result: %+v", updated)
	}

	req.ID = "missing"
	if w := postFood(t, mux, req); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for malformed id, got %d", w.Code)
	}

	req.ID = uuid.NewString()
	if w := postFood(t, mux, req); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown id with a taken name, got %d", w.Code)
	}
}

func TestHandleMalformedIDNeverReachesStorage(t *testing.T) {
	mux := newTestMux(failingFoodsRepo{})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/foods/abc", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("delete: expected status 404, got %d", w.Code)
	}

	req := oatmeal()
	req.ID = "missing"
	if w := postFood(t, mux, req); w.Code != http.StatusNotFound {
		t.Errorf("upsert: expected status 404, got %d", w.Code)
	}
}

func TestHandleUpsertDuplicate(t *testing.T) {
	mux := newTestMux(memory.New().GetFoodsStorage())

	postFood(t, mux, oatmeal())
	req := oatmeal()
	req.Name = "OATMEAL with banana"
	w := postFood(t, mux, req)
	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", w.Code)
	}

	// другой diet_type: не конфликт
	req.DietType = "vegan"
	if w := postFood(t, mux, req); w.Code != http.StatusCreated {
		t.Errorf("expected status 201 for other diet, got %d", w.Code)
	}
}

func TestHandleUpsertValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*UpsertFoodRequest)
	}{
		{"empty name", func(r *UpsertFoodRequest) { r.Name = " " }},
		{"negative calories", func(r *UpsertFoodRequest) { r.Calories = -1 }},
		{"huge protein", func(r *UpsertFoodRequest) { r.ProteinG = 1001 }},
		{"no meal types", func(r *UpsertFoodRequest) { r.MealTypes = nil }},
		{"unknown meal type", func(r *UpsertFoodRequest) { r.MealTypes = []string{"brunch"} }},
		{"unknown diet", func(r *UpsertFoodRequest) { r.DietType = "carnivore" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newTestMux(memory.New().GetFoodsStorage())
			req := oatmeal()
			tt.mutate(&req)
			if w := postFood(t, mux, req); w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestValidateNormalizes(t *testing.T) {
	req := UpsertFoodRequest{
		Name:      "  Mixed Nuts ",
		Calories:  180,
		MealTypes: []string{"Snacks", "snacks"},
		DietType:  "",
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if req.Name != "Mixed Nuts" {
		t.Errorf("name not trimmed: %q", req.Name)
	}
	if len(req.MealTypes) != 1 || req.MealTypes[0] != "snacks" {
		t.Errorf("meal types not normalized: %v", req.MealTypes)
	}
	if req.DietType != "balanced" {
		t.Errorf("expected balanced default, got %s", req.DietType)
	}

	req.DietType = "Non-Veg"
	if err := req.Validate(); err != nil || req.DietType != "non_veg" {
		t.Errorf("expected non_veg, got %s (%v)", req.DietType, err)
	}
}

func TestHandleListFilters(t *testing.T) {
	mux := newTestMux(memory.New().GetFoodsStorage())

	postFood(t, mux, oatmeal())
	postFood(t, mux, UpsertFoodRequest{Name: "Tofu Stir-Fry", Calories: 450, MealTypes: []string{"dinner"}, DietType: "veg"})
	postFood(t, mux, UpsertFoodRequest{Name: "Fish Tacos", Calories: 500, MealTypes: []string{"dinner"}, DietType: "non_veg"})

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?meal_type=dinner", 2},
		{"?diet_type=non-veg", 1},
		{"?q=tofu", 1},
		{"?limit=1", 3},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/v1/foods"+tt.query, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", tt.query, w.Code)
		}
		var resp ListFoodsResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Total != tt.want {
			t.Errorf("%s: expected total %d, got %d", tt.query, tt.want, resp.Total)
		}
		if tt.query == "?limit=1" && len(resp.Items) != 1 {
			t.Errorf("expected 1 item with limit=1, got %d", len(resp.Items))
		}
	}
}

func TestHandleDelete(t *testing.T) {
	mux := newTestMux(memory.New().GetFoodsStorage())

	var created FoodDTO
	json.NewDecoder(postFood(t, mux, oatmeal()).Body).Decode(&created)

	r := httptest.NewRequest(http.MethodDelete, "/v1/foods/"+created.ID, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/foods/"+created.ID, nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 on second delete, got %d", w.Code)
	}
}

func TestHandleListStorageError(t *testing.T) {
	mux := newTestMux(failingFoodsRepo{})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/foods", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}
