package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fdg312/diet-planner/internal/storage"
)

func TestReplaceActiveKeepsSinglePlan(t *testing.T) {
	ctx := context.Background()
	s := newMealPlansStorage()

	first, err := s.ReplaceActive(ctx, storage.MealPlan{OwnerUserID: "u1", ProfileID: "p1", DailyTargetKcal: 2000, Week: []byte(`[1]`)})
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.ReplaceActive(ctx, storage.MealPlan{OwnerUserID: "u1", ProfileID: "p1", DailyTargetKcal: 2100, Week: []byte(`[2]`)})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == second.ID {
		t.Fatal("replacement must get a new id")
	}

	got, ok, err := s.GetActive(ctx, "u1", "p1")
	if err != nil || !ok {
		t.Fatalf("GetActive: ok=%v err=%v", ok, err)
	}
	if got.ID != second.ID || string(got.Week) != `[2]` {
		t.Fatalf("expected the latest plan, got %+v", got)
	}
	if len(s.byOwnerProfile) != 1 {
		t.Fatalf("expected one stored plan, got %d", len(s.byOwnerProfile))
	}

	if _, ok, _ := s.GetActive(ctx, "u2", "p1"); ok {
		t.Fatal("plan must not be visible to another owner")
	}
}

func TestDeleteActiveMissingIsNoop(t *testing.T) {
	if err := newMealPlansStorage().DeleteActive(context.Background(), "u1", "nope"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestFoodsListByDietTypes(t *testing.T) {
	ctx := context.Background()
	s := newFoodsStorage()
	mustUpsert := func(name, diet string) {
		if _, err := s.Upsert(ctx, storage.FoodUpsert{Name: name, Calories: 100, MealTypes: []string{"lunch"}, DietType: diet}); err != nil {
			t.Fatal(err)
		}
	}
	mustUpsert("Tofu Stir-Fry", "veg")
	mustUpsert("Mixed Nuts", "balanced")
	mustUpsert("Ribeye", "keto")

	got, err := s.ListByDietTypes(ctx, []string{"veg", "balanced"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "Mixed Nuts" || got[1].Name != "Tofu Stir-Fry" {
		t.Fatalf("unexpected foods: %+v", got)
	}

	got[0].MealTypes[0] = "mutated"
	again, _ := s.ListByDietTypes(ctx, []string{"balanced"})
	if again[0].MealTypes[0] != "lunch" {
		t.Fatal("callers must not mutate stored foods")
	}
}

func TestFoodsUpsertConflictAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := newFoodsStorage()

	f, err := s.Upsert(ctx, storage.FoodUpsert{Name: "Oatmeal", Calories: 300, MealTypes: []string{"breakfast"}, DietType: "balanced"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Upsert(ctx, storage.FoodUpsert{Name: "oatmeal", Calories: 250, MealTypes: []string{"breakfast"}, DietType: "balanced"}); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	updated, err := s.Upsert(ctx, storage.FoodUpsert{ID: f.ID, Name: "Oatmeal", Calories: 320, MealTypes: []string{"breakfast", "snacks"}, DietType: "balanced"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Calories != 320 || len(updated.MealTypes) != 2 {
		t.Fatalf("update not applied: %+v", updated)
	}

	if _, err := s.Upsert(ctx, storage.FoodUpsert{ID: "missing", Name: "X", DietType: "veg"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// неизвестный id важнее совпадения имени
	if _, err := s.Upsert(ctx, storage.FoodUpsert{ID: "missing", Name: "Oatmeal", DietType: "balanced"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id with a taken name, got %v", err)
	}
}

func TestFoodsListPagination(t *testing.T) {
	ctx := context.Background()
	s := newFoodsStorage()
	for _, n := range []string{"A", "B", "C", "D"} {
		if _, err := s.Upsert(ctx, storage.FoodUpsert{Name: n, MealTypes: []string{"snacks"}, DietType: "balanced"}); err != nil {
			t.Fatal(err)
		}
	}

	page, total, err := s.List(ctx, storage.FoodFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if total != 4 || len(page) != 2 || page[0].Name != "B" {
		t.Fatalf("unexpected page: total=%d %+v", total, page)
	}
}

func TestDeleteProfileCascadesPlan(t *testing.T) {
	ctx := context.Background()
	m := New()
	p := &storage.Profile{OwnerUserID: "u1", Name: "Me"}
	if err := m.CreateProfile(ctx, p); err != nil {
		t.Fatal(err)
	}
	if _, err := m.GetMealPlansStorage().ReplaceActive(ctx, storage.MealPlan{OwnerUserID: "u1", ProfileID: p.ID.String(), Week: []byte(`[]`)}); err != nil {
		t.Fatal(err)
	}

	if err := m.DeleteProfile(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := m.GetMealPlansStorage().GetActive(ctx, "u1", p.ID.String()); ok {
		t.Fatal("plan must be removed with its profile")
	}
	if _, err := m.GetProfile(ctx, p.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCountExportsSince(t *testing.T) {
	ctx := context.Background()
	s := NewExportsMemoryStorage()
	for i := 0; i < 3; i++ {
		if err := s.CreateExport(ctx, &storage.PlanExport{OwnerUserID: "u1", Format: "csv"}); err != nil {
			t.Fatal(err)
		}
	}
	n, err := s.CountExportsSince(ctx, "u1", time.Now().Add(-time.Minute))
	if err != nil || n != 3 {
		t.Fatalf("expected 3, got %d (%v)", n, err)
	}
	if n, _ := s.CountExportsSince(ctx, "u2", time.Time{}); n != 0 {
		t.Fatalf("expected 0 for other owner, got %d", n)
	}
}
