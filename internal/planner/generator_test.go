package planner

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

func staticCatalog(items []FoodItem) CatalogReader {
	return CatalogReaderFunc(func(context.Context, []string) ([]FoodItem, error) {
		return items, nil
	})
}

func richCatalog() []FoodItem {
	var items []FoodItem
	items = append(items, foods("breakfast", 60, 100, SlotBreakfast)...)
	items = append(items, foods("lunch", 60, 100, SlotLunch)...)
	items = append(items, foods("dinner", 60, 100, SlotDinner)...)
	items = append(items, foods("snack", 60, 100, SlotSnacks)...)
	return items
}

func TestGenerateWeekShape(t *testing.T) {
	plan, err := GenerateWeeklyPlan(context.Background(), Config{}, referenceProfile(), staticCatalog(richCatalog()), NewRand(42))
	if err != nil {
		t.Fatalf("GenerateWeeklyPlan: %v", err)
	}
	if plan.DailyTarget != 2555 {
		t.Fatalf("expected daily target 2555, got %d", plan.DailyTarget)
	}

	wantDays := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if len(plan.Days) != len(wantDays) {
		t.Fatalf("expected 7 days, got %d", len(plan.Days))
	}
	for i, day := range plan.Days {
		if day.Day != wantDays[i] {
			t.Fatalf("day %d = %s, want %s", i, day.Day, wantDays[i])
		}
		if len(day.Meals) != 4 {
			t.Fatalf("%s: expected 4 slots, got %d", day.Day, len(day.Meals))
		}

		sum := 0
		for _, slot := range Slots {
			for _, e := range day.Meals[slot] {
				sum += e.Calories
			}
		}
		if day.TotalCalories != sum {
			t.Fatalf("%s: total %d != sum of entries %d", day.Day, day.TotalCalories, sum)
		}
	}

	// 100 kcal items: ceil(0.8 * slot target / 100) per slot.
	want := map[Slot]int{SlotBreakfast: 6, SlotLunch: 8, SlotDinner: 7, SlotSnacks: 3}
	for slot, n := range want {
		if got := len(plan.Days[0].Meals[slot]); got != n {
			t.Errorf("%s: expected %d items, got %d", slot, n, got)
		}
	}
	if m := plan.Days[0].Macros; m.Protein != 26.66 || m.Carbs != 53.33 || m.Fat != 7.99 {
		t.Fatalf("unexpected rounded macros: %+v", m)
	}
}

func TestGenerateNoRepeatsAcrossWeekWhenCatalogIsLarge(t *testing.T) {
	plan, err := GenerateWeeklyPlan(context.Background(), Config{}, referenceProfile(), staticCatalog(richCatalog()), NewRand(9))
	if err != nil {
		t.Fatalf("GenerateWeeklyPlan: %v", err)
	}
	seen := map[string]string{}
	for _, day := range plan.Days {
		for _, slot := range Slots {
			for _, e := range day.Meals[slot] {
				if prev, ok := seen[e.Name]; ok {
					t.Fatalf("%q served on %s and %s", e.Name, prev, day.Day)
				}
				seen[e.Name] = day.Day
			}
		}
	}
}

func TestGenerateSameSeedSamePlan(t *testing.T) {
	reader := staticCatalog(richCatalog())
	a, err := GenerateWeeklyPlan(context.Background(), Config{}, referenceProfile(), reader, NewRand(123))
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateWeeklyPlan(context.Background(), Config{}, referenceProfile(), reader, NewRand(123))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed must produce the same plan")
	}
}

func TestGenerateZeroCalorieFallback(t *testing.T) {
	var items []FoodItem
	for _, slot := range Slots {
		items = append(items, foods(string(slot), 2, 0, slot)...)
	}

	plan, err := GenerateWeeklyPlan(context.Background(), Config{}, referenceProfile(), staticCatalog(items), NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	for _, day := range plan.Days {
		if day.TotalCalories != plan.DailyTarget {
			t.Fatalf("%s: expected fallback to daily target %d, got %d", day.Day, plan.DailyTarget, day.TotalCalories)
		}
	}
}

func TestGenerateSnapshotsEntries(t *testing.T) {
	items := richCatalog()
	plan, err := GenerateWeeklyPlan(context.Background(), Config{}, referenceProfile(), staticCatalog(items), NewRand(5))
	if err != nil {
		t.Fatal(err)
	}
	before := plan.Days[0].Meals[SlotBreakfast][0]

	for i := range items {
		items[i].Name = "renamed"
		items[i].Calories = 9999
	}
	if after := plan.Days[0].Meals[SlotBreakfast][0]; after != before {
		t.Fatalf("plan entry changed after catalog edit: %+v -> %+v", before, after)
	}
}

func TestGenerateInsufficientDataProducesNothing(t *testing.T) {
	items := append(foods("b", 3, 300, SlotBreakfast), foods("l", 3, 300, SlotLunch, SlotDinner)...)

	plan, err := GenerateWeeklyPlan(context.Background(), Config{}, referenceProfile(), staticCatalog(items), NewRand(1))
	var insufficient *InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected *InsufficientDataError, got %v", err)
	}
	if !reflect.DeepEqual(insufficient.Slots, []Slot{SlotSnacks}) {
		t.Fatalf("unexpected missing slots: %v", insufficient.Slots)
	}
	if len(plan.Days) != 0 {
		t.Fatalf("no days must be produced on failure, got %d", len(plan.Days))
	}
}

func TestGeneratorConcurrentUse(t *testing.T) {
	g := NewGenerator(Config{}, staticCatalog(richCatalog()), NewRand(77))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			plan, err := g.Generate(context.Background(), referenceProfile())
			if err == nil && len(plan.Days) != 7 {
				err = errors.New("incomplete plan")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		1.115:  1.11,
		2.675:  2.67,
		0.125:  0.12,
		0.135:  0.14,
		10.0:   10,
		33.333: 33.33,
		0:      0,
	}
	for in, want := range cases {
		if got := round2(in); got != want {
			t.Errorf("round2(%v) = %v, want %v", in, got, want)
		}
	}
}
