package planner

import (
	"context"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"
)

// Generator produces weekly plans against one catalog. It is safe for concurrent use.
type Generator struct {
	cfg     Config
	catalog CatalogReader

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator wires a generator. A nil rng is seeded from the clock.
func NewGenerator(cfg Config, catalog CatalogReader, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = NewRand(0)
	}
	return &Generator{cfg: cfg.withDefaults(), catalog: catalog, rng: rng}
}

// NewRand returns a PCG-backed source. seed 0 seeds from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (g *Generator) Config() Config {
	return g.cfg
}

func (g *Generator) Generate(ctx context.Context, p Profile) (WeeklyPlan, error) {
	catalog, err := LoadCatalog(ctx, g.catalog, p.DietType)
	if err != nil {
		return WeeklyPlan{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return assembleWeek(g.cfg, CalorieTarget(g.cfg, p), catalog, g.rng), nil
}

// GenerateWeeklyPlan runs one generation with an explicit config and random source.
func GenerateWeeklyPlan(ctx context.Context, cfg Config, p Profile, reader CatalogReader, rng *rand.Rand) (WeeklyPlan, error) {
	return NewGenerator(cfg, reader, rng).Generate(ctx, p)
}

func assembleWeek(cfg Config, dailyTarget int, catalog SlotCatalog, rng *rand.Rand) WeeklyPlan {
	used := NewUsedSet(cfg.RepeatWindowDays)
	targets := SlotTargets(dailyTarget)

	plan := WeeklyPlan{DailyTarget: dailyTarget, Days: make([]DailyPlan, 0, len(Week))}
	for dayIdx, weekday := range Week {
		meals := make(map[Slot][]MealEntry, len(Slots))
		for _, slot := range Slots {
			meals[slot] = SelectMealItems(catalog[slot], used, dayIdx, targets[slot], cfg.SlotFillRatio, rng)
		}
		plan.Days = append(plan.Days, assembleDay(weekday.String(), meals, dailyTarget))
	}
	return plan
}

func assembleDay(day string, meals map[Slot][]MealEntry, dailyTarget int) DailyPlan {
	var total int
	var m Macros
	for _, slot := range Slots {
		for _, e := range meals[slot] {
			total += e.Calories
			m.Protein += e.ProteinG
			m.Carbs += e.CarbsG
			m.Fat += e.FatG
		}
	}
	if total == 0 {
		total = dailyTarget
	}
	return DailyPlan{
		Day:           day,
		Meals:         meals,
		TotalCalories: total,
		Macros: Macros{
			Protein: round2(m.Protein),
			Carbs:   round2(m.Carbs),
			Fat:     round2(m.Fat),
		},
	}
}

// round2 rounds the exact binary value to 2 decimals, ties to even (2.675 -> 2.67).
func round2(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}
