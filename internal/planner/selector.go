package planner

import "math/rand/v2"

// UsedSet tracks which foods have been placed during one generation.
type UsedSet struct {
	window  int
	lastDay map[string]int
}

// NewUsedSet returns an empty set. windowDays 0 keeps foods used for the whole run.
func NewUsedSet(windowDays int) *UsedSet {
	return &UsedSet{window: max(windowDays, 0), lastDay: make(map[string]int)}
}

// Contains reports whether id still counts as used on day.
func (u *UsedSet) Contains(id string, day int) bool {
	last, ok := u.lastDay[id]
	if !ok {
		return false
	}
	if u.window == 0 {
		return true
	}
	return day-last < u.window
}

func (u *UsedSet) Add(id string, day int) {
	u.lastDay[id] = day
}

func (u *UsedSet) Len() int {
	return len(u.lastDay)
}

// SelectMealItems greedily fills one slot.
//
// Unused candidates are preferred; when every candidate is already used the whole
// list becomes eligible again. The pool is shuffled with rng and walked in order,
// accepting items until the running total reaches fillRatio*target or the pool
// runs out. Accepted ids are recorded in used.
func SelectMealItems(candidates []FoodItem, used *UsedSet, day int, target, fillRatio float64, rng *rand.Rand) []MealEntry {
	selection := []MealEntry{}
	if len(candidates) == 0 {
		return selection
	}

	pool := make([]FoodItem, 0, len(candidates))
	for _, f := range candidates {
		if !used.Contains(f.ID, day) {
			pool = append(pool, f)
		}
	}
	// Repeats are unavoidable only when nothing in the candidate list is unused.
	allowRepeats := len(pool) == 0
	if allowRepeats {
		pool = append(pool, candidates...)
	}

	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	threshold := target * fillRatio
	picked := make(map[string]struct{}, len(pool))
	total := 0
	for _, f := range pool {
		if _, dup := picked[f.ID]; dup {
			continue
		}
		if !allowRepeats && used.Contains(f.ID, day) {
			continue
		}
		picked[f.ID] = struct{}{}
		used.Add(f.ID, day)
		selection = append(selection, entryFromFood(f))
		total += f.Calories
		if float64(total) >= threshold {
			break
		}
	}
	return selection
}
