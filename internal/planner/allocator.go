package planner

var slotRatios = map[Slot]float64{
	SlotBreakfast: 0.25,
	SlotLunch:     0.35,
	SlotDinner:    0.30,
	SlotSnacks:    0.10,
}

// SlotRatio is the share of the daily target assigned to a slot.
func SlotRatio(s Slot) float64 {
	return slotRatios[s]
}

// SlotTargets splits a daily target across the four slots.
func SlotTargets(dailyTarget int) map[Slot]float64 {
	out := make(map[Slot]float64, len(Slots))
	for _, s := range Slots {
		out[s] = float64(dailyTarget) * slotRatios[s]
	}
	return out
}

// SlotTarget is a per-slot target together with the kcal at which selection stops.
type SlotTarget struct {
	Target    float64 `json:"target"`
	Threshold float64 `json:"threshold"`
}

// Targets describes how a profile's day would be allocated, without touching a catalog.
type Targets struct {
	BMR         float64             `json:"bmr"`
	TDEE        float64             `json:"tdee"`
	DailyTarget int                 `json:"daily_target"`
	Overridden  bool                `json:"overridden"`
	Slots       map[Slot]SlotTarget `json:"slots"`
}

func ComputeTargets(cfg Config, p Profile) Targets {
	cfg = cfg.withDefaults()
	daily := CalorieTarget(cfg, p)
	t := Targets{
		BMR:         BMR(p),
		TDEE:        TDEE(cfg, p),
		DailyTarget: daily,
		Overridden:  p.CaloriesTarget > 0,
		Slots:       make(map[Slot]SlotTarget, len(Slots)),
	}
	for s, target := range SlotTargets(daily) {
		t.Slots[s] = SlotTarget{Target: target, Threshold: target * cfg.SlotFillRatio}
	}
	return t
}
