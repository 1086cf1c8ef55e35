package planner

const (
	DefaultCalorieFloorKcal = 1200
	DefaultGoalAdjustKcal   = 500
	DefaultSlotFillRatio    = 0.8
)

// Config tunes generation. The zero value is usable: unset fields take defaults.
type Config struct {
	CalorieFloorKcal int
	GoalAdjustKcal   int
	// SlotFillRatio is the share of a slot target at which selection stops.
	SlotFillRatio float64
	// RepeatWindowDays: 0 keeps a food out for the rest of the week once used;
	// N > 0 lets it return N days after it was last placed.
	RepeatWindowDays int
}

func (c Config) withDefaults() Config {
	// пол не может быть ниже 1200
	if c.CalorieFloorKcal < DefaultCalorieFloorKcal {
		c.CalorieFloorKcal = DefaultCalorieFloorKcal
	}
	if c.GoalAdjustKcal <= 0 {
		c.GoalAdjustKcal = DefaultGoalAdjustKcal
	}
	if c.SlotFillRatio <= 0 || c.SlotFillRatio > 1 {
		c.SlotFillRatio = DefaultSlotFillRatio
	}
	if c.RepeatWindowDays < 0 {
		c.RepeatWindowDays = 0
	}
	return c
}
