package planner

var activityFactors = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

const defaultActivityFactor = 1.55

// ActivityFactor returns the TDEE multiplier; unknown levels count as moderate.
func ActivityFactor(level ActivityLevel) float64 {
	if f, ok := activityFactors[level]; ok {
		return f
	}
	return defaultActivityFactor
}

// BMR is the Mifflin-St Jeor basal metabolic rate in kcal/day.
func BMR(p Profile) float64 {
	offset := -161.0
	if p.Gender == GenderMale {
		offset = 5
	}
	return 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age) + offset
}

// TDEE is BMR scaled by activity and shifted by the goal adjustment.
func TDEE(cfg Config, p Profile) float64 {
	cfg = cfg.withDefaults()
	tdee := BMR(p) * ActivityFactor(p.ActivityLevel)
	switch p.Goal {
	case GoalWeightLoss:
		tdee -= float64(cfg.GoalAdjustKcal)
	case GoalWeightGain:
		tdee += float64(cfg.GoalAdjustKcal)
	}
	return tdee
}

// CalorieTarget is the daily kcal target: the profile override when positive,
// otherwise TDEE clamped to the floor and truncated.
func CalorieTarget(cfg Config, p Profile) int {
	if p.CaloriesTarget > 0 {
		return p.CaloriesTarget
	}
	cfg = cfg.withDefaults()
	return int(max(TDEE(cfg, p), float64(cfg.CalorieFloorKcal)))
}
