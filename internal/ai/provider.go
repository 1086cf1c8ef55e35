// Package ai produces short natural-language descriptions of planned days.
package ai

import (
	"context"
	"encoding/json"

	"github.com/fdg312/diet-planner/internal/planner"
)

// Provider describes one day of a weekly plan in a single friendly sentence.
type Provider interface {
	DescribeDay(ctx context.Context, day planner.DailyPlan) (string, error)
}

// dayPayload is the compact view of a day sent to the model: food names only.
type dayPayload struct {
	Day           string                    `json:"day"`
	Meals         map[planner.Slot][]string `json:"meals"`
	TotalCalories int                       `json:"totalCalories"`
}

func newDayPayload(day planner.DailyPlan) dayPayload {
	meals := make(map[planner.Slot][]string, len(day.Meals))
	for slot, entries := range day.Meals {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name)
		}
		meals[slot] = names
	}
	return dayPayload{Day: day.Day, Meals: meals, TotalCalories: day.TotalCalories}
}

func dayPrompt(day planner.DailyPlan) (string, error) {
	raw, err := json.Marshal(newDayPayload(day))
	if err != nil {
		return "", err
	}
	return "Summarize the following daily meal plan in one friendly sentence (max 40 words). " +
		"Highlight the variety and how it supports healthy eating.\n" +
		"Plan: " + string(raw), nil
}
