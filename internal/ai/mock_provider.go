package ai

import (
	"context"
	"fmt"

	"github.com/fdg312/diet-planner/internal/planner"
)

type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) DescribeDay(ctx context.Context, day planner.DailyPlan) (string, error) {
	items := 0
	for _, entries := range day.Meals {
		items += len(entries)
	}
	return fmt.Sprintf("%s brings %d dishes across four meals for about %d kcal, with %.0f g of protein to keep you going.",
		day.Day, items, day.TotalCalories, day.Macros.Protein), nil
}
