package planner

import (
	"errors"
	"strings"
)

// ErrInsufficientData is matched by errors.Is for every *InsufficientDataError.
var ErrInsufficientData = errors.New("insufficient food items")

// InsufficientDataError reports meal slots that have no eligible food.
type InsufficientDataError struct {
	Slots []Slot
}

func (e *InsufficientDataError) Error() string {
	names := make([]string, len(e.Slots))
	for i, s := range e.Slots {
		names[i] = string(s)
	}
	return "insufficient food items for: " + strings.Join(names, ", ") + ". Seed more options."
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}
