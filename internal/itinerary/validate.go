package itinerary

import (
	"fmt"
	"strings"

	"server/internal/domain"
)

// Validate checks a generated candidate itinerary against the requested
// trip length. It is a pure function; the first failing check determines
// the reported reason.
func Validate(candidate []domain.DayPlan, expectedDays int) error {
	if len(candidate) == 0 {
		return fmt.Errorf("%w: generated itinerary is empty", domain.ErrInvalidContent)
	}
	if len(candidate) != expectedDays {
		return fmt.Errorf("%w: expected %d days, but got %d days", domain.ErrInvalidContent, expectedDays, len(candidate))
	}
	for i, day := range candidate {
		n := i + 1
		if day.Day != n {
			return fmt.Errorf("%w: day numbering mismatch: expected day %d, got day %d", domain.ErrInvalidContent, n, day.Day)
		}
		if strings.TrimSpace(day.Theme) == "" {
			return fmt.Errorf("%w: day %d is missing a theme", domain.ErrInvalidContent, n)
		}
		if len(day.Activities) == 0 {
			return fmt.Errorf("%w: day %d has no activities", domain.ErrInvalidContent, n)
		}
		present := make(map[string]bool, len(day.Activities))
		for _, activity := range day.Activities {
			present[activity.Time] = true
		}
		var missing []string
		for _, slot := range domain.CanonicalSlots() {
			if !present[slot] {
				missing = append(missing, slot)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: day %d is missing activities for: %s", domain.ErrInvalidContent, n, strings.Join(missing, ", "))
		}
		for _, activity := range day.Activities {
			if strings.TrimSpace(activity.Description) == "" {
				return fmt.Errorf("%w: day %d, %s activity is missing a description", domain.ErrInvalidContent, n, activity.Time)
			}
			if strings.TrimSpace(activity.Location) == "" {
				return fmt.Errorf("%w: day %d, %s activity is missing a location", domain.ErrInvalidContent, n, activity.Time)
			}
		}
	}
	return nil
}
