// Package domain contains the core planning types for the trip itinerary
// engine: activities, transits, days, expenses and settlement artifacts.
// It has no dependencies on adapters or transport layers and is imported by
// every other internal package.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActivityCategory classifies an activity within a day.
type ActivityCategory string

const (
	CategoryTransport     ActivityCategory = "transport"
	CategoryDining        ActivityCategory = "dining"
	CategorySightseeing   ActivityCategory = "sightseeing"
	CategoryAccommodation ActivityCategory = "accommodation"
	CategoryShopping      ActivityCategory = "shopping"
	CategoryEntertainment ActivityCategory = "entertainment"
	CategoryOther         ActivityCategory = "other"
)

var activityCategories = map[ActivityCategory]struct{}{
	CategoryTransport:     {},
	CategoryDining:        {},
	CategorySightseeing:   {},
	CategoryAccommodation: {},
	CategoryShopping:      {},
	CategoryEntertainment: {},
	CategoryOther:         {},
}

// ParseActivityCategory validates a category string against the closed set.
func ParseActivityCategory(s string) (ActivityCategory, error) {
	c := ActivityCategory(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := activityCategories[c]; !ok {
		return "", fmt.Errorf("parse activity category: unknown category %q: %w", s, ErrValidation)
	}
	return c, nil
}

// Activity is a scheduled, located event within one day of a trip.
// Start and end are wall-clock times on the same calendar day; the engine
// never crosses midnight within a single activity.
type Activity struct {
	ID        uuid.UUID
	Name      string
	Category  ActivityCategory
	Location  Location
	StartTime time.Time
	EndTime   time.Time
	Cost      *Money
	Notes     string
}

// NewActivity builds a validated activity with a fresh identity.
func NewActivity(name string, category ActivityCategory, loc Location, start, end time.Time) (Activity, error) {
	if strings.TrimSpace(name) == "" {
		return Activity{}, fmt.Errorf("new activity: name must be non-empty: %w", ErrValidation)
	}
	if start.After(end) {
		return Activity{}, fmt.Errorf("new activity %q: start time must not be after end time: %w", name, ErrValidation)
	}
	return Activity{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Category:  category,
		Location:  loc,
		StartTime: start,
		EndTime:   end,
	}, nil
}

// OverlapsWith reports whether the [start,end) ranges of two activities
// intersect. Touching endpoints (a ends exactly when b starts) do not count
// as overlap.
func (a Activity) OverlapsWith(b Activity) bool {
	return a.StartTime.Before(b.EndTime) && b.StartTime.Before(a.EndTime)
}

// DurationMinutes returns the activity's own length in whole minutes.
func (a Activity) DurationMinutes() int {
	return int(a.EndTime.Sub(a.StartTime).Minutes())
}
