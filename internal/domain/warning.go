package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// WarningType discriminates the itinerary warning variants.
type WarningType string

const (
	WarningTimeConflict WarningType = "time_conflict"
	WarningUnreachable  WarningType = "unreachable"
)

// ItineraryWarning flags a scheduling problem between two activities.
// Warnings are advisory: they never block transit creation and are produced
// fresh on every calculation, never persisted.
type ItineraryWarning struct {
	Type             WarningType
	Message          string
	FromActivityID   uuid.UUID
	ToActivityID     uuid.UUID
	RequiredMinutes  int
	AvailableMinutes int
}

// TimeConflictWarning reports that the transit between two activities needs
// more time than the gap between them provides.
func TimeConflictWarning(from, to uuid.UUID, requiredMinutes, availableMinutes int) ItineraryWarning {
	return ItineraryWarning{
		Type:             WarningTimeConflict,
		Message:          fmt.Sprintf("not enough time between activities: need %d min, have %d min", requiredMinutes, availableMinutes),
		FromActivityID:   from,
		ToActivityID:     to,
		RequiredMinutes:  requiredMinutes,
		AvailableMinutes: availableMinutes,
	}
}

// UnreachableWarning reports that no transit could be computed for a pair.
func UnreachableWarning(from, to uuid.UUID, reason string) ItineraryWarning {
	if reason == "" {
		reason = "destination unreachable"
	}
	return ItineraryWarning{
		Type:           WarningUnreachable,
		Message:        reason,
		FromActivityID: from,
		ToActivityID:   to,
	}
}
