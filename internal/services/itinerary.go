package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// Straight-line distance below which walking is attempted before the
// default mode. Fixed policy, not configurable per call.
const walkingPreferenceMeters = 2000

// errRouteUnavailable marks gateway results that carry no usable route.
// It never escapes the service; it only drives the fallback chain.
var errRouteUnavailable = errors.New("no route data")

// TransitCalculationResult bundles the transits derived for an activity list
// with any advisory warnings produced along the way.
type TransitCalculationResult struct {
	Transits []domain.Transit
	Warnings []domain.ItineraryWarning
}

// HasWarnings reports whether any warning was produced.
func (r TransitCalculationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// IsFeasible reports whether the itinerary is free of time conflicts.
// Unreachable pairs do not count against feasibility.
func (r TransitCalculationResult) IsFeasible() bool {
	for _, w := range r.Warnings {
		if w.Type == domain.WarningTimeConflict {
			return false
		}
	}
	return true
}

// ItineraryService derives transits between consecutive activities and flags
// scheduling problems. It is stateless: every call computes purely over its
// arguments plus gateway lookups, so independent days and trips may be
// processed concurrently.
type ItineraryService struct {
	geo ports.GeoService
}

// NewItineraryService constructs the service around a routing gateway.
func NewItineraryService(geo ports.GeoService) *ItineraryService {
	return &ItineraryService{geo: geo}
}

// CalculateTransits computes a transit for each consecutive activity pair,
// in start-time order. The preferred map may pin a transport mode per
// ordered pair; rejected preferences degrade to the automatic strategy.
//
// Gateway failures never abort the calculation: a pair that cannot be routed
// yields an unreachable warning and processing continues, so the caller
// always receives a complete result with an inspectable warning list.
func (s *ItineraryService) CalculateTransits(
	ctx context.Context,
	activities []domain.Activity,
	defaultMode domain.TransportMode,
	preferred map[domain.TransitKey]domain.TransportMode,
) TransitCalculationResult {
	var result TransitCalculationResult

	if len(activities) < 2 {
		return result
	}

	sorted := slices.Clone(activities)
	slices.SortFunc(sorted, func(a, b domain.Activity) int {
		return a.StartTime.Compare(b.StartTime)
	})

	for i := 0; i+1 < len(sorted); i++ {
		from := sorted[i]
		to := sorted[i+1]

		transit, warnings := s.transitForPair(ctx, from, to, defaultMode, preferred)
		result.Warnings = append(result.Warnings, warnings...)
		if transit == nil {
			continue
		}

		if w := checkTimeFeasibility(from, to, *transit); w != nil {
			result.Warnings = append(result.Warnings, *w)
		}
		result.Transits = append(result.Transits, *transit)
	}

	return result
}

// transitForPair runs the preferred-mode attempt followed by the automatic
// fallback strategy for one activity pair. A nil transit means every attempt
// failed; the warnings explain why.
func (s *ItineraryService) transitForPair(
	ctx context.Context,
	from, to domain.Activity,
	defaultMode domain.TransportMode,
	preferred map[domain.TransitKey]domain.TransportMode,
) (*domain.Transit, []domain.ItineraryWarning) {
	var warnings []domain.ItineraryWarning

	// Straight-line distance drives both the walking preference and the
	// per-mode plausibility ceilings. When the gateway cannot supply it,
	// the distance is treated as unknown and those checks are skipped.
	straight := -1.0
	if d, err := s.geo.Distance(ctx, from.Location, to.Location); err == nil {
		straight = d
	}

	if mode, ok := preferred[domain.TransitKey{From: from.ID, To: to.ID}]; ok {
		transit, err := s.transitForMode(ctx, from, to, mode, straight)
		if err == nil {
			return &transit, warnings
		}
		warnings = append(warnings, domain.UnreachableWarning(
			from.ID, to.ID,
			fmt.Sprintf("preferred mode %s rejected: %v", mode, err),
		))
	}

	var attempts []domain.TransportMode
	if straight >= 0 && straight < walkingPreferenceMeters {
		attempts = append(attempts, domain.ModeWalking)
	}
	if !slices.Contains(attempts, defaultMode) {
		attempts = append(attempts, defaultMode)
	}
	if defaultMode != domain.ModeTransit {
		attempts = append(attempts, domain.ModeTransit)
	}

	var reasons []string
	for _, mode := range attempts {
		transit, err := s.transitForMode(ctx, from, to, mode, straight)
		if err == nil {
			return &transit, warnings
		}
		reasons = append(reasons, fmt.Sprintf("%s: %v", mode, err))
	}

	warnings = append(warnings, domain.UnreachableWarning(
		from.ID, to.ID,
		"no route found ("+strings.Join(reasons, "; ")+")",
	))
	return nil, warnings
}

// transitForMode is the mode-specific calculator shared by the preferred and
// automatic paths. It enforces plausibility ceilings before touching the
// gateway, and treats an empty route as unavailable so the fallback chain
// can move on.
func (s *ItineraryService) transitForMode(
	ctx context.Context,
	from, to domain.Activity,
	mode domain.TransportMode,
	straightMeters float64,
) (domain.Transit, error) {
	if ceiling := mode.MaxStraightLineMeters(); ceiling > 0 && straightMeters > ceiling {
		return domain.Transit{}, fmt.Errorf(
			"%s implausible over %.0f m straight-line (limit %.0f m)",
			mode, straightMeters, ceiling,
		)
	}

	route, err := s.geo.Route(ctx, from.Location, to.Location, mode)
	if err != nil {
		return domain.Transit{}, fmt.Errorf("route by %s: %w", mode, err)
	}
	if route.IsZero() {
		return domain.Transit{}, fmt.Errorf("route by %s: %w", mode, errRouteUnavailable)
	}

	return domain.NewTransit(from, to, route, mode), nil
}

// GeocodeFuzzyLocation resolves a fuzzy place name to an exact location.
func (s *ItineraryService) GeocodeFuzzyLocation(ctx context.Context, name string) (domain.Location, error) {
	loc, err := s.geo.Geocode(ctx, name)
	if err != nil {
		return domain.Location{}, fmt.Errorf("geocode %q: %w", name, err)
	}
	if loc == nil {
		return domain.Location{}, fmt.Errorf("geocode %q: %w", name, domain.ErrUnresolvable)
	}
	return *loc, nil
}

// ValidateFeasibility re-runs only the time-feasibility check against
// already-computed transits, for re-validation without gateway calls.
func (s *ItineraryService) ValidateFeasibility(activities []domain.Activity, transits []domain.Transit) []domain.ItineraryWarning {
	var warnings []domain.ItineraryWarning

	if len(activities) < 2 {
		return warnings
	}

	sorted := slices.Clone(activities)
	slices.SortFunc(sorted, func(a, b domain.Activity) int {
		return a.StartTime.Compare(b.StartTime)
	})

	byPair := make(map[domain.TransitKey]domain.Transit, len(transits))
	for _, t := range transits {
		byPair[domain.TransitKey{From: t.FromActivityID, To: t.ToActivityID}] = t
	}

	for i := 0; i+1 < len(sorted); i++ {
		from := sorted[i]
		to := sorted[i+1]
		t, ok := byPair[domain.TransitKey{From: from.ID, To: to.ID}]
		if !ok {
			continue
		}
		if w := checkTimeFeasibility(from, to, t); w != nil {
			warnings = append(warnings, *w)
		}
	}

	return warnings
}

// checkTimeFeasibility compares the transit's required minutes against the
// wall-clock gap between the two activities. Conflicts are advisory and do
// not block transit creation.
func checkTimeFeasibility(from, to domain.Activity, t domain.Transit) *domain.ItineraryWarning {
	available := int(to.StartTime.Sub(from.EndTime).Minutes())
	required := t.Route.DurationMinutes()
	if required > available {
		w := domain.TimeConflictWarning(from.ID, to.ID, required, available)
		return &w
	}
	return nil
}
