package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"trip-planner-service/internal/adapters/geo"
	"trip-planner-service/internal/domain"
)

func testActivity(t *testing.T, name, location string, start, end time.Time) domain.Activity {
	t.Helper()
	a, err := domain.NewActivity(name, domain.CategorySightseeing, domain.Location{Name: location}, start, end)
	if err != nil {
		t.Fatalf("new activity %q: %v", name, err)
	}
	return a
}

func day(hour, minute int) time.Time {
	return time.Date(2026, 5, 1, hour, minute, 0, 0, time.UTC)
}

func TestCalculateTransitsPrefersWalkingForShortHops(t *testing.T) {
	mock := geo.NewMockGeoService()
	mock.AddDistance("museum", "bistro", 800)
	mock.AddRoute(geo.MockRoute{From: "museum", To: "bistro", Mode: domain.ModeWalking, Meters: 950, Seconds: 720})
	mock.AddRoute(geo.MockRoute{From: "museum", To: "bistro", Mode: domain.ModeDriving, Meters: 1200, Seconds: 300})

	svc := NewItineraryService(mock)
	activities := []domain.Activity{
		testActivity(t, "museum", "museum", day(9, 0), day(11, 0)),
		testActivity(t, "lunch", "bistro", day(12, 0), day(13, 0)),
	}

	result := svc.CalculateTransits(context.Background(), activities, domain.ModeDriving, nil)

	if len(result.Transits) != 1 {
		t.Fatalf("expected 1 transit, got %d", len(result.Transits))
	}
	if result.Transits[0].Mode != domain.ModeWalking {
		t.Fatalf("expected walking, got %s", result.Transits[0].Mode)
	}
	if result.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
	if mock.RouteCalls != 1 {
		t.Fatalf("expected 1 route lookup, got %d", mock.RouteCalls)
	}
}

func TestCalculateTransitsFallsBackToDefaultMode(t *testing.T) {
	mock := geo.NewMockGeoService()
	mock.AddDistance("museum", "bistro", 5000)
	mock.AddRoute(geo.MockRoute{From: "museum", To: "bistro", Mode: domain.ModeDriving, Meters: 6200, Seconds: 900})

	svc := NewItineraryService(mock)
	activities := []domain.Activity{
		testActivity(t, "museum", "museum", day(9, 0), day(11, 0)),
		testActivity(t, "lunch", "bistro", day(12, 0), day(13, 0)),
	}

	result := svc.CalculateTransits(context.Background(), activities, domain.ModeDriving, nil)

	if len(result.Transits) != 1 {
		t.Fatalf("expected 1 transit, got %d", len(result.Transits))
	}
	if result.Transits[0].Mode != domain.ModeDriving {
		t.Fatalf("expected driving, got %s", result.Transits[0].Mode)
	}
}

func TestCalculateTransitsFlagsTimeConflict(t *testing.T) {
	mock := geo.NewMockGeoService()
	mock.AddDistance("museum", "stadium", 15_000)
	// 2400s route against a 10 minute gap: 40 required vs 10 available.
	mock.AddRoute(geo.MockRoute{From: "museum", To: "stadium", Mode: domain.ModeDriving, Meters: 18_000, Seconds: 2400})

	svc := NewItineraryService(mock)
	activities := []domain.Activity{
		testActivity(t, "museum", "museum", day(9, 0), day(11, 0)),
		testActivity(t, "match", "stadium", day(11, 10), day(13, 0)),
	}

	result := svc.CalculateTransits(context.Background(), activities, domain.ModeDriving, nil)

	if len(result.Transits) != 1 {
		t.Fatalf("expected 1 transit, got %d", len(result.Transits))
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(result.Warnings), result.Warnings)
	}
	w := result.Warnings[0]
	if w.Type != domain.WarningTimeConflict {
		t.Fatalf("expected time conflict, got %s", w.Type)
	}
	if w.RequiredMinutes != 40 || w.AvailableMinutes != 10 {
		t.Fatalf("required/available = %d/%d, want 40/10", w.RequiredMinutes, w.AvailableMinutes)
	}
	if result.IsFeasible() {
		t.Fatal("itinerary with a time conflict must not be feasible")
	}
}

func TestCalculateTransitsContinuesPastUnreachablePair(t *testing.T) {
	mock := geo.NewMockGeoService()
	mock.AddDistance("museum", "island", 30_000)
	mock.AddDistance("island", "harbor", 1000)
	// No routes at all for the first pair; the second pair walks fine.
	mock.AddRoute(geo.MockRoute{From: "island", To: "harbor", Mode: domain.ModeWalking, Meters: 1100, Seconds: 800})

	svc := NewItineraryService(mock)
	activities := []domain.Activity{
		testActivity(t, "museum", "museum", day(9, 0), day(10, 0)),
		testActivity(t, "beach", "island", day(11, 0), day(12, 0)),
		testActivity(t, "ferry", "harbor", day(13, 0), day(14, 0)),
	}

	result := svc.CalculateTransits(context.Background(), activities, domain.ModeDriving, nil)

	if len(result.Transits) != 1 {
		t.Fatalf("expected 1 transit, got %d", len(result.Transits))
	}
	if result.Transits[0].FromActivityID != activities[1].ID {
		t.Fatal("surviving transit should link the second pair")
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(result.Warnings), result.Warnings)
	}
	if result.Warnings[0].Type != domain.WarningUnreachable {
		t.Fatalf("expected unreachable, got %s", result.Warnings[0].Type)
	}
	// Unreachable pairs are advisory only.
	if !result.IsFeasible() {
		t.Fatal("unreachable pair must not flip feasibility")
	}
}

func TestCalculateTransitsHonorsPreferredMode(t *testing.T) {
	mock := geo.NewMockGeoService()
	mock.AddDistance("museum", "bistro", 800)
	mock.AddRoute(geo.MockRoute{From: "museum", To: "bistro", Mode: domain.ModeWalking, Meters: 950, Seconds: 720})
	mock.AddRoute(geo.MockRoute{From: "museum", To: "bistro", Mode: domain.ModeCycling, Meters: 1000, Seconds: 240})

	svc := NewItineraryService(mock)
	activities := []domain.Activity{
		testActivity(t, "museum", "museum", day(9, 0), day(11, 0)),
		testActivity(t, "lunch", "bistro", day(12, 0), day(13, 0)),
	}
	preferred := map[domain.TransitKey]domain.TransportMode{
		{From: activities[0].ID, To: activities[1].ID}: domain.ModeCycling,
	}

	result := svc.CalculateTransits(context.Background(), activities, domain.ModeDriving, preferred)

	if len(result.Transits) != 1 {
		t.Fatalf("expected 1 transit, got %d", len(result.Transits))
	}
	if result.Transits[0].Mode != domain.ModeCycling {
		t.Fatalf("expected cycling, got %s", result.Transits[0].Mode)
	}
	if result.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestCalculateTransitsRejectsImplausiblePreferredMode(t *testing.T) {
	mock := geo.NewMockGeoService()
	// 80 km straight line: walking is over its ceiling, so the preference
	// is rejected without a gateway call and driving takes over.
	mock.AddDistance("museum", "city", 80_000)
	mock.AddRoute(geo.MockRoute{From: "museum", To: "city", Mode: domain.ModeDriving, Meters: 95_000, Seconds: 4200})

	svc := NewItineraryService(mock)
	activities := []domain.Activity{
		testActivity(t, "museum", "museum", day(8, 0), day(9, 0)),
		testActivity(t, "arrival", "city", day(12, 0), day(13, 0)),
	}
	preferred := map[domain.TransitKey]domain.TransportMode{
		{From: activities[0].ID, To: activities[1].ID}: domain.ModeWalking,
	}

	result := svc.CalculateTransits(context.Background(), activities, domain.ModeDriving, preferred)

	if len(result.Transits) != 1 {
		t.Fatalf("expected 1 transit, got %d", len(result.Transits))
	}
	if result.Transits[0].Mode != domain.ModeDriving {
		t.Fatalf("expected driving fallback, got %s", result.Transits[0].Mode)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Type != domain.WarningUnreachable {
		t.Fatalf("expected one rejection warning, got %v", result.Warnings)
	}
	if mock.RouteCalls != 1 {
		t.Fatalf("ceiling check should skip the gateway, got %d route calls", mock.RouteCalls)
	}
}

func TestCalculateTransitsUnknownDistanceSkipsCeilings(t *testing.T) {
	mock := geo.NewMockGeoService()
	// No straight-line distance seeded: walking preference and ceilings
	// cannot apply, so the default mode is attempted directly.
	mock.AddRoute(geo.MockRoute{From: "museum", To: "bistro", Mode: domain.ModeDriving, Meters: 1200, Seconds: 300})

	svc := NewItineraryService(mock)
	activities := []domain.Activity{
		testActivity(t, "museum", "museum", day(9, 0), day(11, 0)),
		testActivity(t, "lunch", "bistro", day(12, 0), day(13, 0)),
	}

	result := svc.CalculateTransits(context.Background(), activities, domain.ModeDriving, nil)

	if len(result.Transits) != 1 {
		t.Fatalf("expected 1 transit, got %d", len(result.Transits))
	}
	if result.Transits[0].Mode != domain.ModeDriving {
		t.Fatalf("expected driving, got %s", result.Transits[0].Mode)
	}
}

func TestCalculateTransitsSortsByStartTime(t *testing.T) {
	mock := geo.NewMockGeoService()
	mock.AddDistance("museum", "bistro", 800)
	mock.AddRoute(geo.MockRoute{From: "museum", To: "bistro", Mode: domain.ModeWalking, Meters: 950, Seconds: 720})

	svc := NewItineraryService(mock)
	first := testActivity(t, "museum", "museum", day(9, 0), day(11, 0))
	second := testActivity(t, "lunch", "bistro", day(12, 0), day(13, 0))

	// Pass activities out of order; pairing must follow start time.
	result := svc.CalculateTransits(context.Background(), []domain.Activity{second, first}, domain.ModeDriving, nil)

	if len(result.Transits) != 1 {
		t.Fatalf("expected 1 transit, got %d", len(result.Transits))
	}
	if result.Transits[0].FromActivityID != first.ID || result.Transits[0].ToActivityID != second.ID {
		t.Fatal("transit should run from the earlier activity to the later one")
	}
}

func TestCalculateTransitsFewerThanTwoActivities(t *testing.T) {
	svc := NewItineraryService(geo.NewMockGeoService())

	result := svc.CalculateTransits(context.Background(), nil, domain.ModeDriving, nil)
	if len(result.Transits) != 0 || result.HasWarnings() {
		t.Fatalf("empty input should yield empty result, got %+v", result)
	}

	single := []domain.Activity{testActivity(t, "museum", "museum", day(9, 0), day(11, 0))}
	result = svc.CalculateTransits(context.Background(), single, domain.ModeDriving, nil)
	if len(result.Transits) != 0 || result.HasWarnings() {
		t.Fatalf("single activity should yield empty result, got %+v", result)
	}
}

func TestCalculateTransitsIsIdempotent(t *testing.T) {
	mock := geo.NewMockGeoService()
	mock.AddDistance("museum", "bistro", 800)
	mock.AddRoute(geo.MockRoute{From: "museum", To: "bistro", Mode: domain.ModeWalking, Meters: 950, Seconds: 720})

	svc := NewItineraryService(mock)
	activities := []domain.Activity{
		testActivity(t, "museum", "museum", day(9, 0), day(11, 0)),
		testActivity(t, "lunch", "bistro", day(12, 0), day(13, 0)),
	}

	first := svc.CalculateTransits(context.Background(), activities, domain.ModeDriving, nil)
	second := svc.CalculateTransits(context.Background(), activities, domain.ModeDriving, nil)

	if len(first.Transits) != len(second.Transits) {
		t.Fatalf("transit counts differ: %d vs %d", len(first.Transits), len(second.Transits))
	}
	for i := range first.Transits {
		a, b := first.Transits[i], second.Transits[i]
		if a.Mode != b.Mode || a.Route != b.Route || a.FromActivityID != b.FromActivityID || a.ToActivityID != b.ToActivityID {
			t.Fatalf("transit %d differs between runs", i)
		}
	}
}

func TestValidateFeasibilityReusesTransits(t *testing.T) {
	svc := NewItineraryService(geo.NewMockGeoService())

	from := testActivity(t, "museum", "museum", day(9, 0), day(11, 0))
	to := testActivity(t, "match", "stadium", day(11, 10), day(13, 0))
	transit := domain.NewTransit(from, to, domain.RouteInfo{DistanceMeters: 18_000, DurationSeconds: 2400}, domain.ModeDriving)

	warnings := svc.ValidateFeasibility([]domain.Activity{from, to}, []domain.Transit{transit})
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].RequiredMinutes != 40 || warnings[0].AvailableMinutes != 10 {
		t.Fatalf("required/available = %d/%d, want 40/10", warnings[0].RequiredMinutes, warnings[0].AvailableMinutes)
	}

	// Exact fit passes: 40 minutes of travel into a 40 minute gap.
	relaxed := testActivity(t, "match", "stadium", day(11, 40), day(13, 0))
	fit := domain.NewTransit(from, relaxed, domain.RouteInfo{DistanceMeters: 18_000, DurationSeconds: 2400}, domain.ModeDriving)
	warnings = svc.ValidateFeasibility([]domain.Activity{from, relaxed}, []domain.Transit{fit})
	if len(warnings) != 0 {
		t.Fatalf("exact fit should pass, got %v", warnings)
	}
}

func TestGeocodeFuzzyLocation(t *testing.T) {
	mock := geo.NewMockGeoService()
	mock.AddGeocode("forbidden city", domain.LocationAt("forbidden city", 39.916, 116.397, "Beijing, Dongcheng"))

	svc := NewItineraryService(mock)

	loc, err := svc.GeocodeFuzzyLocation(context.Background(), "forbidden city")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !loc.HasCoordinates() {
		t.Fatal("resolved location should carry coordinates")
	}

	_, err = svc.GeocodeFuzzyLocation(context.Background(), "nowhere at all")
	if err == nil {
		t.Fatal("expected error for unknown place")
	}
	if !errors.Is(err, domain.ErrUnresolvable) {
		t.Fatalf("expected unresolvable, got %v", err)
	}
}
