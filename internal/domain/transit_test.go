package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransportMode(t *testing.T) {
	mode, err := ParseTransportMode("  Walking ")
	require.NoError(t, err)
	assert.Equal(t, ModeWalking, mode)

	_, err = ParseTransportMode("teleport")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestModeCeilings(t *testing.T) {
	assert.Equal(t, 50_000.0, ModeWalking.MaxStraightLineMeters())
	assert.Equal(t, 100_000.0, ModeCycling.MaxStraightLineMeters())
	assert.Equal(t, 0.0, ModeDriving.MaxStraightLineMeters())
	assert.Equal(t, 0.0, ModeTransit.MaxStraightLineMeters())
}

func TestRouteInfoDurationMinutesFloors(t *testing.T) {
	assert.Equal(t, 0, RouteInfo{DurationSeconds: 59}.DurationMinutes())
	assert.Equal(t, 1, RouteInfo{DurationSeconds: 60}.DurationMinutes())
	assert.Equal(t, 40, RouteInfo{DurationSeconds: 2400}.DurationMinutes())
	assert.Equal(t, 40, RouteInfo{DurationSeconds: 2459}.DurationMinutes())
}

func TestRouteInfoIsZero(t *testing.T) {
	assert.True(t, RouteInfo{}.IsZero())
	assert.False(t, RouteInfo{DistanceMeters: 1}.IsZero())
	assert.False(t, RouteInfo{DurationSeconds: 1}.IsZero())
}

func TestEstimateTransitCostDriving(t *testing.T) {
	// 10 km drive: 5.00 fuel + 5.00 base.
	cost := EstimateTransitCost(ModeDriving, 10_000, nil)
	assert.Equal(t, int64(1000), cost.Estimated.Amount)
	require.NotNil(t, cost.Fuel)
	assert.Equal(t, int64(500), cost.Fuel.Amount)
	assert.Nil(t, cost.Toll)

	toll := Money{Amount: 1500, Currency: DefaultCurrency}
	cost = EstimateTransitCost(ModeDriving, 10_000, &toll)
	assert.Equal(t, int64(2500), cost.Estimated.Amount)
}

func TestEstimateTransitCostTransitAndFree(t *testing.T) {
	cost := EstimateTransitCost(ModeTransit, 12_000, nil)
	assert.Equal(t, int64(300), cost.Estimated.Amount)
	require.NotNil(t, cost.Ticket)

	for _, mode := range []TransportMode{ModeWalking, ModeCycling} {
		cost := EstimateTransitCost(mode, 1500, nil)
		assert.Equal(t, int64(0), cost.Estimated.Amount, "mode %s should be free", mode)
	}
}

func TestNewTransitSchedule(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	from, err := NewActivity("museum", CategorySightseeing, Location{Name: "museum"}, start, start.Add(2*time.Hour))
	require.NoError(t, err)
	to, err := NewActivity("lunch", CategoryDining, Location{Name: "bistro"}, start.Add(3*time.Hour), start.Add(4*time.Hour))
	require.NoError(t, err)

	transit := NewTransit(from, to, RouteInfo{DistanceMeters: 1200, DurationSeconds: 900}, ModeWalking)

	assert.Equal(t, from.ID, transit.FromActivityID)
	assert.Equal(t, to.ID, transit.ToActivityID)
	assert.Equal(t, from.EndTime, transit.DepartAt)
	assert.Equal(t, from.EndTime.Add(15*time.Minute), transit.ArriveAt)
	require.NotNil(t, transit.Cost)
	assert.Equal(t, int64(0), transit.Cost.Estimated.Amount)
}

func TestNewActivityValidation(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	_, err := NewActivity("", CategoryOther, Location{}, start, start.Add(time.Hour))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewActivity("museum", CategoryOther, Location{}, start.Add(time.Hour), start)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}
