package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dayDate = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func activityAt(t *testing.T, name string, startHour, endHour int) Activity {
	t.Helper()
	a, err := NewActivity(
		name,
		CategorySightseeing,
		Location{Name: name + " venue"},
		dayDate.Add(time.Duration(startHour)*time.Hour),
		dayDate.Add(time.Duration(endHour)*time.Hour),
	)
	require.NoError(t, err)
	return a
}

func TestNewDayRejectsNonPositiveNumber(t *testing.T) {
	_, err := NewDay(0, dayDate)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddActivityKeepsStartTimeOrder(t *testing.T) {
	day, err := NewDay(1, dayDate)
	require.NoError(t, err)

	late := activityAt(t, "dinner", 18, 20)
	early := activityAt(t, "museum", 9, 11)

	require.NoError(t, day.AddActivity(late))
	require.NoError(t, day.AddActivity(early))

	got := day.Activities()
	require.Len(t, got, 2)
	assert.Equal(t, "museum", got[0].Name)
	assert.Equal(t, "dinner", got[1].Name)
}

func TestAddActivityRejectsOverlap(t *testing.T) {
	day, err := NewDay(1, dayDate)
	require.NoError(t, err)

	require.NoError(t, day.AddActivity(activityAt(t, "museum", 9, 12)))

	err = day.AddActivity(activityAt(t, "lunch", 11, 13))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, day.ActivityCount())
}

func TestAddActivityAllowsBackToBack(t *testing.T) {
	day, err := NewDay(1, dayDate)
	require.NoError(t, err)

	require.NoError(t, day.AddActivity(activityAt(t, "museum", 9, 11)))
	// End of one equals start of the next: [start, end) intervals touch
	// without overlapping.
	require.NoError(t, day.AddActivity(activityAt(t, "lunch", 11, 12)))
}

func TestRemoveActivityCascadesTransits(t *testing.T) {
	day, err := NewDay(1, dayDate)
	require.NoError(t, err)

	a := activityAt(t, "museum", 9, 11)
	b := activityAt(t, "lunch", 12, 13)
	c := activityAt(t, "park", 14, 16)
	require.NoError(t, day.AddActivity(a))
	require.NoError(t, day.AddActivity(b))
	require.NoError(t, day.AddActivity(c))

	day.AddTransit(NewTransit(a, b, RouteInfo{DistanceMeters: 1200, DurationSeconds: 900}, ModeWalking))
	day.AddTransit(NewTransit(b, c, RouteInfo{DistanceMeters: 3000, DurationSeconds: 600}, ModeDriving))

	require.True(t, day.RemoveActivity(b.ID))

	assert.Equal(t, 2, day.ActivityCount())
	_, ok := day.TransitBetween(a.ID, b.ID)
	assert.False(t, ok, "transit into removed activity should be gone")
	_, ok = day.TransitBetween(b.ID, c.ID)
	assert.False(t, ok, "transit out of removed activity should be gone")
}

func TestRemoveActivityUnknownID(t *testing.T) {
	day, err := NewDay(1, dayDate)
	require.NoError(t, err)
	require.NoError(t, day.AddActivity(activityAt(t, "museum", 9, 11)))

	other := activityAt(t, "elsewhere", 12, 13)
	assert.False(t, day.RemoveActivity(other.ID))
	assert.Equal(t, 1, day.ActivityCount())
}

func TestReplaceActivitiesClearsTransits(t *testing.T) {
	day, err := NewDay(1, dayDate)
	require.NoError(t, err)

	a := activityAt(t, "museum", 9, 11)
	b := activityAt(t, "lunch", 12, 13)
	require.NoError(t, day.AddActivity(a))
	require.NoError(t, day.AddActivity(b))
	day.AddTransit(NewTransit(a, b, RouteInfo{DistanceMeters: 1200, DurationSeconds: 900}, ModeWalking))

	replacement := []Activity{activityAt(t, "temple", 10, 12)}
	require.NoError(t, day.ReplaceActivities(replacement))

	assert.Equal(t, 1, day.ActivityCount())
	assert.Empty(t, day.Transits())
}

func TestReplaceActivitiesRejectsOverlapAndKeepsState(t *testing.T) {
	day, err := NewDay(1, dayDate)
	require.NoError(t, err)
	require.NoError(t, day.AddActivity(activityAt(t, "museum", 9, 11)))

	replacement := []Activity{
		activityAt(t, "temple", 10, 12),
		activityAt(t, "market", 11, 14),
	}
	err = day.ReplaceActivities(replacement)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	got := day.Activities()
	require.Len(t, got, 1)
	assert.Equal(t, "museum", got[0].Name)
}

func TestOrderedItineraryAlternates(t *testing.T) {
	day, err := NewDay(1, dayDate)
	require.NoError(t, err)

	a := activityAt(t, "museum", 9, 11)
	b := activityAt(t, "lunch", 12, 13)
	c := activityAt(t, "park", 14, 16)
	require.NoError(t, day.AddActivity(a))
	require.NoError(t, day.AddActivity(b))
	require.NoError(t, day.AddActivity(c))

	// Only the first pair has a computed transit; the sequence should skip
	// the missing one rather than invent a placeholder.
	day.AddTransit(NewTransit(a, b, RouteInfo{DistanceMeters: 1200, DurationSeconds: 900}, ModeWalking))

	var kinds []string
	for item := range day.OrderedItinerary() {
		switch {
		case item.Activity != nil:
			kinds = append(kinds, "activity:"+item.Activity.Name)
		case item.Transit != nil:
			kinds = append(kinds, "transit:"+string(item.Transit.Mode))
		}
	}
	assert.Equal(t, []string{
		"activity:museum",
		"transit:walking",
		"activity:lunch",
		"activity:park",
	}, kinds)
}

func TestOrderedItineraryRestartable(t *testing.T) {
	day, err := NewDay(1, dayDate)
	require.NoError(t, err)
	require.NoError(t, day.AddActivity(activityAt(t, "museum", 9, 11)))
	require.NoError(t, day.AddActivity(activityAt(t, "lunch", 12, 13)))

	seq := day.OrderedItinerary()
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	assert.Equal(t, first, second)
}

func TestTotalCostGroupsByCurrency(t *testing.T) {
	day, err := NewDay(1, dayDate)
	require.NoError(t, err)

	a := activityAt(t, "museum", 9, 11)
	a.Cost = &Money{Amount: 5000, Currency: "CNY"}
	b := activityAt(t, "lunch", 12, 13)
	b.Cost = &Money{Amount: 8800, Currency: "CNY"}
	c := activityAt(t, "show", 19, 21)
	c.Cost = &Money{Amount: 4500, Currency: "USD"}
	free := activityAt(t, "park", 14, 16)

	for _, act := range []Activity{a, b, c, free} {
		require.NoError(t, day.AddActivity(act))
	}

	totals := day.TotalCost()
	require.Len(t, totals, 2)
	assert.Equal(t, int64(13800), totals["CNY"].Amount)
	assert.Equal(t, int64(4500), totals["USD"].Amount)
}
