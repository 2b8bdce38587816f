package domain

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/google/uuid"
)

// TransitKey identifies the ordered activity pair a transit spans.
// At most one transit exists per key within a day.
type TransitKey struct {
	From uuid.UUID
	To   uuid.UUID
}

// ItineraryItem is one element of a day's alternating itinerary sequence.
// Exactly one of Activity or Transit is set.
type ItineraryItem struct {
	Activity *Activity
	Transit  *Transit
}

// Day holds the ordered activities and derived transits for one calendar day
// of a trip. It owns conflict detection and sequencing; transits are a
// derived cache keyed by (from,to) that is invalidated whenever the source
// activities change.
//
// Day is not safe for concurrent mutation; callers own locking.
type Day struct {
	Number int
	Date   time.Time
	Theme  string
	Notes  string

	activities []Activity
	transits   map[TransitKey]Transit
}

// NewDay creates an empty day. Day numbers are 1-based.
func NewDay(number int, date time.Time) (*Day, error) {
	if number < 1 {
		return nil, fmt.Errorf("new day: day number must be positive, got %d: %w", number, ErrValidation)
	}
	return &Day{
		Number:   number,
		Date:     date,
		transits: make(map[TransitKey]Transit),
	}, nil
}

// Activities returns a copy of the day's activities in start-time order.
func (d *Day) Activities() []Activity {
	return slices.Clone(d.activities)
}

// ActivityCount returns the number of activities in the day.
func (d *Day) ActivityCount() int {
	return len(d.activities)
}

// AddActivity inserts an activity, rejecting any time overlap with an
// existing one. Activities stay sorted by start time.
func (d *Day) AddActivity(a Activity) error {
	for _, existing := range d.activities {
		if existing.OverlapsWith(a) {
			return fmt.Errorf("add activity: %q overlaps %q: %w", a.Name, existing.Name, ErrConflict)
		}
	}
	d.activities = append(d.activities, a)
	d.sortActivities()
	return nil
}

// RemoveActivity deletes the activity and every transit touching it.
// It reports whether an activity with the given id was found.
func (d *Day) RemoveActivity(id uuid.UUID) bool {
	idx := slices.IndexFunc(d.activities, func(a Activity) bool { return a.ID == id })
	if idx < 0 {
		return false
	}
	d.activities = slices.Delete(d.activities, idx, idx+1)
	for key := range d.transits {
		if key.From == id || key.To == id {
			delete(d.transits, key)
		}
	}
	return true
}

// FindActivity looks up an activity by id.
func (d *Day) FindActivity(id uuid.UUID) (Activity, bool) {
	for _, a := range d.activities {
		if a.ID == id {
			return a, true
		}
	}
	return Activity{}, false
}

// ReplaceActivities swaps the entire activity list after validating pairwise
// non-overlap. On success all existing transits are discarded: they refer to
// the old activities and must be recomputed.
func (d *Day) ReplaceActivities(activities []Activity) error {
	sorted := slices.Clone(activities)
	slices.SortFunc(sorted, compareActivities)
	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i].OverlapsWith(sorted[i+1]) {
			return fmt.Errorf("replace activities: %q overlaps %q: %w", sorted[i].Name, sorted[i+1].Name, ErrConflict)
		}
	}
	d.activities = sorted
	d.transits = make(map[TransitKey]Transit)
	return nil
}

// AddTransit stores the transit for its activity pair, replacing any
// existing transit for the same ordered pair.
func (d *Day) AddTransit(t Transit) {
	if d.transits == nil {
		d.transits = make(map[TransitKey]Transit)
	}
	d.transits[TransitKey{From: t.FromActivityID, To: t.ToActivityID}] = t
}

// TransitBetween looks up the transit for an ordered activity pair.
func (d *Day) TransitBetween(from, to uuid.UUID) (Transit, bool) {
	t, ok := d.transits[TransitKey{From: from, To: to}]
	return t, ok
}

// Transits returns the day's transits keyed by activity pair.
func (d *Day) Transits() []Transit {
	out := make([]Transit, 0, len(d.transits))
	for _, a := range d.activities {
		for _, b := range d.activities {
			if t, ok := d.transits[TransitKey{From: a.ID, To: b.ID}]; ok {
				out = append(out, t)
			}
		}
	}
	return out
}

// OrderedItinerary yields the alternating sequence activity, transit,
// activity, ... in start-time order. Transits are yielded only where one has
// been computed for the consecutive pair. The sequence is recomputed on each
// call; it exposes no cached state and may be restarted freely.
func (d *Day) OrderedItinerary() iter.Seq[ItineraryItem] {
	return func(yield func(ItineraryItem) bool) {
		for i := range d.activities {
			a := d.activities[i]
			if !yield(ItineraryItem{Activity: &a}) {
				return
			}
			if i+1 < len(d.activities) {
				if t, ok := d.transits[TransitKey{From: a.ID, To: d.activities[i+1].ID}]; ok {
					if !yield(ItineraryItem{Transit: &t}) {
						return
					}
				}
			}
		}
	}
}

// TotalCost sums activity costs per currency.
func (d *Day) TotalCost() map[string]Money {
	totals := make(map[string]Money)
	for _, a := range d.activities {
		if a.Cost == nil {
			continue
		}
		cur := a.Cost.Currency
		if cur == "" {
			cur = DefaultCurrency
		}
		t := totals[cur]
		t.Currency = cur
		t.Amount += a.Cost.Amount
		totals[cur] = t
	}
	return totals
}

func (d *Day) sortActivities() {
	slices.SortFunc(d.activities, compareActivities)
}

// compareActivities orders by start time, breaking ties on id for
// deterministic output.
func compareActivities(a, b Activity) int {
	if c := a.StartTime.Compare(b.StartTime); c != 0 {
		return c
	}
	return slices.Compare(a.ID[:], b.ID[:])
}
