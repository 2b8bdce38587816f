package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransportMode is the closed set of travel modes the engine understands.
type TransportMode string

const (
	ModeDriving TransportMode = "driving"
	ModeWalking TransportMode = "walking"
	ModeTransit TransportMode = "transit"
	ModeCycling TransportMode = "cycling"
)

// Plausibility ceilings on straight-line distance per mode, in meters.
// Requests beyond these are rejected before any gateway call to avoid
// nonsensical routing results. Zero means no ceiling.
var modeDistanceCeiling = map[TransportMode]float64{
	ModeWalking: 50_000,
	ModeCycling: 100_000,
}

// ParseTransportMode validates a mode string against the closed set.
func ParseTransportMode(s string) (TransportMode, error) {
	m := TransportMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeDriving, ModeWalking, ModeTransit, ModeCycling:
		return m, nil
	}
	return "", fmt.Errorf("parse transport mode: unknown mode %q: %w", s, ErrValidation)
}

// MaxStraightLineMeters returns the plausibility ceiling for the mode,
// or 0 when the mode has none.
func (m TransportMode) MaxStraightLineMeters() float64 {
	return modeDistanceCeiling[m]
}

// RouteInfo carries the metrics of one computed route.
type RouteInfo struct {
	DistanceMeters  float64
	DurationSeconds int
	Polyline        string
}

// DurationMinutes floors the route duration to whole minutes; feasibility
// comparisons always happen at minute granularity.
func (r RouteInfo) DurationMinutes() int {
	return r.DurationSeconds / 60
}

// IsZero reports whether the route carries no data. A zero-distance,
// zero-duration result from the gateway means "no route found".
func (r RouteInfo) IsZero() bool {
	return r.DistanceMeters == 0 && r.DurationSeconds == 0
}

// TransitCost is the estimated out-of-pocket cost of one transit leg.
// Estimation rules: driving costs 0.5 CNY/km fuel plus a 5 CNY base fee
// (plus tolls when supplied); public transit is a flat 3 CNY ticket;
// walking and cycling are free.
type TransitCost struct {
	Estimated Money
	Fuel      *Money
	Toll      *Money
	Ticket    *Money
}

// EstimateTransitCost computes the per-mode cost for a leg of the given
// length. The toll is only applied to driving legs.
func EstimateTransitCost(mode TransportMode, distanceMeters float64, toll *Money) TransitCost {
	switch mode {
	case ModeDriving:
		fuel := Money{Amount: int64(math.Round(distanceMeters * 0.05)), Currency: DefaultCurrency}
		total := fuel.Amount + 500
		if toll != nil {
			total += toll.Amount
		}
		return TransitCost{
			Estimated: Money{Amount: total, Currency: DefaultCurrency},
			Fuel:      &fuel,
			Toll:      toll,
		}
	case ModeTransit:
		ticket := Money{Amount: 300, Currency: DefaultCurrency}
		return TransitCost{Estimated: ticket, Ticket: &ticket}
	default:
		return TransitCost{Estimated: Zero(DefaultCurrency)}
	}
}

// Transit is the derived travel link between two consecutive activities in
// the same day. It is recomputed whenever either activity changes and is
// never shared across days.
type Transit struct {
	ID             uuid.UUID
	FromActivityID uuid.UUID
	ToActivityID   uuid.UUID
	Mode           TransportMode
	Route          RouteInfo
	DepartAt       time.Time
	ArriveAt       time.Time
	Cost           *TransitCost
}

// NewTransit links two activities with a computed route. Departure is the
// origin activity's end time; arrival follows from the route duration.
func NewTransit(from, to Activity, route RouteInfo, mode TransportMode) Transit {
	cost := EstimateTransitCost(mode, route.DistanceMeters, nil)
	return Transit{
		ID:             uuid.New(),
		FromActivityID: from.ID,
		ToActivityID:   to.ID,
		Mode:           mode,
		Route:          route,
		DepartAt:       from.EndTime,
		ArriveAt:       from.EndTime.Add(time.Duration(route.DurationSeconds) * time.Second),
		Cost:           &cost,
	}
}
