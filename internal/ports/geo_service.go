package ports

import (
	"context"

	"trip-planner-service/internal/domain"
)

// GeoService is the routing and geocoding gateway the itinerary engine
// consumes. Implementations are expected to be unreliable and possibly slow;
// the engine treats every error as recoverable and degrades to warnings.
type GeoService interface {
	// Geocode resolves a place name or address to a location.
	// A nil location with a nil error means no match was found.
	Geocode(ctx context.Context, address string) (*domain.Location, error)

	// ReverseGeocode resolves coordinates to a formatted address.
	// An empty string with a nil error means no match was found.
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)

	// Distance returns the straight-line distance between two locations
	// in meters.
	Distance(ctx context.Context, origin, destination domain.Location) (float64, error)

	// Route computes a point-to-point route for the given transport mode.
	// A zero-valued RouteInfo signals "no route found".
	Route(ctx context.Context, origin, destination domain.Location, mode domain.TransportMode) (domain.RouteInfo, error)

	// SearchPlaces finds locations matching a keyword, optionally biased
	// around a center within the given radius in meters.
	SearchPlaces(ctx context.Context, keyword string, center *domain.Location, radiusMeters int) ([]domain.Location, error)
}
