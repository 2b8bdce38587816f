package geo

import (
	"context"
	"fmt"

	"trip-planner-service/internal/domain"
)

// MockRoute seeds one routable pair for the mock gateway. Locations are
// keyed by name.
type MockRoute struct {
	From, To string
	Mode     domain.TransportMode
	Meters   float64
	Seconds  int
}

// MockGeoService is a map-backed test double for ports.GeoService.
// Pairs without seeded data return errors, which is exactly how the
// itinerary service's fallback path gets exercised.
type MockGeoService struct {
	routes    map[string]domain.RouteInfo
	distances map[string]float64
	geocodes  map[string]domain.Location

	// RouteCalls counts gateway route lookups, for asserting fallback order.
	RouteCalls int
}

func NewMockGeoService() *MockGeoService {
	return &MockGeoService{
		routes:    make(map[string]domain.RouteInfo),
		distances: make(map[string]float64),
		geocodes:  make(map[string]domain.Location),
	}
}

// AddRoute seeds a route result for one (from, to, mode) triple.
func (m *MockGeoService) AddRoute(r MockRoute) {
	m.routes[r.From+"|"+r.To+"|"+string(r.Mode)] = domain.RouteInfo{
		DistanceMeters:  r.Meters,
		DurationSeconds: r.Seconds,
	}
}

// AddDistance seeds the straight-line distance for an ordered pair.
func (m *MockGeoService) AddDistance(from, to string, meters float64) {
	m.distances[from+"|"+to] = meters
}

// AddGeocode seeds a geocoding result for an address.
func (m *MockGeoService) AddGeocode(address string, loc domain.Location) {
	m.geocodes[address] = loc
}

func (m *MockGeoService) Geocode(_ context.Context, address string) (*domain.Location, error) {
	loc, ok := m.geocodes[address]
	if !ok {
		return nil, nil
	}
	return &loc, nil
}

func (m *MockGeoService) ReverseGeocode(_ context.Context, lat, lon float64) (string, error) {
	for _, loc := range m.geocodes {
		if loc.HasCoordinates() && *loc.Latitude == lat && *loc.Longitude == lon {
			return loc.Address, nil
		}
	}
	return "", nil
}

func (m *MockGeoService) Distance(_ context.Context, origin, destination domain.Location) (float64, error) {
	d, ok := m.distances[origin.Name+"|"+destination.Name]
	if !ok {
		return 0, fmt.Errorf("missing distance %q -> %q", origin.Name, destination.Name)
	}
	return d, nil
}

func (m *MockGeoService) Route(_ context.Context, origin, destination domain.Location, mode domain.TransportMode) (domain.RouteInfo, error) {
	m.RouteCalls++
	r, ok := m.routes[origin.Name+"|"+destination.Name+"|"+string(mode)]
	if !ok {
		return domain.RouteInfo{}, fmt.Errorf("missing route %q -> %q by %s", origin.Name, destination.Name, mode)
	}
	return r, nil
}

func (m *MockGeoService) SearchPlaces(_ context.Context, keyword string, _ *domain.Location, _ int) ([]domain.Location, error) {
	var out []domain.Location
	if loc, ok := m.geocodes[keyword]; ok {
		out = append(out, loc)
	}
	return out, nil
}
