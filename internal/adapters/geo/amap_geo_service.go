// Package geo implements the routing/geocoding gateway against the AMap
// (Gaode) Web Service API, with cache-aside lookups in front of every
// external call.
package geo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

// GeocodeCache persists address -> location resolutions.
type GeocodeCache interface {
	Get(ctx context.Context, address string) (*domain.Location, error)
	Put(ctx context.Context, address string, loc domain.Location) error
}

// RouteCache persists (origin, destination, mode) -> route results.
type RouteCache interface {
	Get(ctx context.Context, origin, destination string, mode domain.TransportMode) (*domain.RouteInfo, error)
	Put(ctx context.Context, origin, destination string, mode domain.TransportMode, route domain.RouteInfo) error
}

// AMapGeoService implements ports.GeoService using the AMap Web API.
//
// It coordinates:
//   - Address normalization for consistent cache keys
//   - Persistent geocode and route caching
//   - External API calls with retry/backoff
//
// The service is safe for concurrent use.
type AMapGeoService struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	baseURLv5    string
	geocodeCache GeocodeCache
	routeCache   RouteCache
}

func NewAMapGeoService(apiKey string, geocodeCache GeocodeCache, routeCache RouteCache) (*AMapGeoService, error) {
	if apiKey == "" {
		return nil, errors.New("amap api key is empty")
	}

	return &AMapGeoService{
		session:      &http.Client{Timeout: 10 * time.Second},
		apiKey:       apiKey,
		baseURL:      "https://restapi.amap.com/v3",
		baseURLv5:    "https://restapi.amap.com/v5",
		geocodeCache: geocodeCache,
		routeCache:   routeCache,
	}, nil
}

// normalize collapses whitespace so cache keys stay consistent.
func (g *AMapGeoService) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type geocodeResponse struct {
	Status   string `json:"status"`
	Infocode string `json:"infocode"`
	Info     string `json:"info"`
	Geocodes []struct {
		Location         string `json:"location"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"geocodes"`
}

// Geocode resolves an address to coordinates via /geocode/geo.
// A nil location with nil error means the address produced no match.
func (g *AMapGeoService) Geocode(ctx context.Context, address string) (_ *domain.Location, err error) {
	defer obs.Time(ctx, "amap.Geocode")(&err)

	norm := g.normalize(address)
	if norm == "" {
		return nil, errors.New("geocode: address must be non-empty")
	}

	if g.geocodeCache != nil {
		hit, err := g.geocodeCache.Get(ctx, norm)
		if err != nil {
			return nil, fmt.Errorf("geocode cache read: %w", err)
		}
		if hit != nil {
			return hit, nil
		}
	}

	q := url.Values{}
	q.Set("address", norm)

	var decoded geocodeResponse
	if err := g.getJSON(ctx, g.baseURL+"/geocode/geo", q, &decoded); err != nil {
		return nil, fmt.Errorf("geocode %q: %w", norm, err)
	}
	if decoded.Status != "1" {
		return nil, fmt.Errorf("geocode %q: %w", norm, &apiError{Infocode: decoded.Infocode, Info: decoded.Info})
	}
	if len(decoded.Geocodes) == 0 {
		return nil, nil
	}

	lon, lat, err := parseLonLat(decoded.Geocodes[0].Location)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", norm, err)
	}

	loc := domain.LocationAt(norm, lat, lon, decoded.Geocodes[0].FormattedAddress)

	if g.geocodeCache != nil {
		if err := g.geocodeCache.Put(ctx, norm, loc); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return &loc, nil
}

type regeoResponse struct {
	Status    string `json:"status"`
	Infocode  string `json:"infocode"`
	Info      string `json:"info"`
	Regeocode struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"regeocode"`
}

// ReverseGeocode resolves coordinates to a formatted address.
func (g *AMapGeoService) ReverseGeocode(ctx context.Context, lat, lon float64) (_ string, err error) {
	defer obs.Time(ctx, "amap.ReverseGeocode")(&err)

	q := url.Values{}
	q.Set("location", formatLonLat(lon, lat))

	var decoded regeoResponse
	if err := g.getJSON(ctx, g.baseURL+"/geocode/regeo", q, &decoded); err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	if decoded.Status != "1" {
		return "", fmt.Errorf("reverse geocode: %w", &apiError{Infocode: decoded.Infocode, Info: decoded.Info})
	}
	return decoded.Regeocode.FormattedAddress, nil
}

type distanceResponse struct {
	Status   string `json:"status"`
	Infocode string `json:"infocode"`
	Info     string `json:"info"`
	Results  []struct {
		Distance flexFloat `json:"distance"`
	} `json:"results"`
}

// Distance returns the straight-line distance between two locations in
// meters via /distance. Locations without coordinates are geocoded first.
func (g *AMapGeoService) Distance(ctx context.Context, origin, destination domain.Location) (_ float64, err error) {
	defer obs.Time(ctx, "amap.Distance")(&err)

	origin, err = g.ensureCoordinates(ctx, origin)
	if err != nil {
		return 0, fmt.Errorf("distance: origin: %w", err)
	}
	destination, err = g.ensureCoordinates(ctx, destination)
	if err != nil {
		return 0, fmt.Errorf("distance: destination: %w", err)
	}

	q := url.Values{}
	q.Set("origins", formatLonLat(*origin.Longitude, *origin.Latitude))
	q.Set("destination", formatLonLat(*destination.Longitude, *destination.Latitude))
	q.Set("type", "0")

	var decoded distanceResponse
	if err := g.getJSON(ctx, g.baseURL+"/distance", q, &decoded); err != nil {
		return 0, fmt.Errorf("distance: %w", err)
	}
	if decoded.Status != "1" {
		return 0, fmt.Errorf("distance: %w", &apiError{Infocode: decoded.Infocode, Info: decoded.Info})
	}
	if len(decoded.Results) == 0 {
		return 0, errors.New("distance: empty result")
	}
	return float64(decoded.Results[0].Distance), nil
}

type placeResponse struct {
	Status   string `json:"status"`
	Infocode string `json:"infocode"`
	Info     string `json:"info"`
	POIs     []struct {
		Name     string `json:"name"`
		Location string `json:"location"`
		Address  string `json:"address"`
	} `json:"pois"`
}

// SearchPlaces finds points of interest matching a keyword, optionally
// biased around a center within the given radius.
func (g *AMapGeoService) SearchPlaces(ctx context.Context, keyword string, center *domain.Location, radiusMeters int) (_ []domain.Location, err error) {
	defer obs.Time(ctx, "amap.SearchPlaces")(&err)

	keyword = g.normalize(keyword)
	if keyword == "" {
		return nil, errors.New("search places: keyword must be non-empty")
	}

	endpoint := g.baseURL + "/place/text"
	q := url.Values{}
	q.Set("keywords", keyword)
	if center != nil && center.HasCoordinates() {
		endpoint = g.baseURL + "/place/around"
		q.Set("location", formatLonLat(*center.Longitude, *center.Latitude))
		if radiusMeters > 0 {
			q.Set("radius", strconv.Itoa(radiusMeters))
		}
	}

	var decoded placeResponse
	if err := g.getJSON(ctx, endpoint, q, &decoded); err != nil {
		return nil, fmt.Errorf("search places %q: %w", keyword, err)
	}
	if decoded.Status != "1" {
		return nil, fmt.Errorf("search places %q: %w", keyword, &apiError{Infocode: decoded.Infocode, Info: decoded.Info})
	}

	out := make([]domain.Location, 0, len(decoded.POIs))
	for _, poi := range decoded.POIs {
		lon, lat, err := parseLonLat(poi.Location)
		if err != nil {
			continue
		}
		out = append(out, domain.LocationAt(poi.Name, lat, lon, poi.Address))
	}
	return out, nil
}

// ensureCoordinates geocodes a location lacking coordinates, preferring the
// address over the display name as the query.
func (g *AMapGeoService) ensureCoordinates(ctx context.Context, loc domain.Location) (domain.Location, error) {
	if loc.HasCoordinates() {
		return loc, nil
	}

	query := loc.Address
	if query == "" {
		query = loc.Name
	}
	resolved, err := g.Geocode(ctx, query)
	if err != nil {
		return domain.Location{}, err
	}
	if resolved == nil {
		return domain.Location{}, fmt.Errorf("no geocode result for %q", query)
	}

	loc.Latitude = resolved.Latitude
	loc.Longitude = resolved.Longitude
	if loc.Address == "" {
		loc.Address = resolved.Address
	}
	return loc, nil
}

func formatLonLat(lon, lat float64) string {
	return strconv.FormatFloat(lon, 'f', 6, 64) + "," + strconv.FormatFloat(lat, 'f', 6, 64)
}

func parseLonLat(s string) (lon, lat float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid coordinate format %q", s)
	}
	lon, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q: %w", parts[0], err)
	}
	lat, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q: %w", parts[1], err)
	}
	return lon, lat, nil
}
