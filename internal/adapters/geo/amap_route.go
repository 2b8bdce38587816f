package geo

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

// AMap v5 direction endpoints per transport mode.
var modeEndpoints = map[domain.TransportMode]string{
	domain.ModeDriving: "/direction/driving",
	domain.ModeWalking: "/direction/walking",
	domain.ModeTransit: "/direction/transit/integrated",
	domain.ModeCycling: "/direction/bicycling",
}

type directionPath struct {
	Distance flexFloat `json:"distance"`
	Duration flexFloat `json:"duration"`
	Polyline string    `json:"polyline"`
	Cost     struct {
		Duration flexFloat `json:"duration"`
	} `json:"cost"`
}

type directionResponse struct {
	Status   string `json:"status"`
	Infocode string `json:"infocode"`
	Info     string `json:"info"`
	Route    struct {
		Paths    []directionPath `json:"paths"`
		Transits []directionPath `json:"transits"`
	} `json:"route"`
}

// Route computes a point-to-point route for the given mode via the AMap v5
// direction APIs. A zero RouteInfo with nil error signals "no route found";
// the caller decides whether that is fatal.
func (g *AMapGeoService) Route(ctx context.Context, origin, destination domain.Location, mode domain.TransportMode) (_ domain.RouteInfo, err error) {
	defer obs.Time(ctx, "amap.Route")(&err)

	endpoint, ok := modeEndpoints[mode]
	if !ok {
		return domain.RouteInfo{}, fmt.Errorf("route: unsupported mode %q", mode)
	}

	origin, err = g.ensureCoordinates(ctx, origin)
	if err != nil {
		return domain.RouteInfo{}, fmt.Errorf("route: origin: %w", err)
	}
	destination, err = g.ensureCoordinates(ctx, destination)
	if err != nil {
		return domain.RouteInfo{}, fmt.Errorf("route: destination: %w", err)
	}

	originKey := formatLonLat(*origin.Longitude, *origin.Latitude)
	destKey := formatLonLat(*destination.Longitude, *destination.Latitude)

	if g.routeCache != nil {
		hit, err := g.routeCache.Get(ctx, originKey, destKey, mode)
		if err != nil {
			return domain.RouteInfo{}, fmt.Errorf("route cache read: %w", err)
		}
		if hit != nil {
			return *hit, nil
		}
	}

	q := url.Values{}
	q.Set("origin", originKey)
	q.Set("destination", destKey)
	q.Set("show_fields", "cost,polyline")
	if mode == domain.ModeDriving {
		// Distance-first strategy; the default speed-first routing tends
		// to detour.
		q.Set("strategy", "2")
	}
	if mode == domain.ModeTransit {
		city1, err := g.cityCode(ctx, *origin.Latitude, *origin.Longitude)
		if err != nil {
			return domain.RouteInfo{}, fmt.Errorf("route: origin city: %w", err)
		}
		city2, err := g.cityCode(ctx, *destination.Latitude, *destination.Longitude)
		if err != nil {
			return domain.RouteInfo{}, fmt.Errorf("route: destination city: %w", err)
		}
		q.Set("city1", city1)
		q.Set("city2", city2)
		q.Set("strategy", "0")
	}

	var decoded directionResponse
	if err := g.getJSON(ctx, g.baseURLv5+endpoint, q, &decoded); err != nil {
		return domain.RouteInfo{}, fmt.Errorf("route %s: %w", mode, err)
	}
	if decoded.Status != "1" {
		return domain.RouteInfo{}, fmt.Errorf("route %s: %w", mode, &apiError{Infocode: decoded.Infocode, Info: decoded.Info})
	}

	paths := decoded.Route.Paths
	if mode == domain.ModeTransit {
		paths = decoded.Route.Transits
	}
	if len(paths) == 0 {
		return domain.RouteInfo{}, nil
	}

	best := paths[0]
	duration := float64(best.Cost.Duration)
	if duration == 0 {
		duration = float64(best.Duration)
	}

	route := domain.RouteInfo{
		DistanceMeters:  float64(best.Distance),
		DurationSeconds: int(duration),
		Polyline:        best.Polyline,
	}

	if g.routeCache != nil && !route.IsZero() {
		if err := g.routeCache.Put(ctx, originKey, destKey, mode, route); err != nil {
			log.Printf("route cache write failed: %v", err)
		}
	}

	return route, nil
}

type cityCodeResponse struct {
	Status    string `json:"status"`
	Infocode  string `json:"infocode"`
	Info      string `json:"info"`
	Regeocode struct {
		AddressComponent struct {
			Citycode any `json:"citycode"`
		} `json:"addressComponent"`
	} `json:"regeocode"`
}

// cityCode resolves the city code a coordinate belongs to; the transit
// direction API requires one per endpoint. Falls back to Beijing ("010")
// when the reverse lookup yields nothing usable.
func (g *AMapGeoService) cityCode(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("location", formatLonLat(lon, lat))

	var decoded cityCodeResponse
	if err := g.getJSON(ctx, g.baseURL+"/geocode/regeo", q, &decoded); err != nil {
		return "", err
	}
	if decoded.Status != "1" {
		return "", &apiError{Infocode: decoded.Infocode, Info: decoded.Info}
	}

	// citycode is a string for most cities but an empty array for some
	// municipalities.
	switch v := decoded.Regeocode.AddressComponent.Citycode.(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok && s != "" {
				return s, nil
			}
		}
	}
	return "010", nil
}
