package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

// SQLRouteCache is a Postgres-backed cache for (origin, destination, mode)
// route results.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

// Get fetches a cached route; nil means cache miss.
func (s *SQLRouteCache) Get(ctx context.Context, origin, destination string, mode domain.TransportMode) (_ *domain.RouteInfo, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return nil, errors.New("get route cache: origin and destination must not be empty")
	}

	q := `
	SELECT distance_meters, duration_seconds, polyline
    FROM route_cache
    WHERE origin = $1
        AND destination = $2
        AND mode = $3;
	`

	var route domain.RouteInfo
	err = s.DB.QueryRowContext(ctx, q, origin, destination, string(mode)).
		Scan(&route.DistanceMeters, &route.DurationSeconds, &route.Polyline)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	return &route, nil
}

// Put stores a route result, replacing any existing entry for the triple.
func (s *SQLRouteCache) Put(ctx context.Context, origin, destination string, mode domain.TransportMode, route domain.RouteInfo) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return errors.New("insert route cache: origin and destination must not be empty")
	}

	q := `
	INSERT INTO route_cache (origin, destination, mode, distance_meters, duration_seconds, polyline)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (origin, destination, mode) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		polyline = EXCLUDED.polyline;
	`

	if _, err := s.DB.ExecContext(ctx, q, origin, destination, string(mode), route.DistanceMeters, route.DurationSeconds, route.Polyline); err != nil {
		return fmt.Errorf("insert route cache %q -> %q mode=%s: %w", origin, destination, mode, err)
	}
	return nil
}
