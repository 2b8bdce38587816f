package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"trip-planner-service/internal/domain"
)

// SQLite-backed cache for (origin, destination, mode) route results.
type SqliteRouteCache struct {
	DB *sql.DB
}

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db}
}

// Get fetches a cached route; nil means cache miss.
func (s *SqliteRouteCache) Get(ctx context.Context, origin, destination string, mode domain.TransportMode) (*domain.RouteInfo, error) {
	if s.DB == nil {
		return nil, errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return nil, errors.New("get route cache: origin and destination must not be empty")
	}

	q := `
	SELECT distance_meters, duration_seconds, polyline
    FROM route_cache
    WHERE origin = ?
        AND destination = ?
        AND mode = ?;
	`

	var route domain.RouteInfo
	err := s.DB.QueryRowContext(ctx, q, origin, destination, string(mode)).
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
func (s *SqliteRouteCache) Put(ctx context.Context, origin, destination string, mode domain.TransportMode, route domain.RouteInfo) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return errors.New("insert route cache: origin and destination must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO route_cache (origin, destination, mode, distance_meters, duration_seconds, polyline)
	VALUES (?, ?, ?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, origin, destination, string(mode), route.DistanceMeters, route.DurationSeconds, route.Polyline); err != nil {
		return fmt.Errorf("insert route cache %q -> %q mode=%s: %w", origin, destination, mode, err)
	}
	return nil
}
