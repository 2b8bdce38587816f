package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"trip-planner-service/internal/domain"
)

// SQLite-backed cache mapping addresses to geocoded locations.
// Keys are expected to be consistent (e.g., already normalized)
// by the caller.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// Get fetches the cached location for an address; nil means cache miss.
func (s *SqliteGeocodeCache) Get(ctx context.Context, address string) (*domain.Location, error) {
	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return nil, errors.New("get geocode cache: address must not be empty")
	}

	q := `
	SELECT lat, lon, formatted_address
    FROM geocode_cache
    WHERE address = ?;
	`

	var lat, lon float64
	var formatted string
	err := s.DB.QueryRowContext(ctx, q, address).Scan(&lat, &lon, &formatted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	loc := domain.LocationAt(address, lat, lon, formatted)
	return &loc, nil
}

// Put stores an address -> location mapping, replacing any existing entry.
func (s *SqliteGeocodeCache) Put(ctx context.Context, address string, loc domain.Location) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return errors.New("insert geocode cache: address must not be empty")
	}
	if !loc.HasCoordinates() {
		return fmt.Errorf("insert geocode cache: location %q has no coordinates", address)
	}

	q := `
	INSERT OR REPLACE INTO geocode_cache (address, lat, lon, formatted_address)
    VALUES (?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, address, *loc.Latitude, *loc.Longitude, loc.Address); err != nil {
		return fmt.Errorf("insert geocode cache address=%q: %w", address, err)
	}
	return nil
}
