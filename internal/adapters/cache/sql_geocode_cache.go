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

// SQLGeocodeCache is a Postgres-backed cache mapping addresses to geocoded
// locations.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// Get fetches the cached location for an address; nil means cache miss.
func (s *SQLGeocodeCache) Get(ctx context.Context, address string) (_ *domain.Location, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

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
    WHERE address = $1;
	`

	var lat, lon float64
	var formatted string
	err = s.DB.QueryRowContext(ctx, q, address).Scan(&lat, &lon, &formatted)
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
func (s *SQLGeocodeCache) Put(ctx context.Context, address string, loc domain.Location) error {
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
	INSERT INTO geocode_cache (address, lat, lon, formatted_address)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (address) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		formatted_address = EXCLUDED.formatted_address;
	`

	if _, err := s.DB.ExecContext(ctx, q, address, *loc.Latitude, *loc.Longitude, loc.Address); err != nil {
		return fmt.Errorf("insert geocode cache address=%q: %w", address, err)
	}
	return nil
}
