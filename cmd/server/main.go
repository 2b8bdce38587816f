package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/geo"
	"trip-planner-service/internal/api"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (AMap, SQL/Redis caches) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := getEnv("PORT", "8080")

	amapKey := os.Getenv("AMAP_API_KEY")
	if strings.TrimSpace(amapKey) == "" {
		log.Fatal("AMAP_API_KEY is required")
	}

	conn, geocodeCache, routeCache, err := openCaches()
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// REDIS_ADDR swaps the route cache for a shared TTL-bound one; the
	// geocode cache stays in SQL either way since addresses never expire.
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		routeCache = cache.NewRedisRouteCache(client, cache.DefaultRouteTTL)
		log.Printf("route cache backend=redis addr=%s", addr)
	}

	geoService, err := geo.NewAMapGeoService(amapKey, geocodeCache, routeCache)
	if err != nil {
		log.Fatal(err)
	}

	itinerary := services.NewItineraryService(geoService)
	router := api.NewRouter(itinerary)

	// Timeouts are tuned for cold-cache transit calculation (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openCaches picks Postgres when DATABASE_URL is set, otherwise a local
// SQLite file, and initializes the cache schema on whichever it opened.
func openCaches() (*sql.DB, geo.GeocodeCache, geo.RouteCache, error) {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		conn, err := db.OpenPostgres(databaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := cache.InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, nil, err
		}
		log.Printf("cache backend=postgres")
		return conn, cache.NewSQLGeocodeCache(conn), cache.NewSQLRouteCache(conn), nil
	}

	dbPath := getEnv("DB_PATH", "data/app.db")
	conn, err := db.OpenSQLite(dbPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cache.InitSchema(conn); err != nil {
		conn.Close()
		return nil, nil, nil, err
	}
	log.Printf("cache backend=sqlite path=%s", dbPath)
	return conn, cache.NewSqliteGeocodeCache(conn), cache.NewSqliteRouteCache(conn), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
