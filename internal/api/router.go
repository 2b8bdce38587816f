package api

import (
	"net/http"

	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(itinerary *services.ItineraryService) http.Handler {
	mux := http.NewServeMux()

	itineraryHandler := &handlers.ItineraryHandler{Service: itinerary}
	expenseHandler := &handlers.ExpenseHandler{}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/itinerary/transits", itineraryHandler.CalculateTransits)
	mux.HandleFunc("/itinerary/feasibility", itineraryHandler.ValidateFeasibility)
	mux.HandleFunc("/geocode", itineraryHandler.Geocode)
	mux.HandleFunc("/expenses/split", expenseHandler.Split)
	mux.HandleFunc("/expenses/settlement", expenseHandler.Settlement)

	return loggingMiddleware(mux)
}
