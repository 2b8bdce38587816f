package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"
)

type ItineraryHandler struct {
	Service *services.ItineraryService
}

// CalculateTransits builds activities from the request, derives the transits
// linking them, and returns transits plus advisory warnings. The orchestration
// lives here; the engine itself stays transport-agnostic.
func (h *ItineraryHandler) CalculateTransits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.CalculateTransitsRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	defaultMode := domain.ModeDriving
	if strings.TrimSpace(req.DefaultMode) != "" {
		var err error
		defaultMode, err = domain.ParseTransportMode(req.DefaultMode)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
	}

	activities := make([]domain.Activity, 0, len(req.Activities))
	for i, a := range req.Activities {
		category := domain.CategoryOther
		if strings.TrimSpace(a.Category) != "" {
			var err error
			category, err = domain.ParseActivityCategory(a.Category)
			if err != nil {
				writeDomainError(w, r, err)
				return
			}
		}

		loc := domain.Location{
			Name:      a.Location,
			Latitude:  a.Latitude,
			Longitude: a.Longitude,
			Address:   a.Address,
		}
		activity, err := domain.NewActivity(a.Name, category, loc, a.StartTime, a.EndTime)
		if err != nil {
			writeDomainError(w, r, fmt.Errorf("activity #%d: %w", i+1, err))
			return
		}
		activities = append(activities, activity)
	}

	preferred := make(map[domain.TransitKey]domain.TransportMode, len(req.Preferred))
	for _, p := range req.Preferred {
		if p.FromIndex < 0 || p.FromIndex >= len(activities) || p.ToIndex < 0 || p.ToIndex >= len(activities) {
			writeError(w, r, http.StatusBadRequest, "preferred mode index out of range")
			return
		}
		mode, err := domain.ParseTransportMode(p.Mode)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		preferred[domain.TransitKey{
			From: activities[p.FromIndex].ID,
			To:   activities[p.ToIndex].ID,
		}] = mode
	}

	result := h.Service.CalculateTransits(r.Context(), activities, defaultMode, preferred)

	resp := dto.CalculateTransitsResponse{
		Activities: make([]dto.ActivityResponse, 0, len(activities)),
		Transits:   make([]dto.TransitResponse, 0, len(result.Transits)),
		Warnings:   make([]dto.WarningResponse, 0, len(result.Warnings)),
		Feasible:   result.IsFeasible(),
	}
	for _, a := range activities {
		resp.Activities = append(resp.Activities, dto.ActivityResponse{
			ID:        a.ID.String(),
			Name:      a.Name,
			Category:  string(a.Category),
			Location:  a.Location.Name,
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
		})
	}
	for _, t := range result.Transits {
		tr := dto.TransitResponse{
			ID:              t.ID.String(),
			FromActivityID:  t.FromActivityID.String(),
			ToActivityID:    t.ToActivityID.String(),
			Mode:            string(t.Mode),
			DistanceMeters:  t.Route.DistanceMeters,
			DurationSeconds: t.Route.DurationSeconds,
			Polyline:        t.Route.Polyline,
			DepartAt:        t.DepartAt,
			ArriveAt:        t.ArriveAt,
		}
		if t.Cost != nil {
			tr.EstimatedCostMinor = t.Cost.Estimated.Amount
			tr.CostCurrency = t.Cost.Estimated.Currency
		}
		resp.Transits = append(resp.Transits, tr)
	}
	for _, warning := range result.Warnings {
		resp.Warnings = append(resp.Warnings, dto.WarningResponse{
			Type:             string(warning.Type),
			Message:          warning.Message,
			FromActivityID:   warning.FromActivityID.String(),
			ToActivityID:     warning.ToActivityID.String(),
			RequiredMinutes:  warning.RequiredMinutes,
			AvailableMinutes: warning.AvailableMinutes,
		})
	}

	writeJSON(w, r, http.StatusOK, resp)
}

// ValidateFeasibility re-checks previously computed transits against the
// activity schedule without touching the routing gateway.
func (h *ItineraryHandler) ValidateFeasibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ValidateFeasibilityRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	activities := make([]domain.Activity, 0, len(req.Activities))
	for i, a := range req.Activities {
		activity, err := domain.NewActivity(a.Name, domain.CategoryOther, domain.Location{Name: a.Location}, a.StartTime, a.EndTime)
		if err != nil {
			writeDomainError(w, r, fmt.Errorf("activity #%d: %w", i+1, err))
			return
		}
		activities = append(activities, activity)
	}

	transits := make([]domain.Transit, 0, len(req.Transits))
	for _, t := range req.Transits {
		if t.FromIndex < 0 || t.FromIndex >= len(activities) || t.ToIndex < 0 || t.ToIndex >= len(activities) {
			writeError(w, r, http.StatusBadRequest, "transit index out of range")
			return
		}
		mode, err := domain.ParseTransportMode(t.Mode)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		route := domain.RouteInfo{DistanceMeters: t.DistanceMeters, DurationSeconds: t.DurationSeconds}
		transits = append(transits, domain.NewTransit(activities[t.FromIndex], activities[t.ToIndex], route, mode))
	}

	warnings := h.Service.ValidateFeasibility(activities, transits)
	resp := dto.ValidateFeasibilityResponse{
		Warnings: make([]dto.WarningResponse, 0, len(warnings)),
		Feasible: true,
	}
	for _, warning := range warnings {
		if warning.Type == domain.WarningTimeConflict {
			resp.Feasible = false
		}
		resp.Warnings = append(resp.Warnings, dto.WarningResponse{
			Type:             string(warning.Type),
			Message:          warning.Message,
			FromActivityID:   warning.FromActivityID.String(),
			ToActivityID:     warning.ToActivityID.String(),
			RequiredMinutes:  warning.RequiredMinutes,
			AvailableMinutes: warning.AvailableMinutes,
		})
	}

	writeJSON(w, r, http.StatusOK, resp)
}

// Geocode resolves a fuzzy place name to exact coordinates.
func (h *ItineraryHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	loc, err := h.Service.GeocodeFuzzyLocation(r.Context(), name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := dto.GeocodeResponse{Name: loc.Name, Address: loc.Address}
	if loc.HasCoordinates() {
		resp.Latitude = *loc.Latitude
		resp.Longitude = *loc.Longitude
	}
	writeJSON(w, r, http.StatusOK, resp)
}
