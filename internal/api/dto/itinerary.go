package dto

import "time"

type ActivityRequest struct {
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Location  string    `json:"location"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Address   string    `json:"address,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// ModePreference pins a transport mode for the ordered pair of activities
// at the given indices of the request's activity list.
type ModePreference struct {
	FromIndex int    `json:"from_index"`
	ToIndex   int    `json:"to_index"`
	Mode      string `json:"mode"`
}

type CalculateTransitsRequest struct {
	Activities  []ActivityRequest `json:"activities"`
	DefaultMode string            `json:"default_mode"`
	Preferred   []ModePreference  `json:"preferred_modes"`
}

type ActivityResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Location  string    `json:"location"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type TransitResponse struct {
	ID                 string    `json:"id"`
	FromActivityID     string    `json:"from_activity_id"`
	ToActivityID       string    `json:"to_activity_id"`
	Mode               string    `json:"mode"`
	DistanceMeters     float64   `json:"distance_meters"`
	DurationSeconds    int       `json:"duration_seconds"`
	Polyline           string    `json:"polyline,omitempty"`
	DepartAt           time.Time `json:"depart_at"`
	ArriveAt           time.Time `json:"arrive_at"`
	EstimatedCostMinor int64     `json:"estimated_cost_minor"`
	CostCurrency       string    `json:"cost_currency"`
}

type WarningResponse struct {
	Type             string `json:"type"`
	Message          string `json:"message"`
	FromActivityID   string `json:"from_activity_id"`
	ToActivityID     string `json:"to_activity_id"`
	RequiredMinutes  int    `json:"required_minutes,omitempty"`
	AvailableMinutes int    `json:"available_minutes,omitempty"`
}

// TransitInput re-submits an already-computed transit for re-validation.
// Indices refer to the request's activity list.
type TransitInput struct {
	FromIndex       int     `json:"from_index"`
	ToIndex         int     `json:"to_index"`
	Mode            string  `json:"mode"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds int     `json:"duration_seconds"`
}

type ValidateFeasibilityRequest struct {
	Activities []ActivityRequest `json:"activities"`
	Transits   []TransitInput    `json:"transits"`
}

type ValidateFeasibilityResponse struct {
	Warnings []WarningResponse `json:"warnings"`
	Feasible bool              `json:"feasible"`
}

type CalculateTransitsResponse struct {
	Activities []ActivityResponse `json:"activities"`
	Transits   []TransitResponse  `json:"transits"`
	Warnings   []WarningResponse  `json:"warnings"`
	Feasible   bool               `json:"feasible"`
}

type GeocodeResponse struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}
