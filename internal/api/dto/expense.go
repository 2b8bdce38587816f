package dto

type ExpenseRequest struct {
	TripID         string    `json:"trip_id"`
	Description    string    `json:"description"`
	AmountMinor    int64     `json:"amount_minor"`
	Currency       string    `json:"currency"`
	Category       string    `json:"category"`
	PayerID        string    `json:"payer_id"`
	ParticipantIDs []string  `json:"participant_ids"`
	SplitMode      string    `json:"split_mode"`
	ExactAmounts   []int64   `json:"exact_amounts,omitempty"`
	Percentages    []float64 `json:"percentages,omitempty"`
	CreatedBy      string    `json:"created_by,omitempty"`
}

type ShareResponse struct {
	UserID      string  `json:"user_id"`
	AmountMinor int64   `json:"amount_minor"`
	Percentage  float64 `json:"percentage,omitempty"`
}

type ExpenseResponse struct {
	ID          string          `json:"id"`
	TripID      string          `json:"trip_id"`
	Description string          `json:"description"`
	AmountMinor int64           `json:"amount_minor"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	PayerID     string          `json:"payer_id"`
	SplitMode   string          `json:"split_mode"`
	Shares      []ShareResponse `json:"shares"`
}

type SettlementRequest struct {
	Expenses []ExpenseRequest `json:"expenses"`
}

type TransferResponse struct {
	FromUserID  string `json:"from_user_id"`
	ToUserID    string `json:"to_user_id"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
	Settled     bool   `json:"settled"`
}

type SettlementResponse struct {
	// Balances maps currency -> user id -> net amount in minor units.
	Balances  map[string]map[string]int64 `json:"balances"`
	Transfers []TransferResponse          `json:"transfers"`
}
