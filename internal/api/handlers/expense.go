package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"
)

type ExpenseHandler struct{}

// Split validates an expense and returns it with per-participant shares.
func (h *ExpenseHandler) Split(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ExpenseRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := expenseFromRequest(req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, expenseResponse(expense))
}

// Settlement nets a batch of expenses into per-currency balances and a
// minimal transfer plan.
func (h *ExpenseHandler) Settlement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SettlementRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Expenses) == 0 {
		writeError(w, r, http.StatusBadRequest, "expenses must be non-empty")
		return
	}

	expenses := make([]domain.Expense, 0, len(req.Expenses))
	for i, er := range req.Expenses {
		expense, err := expenseFromRequest(er)
		if err != nil {
			writeDomainError(w, r, fmt.Errorf("expense #%d: %w", i+1, err))
			return
		}
		expenses = append(expenses, expense)
	}

	transfers := services.Settle(expenses)
	resp := dto.SettlementResponse{
		Balances:  services.CalculateBalances(expenses),
		Transfers: make([]dto.TransferResponse, 0, len(transfers)),
	}
	for _, t := range transfers {
		resp.Transfers = append(resp.Transfers, dto.TransferResponse{
			FromUserID:  t.FromUserID,
			ToUserID:    t.ToUserID,
			AmountMinor: t.Amount,
			Currency:    t.Currency,
			Settled:     t.Settled,
		})
	}

	writeJSON(w, r, http.StatusOK, resp)
}

func expenseFromRequest(req dto.ExpenseRequest) (domain.Expense, error) {
	mode, err := domain.ParseSplitMode(req.SplitMode)
	if err != nil {
		return domain.Expense{}, err
	}

	category := domain.ExpenseOther
	if strings.TrimSpace(req.Category) != "" {
		category, err = domain.ParseExpenseCategory(req.Category)
		if err != nil {
			return domain.Expense{}, err
		}
	}

	return domain.NewExpense(domain.ExpenseInput{
		TripID:         req.TripID,
		Description:    req.Description,
		Amount:         req.AmountMinor,
		Currency:       req.Currency,
		Category:       category,
		PayerID:        req.PayerID,
		ParticipantIDs: req.ParticipantIDs,
		SplitMode:      mode,
		ExactAmounts:   req.ExactAmounts,
		Percentages:    req.Percentages,
		CreatedBy:      req.CreatedBy,
	})
}

func expenseResponse(e domain.Expense) dto.ExpenseResponse {
	resp := dto.ExpenseResponse{
		ID:          e.ID.String(),
		TripID:      e.TripID,
		Description: e.Description,
		AmountMinor: e.Amount,
		Currency:    e.Currency,
		Category:    string(e.Category),
		PayerID:     e.PayerID,
		SplitMode:   string(e.SplitMode),
		Shares:      make([]dto.ShareResponse, 0, len(e.Shares)),
	}
	for _, s := range e.Shares {
		resp.Shares = append(resp.Shares, dto.ShareResponse{
			UserID:      s.UserID,
			AmountMinor: s.Amount,
			Percentage:  s.Percentage,
		})
	}
	return resp
}
