package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SplitMode selects how an expense total is divided among participants.
type SplitMode string

const (
	SplitEqual      SplitMode = "equal"
	SplitExact      SplitMode = "exact"
	SplitPercentage SplitMode = "percentage"
)

// ParseSplitMode validates a split mode string against the closed set.
func ParseSplitMode(s string) (SplitMode, error) {
	m := SplitMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case SplitEqual, SplitExact, SplitPercentage:
		return m, nil
	}
	return "", fmt.Errorf("parse split mode: unknown mode %q: %w", s, ErrValidation)
}

// ExpenseCategory classifies a trip expense.
type ExpenseCategory string

const (
	ExpenseTransport     ExpenseCategory = "transport"
	ExpenseDining        ExpenseCategory = "dining"
	ExpenseAccommodation ExpenseCategory = "accommodation"
	ExpenseSightseeing   ExpenseCategory = "sightseeing"
	ExpenseShopping      ExpenseCategory = "shopping"
	ExpenseOther         ExpenseCategory = "other"
)

// ParseExpenseCategory validates a category string against the closed set.
func ParseExpenseCategory(s string) (ExpenseCategory, error) {
	c := ExpenseCategory(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case ExpenseTransport, ExpenseDining, ExpenseAccommodation, ExpenseSightseeing, ExpenseShopping, ExpenseOther:
		return c, nil
	}
	return "", fmt.Errorf("parse expense category: unknown category %q: %w", s, ErrValidation)
}

// Share is one participant's portion of an expense total, in minor units.
// Percentage is only set for percentage-mode splits.
type Share struct {
	UserID     string
	Amount     int64
	Percentage float64
}

// Expense records one shared cost within a trip and how it splits across
// participants. The shares always sum exactly to the total amount.
type Expense struct {
	ID          uuid.UUID
	TripID      string
	Description string
	Amount      int64
	Currency    string
	Category    ExpenseCategory
	PayerID     string
	SplitMode   SplitMode
	Shares      []Share
	CreatedBy   string
	CreatedAt   time.Time
}

// ExpenseInput carries everything needed to create an expense.
// ExactAmounts is consulted only for SplitExact, Percentages only for
// SplitPercentage; both are positional against ParticipantIDs.
//
// Participant order is part of the contract: the last participant in the
// supplied order absorbs any rounding residual, so callers must provide a
// stable order if they need deterministic shares.
type ExpenseInput struct {
	TripID         string
	Description    string
	Amount         int64
	Currency       string
	Category       ExpenseCategory
	PayerID        string
	ParticipantIDs []string
	SplitMode      SplitMode
	ExactAmounts   []int64
	Percentages    []float64
	CreatedBy      string
}

// NewExpense validates the input, computes the shares and returns the
// finished expense. The sum of share amounts always equals Amount exactly.
func NewExpense(in ExpenseInput) (Expense, error) {
	if in.Amount <= 0 {
		return Expense{}, fmt.Errorf("new expense: amount must be positive, got %d: %w", in.Amount, ErrValidation)
	}
	if len(in.ParticipantIDs) == 0 {
		return Expense{}, fmt.Errorf("new expense: participant list must be non-empty: %w", ErrValidation)
	}
	if strings.TrimSpace(in.Description) == "" {
		return Expense{}, fmt.Errorf("new expense: description must be non-empty: %w", ErrValidation)
	}
	if strings.TrimSpace(in.PayerID) == "" {
		return Expense{}, fmt.Errorf("new expense: payer id must be non-empty: %w", ErrValidation)
	}

	shares, err := calculateShares(in.Amount, in.ParticipantIDs, in.SplitMode, in.ExactAmounts, in.Percentages)
	if err != nil {
		return Expense{}, fmt.Errorf("new expense: %w", err)
	}

	currency := in.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	category := in.Category
	if category == "" {
		category = ExpenseOther
	}
	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = in.PayerID
	}

	return Expense{
		ID:          uuid.New(),
		TripID:      in.TripID,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Currency:    currency,
		Category:    category,
		PayerID:     in.PayerID,
		SplitMode:   in.SplitMode,
		Shares:      shares,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// ShareFor returns the share assigned to a user, if any.
func (e Expense) ShareFor(userID string) (Share, bool) {
	for _, s := range e.Shares {
		if s.UserID == userID {
			return s, true
		}
	}
	return Share{}, false
}

// calculateShares divides the total across participants according to the
// split mode. Rounding reconciliation: the first N-1 shares round down (or
// to nearest for percentages), and the last participant absorbs the residual
// so the shares sum exactly to the total.
func calculateShares(total int64, participants []string, mode SplitMode, exact []int64, percentages []float64) ([]Share, error) {
	switch mode {
	case SplitEqual:
		return equalShares(total, participants), nil
	case SplitExact:
		return exactShares(total, participants, exact)
	case SplitPercentage:
		return percentageShares(total, participants, percentages)
	}
	return nil, fmt.Errorf("calculate shares: unknown split mode %q: %w", mode, ErrValidation)
}

func equalShares(total int64, participants []string) []Share {
	n := int64(len(participants))
	base := total / n
	shares := make([]Share, 0, n)
	var assigned int64
	for i, userID := range participants {
		amount := base
		if i == len(participants)-1 {
			amount = total - assigned
		}
		assigned += amount
		shares = append(shares, Share{UserID: userID, Amount: amount})
	}
	return shares
}

func exactShares(total int64, participants []string, amounts []int64) ([]Share, error) {
	if len(amounts) != len(participants) {
		return nil, fmt.Errorf("exact split: %d amounts for %d participants: %w", len(amounts), len(participants), ErrValidation)
	}
	var sum int64
	for _, a := range amounts {
		if a < 0 {
			return nil, fmt.Errorf("exact split: negative share amount %d: %w", a, ErrValidation)
		}
		sum += a
	}
	if sum != total {
		return nil, fmt.Errorf("exact split: shares sum to %d, total is %d: %w", sum, total, ErrValidation)
	}
	shares := make([]Share, 0, len(participants))
	for i, userID := range participants {
		shares = append(shares, Share{UserID: userID, Amount: amounts[i]})
	}
	return shares, nil
}

// percentageSumTolerance absorbs binary float noise in the sum-to-100 check
// without accepting genuinely wrong totals.
const percentageSumTolerance = 1e-9

func percentageShares(total int64, participants []string, percentages []float64) ([]Share, error) {
	if len(percentages) != len(participants) {
		return nil, fmt.Errorf("percentage split: %d percentages for %d participants: %w", len(percentages), len(participants), ErrValidation)
	}
	var sum float64
	for _, p := range percentages {
		if p < 0 || p > 100 {
			return nil, fmt.Errorf("percentage split: percentage %v out of range [0,100]: %w", p, ErrValidation)
		}
		sum += p
	}
	if math.Abs(sum-100) > percentageSumTolerance {
		return nil, fmt.Errorf("percentage split: percentages sum to %v, want 100: %w", sum, ErrValidation)
	}
	shares := make([]Share, 0, len(participants))
	var assigned int64
	for i, userID := range participants {
		var amount int64
		if i == len(participants)-1 {
			amount = total - assigned
			if amount < 0 {
				// Degenerate rounding on tiny totals can over-assign the
				// first N-1 shares; reject rather than emit a negative share.
				return nil, fmt.Errorf("percentage split: rounding over-assigned total %d: %w", total, ErrValidation)
			}
		} else {
			amount = int64(math.Round(float64(total) * percentages[i] / 100))
		}
		assigned += amount
		shares = append(shares, Share{UserID: userID, Amount: amount, Percentage: percentages[i]})
	}
	return shares, nil
}

// SettlementTransfer is one payment in a settlement plan: FromUserID pays
// ToUserID the given amount. It is a disposable plan artifact, not an
// aggregate; callers may persist it if they wish.
type SettlementTransfer struct {
	FromUserID string
	ToUserID   string
	Amount     int64
	Currency   string
	Settled    bool
}
