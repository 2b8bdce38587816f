package services

import (
	"slices"
	"strings"

	"trip-planner-service/internal/domain"
)

// CalculateBalances nets a trip's expenses into per-user signed balances,
// isolated per currency: the payer of each expense is credited its total,
// every share holder is debited its share. Positive = net creditor,
// negative = net debtor. Currencies are never netted against each other.
func CalculateBalances(expenses []domain.Expense) map[string]map[string]int64 {
	balances := make(map[string]map[string]int64)

	for _, e := range expenses {
		currency := e.Currency
		if currency == "" {
			currency = domain.DefaultCurrency
		}
		byUser := balances[currency]
		if byUser == nil {
			byUser = make(map[string]int64)
			balances[currency] = byUser
		}

		byUser[e.PayerID] += e.Amount
		for _, share := range e.Shares {
			byUser[share.UserID] -= share.Amount
		}
	}

	return balances
}

// settlementParty is one side of the greedy matching: a user and the
// magnitude still outstanding.
type settlementParty struct {
	userID string
	amount int64
}

// MinimizeTransfers reduces one currency's balances to a minimal list of
// pairwise transfers. Debtors and creditors are each sorted by magnitude
// descending, then the largest debtor repeatedly pays the largest creditor
// min(debt, credit) until one side is exhausted. Ties break on user id so
// equal inputs always produce the same plan.
//
// Balances are expected to sum to zero; any residual on one side is simply
// left unmatched.
func MinimizeTransfers(balances map[string]int64, currency string) []domain.SettlementTransfer {
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	var debtors, creditors []settlementParty
	for userID, balance := range balances {
		switch {
		case balance < 0:
			debtors = append(debtors, settlementParty{userID: userID, amount: -balance})
		case balance > 0:
			creditors = append(creditors, settlementParty{userID: userID, amount: balance})
		}
	}

	byMagnitude := func(a, b settlementParty) int {
		if a.amount != b.amount {
			if a.amount > b.amount {
				return -1
			}
			return 1
		}
		return strings.Compare(a.userID, b.userID)
	}
	slices.SortFunc(debtors, byMagnitude)
	slices.SortFunc(creditors, byMagnitude)

	var transfers []domain.SettlementTransfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := min(debtors[i].amount, creditors[j].amount)

		transfers = append(transfers, domain.SettlementTransfer{
			FromUserID: debtors[i].userID,
			ToUserID:   creditors[j].userID,
			Amount:     amount,
			Currency:   currency,
		})

		debtors[i].amount -= amount
		creditors[j].amount -= amount
		if debtors[i].amount == 0 {
			i++
		}
		if creditors[j].amount == 0 {
			j++
		}
	}

	return transfers
}

// Settle runs balance calculation and transfer minimization across all
// currencies present in the expenses. Currency groups are processed in
// sorted order for deterministic output.
func Settle(expenses []domain.Expense) []domain.SettlementTransfer {
	balances := CalculateBalances(expenses)

	currencies := make([]string, 0, len(balances))
	for c := range balances {
		currencies = append(currencies, c)
	}
	slices.Sort(currencies)

	var transfers []domain.SettlementTransfer
	for _, c := range currencies {
		transfers = append(transfers, MinimizeTransfers(balances[c], c)...)
	}
	return transfers
}

// UserExpenseTotals summarizes one user's position within a currency group.
type UserExpenseTotals struct {
	UserID    string
	TotalPaid int64
	TotalOwed int64
	Net       int64
}

// SummarizeExpenses aggregates paid/owed totals per user per currency.
// Users are sorted by id within each group.
func SummarizeExpenses(expenses []domain.Expense) map[string][]UserExpenseTotals {
	type totals struct{ paid, owed int64 }
	byCurrency := make(map[string]map[string]*totals)

	for _, e := range expenses {
		currency := e.Currency
		if currency == "" {
			currency = domain.DefaultCurrency
		}
		byUser := byCurrency[currency]
		if byUser == nil {
			byUser = make(map[string]*totals)
			byCurrency[currency] = byUser
		}

		userTotals := func(id string) *totals {
			t := byUser[id]
			if t == nil {
				t = &totals{}
				byUser[id] = t
			}
			return t
		}

		userTotals(e.PayerID).paid += e.Amount
		for _, share := range e.Shares {
			userTotals(share.UserID).owed += share.Amount
		}
	}

	out := make(map[string][]UserExpenseTotals, len(byCurrency))
	for currency, byUser := range byCurrency {
		users := make([]UserExpenseTotals, 0, len(byUser))
		for id, t := range byUser {
			users = append(users, UserExpenseTotals{
				UserID:    id,
				TotalPaid: t.paid,
				TotalOwed: t.owed,
				Net:       t.paid - t.owed,
			})
		}
		slices.SortFunc(users, func(a, b UserExpenseTotals) int {
			return strings.Compare(a.UserID, b.UserID)
		})
		out[currency] = users
	}
	return out
}
