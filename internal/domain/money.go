package domain

import (
	"fmt"
)

// DefaultCurrency is assumed whenever a caller does not supply a currency code.
const DefaultCurrency = "CNY"

// Money is a fixed-point monetary amount expressed in the currency's minor
// unit (fen for CNY, cents for USD). Keeping amounts integral makes split
// reconciliation exact; there is no floating-point arithmetic on money
// anywhere in the engine.
type Money struct {
	Amount   int64
	Currency string
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: 0, Currency: currency}
}

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("add money: mismatched currencies %s and %s: %w", m.Currency, other.Currency, ErrValidation)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Sub subtracts an amount of the same currency.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("sub money: mismatched currencies %s and %s: %w", m.Currency, other.Currency, ErrValidation)
	}
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}, nil
}

func (m Money) String() string {
	return fmt.Sprintf("%s %d.%02d", m.Currency, m.Amount/100, abs64(m.Amount%100))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
