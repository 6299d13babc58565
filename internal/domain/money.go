package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal monetary value.
// It wraps shopspring/decimal so arithmetic never passes through binary
// floats. Negative and zero values are representable; whether such a value is
// acceptable as an operation input is the caller's responsibility.
type Money struct {
	value decimal.Decimal
}

// NewMoney creates a Money from a decimal value.
func NewMoney(value decimal.Decimal) Money {
	return Money{value: value}
}

// MoneyFromString parses a decimal string (e.g. "22.80") into Money.
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid monetary amount %q: %w", s, err)
	}
	return Money{value: d}, nil
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{value: m.value.Add(other.value)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{value: m.value.Sub(other.value)}
}

// Cmp compares two amounts: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.value.Cmp(other.value)
}

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.value.GreaterThan(other.value)
}

// Equal reports whether the two amounts are numerically equal.
func (m Money) Equal(other Money) bool {
	return m.value.Equal(other.value)
}

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool {
	return m.value.IsPositive()
}

// IsZeroOrNegative reports whether m <= 0.
func (m Money) IsZeroOrNegative() bool {
	return !m.value.IsPositive()
}

// String returns the plain decimal representation.
func (m Money) String() string {
	return m.value.String()
}
