package ledger

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used for accounts created without a currency.
const DefaultCurrency = money.USD

const (
	MaxDescriptionLength = 100
	MaxAccountNameLength = 50
)

var (
	// MaxAmount is the largest amount a single record can carry.
	MaxAmount = decimal.RequireFromString("999999999.99")

	// MaxBalance bounds account balances in both directions.
	MaxBalance = MaxAmount
)

// amount rounds to cents and checks the bounds.
func amount(field string, a decimal.Decimal) (decimal.Decimal, error) {
	rounded := a.Round(2)
	if !rounded.IsPositive() {
		return decimal.Zero, &ValidationError{Field: field, Reason: "must be greater than 0"}
	}

	if rounded.GreaterThan(MaxAmount) {
		return decimal.Zero, &ValidationError{Field: field, Reason: fmt.Sprintf("must not exceed %s", MaxAmount.StringFixed(2))}
	}

	return rounded, nil
}

// balance rounds to cents and checks the bounds.
func balance(field string, b decimal.Decimal) (decimal.Decimal, error) {
	rounded := b.Round(2)
	if rounded.Abs().GreaterThan(MaxBalance) {
		return decimal.Zero, &ValidationError{Field: field, Reason: fmt.Sprintf("must be between -%s and %s", MaxBalance.StringFixed(2), MaxBalance.StringFixed(2))}
	}
	return rounded, nil
}

// required trims the value and rejects it if nothing is left.
func required(field, value string, max int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &ValidationError{Field: field, Reason: "is required"}
	}
	return optional(field, trimmed, max)
}

// optional trims the value and enforces the maximum length, if any.
func optional(field, value string, max int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if max > 0 && utf8.RuneCountInString(trimmed) > max {
		return "", &ValidationError{Field: field, Reason: fmt.Sprintf("cannot be longer than %d characters", max)}
	}
	return trimmed, nil
}

// currency normalizes an ISO 4217 code.
func currency(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return DefaultCurrency, nil
	}

	if money.GetCurrency(c) == nil {
		return "", &ValidationError{Field: "currency", Reason: fmt.Sprintf("%q is not a known ISO 4217 currency code", code)}
	}

	return c, nil
}

// ValidCurrency reports whether code is a known ISO 4217 currency code.
func ValidCurrency(code string) bool {
	_, err := currency(code)
	return err == nil && strings.TrimSpace(code) != ""
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
