package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("there is no")
	ErrInvalidRecord     = errors.New("invalid record")
)

// ValidationError is returned when a required field is missing or invalid.
// The snapshot is never modified when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InsufficientFundsError is returned when a transfer source holds less than
// the amount to be moved.
type InsufficientFundsError struct {
	Account ID
	Balance decimal.Decimal
	Amount  decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	source := "account"
	if e.Account == WalletID {
		source = "wallet"
	}
	return fmt.Sprintf("insufficient %s balance: %s available, %s requested", source, e.Balance.StringFixed(2), e.Amount.StringFixed(2))
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// NotFoundError is returned when a referenced account, loan or transaction
// does not exist.
type NotFoundError struct {
	Kind Kind
	ID   ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s with id %q", ErrNotFound, e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
