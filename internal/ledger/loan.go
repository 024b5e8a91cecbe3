package ledger

import (
	"time"

	"github.com/budgetmaster/backend/internal/types"
	"github.com/shopspring/decimal"
)

// LoanType tells whether money was lent or borrowed.
type LoanType string

const (
	LoanGiven    LoanType = "given"
	LoanReceived LoanType = "received"
)

func (t LoanType) Valid() bool {
	return t == LoanGiven || t == LoanReceived
}

type LoanStatus string

const (
	LoanActive    LoanStatus = "active"
	LoanCompleted LoanStatus = "completed"
)

func (s LoanStatus) Valid() bool {
	return s == LoanActive || s == LoanCompleted
}

// Loan is money lent to or borrowed from a contact.
type Loan struct {
	ID            ID              `json:"id"`
	Type          LoanType        `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	ContactName   string          `json:"contactName"`
	Category      string          `json:"category"`
	Reason        string          `json:"reason,omitempty"`
	Description   string          `json:"description"`
	Notes         string          `json:"notes,omitempty"`
	Status        LoanStatus      `json:"status"`
	Date          types.Date      `json:"date"`
	Account       ID              `json:"account"`
	CreatedAt     time.Time       `json:"createdAt"`
	CompletedDate *time.Time      `json:"completedDate,omitempty"`
}

// direction returns the sign of the loan's effect on its account.
func (l Loan) direction() decimal.Decimal {
	if l.Type == LoanGiven {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}
