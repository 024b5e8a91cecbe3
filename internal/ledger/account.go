package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Purpose classifies what an account is used for.
type Purpose string

const (
	PurposeChecking   Purpose = "Checking"
	PurposeSavings    Purpose = "Savings"
	PurposeEmergency  Purpose = "Emergency"
	PurposeInvestment Purpose = "Investment"
	PurposeCreditCard Purpose = "Credit Card"
	PurposeBusiness   Purpose = "Business"
	PurposeJoint      Purpose = "Joint"
	PurposeOther      Purpose = "Other"
)

// Purposes lists all account purposes in display order.
var Purposes = []Purpose{
	PurposeChecking,
	PurposeSavings,
	PurposeEmergency,
	PurposeInvestment,
	PurposeCreditCard,
	PurposeBusiness,
	PurposeJoint,
	PurposeOther,
}

// ParsePurpose reads a purpose case-insensitively. "CreditCard" is accepted
// for "Credit Card".
func ParsePurpose(s string) (Purpose, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
	for _, p := range Purposes {
		if strings.ReplaceAll(strings.ToLower(string(p)), " ", "") == normalized {
			return p, true
		}
	}
	return "", false
}

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	return slices.Contains(Purposes, p)
}

// Account is a named bank account.
type Account struct {
	ID            ID              `json:"id"`
	Name          string          `json:"name"`
	Purpose       Purpose         `json:"purpose"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	Bank          string          `json:"bank,omitempty"`
	AccountNumber string          `json:"accountNumber,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedDate   time.Time       `json:"createdDate"`
	LastUpdated   time.Time       `json:"lastUpdated"`
}

// Wallet is the cash-on-hand pseudo-account. It always exists.
type Wallet struct {
	Balance decimal.Decimal `json:"balance"`
}
