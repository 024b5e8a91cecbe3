package ledger

import (
	"time"

	"github.com/budgetmaster/backend/internal/types"
	"github.com/shopspring/decimal"
)

const (
	// TransferCategory is the category of the expense recording a transfer.
	TransferCategory = "Transfer"

	// TransferType marks an expense as a transfer between accounts.
	TransferType = "transfer"
)

// Transaction is an income or an expense. Which one it is follows from the
// list it is stored in.
type Transaction struct {
	ID          ID              `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        types.Date      `json:"date"`
	Account     ID              `json:"account"`
	CreatedAt   time.Time       `json:"createdAt"`
	TransferTo  ID              `json:"transferTo,omitempty"`
	Type        string          `json:"type,omitempty"`
}

// IsTransfer reports whether the expense records a transfer.
func (t Transaction) IsTransfer() bool {
	return t.Type == TransferType && t.TransferTo != ""
}
