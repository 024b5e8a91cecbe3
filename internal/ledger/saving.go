package ledger

import (
	"time"

	"github.com/budgetmaster/backend/internal/types"
	"github.com/shopspring/decimal"
)

// Saving is money set aside for a goal.
type Saving struct {
	ID          ID              `json:"id"`
	Goal        string          `json:"goal"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Account     ID              `json:"account"`
	Date        types.Date      `json:"date"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
