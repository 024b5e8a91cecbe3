package report

import (
	"strings"

	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/types"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

// Activity is an income or expense together with the names of the accounts
// it references. Names of deleted accounts are empty.
type Activity struct {
	ledger.Transaction
	Kind           ledger.Kind `json:"kind"`
	AccountName    string      `json:"accountName"`
	TransferToName string      `json:"transferToName,omitempty"`
}

// accountName resolves an account reference for display.
func accountName(s ledger.Snapshot, id ledger.ID) string {
	if id == ledger.WalletID {
		return "Wallet"
	}
	if a, ok := s.Account(id); ok {
		return a.Name
	}
	return ""
}

func activities(s ledger.Snapshot) []Activity {
	list := make([]Activity, 0, len(s.Income)+len(s.Expenses))

	add := func(kind ledger.Kind, t ledger.Transaction) {
		a := Activity{
			Transaction: t,
			Kind:        kind,
			AccountName: accountName(s, t.Account),
		}
		if t.IsTransfer() {
			a.TransferToName = accountName(s, t.TransferTo)
		}
		list = append(list, a)
	}

	for _, t := range s.Income {
		add(ledger.KindIncome, t)
	}
	for _, t := range s.Expenses {
		add(ledger.KindExpense, t)
	}

	return list
}

// newestFirst orders by date, then by creation time, newest first.
func newestFirst(a, b Activity) int {
	if !a.Date.Equal(b.Date) {
		if a.Date.After(b.Date) {
			return -1
		}
		return 1
	}

	return b.CreatedAt.Compare(a.CreatedAt)
}

// Recent returns the n most recent income and expense records.
func Recent(s ledger.Snapshot, n int) []Activity {
	list := activities(s)
	slices.SortStableFunc(list, newestFirst)

	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

// Filter selects income and expense records. Zero fields match everything.
type Filter struct {
	Kind     ledger.Kind // income or expense
	Category string      // glob pattern, case-insensitive
	Account  ledger.ID   // matches the source and the destination of transfers
	From     types.Date
	To       types.Date
	Search   string // substring of description or category, case-insensitive
}

func (f Filter) match(a Activity) bool {
	if f.Kind != "" && a.Kind != f.Kind {
		return false
	}

	if f.Category != "" && !glob.Glob(strings.ToLower(f.Category), strings.ToLower(a.Category)) {
		return false
	}

	if f.Account != "" && a.Account != f.Account && a.TransferTo != f.Account {
		return false
	}

	if !a.Date.Between(f.From, f.To) {
		return false
	}

	if f.Search != "" {
		search := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(a.Description), search) && !strings.Contains(strings.ToLower(a.Category), search) {
			return false
		}
	}

	return true
}

// Apply returns the matching records, newest first.
func (f Filter) Apply(s ledger.Snapshot) []Activity {
	var result []Activity
	for _, a := range activities(s) {
		if f.match(a) {
			result = append(result, a)
		}
	}

	slices.SortStableFunc(result, newestFirst)

	if result == nil {
		return []Activity{}
	}
	return result
}
