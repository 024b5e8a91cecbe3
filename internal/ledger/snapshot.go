package ledger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind names the lists of a snapshot.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
	KindLoan    Kind = "loan"
	KindSaving  Kind = "saving"
	KindAccount Kind = "account"
)

// ParseKind reads a kind from its singular or plural name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "incomes":
		return KindIncome, nil
	case "expense", "expenses":
		return KindExpense, nil
	case "loan", "loans":
		return KindLoan, nil
	case "saving", "savings":
		return KindSaving, nil
	case "account", "accounts", "bankaccounts":
		return KindAccount, nil
	}
	return "", &ValidationError{Field: "kind", Reason: fmt.Sprintf("%q is not one of income, expense, loan, saving, account", s)}
}

// Snapshot is the complete state of a ledger. It is the unit of persistence
// and of synchronisation.
type Snapshot struct {
	Income   []Transaction `json:"income"`
	Expenses []Transaction `json:"expenses"`
	Accounts []Account     `json:"bankAccounts"`
	Wallet   Wallet        `json:"wallet"`
	Loans    []Loan        `json:"loans"`
	Savings  []Saving      `json:"savings"`
}

// Empty returns a snapshot with empty lists and a zero wallet.
func Empty() Snapshot {
	return Snapshot{
		Income:   []Transaction{},
		Expenses: []Transaction{},
		Accounts: []Account{},
		Wallet:   Wallet{Balance: decimal.Zero},
		Loans:    []Loan{},
		Savings:  []Saving{},
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface.
//
// Absent lists decode as empty lists and an absent wallet as zero. Accounts
// stored under the "accounts" key are read as well.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type plain Snapshot
	var decoded struct {
		plain
		LegacyAccounts []Account `json:"accounts"`
	}

	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*s = Snapshot(decoded.plain)
	if s.Accounts == nil && decoded.LegacyAccounts != nil {
		s.Accounts = decoded.LegacyAccounts
	}
	s.normalize()

	return nil
}

// normalize fills in defaults for fields older snapshots did not store.
func (s *Snapshot) normalize() {
	if s.Income == nil {
		s.Income = []Transaction{}
	}
	if s.Expenses == nil {
		s.Expenses = []Transaction{}
	}
	if s.Accounts == nil {
		s.Accounts = []Account{}
	}
	if s.Loans == nil {
		s.Loans = []Loan{}
	}
	if s.Savings == nil {
		s.Savings = []Saving{}
	}

	for i := range s.Income {
		if s.Income[i].Account == "" {
			s.Income[i].Account = WalletID
		}
	}
	for i := range s.Expenses {
		if s.Expenses[i].Account == "" {
			s.Expenses[i].Account = WalletID
		}
	}
	for i := range s.Accounts {
		if p, ok := ParsePurpose(string(s.Accounts[i].Purpose)); ok {
			s.Accounts[i].Purpose = p
		} else if s.Accounts[i].Purpose == "" {
			s.Accounts[i].Purpose = PurposeOther
		}
		if s.Accounts[i].Currency == "" {
			s.Accounts[i].Currency = DefaultCurrency
		}
	}
	for i := range s.Loans {
		if s.Loans[i].Status == "" {
			s.Loans[i].Status = LoanActive
		}
		if s.Loans[i].Account == "" {
			s.Loans[i].Account = WalletID
		}
	}
	for i := range s.Savings {
		if s.Savings[i].Account == "" {
			s.Savings[i].Account = WalletID
		}
	}
}

// Validate checks every record for the fields it must carry. It is called at
// the persistence boundary, records failing it are never loaded.
func (s Snapshot) Validate() error {
	check := func(list string, i int, id ID, amount decimal.Decimal) error {
		if id == "" {
			return fmt.Errorf("%w: %s[%d] has no id", ErrInvalidRecord, list, i)
		}
		if !amount.IsPositive() {
			return fmt.Errorf("%w: %s[%d] (id %s) has a non-positive amount", ErrInvalidRecord, list, i, id)
		}
		return nil
	}

	for i, t := range s.Income {
		if err := check("income", i, t.ID, t.Amount); err != nil {
			return err
		}
	}

	for i, t := range s.Expenses {
		if err := check("expenses", i, t.ID, t.Amount); err != nil {
			return err
		}
		if t.Type != "" && t.Type != TransferType {
			return fmt.Errorf("%w: expenses[%d] (id %s) has unknown type %q", ErrInvalidRecord, i, t.ID, t.Type)
		}
		if t.Type == TransferType && t.TransferTo == "" {
			return fmt.Errorf("%w: expenses[%d] (id %s) is a transfer without destination", ErrInvalidRecord, i, t.ID)
		}
	}

	for i, l := range s.Loans {
		if err := check("loans", i, l.ID, l.Amount); err != nil {
			return err
		}
		if !l.Type.Valid() {
			return fmt.Errorf("%w: loans[%d] (id %s) has unknown type %q", ErrInvalidRecord, i, l.ID, l.Type)
		}
		if !l.Status.Valid() {
			return fmt.Errorf("%w: loans[%d] (id %s) has unknown status %q", ErrInvalidRecord, i, l.ID, l.Status)
		}
	}

	for i, sv := range s.Savings {
		if err := check("savings", i, sv.ID, sv.Amount); err != nil {
			return err
		}
	}

	for i, a := range s.Accounts {
		if a.ID == "" {
			return fmt.Errorf("%w: bankAccounts[%d] has no id", ErrInvalidRecord, i)
		}
		if a.ID == WalletID {
			return fmt.Errorf("%w: bankAccounts[%d] uses the reserved id %q", ErrInvalidRecord, i, WalletID)
		}
		if !a.Purpose.Valid() {
			return fmt.Errorf("%w: bankAccounts[%d] (id %s) has unknown purpose %q", ErrInvalidRecord, i, a.ID, a.Purpose)
		}
	}

	return nil
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Income:   append([]Transaction{}, s.Income...),
		Expenses: append([]Transaction{}, s.Expenses...),
		Accounts: append([]Account{}, s.Accounts...),
		Wallet:   s.Wallet,
		Loans:    append([]Loan{}, s.Loans...),
		Savings:  append([]Saving{}, s.Savings...),
	}

	for i := range c.Loans {
		if c.Loans[i].CompletedDate != nil {
			completed := *c.Loans[i].CompletedDate
			c.Loans[i].CompletedDate = &completed
		}
	}

	return c
}

// Account returns the account with the given id.
func (s Snapshot) Account(id ID) (Account, bool) {
	for _, a := range s.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// Balance returns the balance of the wallet or of an account.
func (s Snapshot) Balance(id ID) (decimal.Decimal, error) {
	if id == WalletID {
		return s.Wallet.Balance, nil
	}

	if a, ok := s.Account(id); ok {
		return a.Balance, nil
	}

	return decimal.Zero, &NotFoundError{Kind: KindAccount, ID: id}
}

// Exists reports whether id references the wallet or an account.
func (s Snapshot) Exists(id ID) bool {
	_, err := s.Balance(id)
	return err == nil
}

// Len returns the number of records in the list for kind.
func (s Snapshot) Len(kind Kind) int {
	switch kind {
	case KindIncome:
		return len(s.Income)
	case KindExpense:
		return len(s.Expenses)
	case KindLoan:
		return len(s.Loans)
	case KindSaving:
		return len(s.Savings)
	case KindAccount:
		return len(s.Accounts)
	}
	return 0
}

// adjust adds delta to the balance of the wallet or an account.
func (s *Snapshot) adjust(id ID, delta decimal.Decimal) error {
	if id == WalletID {
		s.Wallet.Balance = s.Wallet.Balance.Add(delta)
		return nil
	}

	for i := range s.Accounts {
		if s.Accounts[i].ID == id {
			s.Accounts[i].Balance = s.Accounts[i].Balance.Add(delta)
			return nil
		}
	}

	return &NotFoundError{Kind: KindAccount, ID: id}
}
