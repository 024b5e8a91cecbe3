// Package ledger implements the budget ledger: accounts, the wallet, income,
// expenses, loans and savings, and the operations that change them.
//
// Every operation takes a snapshot and returns a new one. The input is never
// modified. When an operation fails, the input snapshot is returned as is
// together with the error.
package ledger

import (
	"time"

	"github.com/budgetmaster/backend/internal/types"
	"github.com/shopspring/decimal"
)

// Ledger applies operations to snapshots.
type Ledger struct {
	now             func() time.Time
	nextID          func() ID
	reverseOnDelete bool
}

type Option func(*Ledger)

// WithClock sets the clock used for ids, creation timestamps and default dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithIDs replaces the id generator.
func WithIDs(next func() ID) Option {
	return func(l *Ledger) {
		l.nextID = next
	}
}

// WithReverseOnDelete makes Delete undo the balance effect of the deleted record.
// By default, deleting a record leaves all balances as they are.
func WithReverseOnDelete(reverse bool) Option {
	return func(l *Ledger) {
		l.reverseOnDelete = reverse
	}
}

// New returns a Ledger.
func New(opts ...Option) Ledger {
	l := Ledger{
		now: time.Now,
	}

	for _, opt := range opts {
		opt(&l)
	}

	if l.nextID == nil {
		l.nextID = newIDGenerator(l.now).next
	}

	return l
}

// ReverseOnDelete reports whether Delete reverses balance effects.
func (l Ledger) ReverseOnDelete() bool {
	return l.reverseOnDelete
}

func (l Ledger) timestamp() time.Time {
	return l.now().UTC()
}

func (l Ledger) date(d types.Date) types.Date {
	if d.IsZero() {
		return types.Today(l.now)
	}
	return d
}

type IncomeParams struct {
	Amount      decimal.Decimal
	Category    string
	Description string
	Account     ID
	Date        types.Date
}

type ExpenseParams IncomeParams

type TransferParams struct {
	Amount      decimal.Decimal
	From        ID
	To          ID
	Description string
	Date        types.Date
}

type LoanParams struct {
	Type        LoanType
	Amount      decimal.Decimal
	ContactName string
	Category    string
	Reason      string
	Description string
	Notes       string
	Account     ID
	Date        types.Date
}

type SavingParams struct {
	Amount      decimal.Decimal
	Goal        string
	Category    string
	Description string
	Notes       string
	Account     ID
	Date        types.Date
}

type AccountParams struct {
	Name          string
	Purpose       Purpose
	Balance       decimal.Decimal
	Currency      string
	Bank          string
	AccountNumber string
	Notes         string
}

// transaction validates the common fields of income and expenses.
func (l Ledger) transaction(s Snapshot, p IncomeParams) (Transaction, error) {
	a, err := amount("amount", p.Amount)
	if err != nil {
		return Transaction{}, err
	}

	category, err := required("category", p.Category, 0)
	if err != nil {
		return Transaction{}, err
	}

	description, err := optional("description", p.Description, MaxDescriptionLength)
	if err != nil {
		return Transaction{}, err
	}

	account := p.Account
	if account == "" {
		account = WalletID
	}
	if !s.Exists(account) {
		return Transaction{}, &NotFoundError{Kind: KindAccount, ID: account}
	}

	return Transaction{
		ID:          l.nextID(),
		Amount:      a,
		Category:    category,
		Description: description,
		Date:        l.date(p.Date),
		Account:     account,
		CreatedAt:   l.timestamp(),
	}, nil
}

// AddIncome records income and credits the receiving account.
func (l Ledger) AddIncome(s Snapshot, p IncomeParams) (Snapshot, error) {
	t, err := l.transaction(s, p)
	if err != nil {
		return s, err
	}

	next := s.Clone()
	if err := next.adjust(t.Account, t.Amount); err != nil {
		return s, err
	}
	next.Income = append(next.Income, t)

	return next, nil
}

// AddExpense records an expense and debits the paying account.
// The balance may become negative.
func (l Ledger) AddExpense(s Snapshot, p ExpenseParams) (Snapshot, error) {
	t, err := l.transaction(s, IncomeParams(p))
	if err != nil {
		return s, err
	}

	next := s.Clone()
	if err := next.adjust(t.Account, t.Amount.Neg()); err != nil {
		return s, err
	}
	next.Expenses = append(next.Expenses, t)

	return next, nil
}

// Transfer moves money between two accounts and records the movement as an
// expense of the source. Either both balances change or neither does.
func (l Ledger) Transfer(s Snapshot, p TransferParams) (Snapshot, error) {
	a, err := amount("amount", p.Amount)
	if err != nil {
		return s, err
	}

	if p.From == "" {
		return s, &ValidationError{Field: "from", Reason: "is required"}
	}
	if p.To == "" {
		return s, &ValidationError{Field: "to", Reason: "is required"}
	}
	if p.From == p.To {
		return s, &ValidationError{Field: "to", Reason: "must be different from the source account"}
	}

	description, err := optional("description", p.Description, MaxDescriptionLength)
	if err != nil {
		return s, err
	}

	available, err := s.Balance(p.From)
	if err != nil {
		return s, err
	}
	if !s.Exists(p.To) {
		return s, &NotFoundError{Kind: KindAccount, ID: p.To}
	}

	if available.LessThan(a) {
		return s, &InsufficientFundsError{Account: p.From, Balance: available, Amount: a}
	}

	next := s.Clone()
	if err := next.adjust(p.From, a.Neg()); err != nil {
		return s, err
	}
	if err := next.adjust(p.To, a); err != nil {
		return s, err
	}

	next.Expenses = append(next.Expenses, Transaction{
		ID:          l.nextID(),
		Amount:      a,
		Category:    TransferCategory,
		Description: description,
		Date:        l.date(p.Date),
		Account:     p.From,
		CreatedAt:   l.timestamp(),
		TransferTo:  p.To,
		Type:        TransferType,
	})

	return next, nil
}

// AddLoan records an active loan. Lending debits the account, borrowing credits it.
func (l Ledger) AddLoan(s Snapshot, p LoanParams) (Snapshot, error) {
	if !p.Type.Valid() {
		return s, &ValidationError{Field: "type", Reason: "must be one of given, received"}
	}

	a, err := amount("amount", p.Amount)
	if err != nil {
		return s, err
	}

	contact, err := required("contactName", p.ContactName, 0)
	if err != nil {
		return s, err
	}

	category, err := required("category", p.Category, 0)
	if err != nil {
		return s, err
	}

	description, err := optional("description", p.Description, MaxDescriptionLength)
	if err != nil {
		return s, err
	}

	account := p.Account
	if account == "" {
		account = WalletID
	}

	loan := Loan{
		ID:          l.nextID(),
		Type:        p.Type,
		Amount:      a,
		ContactName: contact,
		Category:    category,
		Reason:      trim(p.Reason),
		Description: description,
		Notes:       trim(p.Notes),
		Status:      LoanActive,
		Date:        l.date(p.Date),
		Account:     account,
		CreatedAt:   l.timestamp(),
	}

	next := s.Clone()
	if err := next.adjust(account, a.Mul(loan.direction())); err != nil {
		return s, err
	}
	next.Loans = append(next.Loans, loan)

	return next, nil
}

// CompleteLoan marks a loan as completed. Balances are not touched, the money
// moved when the loan was created. Completing a completed loan changes nothing.
func (l Ledger) CompleteLoan(s Snapshot, id ID) (Snapshot, error) {
	for i, loan := range s.Loans {
		if loan.ID != id {
			continue
		}

		if loan.Status == LoanCompleted {
			return s, nil
		}

		next := s.Clone()
		completed := l.timestamp()
		next.Loans[i].Status = LoanCompleted
		next.Loans[i].CompletedDate = &completed

		return next, nil
	}

	return s, &NotFoundError{Kind: KindLoan, ID: id}
}

// AddSaving sets money aside for a goal and debits the account it comes from.
func (l Ledger) AddSaving(s Snapshot, p SavingParams) (Snapshot, error) {
	a, err := amount("amount", p.Amount)
	if err != nil {
		return s, err
	}

	goal, err := required("goal", p.Goal, 0)
	if err != nil {
		return s, err
	}

	category, err := required("category", p.Category, 0)
	if err != nil {
		return s, err
	}

	description, err := optional("description", p.Description, MaxDescriptionLength)
	if err != nil {
		return s, err
	}

	account := p.Account
	if account == "" {
		account = WalletID
	}

	next := s.Clone()
	if err := next.adjust(account, a.Neg()); err != nil {
		return s, err
	}
	next.Savings = append(next.Savings, Saving{
		ID:          l.nextID(),
		Goal:        goal,
		Category:    category,
		Amount:      a,
		Description: description,
		Account:     account,
		Date:        l.date(p.Date),
		Notes:       trim(p.Notes),
		CreatedAt:   l.timestamp(),
	})

	return next, nil
}

// Delete removes an income, expense, loan or saving.
//
// Balances stay as they are unless the ledger was created with
// WithReverseOnDelete. Reversal skips accounts that no longer exist.
func (l Ledger) Delete(s Snapshot, kind Kind, id ID) (Snapshot, error) {
	next := s.Clone()

	var reverse func()
	switch kind {
	case KindIncome:
		i := indexOf(next.Income, id, func(t Transaction) ID { return t.ID })
		if i < 0 {
			return s, &NotFoundError{Kind: kind, ID: id}
		}
		t := next.Income[i]
		reverse = func() { next.reverse(t.Account, t.Amount.Neg()) }
		next.Income = remove(next.Income, i)

	case KindExpense:
		i := indexOf(next.Expenses, id, func(t Transaction) ID { return t.ID })
		if i < 0 {
			return s, &NotFoundError{Kind: kind, ID: id}
		}
		t := next.Expenses[i]
		reverse = func() {
			next.reverse(t.Account, t.Amount)
			if t.IsTransfer() {
				next.reverse(t.TransferTo, t.Amount.Neg())
			}
		}
		next.Expenses = remove(next.Expenses, i)

	case KindLoan:
		i := indexOf(next.Loans, id, func(l Loan) ID { return l.ID })
		if i < 0 {
			return s, &NotFoundError{Kind: kind, ID: id}
		}
		loan := next.Loans[i]
		reverse = func() { next.reverse(loan.Account, loan.Amount.Mul(loan.direction()).Neg()) }
		next.Loans = remove(next.Loans, i)

	case KindSaving:
		i := indexOf(next.Savings, id, func(s Saving) ID { return s.ID })
		if i < 0 {
			return s, &NotFoundError{Kind: kind, ID: id}
		}
		sv := next.Savings[i]
		reverse = func() { next.reverse(sv.Account, sv.Amount) }
		next.Savings = remove(next.Savings, i)

	case KindAccount:
		return l.DeleteAccount(s, id)

	default:
		return s, &ValidationError{Field: "kind", Reason: "must be one of income, expense, loan, saving"}
	}

	if l.reverseOnDelete {
		reverse()
	}

	return next, nil
}

// reverse adjusts a balance, ignoring accounts that were deleted.
func (s *Snapshot) reverse(id ID, delta decimal.Decimal) {
	_ = s.adjust(id, delta)
}

// UpdateAccountBalance overwrites the balance of the wallet or an account.
func (l Ledger) UpdateAccountBalance(s Snapshot, id ID, newBalance decimal.Decimal) (Snapshot, error) {
	b, err := balance("balance", newBalance)
	if err != nil {
		return s, err
	}

	next := s.Clone()
	if id == WalletID {
		next.Wallet.Balance = b
		return next, nil
	}

	for i := range next.Accounts {
		if next.Accounts[i].ID == id {
			next.Accounts[i].Balance = b
			next.Accounts[i].LastUpdated = l.timestamp()
			return next, nil
		}
	}

	return s, &NotFoundError{Kind: KindAccount, ID: id}
}

// accountFields validates the descriptive fields of an account.
func accountFields(p AccountParams) (Account, error) {
	name, err := required("name", p.Name, MaxAccountNameLength)
	if err != nil {
		return Account{}, err
	}

	purpose := PurposeChecking
	if p.Purpose != "" {
		var ok bool
		purpose, ok = ParsePurpose(string(p.Purpose))
		if !ok {
			return Account{}, &ValidationError{Field: "purpose", Reason: "is not a known account purpose"}
		}
	}

	cur, err := currency(p.Currency)
	if err != nil {
		return Account{}, err
	}

	return Account{
		Name:          name,
		Purpose:       purpose,
		Currency:      cur,
		Bank:          trim(p.Bank),
		AccountNumber: trim(p.AccountNumber),
		Notes:         trim(p.Notes),
	}, nil
}

// AddAccount creates a bank account with an opening balance.
func (l Ledger) AddAccount(s Snapshot, p AccountParams) (Snapshot, error) {
	account, err := accountFields(p)
	if err != nil {
		return s, err
	}

	b, err := balance("balance", p.Balance)
	if err != nil {
		return s, err
	}

	now := l.timestamp()
	account.ID = l.nextID()
	account.Balance = b
	account.CreatedDate = now
	account.LastUpdated = now

	next := s.Clone()
	next.Accounts = append(next.Accounts, account)

	return next, nil
}

// UpdateAccount replaces the descriptive fields of an account. The balance
// is only changed through UpdateAccountBalance.
func (l Ledger) UpdateAccount(s Snapshot, id ID, p AccountParams) (Snapshot, error) {
	fields, err := accountFields(p)
	if err != nil {
		return s, err
	}

	for i, a := range s.Accounts {
		if a.ID != id {
			continue
		}

		next := s.Clone()
		fields.ID = a.ID
		fields.Balance = a.Balance
		fields.CreatedDate = a.CreatedDate
		fields.LastUpdated = l.timestamp()
		next.Accounts[i] = fields

		return next, nil
	}

	return s, &NotFoundError{Kind: KindAccount, ID: id}
}

// DeleteAccount removes an account. Records referencing it are kept.
func (l Ledger) DeleteAccount(s Snapshot, id ID) (Snapshot, error) {
	if id == WalletID {
		return s, &ValidationError{Field: "account", Reason: "the wallet cannot be deleted"}
	}

	i := indexOf(s.Accounts, id, func(a Account) ID { return a.ID })
	if i < 0 {
		return s, &NotFoundError{Kind: KindAccount, ID: id}
	}

	next := s.Clone()
	next.Accounts = remove(next.Accounts, i)

	return next, nil
}

func indexOf[T any](list []T, id ID, key func(T) ID) int {
	for i, item := range list {
		if key(item) == id {
			return i
		}
	}
	return -1
}

func remove[T any](list []T, i int) []T {
	return append(list[:i:i], list[i+1:]...)
}
