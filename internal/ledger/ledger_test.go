package ledger_test

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.June, 5, 12, 0, 0, 0, time.UTC)

func clock() time.Time {
	return now
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// withChecking returns a ledger and a snapshot containing a single
// "Checking" account with the given balance.
func withChecking(t *testing.T, balance string, opts ...ledger.Option) (ledger.Ledger, ledger.Snapshot, ledger.ID) {
	l := ledger.New(append([]ledger.Option{ledger.WithClock(clock)}, opts...)...)

	s, err := l.AddAccount(ledger.Empty(), ledger.AccountParams{
		Name:    "Checking",
		Purpose: ledger.PurposeChecking,
		Balance: dec(balance),
	})
	require.Nil(t, err)
	require.Len(t, s.Accounts, 1)

	return l, s, s.Accounts[0].ID
}

func balance(t *testing.T, s ledger.Snapshot, id ledger.ID) string {
	b, err := s.Balance(id)
	require.Nil(t, err)
	return b.StringFixed(2)
}

func mustJSON(t *testing.T, s ledger.Snapshot) string {
	b, err := json.Marshal(s)
	require.Nil(t, err)
	return string(b)
}

func TestExampleScenario(t *testing.T) {
	l, s, checking := withChecking(t, "500")

	s, err := l.AddExpense(s, ledger.ExpenseParams{Amount: dec("200"), Category: "Food", Account: checking})
	require.Nil(t, err)
	assert.Equal(t, "300.00", balance(t, s, checking))
	assert.Len(t, s.Expenses, 1)

	s, err = l.Transfer(s, ledger.TransferParams{Amount: dec("100"), From: checking, To: ledger.WalletID})
	require.Nil(t, err)
	assert.Equal(t, "200.00", balance(t, s, checking))
	assert.Equal(t, "100.00", balance(t, s, ledger.WalletID))

	s, err = l.AddIncome(s, ledger.IncomeParams{Amount: dec("50"), Category: "Gift", Account: ledger.WalletID})
	require.Nil(t, err)
	assert.Equal(t, "150.00", balance(t, s, ledger.WalletID))

	transfer := s.Expenses[1]
	assert.Equal(t, ledger.TransferCategory, transfer.Category)
	assert.Equal(t, ledger.TransferType, transfer.Type)
	assert.Equal(t, checking, transfer.Account)
	assert.Equal(t, ledger.WalletID, transfer.TransferTo)
	assert.True(t, transfer.IsTransfer())
}

func TestLoanScenario(t *testing.T) {
	l, s, checking := withChecking(t, "300")

	s, err := l.AddLoan(s, ledger.LoanParams{Type: ledger.LoanGiven, Amount: dec("300"), ContactName: "Sam", Category: "Personal", Account: checking})
	require.Nil(t, err)
	assert.Equal(t, "0.00", balance(t, s, checking))
	require.Len(t, s.Loans, 1)
	assert.Equal(t, ledger.LoanActive, s.Loans[0].Status)
	assert.Nil(t, s.Loans[0].CompletedDate)

	s, err = l.CompleteLoan(s, s.Loans[0].ID)
	require.Nil(t, err)
	assert.Equal(t, ledger.LoanCompleted, s.Loans[0].Status)
	require.NotNil(t, s.Loans[0].CompletedDate)
	assert.Equal(t, now, *s.Loans[0].CompletedDate)
	assert.Equal(t, "0.00", balance(t, s, checking))
}

func TestTransferRoundTrip(t *testing.T) {
	l, s, checking := withChecking(t, "250.50")
	s, err := l.UpdateAccountBalance(s, ledger.WalletID, dec("20"))
	require.Nil(t, err)

	s, err = l.Transfer(s, ledger.TransferParams{Amount: dec("75.25"), From: checking, To: ledger.WalletID})
	require.Nil(t, err)
	s, err = l.Transfer(s, ledger.TransferParams{Amount: dec("75.25"), From: ledger.WalletID, To: checking})
	require.Nil(t, err)

	assert.Equal(t, "250.50", balance(t, s, checking))
	assert.Equal(t, "20.00", balance(t, s, ledger.WalletID))
	assert.Len(t, s.Expenses, 2)
}

func TestTransferInsufficientFunds(t *testing.T) {
	tests := []struct {
		name string
		from func(checking ledger.ID) ledger.ID
		to   func(checking ledger.ID) ledger.ID
	}{
		{"From account", func(c ledger.ID) ledger.ID { return c }, func(ledger.ID) ledger.ID { return ledger.WalletID }},
		{"From wallet", func(ledger.ID) ledger.ID { return ledger.WalletID }, func(c ledger.ID) ledger.ID { return c }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, s, checking := withChecking(t, "100")
			before := mustJSON(t, s)

			next, err := l.Transfer(s, ledger.TransferParams{Amount: dec("100.01"), From: tt.from(checking), To: tt.to(checking)})

			assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
			var insufficient *ledger.InsufficientFundsError
			require.ErrorAs(t, err, &insufficient)
			assert.Equal(t, tt.from(checking), insufficient.Account)
			assert.Equal(t, before, mustJSON(t, next))
			assert.Equal(t, before, mustJSON(t, s))
		})
	}
}

func TestTransferInvalid(t *testing.T) {
	l, s, checking := withChecking(t, "100")

	tests := []struct {
		name   string
		params ledger.TransferParams
		target error
	}{
		{"Same account", ledger.TransferParams{Amount: dec("1"), From: checking, To: checking}, ledger.ErrValidation},
		{"No source", ledger.TransferParams{Amount: dec("1"), To: checking}, ledger.ErrValidation},
		{"No destination", ledger.TransferParams{Amount: dec("1"), From: checking}, ledger.ErrValidation},
		{"Zero amount", ledger.TransferParams{Amount: decimal.Zero, From: checking, To: ledger.WalletID}, ledger.ErrValidation},
		{"Unknown source", ledger.TransferParams{Amount: dec("1"), From: "42", To: checking}, ledger.ErrNotFound},
		{"Unknown destination", ledger.TransferParams{Amount: dec("1"), From: checking, To: "42"}, ledger.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := l.Transfer(s, tt.params)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, mustJSON(t, s), mustJSON(t, next))
		})
	}
}

func TestLoansOffset(t *testing.T) {
	l, s, checking := withChecking(t, "40")

	s, err := l.AddLoan(s, ledger.LoanParams{Type: ledger.LoanGiven, Amount: dec("100"), ContactName: "Alex", Category: "Personal", Account: checking})
	require.Nil(t, err)
	assert.Equal(t, "-60.00", balance(t, s, checking))

	s, err = l.AddLoan(s, ledger.LoanParams{Type: ledger.LoanReceived, Amount: dec("100"), ContactName: "Alex", Category: "Personal", Account: checking})
	require.Nil(t, err)
	assert.Equal(t, "40.00", balance(t, s, checking))
}

func TestAddLoanInvalid(t *testing.T) {
	l, s, checking := withChecking(t, "40")

	tests := []struct {
		name   string
		params ledger.LoanParams
		target error
	}{
		{"Unknown type", ledger.LoanParams{Type: "stolen", Amount: dec("1"), ContactName: "A", Category: "Personal", Account: checking}, ledger.ErrValidation},
		{"No contact", ledger.LoanParams{Type: ledger.LoanGiven, Amount: dec("1"), ContactName: "  ", Category: "Personal", Account: checking}, ledger.ErrValidation},
		{"No category", ledger.LoanParams{Type: ledger.LoanGiven, Amount: dec("1"), ContactName: "A", Account: checking}, ledger.ErrValidation},
		{"Unknown account", ledger.LoanParams{Type: ledger.LoanGiven, Amount: dec("1"), ContactName: "A", Category: "Personal", Account: "nope"}, ledger.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := l.AddLoan(s, tt.params)
			assert.ErrorIs(t, err, tt.target)
			assert.Empty(t, next.Loans)
		})
	}
}

func TestCompleteLoanIdempotent(t *testing.T) {
	l, s, checking := withChecking(t, "300")
	s, err := l.AddLoan(s, ledger.LoanParams{Type: ledger.LoanReceived, Amount: dec("120"), ContactName: "Kim", Category: "Business", Account: checking})
	require.Nil(t, err)
	id := s.Loans[0].ID

	once, err := l.CompleteLoan(s, id)
	require.Nil(t, err)

	later := ledger.New(ledger.WithClock(func() time.Time { return now.Add(time.Hour) }))
	twice, err := later.CompleteLoan(once, id)
	require.Nil(t, err)

	assert.Equal(t, mustJSON(t, once), mustJSON(t, twice))
	assert.Equal(t, s.Loans[0].Amount, twice.Loans[0].Amount)
	assert.Equal(t, s.Loans[0].ContactName, twice.Loans[0].ContactName)
	assert.Equal(t, s.Loans[0].Category, twice.Loans[0].Category)
	assert.Equal(t, "420.00", balance(t, twice, checking))
}

func TestCompleteLoanNotFound(t *testing.T) {
	l, s, _ := withChecking(t, "300")

	_, err := l.CompleteLoan(s, "123")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	var notFound *ledger.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, ledger.KindLoan, notFound.Kind)
}

func TestAddSaving(t *testing.T) {
	l, s, checking := withChecking(t, "1000")

	s, err := l.AddSaving(s, ledger.SavingParams{Amount: dec("250"), Goal: " Vacation ", Category: "Travel", Account: checking, Notes: "Spain"})
	require.Nil(t, err)
	assert.Equal(t, "750.00", balance(t, s, checking))
	require.Len(t, s.Savings, 1)
	assert.Equal(t, "Vacation", s.Savings[0].Goal)
	assert.Equal(t, types.NewDate(2024, time.June, 5), s.Savings[0].Date)

	_, err = l.AddSaving(s, ledger.SavingParams{Amount: dec("1"), Category: "Travel"})
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestAddIncomeInvalid(t *testing.T) {
	l := ledger.New(ledger.WithClock(clock))
	long := ""
	for i := 0; i < 101; i++ {
		long += "x"
	}

	tests := []struct {
		name   string
		params ledger.IncomeParams
		target error
	}{
		{"Zero amount", ledger.IncomeParams{Amount: decimal.Zero, Category: "Salary"}, ledger.ErrValidation},
		{"Negative amount", ledger.IncomeParams{Amount: dec("-5"), Category: "Salary"}, ledger.ErrValidation},
		{"Rounds to zero", ledger.IncomeParams{Amount: dec("0.004"), Category: "Salary"}, ledger.ErrValidation},
		{"Too large", ledger.IncomeParams{Amount: dec("1000000000"), Category: "Salary"}, ledger.ErrValidation},
		{"No category", ledger.IncomeParams{Amount: dec("5")}, ledger.ErrValidation},
		{"Description too long", ledger.IncomeParams{Amount: dec("5"), Category: "Salary", Description: long}, ledger.ErrValidation},
		{"Unknown account", ledger.IncomeParams{Amount: dec("5"), Category: "Salary", Account: "99"}, ledger.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ledger.Empty()
			next, err := l.AddIncome(s, tt.params)
			assert.ErrorIs(t, err, tt.target)
			assert.Empty(t, next.Income)
			assert.True(t, next.Wallet.Balance.IsZero())
		})
	}
}

func TestAmountsAreRounded(t *testing.T) {
	l := ledger.New(ledger.WithClock(clock))

	s, err := l.AddIncome(ledger.Empty(), ledger.IncomeParams{Amount: dec("10.005"), Category: "Salary"})
	require.Nil(t, err)
	assert.Equal(t, "10.01", s.Income[0].Amount.StringFixed(2))
	assert.Equal(t, "10.01", balance(t, s, ledger.WalletID))
	assert.Equal(t, ledger.WalletID, s.Income[0].Account)
}

func TestExpenseMayOverdraw(t *testing.T) {
	l, s, checking := withChecking(t, "10")

	s, err := l.AddExpense(s, ledger.ExpenseParams{Amount: dec("25"), Category: "Food", Account: checking})
	require.Nil(t, err)
	assert.Equal(t, "-15.00", balance(t, s, checking))
}

func TestOperationsDoNotModifyInput(t *testing.T) {
	l, s, checking := withChecking(t, "100")
	s, err := l.AddLoan(s, ledger.LoanParams{Type: ledger.LoanGiven, Amount: dec("10"), ContactName: "A", Category: "Personal", Account: checking})
	require.Nil(t, err)
	before := mustJSON(t, s)

	_, err = l.AddExpense(s, ledger.ExpenseParams{Amount: dec("5"), Category: "Food", Account: checking})
	require.Nil(t, err)
	_, err = l.CompleteLoan(s, s.Loans[0].ID)
	require.Nil(t, err)
	_, err = l.Delete(s, ledger.KindLoan, s.Loans[0].ID)
	require.Nil(t, err)
	_, err = l.UpdateAccountBalance(s, checking, dec("1"))
	require.Nil(t, err)

	assert.Equal(t, before, mustJSON(t, s))
}

func TestIncomeAndExpensesCommute(t *testing.T) {
	l := ledger.New(ledger.WithClock(clock))
	base, err := l.AddAccount(ledger.Empty(), ledger.AccountParams{Name: "A"})
	require.Nil(t, err)
	base, err = l.AddAccount(base, ledger.AccountParams{Name: "B"})
	require.Nil(t, err)
	a, b := base.Accounts[0].ID, base.Accounts[1].ID

	ops := []func(ledger.Snapshot) (ledger.Snapshot, error){
		func(s ledger.Snapshot) (ledger.Snapshot, error) {
			return l.AddIncome(s, ledger.IncomeParams{Amount: dec("100"), Category: "Salary", Account: a})
		},
		func(s ledger.Snapshot) (ledger.Snapshot, error) {
			return l.AddExpense(s, ledger.ExpenseParams{Amount: dec("30.10"), Category: "Food", Account: b})
		},
		func(s ledger.Snapshot) (ledger.Snapshot, error) {
			return l.AddExpense(s, ledger.ExpenseParams{Amount: dec("12.34"), Category: "Food", Account: a})
		},
		func(s ledger.Snapshot) (ledger.Snapshot, error) {
			return l.AddIncome(s, ledger.IncomeParams{Amount: dec("5"), Category: "Gift"})
		},
	}

	forward := base
	for _, op := range ops {
		forward, err = op(forward)
		require.Nil(t, err)
	}

	backward := base
	for i := len(ops) - 1; i >= 0; i-- {
		backward, err = ops[i](backward)
		require.Nil(t, err)
	}

	for _, id := range []ledger.ID{a, b, ledger.WalletID} {
		assert.Equal(t, balance(t, forward, id), balance(t, backward, id), "balance of %s", id)
	}
	assert.Equal(t, "87.66", balance(t, forward, a))
	assert.Equal(t, "-30.10", balance(t, forward, b))
	assert.Equal(t, "5.00", balance(t, forward, ledger.WalletID))
}

func TestDeleteKeepsBalances(t *testing.T) {
	l, s, checking := withChecking(t, "500")
	s, err := l.AddExpense(s, ledger.ExpenseParams{Amount: dec("500"), Category: "Rent", Account: checking})
	require.Nil(t, err)

	s, err = l.Delete(s, ledger.KindExpense, s.Expenses[0].ID)
	require.Nil(t, err)
	assert.Empty(t, s.Expenses)
	assert.Equal(t, "0.00", balance(t, s, checking))
}

func TestDeleteNotFound(t *testing.T) {
	l, s, checking := withChecking(t, "500")
	s, err := l.AddIncome(s, ledger.IncomeParams{Amount: dec("1"), Category: "Gift", Account: checking})
	require.Nil(t, err)

	for _, kind := range []ledger.Kind{ledger.KindIncome, ledger.KindExpense, ledger.KindLoan, ledger.KindSaving, ledger.KindAccount} {
		t.Run(string(kind), func(t *testing.T) {
			next, err := l.Delete(s, kind, "does-not-exist")
			assert.ErrorIs(t, err, ledger.ErrNotFound)
			assert.Equal(t, s.Len(kind), next.Len(kind))
		})
	}
}

func TestDeleteReverse(t *testing.T) {
	l, s, checking := withChecking(t, "500", ledger.WithReverseOnDelete(true))
	require.True(t, l.ReverseOnDelete())

	s, err := l.AddIncome(s, ledger.IncomeParams{Amount: dec("50"), Category: "Gift", Account: checking})
	require.Nil(t, err)
	s, err = l.Transfer(s, ledger.TransferParams{Amount: dec("100"), From: checking, To: ledger.WalletID})
	require.Nil(t, err)
	s, err = l.AddLoan(s, ledger.LoanParams{Type: ledger.LoanGiven, Amount: dec("20"), ContactName: "A", Category: "Personal"})
	require.Nil(t, err)
	s, err = l.AddSaving(s, ledger.SavingParams{Amount: dec("30"), Goal: "Car", Category: "Goal-based", Account: checking})
	require.Nil(t, err)

	s, err = l.Delete(s, ledger.KindIncome, s.Income[0].ID)
	require.Nil(t, err)
	s, err = l.Delete(s, ledger.KindExpense, s.Expenses[0].ID)
	require.Nil(t, err)
	s, err = l.Delete(s, ledger.KindLoan, s.Loans[0].ID)
	require.Nil(t, err)
	s, err = l.Delete(s, ledger.KindSaving, s.Savings[0].ID)
	require.Nil(t, err)

	assert.Equal(t, "500.00", balance(t, s, checking))
	assert.Equal(t, "0.00", balance(t, s, ledger.WalletID))
}

func TestDeleteReverseSkipsDeletedAccounts(t *testing.T) {
	l, s, checking := withChecking(t, "500", ledger.WithReverseOnDelete(true))

	s, err := l.AddExpense(s, ledger.ExpenseParams{Amount: dec("50"), Category: "Food", Account: checking})
	require.Nil(t, err)
	s, err = l.DeleteAccount(s, checking)
	require.Nil(t, err)

	s, err = l.Delete(s, ledger.KindExpense, s.Expenses[0].ID)
	require.Nil(t, err)
	assert.Empty(t, s.Expenses)
}

func TestUpdateAccountBalance(t *testing.T) {
	l, s, checking := withChecking(t, "500")

	later := ledger.New(ledger.WithClock(func() time.Time { return now.Add(time.Minute) }))
	s, err := later.UpdateAccountBalance(s, checking, dec("-42.5"))
	require.Nil(t, err)
	assert.Equal(t, "-42.50", balance(t, s, checking))
	assert.Equal(t, now.Add(time.Minute), s.Accounts[0].LastUpdated)
	assert.Equal(t, now, s.Accounts[0].CreatedDate)

	s, err = l.UpdateAccountBalance(s, ledger.WalletID, dec("12"))
	require.Nil(t, err)
	assert.Equal(t, "12.00", balance(t, s, ledger.WalletID))

	_, err = l.UpdateAccountBalance(s, "nope", dec("12"))
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = l.UpdateAccountBalance(s, checking, dec("-1000000000"))
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestAddAccount(t *testing.T) {
	l := ledger.New(ledger.WithClock(clock))

	tests := []struct {
		name     string
		params   ledger.AccountParams
		purpose  ledger.Purpose
		currency string
		err      error
	}{
		{"Defaults", ledger.AccountParams{Name: "Main"}, ledger.PurposeChecking, "USD", nil},
		{"Purpose alias", ledger.AccountParams{Name: "Card", Purpose: "CreditCard", Currency: "eur"}, ledger.PurposeCreditCard, "EUR", nil},
		{"No name", ledger.AccountParams{Name: " "}, "", "", ledger.ErrValidation},
		{"Name too long", ledger.AccountParams{Name: "This account name is far too long to be accepted by anyone"}, "", "", ledger.ErrValidation},
		{"Unknown purpose", ledger.AccountParams{Name: "Main", Purpose: "Gambling"}, "", "", ledger.ErrValidation},
		{"Unknown currency", ledger.AccountParams{Name: "Main", Currency: "XYZ"}, "", "", ledger.ErrValidation},
		{"Balance out of range", ledger.AccountParams{Name: "Main", Balance: dec("1000000000")}, "", "", ledger.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := l.AddAccount(ledger.Empty(), tt.params)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Empty(t, s.Accounts)
				return
			}

			require.Nil(t, err)
			require.Len(t, s.Accounts, 1)
			assert.Equal(t, tt.purpose, s.Accounts[0].Purpose)
			assert.Equal(t, tt.currency, s.Accounts[0].Currency)
			assert.NotEmpty(t, s.Accounts[0].ID)
		})
	}
}

func TestUpdateAccount(t *testing.T) {
	l, s, checking := withChecking(t, "500")

	s, err := l.UpdateAccount(s, checking, ledger.AccountParams{Name: "Everyday", Purpose: ledger.PurposeJoint, Bank: "Credit Union", Balance: dec("1")})
	require.Nil(t, err)

	a, ok := s.Account(checking)
	require.True(t, ok)
	assert.Equal(t, "Everyday", a.Name)
	assert.Equal(t, ledger.PurposeJoint, a.Purpose)
	assert.Equal(t, "Credit Union", a.Bank)
	assert.Equal(t, "500.00", a.Balance.StringFixed(2))

	_, err = l.UpdateAccount(s, "nope", ledger.AccountParams{Name: "X"})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestDeleteAccountKeepsTransactions(t *testing.T) {
	l, s, checking := withChecking(t, "500")
	s, err := l.AddExpense(s, ledger.ExpenseParams{Amount: dec("5"), Category: "Food", Account: checking})
	require.Nil(t, err)

	s, err = l.DeleteAccount(s, checking)
	require.Nil(t, err)
	assert.Empty(t, s.Accounts)
	assert.Len(t, s.Expenses, 1)

	_, err = l.DeleteAccount(s, ledger.WalletID)
	assert.ErrorIs(t, err, ledger.ErrValidation)

	_, err = l.DeleteAccount(s, checking)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestGeneratedIDsAreUnique(t *testing.T) {
	l := ledger.New(ledger.WithClock(clock))

	s := ledger.Empty()
	var err error
	for i := 0; i < 3; i++ {
		s, err = l.AddIncome(s, ledger.IncomeParams{Amount: dec("1"), Category: "Gift"})
		require.Nil(t, err)
	}

	ms := now.UnixMilli()
	assert.Equal(t, ledger.ID(strconv.FormatInt(ms, 10)), s.Income[0].ID)
	assert.Equal(t, ledger.ID(strconv.FormatInt(ms+1, 10)), s.Income[1].ID)
	assert.Equal(t, ledger.ID(strconv.FormatInt(ms+2, 10)), s.Income[2].ID)
}

func TestExplicitDateIsKept(t *testing.T) {
	l := ledger.New(ledger.WithClock(clock))
	date := types.NewDate(2023, time.December, 24)

	s, err := l.AddExpense(ledger.Empty(), ledger.ExpenseParams{Amount: dec("1"), Category: "Gifts", Date: date})
	require.Nil(t, err)
	assert.Equal(t, date, s.Expenses[0].Date)
	assert.Equal(t, now, s.Expenses[0].CreatedAt)
}
