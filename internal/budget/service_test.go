package budget_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/budgetmaster/backend/internal/budget"
	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/store"
	"github.com/budgetmaster/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type flakyBackend struct {
	*store.Memory
	fail bool
}

func (b *flakyBackend) Put(ctx context.Context, key string, value []byte) error {
	if b.fail {
		return errors.New("disk full")
	}
	return b.Memory.Put(ctx, key, value)
}

type TestSuiteStandard struct {
	suite.Suite
	backend *flakyBackend
	store   *store.Store
	service *budget.Service
}

func TestService(t *testing.T) {
	suite.Run(t, new(TestSuiteStandard))
}

func (suite *TestSuiteStandard) SetupTest() {
	suite.backend = &flakyBackend{Memory: store.NewMemory()}
	suite.store = store.New(suite.backend)

	l := ledger.New(ledger.WithClock(func() time.Time {
		return time.Date(2024, time.June, 5, 12, 0, 0, 0, time.UTC)
	}))

	service, err := budget.Open(context.Background(), suite.store, l)
	suite.Require().Nil(err)
	suite.service = service
}

func (suite *TestSuiteStandard) checking(balance int64) ledger.ID {
	err := suite.service.AddAccount(context.Background(), ledger.AccountParams{
		Name:    "Checking",
		Purpose: ledger.PurposeChecking,
		Balance: decimal.NewFromInt(balance),
	})
	suite.Require().Nil(err)

	accounts := suite.service.Snapshot().Accounts
	suite.Require().Len(accounts, 1)
	return accounts[0].ID
}

func (suite *TestSuiteStandard) TestExampleScenario() {
	ctx := context.Background()
	checking := suite.checking(500)

	suite.Require().Nil(suite.service.AddExpense(ctx, ledger.ExpenseParams{Amount: decimal.NewFromInt(200), Category: "Food", Account: checking}))
	suite.Require().Nil(suite.service.AddIncome(ctx, ledger.IncomeParams{Amount: decimal.NewFromInt(50), Category: "Gift"}))
	suite.Require().Nil(suite.service.Transfer(ctx, ledger.TransferParams{Amount: decimal.NewFromInt(100), From: checking, To: ledger.WalletID}))

	s := suite.service.Snapshot()
	b, err := s.Balance(checking)
	suite.Require().Nil(err)
	suite.Assert().Equal("200", b.String())
	suite.Assert().Equal("150", s.Wallet.Balance.String())

	// The persisted snapshot equals the in-memory one
	persisted, err := suite.store.Load(ctx)
	suite.Require().Nil(err)
	suite.Assert().Len(persisted.Expenses, 2)
	suite.Assert().True(s.Wallet.Balance.Equal(persisted.Wallet.Balance))
}

func (suite *TestSuiteStandard) TestRejectedOperationKeepsSnapshot() {
	ctx := context.Background()
	checking := suite.checking(50)
	before := suite.service.Snapshot()

	err := suite.service.Transfer(ctx, ledger.TransferParams{Amount: decimal.NewFromInt(100), From: checking, To: ledger.WalletID})
	suite.Assert().ErrorIs(err, ledger.ErrInsufficientFunds)
	suite.Assert().Equal(before, suite.service.Snapshot())
}

func (suite *TestSuiteStandard) TestPersistenceFailureKeepsSnapshot() {
	ctx := context.Background()
	checking := suite.checking(500)
	before := suite.service.Snapshot()

	suite.backend.fail = true
	err := suite.service.AddExpense(ctx, ledger.ExpenseParams{Amount: decimal.NewFromInt(200), Category: "Food", Account: checking})
	suite.Assert().ErrorIs(err, store.ErrPersistence)
	suite.Assert().Equal(before, suite.service.Snapshot())

	suite.backend.fail = false
	suite.Require().Nil(suite.service.AddExpense(ctx, ledger.ExpenseParams{Amount: decimal.NewFromInt(200), Category: "Food", Account: checking}))
	suite.Assert().Len(suite.service.Snapshot().Expenses, 1)
}

func (suite *TestSuiteStandard) TestListenersSeeCommittedSnapshot() {
	ctx := context.Background()

	var seen []string
	unsubscribe := suite.service.OnChange(func() {
		seen = append(seen, suite.service.Snapshot().Wallet.Balance.String())
	})

	suite.Require().Nil(suite.service.AddIncome(ctx, ledger.IncomeParams{Amount: decimal.NewFromInt(10), Category: "Gift"}))
	suite.Require().Nil(suite.service.AddIncome(ctx, ledger.IncomeParams{Amount: decimal.NewFromInt(5), Category: "Gift"}))
	unsubscribe()
	suite.Require().Nil(suite.service.AddIncome(ctx, ledger.IncomeParams{Amount: decimal.NewFromInt(1), Category: "Gift"}))

	suite.Assert().Equal([]string{"10", "15"}, seen)
}

func (suite *TestSuiteStandard) TestSnapshotIsACopy() {
	ctx := context.Background()
	suite.Require().Nil(suite.service.AddIncome(ctx, ledger.IncomeParams{Amount: decimal.NewFromInt(10), Category: "Gift"}))

	s := suite.service.Snapshot()
	s.Income[0].Category = "Changed"
	s.Wallet.Balance = decimal.Zero

	fresh := suite.service.Snapshot()
	suite.Assert().Equal("Gift", fresh.Income[0].Category)
	suite.Assert().Equal("10", fresh.Wallet.Balance.String())
}

func (suite *TestSuiteStandard) TestReplace() {
	ctx := context.Background()

	remote, err := ledger.New().AddIncome(ledger.Empty(), ledger.IncomeParams{Amount: decimal.NewFromInt(99), Category: "Salary"})
	suite.Require().Nil(err)

	suite.Require().Nil(suite.service.Replace(ctx, remote))
	suite.Assert().Equal("99", suite.service.Snapshot().Wallet.Balance.String())

	invalid := remote.Clone()
	invalid.Income[0].ID = ""
	err = suite.service.Replace(ctx, invalid)
	suite.Assert().ErrorIs(err, store.ErrCorruptSnapshot)
	suite.Assert().Equal("99", suite.service.Snapshot().Wallet.Balance.String())
}

func (suite *TestSuiteStandard) TestClear() {
	ctx := context.Background()
	suite.checking(500)

	suite.Require().Nil(suite.service.Clear(ctx))
	suite.Assert().Equal(ledger.Empty(), suite.service.Snapshot())

	persisted, err := suite.store.Load(ctx)
	suite.Require().Nil(err)
	suite.Assert().Equal(ledger.Empty(), persisted)
}

func (suite *TestSuiteStandard) TestConcurrentMutationsAreSerialised() {
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			suite.Assert().Nil(suite.service.AddIncome(ctx, ledger.IncomeParams{Amount: decimal.NewFromInt(1), Category: "Gift"}))
		}()
	}
	wg.Wait()

	s := suite.service.Snapshot()
	suite.Assert().Len(s.Income, 50)
	suite.Assert().Equal("50", s.Wallet.Balance.String())

	ids := map[ledger.ID]bool{}
	for _, t := range s.Income {
		ids[t.ID] = true
	}
	suite.Assert().Len(ids, 50)
}

func TestReopenLoadsPersistedSnapshot(t *testing.T) {
	ctx := context.Background()
	file := test.TmpFile(t)

	backend, err := store.OpenSQLite(file)
	require.Nil(t, err)

	service, err := budget.Open(ctx, store.New(backend), ledger.New())
	require.Nil(t, err)
	require.Nil(t, service.AddIncome(ctx, ledger.IncomeParams{Amount: decimal.NewFromInt(42), Category: "Salary"}))
	require.Nil(t, backend.Close())

	backend, err = store.OpenSQLite(file)
	require.Nil(t, err)
	defer backend.Close()

	service, err = budget.Open(ctx, store.New(backend), ledger.New())
	require.Nil(t, err)
	assert.Equal(t, "42", service.Snapshot().Wallet.Balance.String())
}
