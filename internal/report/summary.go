package report

import (
	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/types"
	"github.com/shopspring/decimal"
)

// Summary collects the dashboard figures for one day.
type Summary struct {
	Date              types.Date                         `json:"date"`
	TotalIncome       decimal.Decimal                    `json:"totalIncome"`
	TotalExpenses     decimal.Decimal                    `json:"totalExpenses"`
	TotalBalance      decimal.Decimal                    `json:"totalBalance"`
	BankBalance       decimal.Decimal                    `json:"bankBalance"`
	WalletBalance     decimal.Decimal                    `json:"walletBalance"`
	NetWorth          decimal.Decimal                    `json:"netWorth"`
	SavingsRate       decimal.Decimal                    `json:"savingsRate"`
	SavingsHealth     decimal.Decimal                    `json:"savingsHealth"`
	TotalSavings      decimal.Decimal                    `json:"totalSavings"`
	MonthlyBudget     decimal.Decimal                    `json:"monthlyBudget"`
	BudgetProgress    decimal.Decimal                    `json:"budgetProgress"`
	Daily             DailySummary                       `json:"daily"`
	Loans             LoansSummary                       `json:"loans"`
	TopCategories     []CategoryTotal                    `json:"topCategories"`
	AccountsByPurpose map[ledger.Purpose]decimal.Decimal `json:"accountsByPurpose"`
	RecentActivity    []Activity                         `json:"recentActivity"`
}

// Summarize computes all dashboard figures. The dashboard shows the top five
// categories and the five most recent records.
func Summarize(s ledger.Snapshot, monthlyBudget decimal.Decimal, today types.Date) Summary {
	return Summary{
		Date:              today,
		TotalIncome:       TotalIncome(s),
		TotalExpenses:     TotalExpenses(s),
		TotalBalance:      TotalBalance(s),
		BankBalance:       BankBalance(s),
		WalletBalance:     s.Wallet.Balance,
		NetWorth:          NetWorth(s),
		SavingsRate:       SavingsRate(s),
		SavingsHealth:     SavingsHealth(s),
		TotalSavings:      TotalSavings(s),
		MonthlyBudget:     monthlyBudget,
		BudgetProgress:    BudgetProgress(s, monthlyBudget, today),
		Daily:             Daily(s, today),
		Loans:             Loans(s),
		TopCategories:     TopCategories(s, 5),
		AccountsByPurpose: AccountsByPurpose(s),
		RecentActivity:    Recent(s, 5),
	}
}
