// Package report derives totals and breakdowns from a ledger snapshot.
// Nothing in here modifies the snapshot.
package report

import (
	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

var hundred = decimal.NewFromInt(100)

func sum(list []ledger.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range list {
		total = total.Add(t.Amount)
	}
	return total
}

// TotalIncome is the sum of all income.
func TotalIncome(s ledger.Snapshot) decimal.Decimal {
	return sum(s.Income)
}

// TotalExpenses is the sum of all expenses, transfers included.
func TotalExpenses(s ledger.Snapshot) decimal.Decimal {
	return sum(s.Expenses)
}

// BankBalance is the sum of all account balances.
func BankBalance(s ledger.Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// TotalBalance is the sum of all account balances and the wallet.
func TotalBalance(s ledger.Snapshot) decimal.Decimal {
	return BankBalance(s).Add(s.Wallet.Balance)
}

// NetWorth is total income minus total expenses.
func NetWorth(s ledger.Snapshot) decimal.Decimal {
	return TotalIncome(s).Sub(TotalExpenses(s))
}

// SavingsRate is the share of income not spent, in percent.
// It is 0 when there is no income.
func SavingsRate(s ledger.Snapshot) decimal.Decimal {
	income := TotalIncome(s)
	if !income.IsPositive() {
		return decimal.Zero
	}

	return income.Sub(TotalExpenses(s)).Div(income).Mul(hundred).Round(2)
}

// SavingsHealth scores the savings rate from 0 to 100, 50 being a rate of 0%.
func SavingsHealth(s ledger.Snapshot) decimal.Decimal {
	score := decimal.NewFromInt(50).Add(SavingsRate(s).Mul(decimal.NewFromInt(2)))
	return decimal.Max(decimal.Zero, decimal.Min(hundred, score)).Round(0)
}

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// categoryTotals sums expenses per category in order of first appearance.
func categoryTotals(s ledger.Snapshot) []CategoryTotal {
	index := map[string]int{}
	var totals []CategoryTotal

	for _, e := range s.Expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(totals)
			index[e.Category] = i
			totals = append(totals, CategoryTotal{Category: e.Category, Amount: decimal.Zero})
		}
		totals[i].Amount = totals[i].Amount.Add(e.Amount)
	}

	return totals
}

// ExpensesByCategory sums expenses per category.
func ExpensesByCategory(s ledger.Snapshot) map[string]decimal.Decimal {
	result := map[string]decimal.Decimal{}
	for _, c := range categoryTotals(s) {
		result[c.Category] = c.Amount
	}
	return result
}

// TopCategories returns the n categories with the highest expenses, highest
// first. Categories with equal amounts keep the order in which they first
// appear in the expense list.
func TopCategories(s ledger.Snapshot, n int) []CategoryTotal {
	totals := categoryTotals(s)
	slices.SortStableFunc(totals, func(a, b CategoryTotal) int {
		return b.Amount.Cmp(a.Amount)
	})

	if n >= 0 && len(totals) > n {
		totals = totals[:n]
	}

	if totals == nil {
		return []CategoryTotal{}
	}
	return totals
}

// AccountsByPurpose sums account balances per purpose.
func AccountsByPurpose(s ledger.Snapshot) map[ledger.Purpose]decimal.Decimal {
	result := map[ledger.Purpose]decimal.Decimal{}
	for _, a := range s.Accounts {
		result[a.Purpose] = result[a.Purpose].Add(a.Balance)
	}
	return result
}

// LoansSummary totals loans regardless of their status.
type LoansSummary struct {
	Given    decimal.Decimal `json:"given"`
	Received decimal.Decimal `json:"received"`
	Net      decimal.Decimal `json:"net"`
	Active   int             `json:"active"`
}

// Loans totals given and received loans. Net is given minus received.
func Loans(s ledger.Snapshot) LoansSummary {
	summary := LoansSummary{Given: decimal.Zero, Received: decimal.Zero}

	for _, l := range s.Loans {
		switch l.Type {
		case ledger.LoanGiven:
			summary.Given = summary.Given.Add(l.Amount)
		case ledger.LoanReceived:
			summary.Received = summary.Received.Add(l.Amount)
		}

		if l.Status == ledger.LoanActive {
			summary.Active++
		}
	}

	summary.Net = summary.Given.Sub(summary.Received)
	return summary
}

// TotalSavings is the sum of all savings.
func TotalSavings(s ledger.Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, sv := range s.Savings {
		total = total.Add(sv.Amount)
	}
	return total
}

// between sums the transactions dated from from to to, both included.
func between(list []ledger.Transaction, from, to types.Date) decimal.Decimal {
	total := decimal.Zero
	for _, t := range list {
		if t.Date.Between(from, to) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// MonthExpenses sums the expenses from the first day of today's month up to today.
func MonthExpenses(s ledger.Snapshot, today types.Date) decimal.Decimal {
	return between(s.Expenses, today.Month().FirstDay(), today)
}

// BudgetProgress is this month's expenses as a percentage of the monthly
// budget. It is 0 when no budget is set.
func BudgetProgress(s ledger.Snapshot, monthlyBudget decimal.Decimal, today types.Date) decimal.Decimal {
	if !monthlyBudget.IsPositive() {
		return decimal.Zero
	}

	return MonthExpenses(s, today).Div(monthlyBudget).Mul(hundred).Round(2)
}

// DailySummary holds the figures for today, this week and this month.
type DailySummary struct {
	TodayIncome   decimal.Decimal `json:"todayIncome"`
	TodayExpenses decimal.Decimal `json:"todayExpenses"`
	WeekExpenses  decimal.Decimal `json:"weekExpenses"`
	MonthExpenses decimal.Decimal `json:"monthExpenses"`
}

// Daily computes the daily summary. Weeks start on Sunday.
func Daily(s ledger.Snapshot, today types.Date) DailySummary {
	return DailySummary{
		TodayIncome:   between(s.Income, today, today),
		TodayExpenses: between(s.Expenses, today, today),
		WeekExpenses:  between(s.Expenses, today.StartOfWeek(), today),
		MonthExpenses: MonthExpenses(s, today),
	}
}
