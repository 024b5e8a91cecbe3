package cli

import (
	"strings"
	"testing"

	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/preferences"
	"github.com/budgetmaster/backend/internal/report"
	"github.com/budgetmaster/backend/internal/types"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		expected string
	}{
		{"1234.5", "USD", "$1,234.50"},
		{"-12", "USD", "-$12.00"},
		{"0.5", "eur", "€0.50"},
		{"1234.5", "JPY", "¥1,235"},
		{"0.005", "USD", "$0.01"},
		{"10", "ABC", "10.00 ABC"},
		{"10", "", "10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+" "+tt.currency, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatAmount(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}

func TestTable(t *testing.T) {
	tbl := newTable("Name", "Amount").right(1)
	tbl.add("a|b", "")
	tbl.add("two\nlines", "1")

	var b strings.Builder
	tbl.write(&b)

	assert.Equal(t, "| Name | Amount |\n| --- | --: |\n| a\\|b | - |\n| two lines | 1 |\n\n", b.String())
}

func TestRenderMarkdown(t *testing.T) {
	out, err := renderMarkdown("# Accounts\n\nThe wallet is empty.\n", glamour.WithStandardStyle("notty"))
	require.Nil(t, err)

	assert.Contains(t, out, "Accounts")
	assert.Contains(t, out, "The wallet is empty.")
}

func TestSummaryMarkdown(t *testing.T) {
	s := report.Summary{
		Date:          types.NewDate(2024, 6, 15),
		TotalIncome:   decimal.NewFromInt(2000),
		TotalExpenses: decimal.NewFromInt(150),
		TopCategories: []report.CategoryTotal{{Category: "Food", Amount: decimal.NewFromInt(150)}},
		AccountsByPurpose: map[ledger.Purpose]decimal.Decimal{
			ledger.PurposeSavings:  decimal.NewFromInt(100),
			ledger.PurposeChecking: decimal.NewFromInt(900),
		},
	}

	md := summaryMarkdown(s, "USD")

	assert.Contains(t, md, "# Summary for 2024-06-15")
	assert.Contains(t, md, "| Total income | $2,000.00 |")
	assert.Contains(t, md, "| Food | $150.00 |")
	assert.NotContains(t, md, "## Recent activity")

	// Purposes are sorted
	assert.Less(t, strings.Index(md, "| Checking |"), strings.Index(md, "| Savings |"))
}

func TestActivityMarkdown(t *testing.T) {
	assert.Equal(t, "No matching records.\n", activityMarkdown(nil, "USD"))

	md := activityMarkdown([]report.Activity{
		{
			Transaction: ledger.Transaction{
				ID:       "2",
				Amount:   decimal.NewFromInt(40),
				Category: "Transfer",
				Date:     types.NewDate(2024, 6, 2),
			},
			Kind:           ledger.KindExpense,
			AccountName:    "Checking",
			TransferToName: "Wallet",
		},
		{
			Transaction: ledger.Transaction{
				ID:       "1",
				Amount:   decimal.NewFromInt(100),
				Category: "Salary",
				Date:     types.NewDate(2024, 6, 1),
			},
			Kind:        ledger.KindIncome,
			AccountName: "Wallet",
		},
	}, "USD")

	assert.Contains(t, md, "2 matching records")
	assert.Contains(t, md, "| 2024-06-02 | expense | Transfer | -$40.00 | Checking → Wallet | - | 2 |")
	assert.Contains(t, md, "| 2024-06-01 | income | Salary | $100.00 | Wallet | - | 1 |")
}

func TestCategoriesMarkdown(t *testing.T) {
	md := categoriesMarkdown(preferences.DefaultCategories())

	assert.Contains(t, md, "## expense\n\n- Food\n")
	assert.Contains(t, md, "## saving\n\n- Emergency Fund\n")
}
