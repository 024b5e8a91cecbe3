package cli

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/preferences"
	"github.com/budgetmaster/backend/internal/report"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const wordWrap = 100

// printMarkdown renders md for the terminal. The markdown source is printed
// as is in plain mode or when it cannot be rendered.
func (a *App) printMarkdown(md string) {
	if a.Plain {
		fmt.Fprint(a.Out, md)
		return
	}

	out, err := renderMarkdown(md, glamour.WithAutoStyle())
	if err != nil {
		log.Debug().Err(err).Msg("rendering markdown")
		fmt.Fprint(a.Out, md)
		return
	}
	fmt.Fprint(a.Out, out)
}

func renderMarkdown(md string, style glamour.TermRendererOption) (string, error) {
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wordWrap))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// formatAmount formats an amount with the symbol and the fraction digits of
// the currency. Amounts in unknown currencies keep two decimals.
func formatAmount(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return strings.TrimSpace(amount.StringFixed(2) + " " + currency)
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

func formatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

// cell escapes a value for a markdown table.
func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", "\\|"), "\n", " ")
}

type table struct {
	header []string
	align  []string
	rows   [][]string
}

func newTable(header ...string) *table {
	align := make([]string, len(header))
	for i := range align {
		align[i] = "---"
	}
	return &table{header: header, align: align}
}

// right aligns the columns with the given indexes to the right.
func (t *table) right(columns ...int) *table {
	for _, c := range columns {
		t.align[c] = "--:"
	}
	return t
}

func (t *table) add(values ...string) {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = cell(v)
	}
	t.rows = append(t.rows, row)
}

func (t *table) write(b *strings.Builder) {
	line := func(values []string) {
		b.WriteString("| " + strings.Join(values, " | ") + " |\n")
	}

	line(t.header)
	line(t.align)
	for _, r := range t.rows {
		line(r)
	}
	b.WriteString("\n")
}

func summaryMarkdown(s report.Summary, currency string) string {
	var b strings.Builder
	amount := func(d decimal.Decimal) string { return formatAmount(d, currency) }

	fmt.Fprintf(&b, "# Summary for %s\n\n", s.Date)

	overview := newTable("Figure", "Value").right(1)
	overview.add("Total balance", amount(s.TotalBalance))
	overview.add("Wallet", amount(s.WalletBalance))
	overview.add("Bank accounts", amount(s.BankBalance))
	overview.add("Net worth", amount(s.NetWorth))
	overview.add("Total income", amount(s.TotalIncome))
	overview.add("Total expenses", amount(s.TotalExpenses))
	overview.add("Total savings", amount(s.TotalSavings))
	overview.add("Savings rate", formatPercent(s.SavingsRate))
	overview.add("Savings health", formatPercent(s.SavingsHealth))
	overview.write(&b)

	b.WriteString("## Spending\n\n")
	spending := newTable("Period", "Amount").right(1)
	spending.add("Income today", amount(s.Daily.TodayIncome))
	spending.add("Expenses today", amount(s.Daily.TodayExpenses))
	spending.add("Expenses this week", amount(s.Daily.WeekExpenses))
	spending.add("Expenses this month", amount(s.Daily.MonthExpenses))
	spending.add("Monthly budget", amount(s.MonthlyBudget))
	spending.add("Budget used", formatPercent(s.BudgetProgress))
	spending.write(&b)

	b.WriteString("## Loans\n\n")
	loans := newTable("Loans", "Amount").right(1)
	loans.add("Given", amount(s.Loans.Given))
	loans.add("Received", amount(s.Loans.Received))
	loans.add("Net", amount(s.Loans.Net))
	loans.add("Active", fmt.Sprint(s.Loans.Active))
	loans.write(&b)

	if len(s.TopCategories) > 0 {
		b.WriteString("## Top categories\n\n")
		top := newTable("Category", "Spent").right(1)
		for _, c := range s.TopCategories {
			top.add(c.Category, amount(c.Amount))
		}
		top.write(&b)
	}

	if len(s.AccountsByPurpose) > 0 {
		b.WriteString("## Accounts by purpose\n\n")
		purposes := maps.Keys(s.AccountsByPurpose)
		slices.Sort(purposes)

		byPurpose := newTable("Purpose", "Balance").right(1)
		for _, p := range purposes {
			byPurpose.add(string(p), amount(s.AccountsByPurpose[p]))
		}
		byPurpose.write(&b)
	}

	if len(s.RecentActivity) > 0 {
		b.WriteString("## Recent activity\n\n")
		b.WriteString(activityTable(s.RecentActivity, currency))
	}

	return b.String()
}

func activityTable(list []report.Activity, currency string) string {
	var b strings.Builder

	t := newTable("Date", "Kind", "Category", "Amount", "Account", "Description", "ID").right(3)
	for _, a := range list {
		account := a.AccountName
		if a.TransferToName != "" {
			account = fmt.Sprintf("%s → %s", a.AccountName, a.TransferToName)
		}

		amount := a.Amount
		if a.Kind == ledger.KindExpense {
			amount = amount.Neg()
		}

		t.add(a.Date.String(), string(a.Kind), a.Category, formatAmount(amount, currency), account, a.Description, a.ID.String())
	}
	t.write(&b)

	return b.String()
}

func activityMarkdown(list []report.Activity, currency string) string {
	if len(list) == 0 {
		return "No matching records.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Records\n\n%d matching records\n\n", len(list))
	b.WriteString(activityTable(list, currency))
	return b.String()
}

func accountsMarkdown(s ledger.Snapshot, currency string) string {
	var b strings.Builder
	b.WriteString("# Accounts\n\n")

	t := newTable("Name", "Purpose", "Balance", "Bank", "Number", "ID").right(2)
	t.add("Wallet", "", formatAmount(s.Wallet.Balance, currency), "", "", ledger.WalletID.String())
	for _, a := range s.Accounts {
		t.add(a.Name, string(a.Purpose), formatAmount(a.Balance, a.Currency), a.Bank, a.AccountNumber, a.ID.String())
	}
	t.write(&b)

	if len(s.Loans) > 0 {
		b.WriteString("## Loans\n\n")
		loans := newTable("Date", "Type", "Contact", "Amount", "Status", "ID").right(3)
		for _, l := range s.Loans {
			loans.add(l.Date.String(), string(l.Type), l.ContactName, formatAmount(l.Amount, currency), string(l.Status), l.ID.String())
		}
		loans.write(&b)
	}

	if len(s.Savings) > 0 {
		b.WriteString("## Savings\n\n")
		savings := newTable("Date", "Goal", "Category", "Amount", "ID").right(3)
		for _, sv := range s.Savings {
			savings.add(sv.Date.String(), sv.Goal, sv.Category, formatAmount(sv.Amount, currency), sv.ID.String())
		}
		savings.write(&b)
	}

	return b.String()
}

func preferencesMarkdown(p preferences.Preferences) string {
	var b strings.Builder
	s := p.Settings
	currency := s.Currency

	b.WriteString("# Preferences\n\n")

	settings := newTable("Setting", "Value")
	settings.add("Currency", s.Currency)
	settings.add("Date format", s.DateFormat)
	settings.add("Language", s.Language.String())
	settings.add("Timezone", s.Timezone)
	settings.add("Theme", s.Theme)
	settings.add("Font size", s.FontSize)
	settings.add("Compact mode", fmt.Sprint(s.CompactMode))
	settings.add("Show balances", fmt.Sprint(s.ShowBalances))
	settings.add("Auto logout", fmt.Sprintf("%d minutes", s.AutoLogout))
	settings.add("Auto backup", fmt.Sprint(s.AutoBackup))
	settings.add("Backup frequency", s.BackupFrequency)
	settings.add("Data retention", s.DataRetention)
	settings.write(&b)

	b.WriteString("## Profile\n\n")
	profile := newTable("Field", "Value")
	profile.add("Name", p.Profile.Name)
	profile.add("Email", p.Profile.Email)
	profile.write(&b)

	b.WriteString("## Goals\n\n")
	goals := newTable("Goal", "Amount").right(1)
	goals.add("Monthly budget", formatAmount(p.Goals.MonthlyBudget, currency))
	goals.add("Savings goal", formatAmount(p.Goals.SavingsGoal, currency))
	goals.add("Emergency fund", formatAmount(p.Goals.EmergencyFund, currency))
	goals.write(&b)

	return b.String()
}

func categoriesMarkdown(c preferences.Categories) string {
	var b strings.Builder
	b.WriteString("# Categories\n\n")

	for _, kind := range []ledger.Kind{ledger.KindIncome, ledger.KindExpense, ledger.KindLoan, ledger.KindSaving} {
		list, _ := c.For(kind)
		fmt.Fprintf(&b, "## %s\n\n", kind)
		for _, name := range list {
			fmt.Fprintf(&b, "- %s\n", name)
		}
		b.WriteString("\n")
	}

	return b.String()
}
