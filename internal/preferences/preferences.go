// Package preferences holds the user settings, profile, budget goals and
// category lists that are stored next to the ledger snapshot.
package preferences

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
)

var ErrInvalid = errors.New("invalid preference")

type Settings struct {
	Currency   string       `json:"currency" example:"USD"`
	DateFormat string       `json:"dateFormat" example:"MM/dd/yyyy"`
	Language   language.Tag `json:"language" swaggertype:"string" example:"en"`
	Timezone   string       `json:"timezone" example:"UTC"`

	Theme       string `json:"theme" example:"system"`
	FontSize    string `json:"fontSize" example:"medium"`
	CompactMode bool   `json:"compactMode"`

	EmailNotifications bool `json:"emailNotifications"`
	BudgetAlerts       bool `json:"budgetAlerts"`
	WeeklyReports      bool `json:"weeklyReports"`
	MonthlyReports     bool `json:"monthlyReports"`

	ShowBalances                   bool `json:"showBalances"`
	RequirePasswordForTransactions bool `json:"requirePasswordForTransactions"`
	AutoLogout                     int  `json:"autoLogout" example:"30"`

	AutoBackup      bool   `json:"autoBackup"`
	BackupFrequency string `json:"backupFrequency" example:"weekly"`
	DataRetention   string `json:"dataRetention" example:"2years"`
}

var (
	themes            = []string{"light", "dark", "system"}
	fontSizes         = []string{"small", "medium", "large"}
	backupFrequencies = []string{"daily", "weekly", "monthly"}
)

func DefaultSettings() Settings {
	return Settings{
		Currency:           money.USD,
		DateFormat:         "MM/dd/yyyy",
		Language:           language.English,
		Timezone:           "UTC",
		Theme:              "system",
		FontSize:           "medium",
		EmailNotifications: true,
		BudgetAlerts:       true,
		WeeklyReports:      true,
		MonthlyReports:     true,
		ShowBalances:       true,
		AutoLogout:         30,
		AutoBackup:         true,
		BackupFrequency:    "weekly",
		DataRetention:      "2years",
	}
}

func (s Settings) Validate() error {
	if money.GetCurrency(strings.ToUpper(s.Currency)) == nil {
		return fmt.Errorf("%w: currency %q is not an ISO 4217 code", ErrInvalid, s.Currency)
	}

	if !slices.Contains(themes, s.Theme) {
		return fmt.Errorf("%w: theme must be one of %s", ErrInvalid, strings.Join(themes, ", "))
	}

	if !slices.Contains(fontSizes, s.FontSize) {
		return fmt.Errorf("%w: font size must be one of %s", ErrInvalid, strings.Join(fontSizes, ", "))
	}

	if !slices.Contains(backupFrequencies, s.BackupFrequency) {
		return fmt.Errorf("%w: backup frequency must be one of %s", ErrInvalid, strings.Join(backupFrequencies, ", "))
	}

	if s.AutoLogout < 0 {
		return fmt.Errorf("%w: auto logout must not be negative", ErrInvalid)
	}

	return nil
}

type Profile struct {
	Name  string `json:"name" example:"Budget User"`
	Email string `json:"email" example:"user@example.com"`
}

func DefaultProfile() Profile {
	return Profile{
		Name:  "Budget User",
		Email: "user@example.com",
	}
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalid)
	}

	if p.Email == "" {
		return nil
	}

	addr, err := mail.ParseAddress(p.Email)
	if err != nil || addr.Address != p.Email {
		return fmt.Errorf("%w: %q is not a valid email address", ErrInvalid, p.Email)
	}

	return nil
}

// Goals are the monthly budget and the savings targets.
type Goals struct {
	MonthlyBudget decimal.Decimal `json:"monthlyBudget" example:"3000"`
	SavingsGoal   decimal.Decimal `json:"savingsGoal" example:"10000"`
	EmergencyFund decimal.Decimal `json:"emergencyFund" example:"6000"`
}

func DefaultGoals() Goals {
	return Goals{
		MonthlyBudget: decimal.NewFromInt(3000),
		SavingsGoal:   decimal.NewFromInt(10000),
		EmergencyFund: decimal.NewFromInt(6000),
	}
}

func (g Goals) Validate() error {
	for name, v := range map[string]decimal.Decimal{
		"monthly budget": g.MonthlyBudget,
		"savings goal":   g.SavingsGoal,
		"emergency fund": g.EmergencyFund,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalid, name)
		}
	}
	return nil
}

// Categories are the category names offered per kind of record.
type Categories struct {
	Income   []string `json:"income"`
	Expenses []string `json:"expenses"`
	Loans    []string `json:"loans"`
	Savings  []string `json:"savings"`
}

func DefaultCategories() Categories {
	return Categories{
		Income:   []string{"Salary", "Freelance", "Business", "Investment", "Gift", "Other"},
		Expenses: []string{"Food", "Transport", "Shopping", "Bills", "Entertainment", "Healthcare", "Other"},
		Loans:    []string{"Personal", "Business", "Emergency", "Investment", "Other"},
		Savings:  []string{"Emergency Fund", "Vacation", "Investment", "Goal-based", "Other"},
	}
}

func (c *Categories) list(kind ledger.Kind) (*[]string, error) {
	switch kind {
	case ledger.KindIncome:
		return &c.Income, nil
	case ledger.KindExpense:
		return &c.Expenses, nil
	case ledger.KindLoan:
		return &c.Loans, nil
	case ledger.KindSaving:
		return &c.Savings, nil
	}
	return nil, fmt.Errorf("%w: there are no categories for %s", ErrInvalid, kind)
}

// For returns the categories for a kind of record.
func (c Categories) For(kind ledger.Kind) ([]string, error) {
	list, err := c.list(kind)
	if err != nil {
		return nil, err
	}
	return *list, nil
}

// Add appends a custom category. Adding a category that exists already
// (ignoring case) does nothing.
func (c *Categories) Add(kind ledger.Kind, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: category must not be empty", ErrInvalid)
	}

	list, err := c.list(kind)
	if err != nil {
		return err
	}

	if slices.ContainsFunc(*list, func(s string) bool { return strings.EqualFold(s, name) }) {
		return nil
	}

	*list = append(*list, name)
	return nil
}
