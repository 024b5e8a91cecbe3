package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/types"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// parseAmount reads a decimal flag value. An empty value is zero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// parseDate reads a date flag value. An empty value is the zero date,
// which the ledger replaces with today.
func parseDate(s string) (types.Date, error) {
	if s == "" {
		return types.Date{}, nil
	}
	return types.ParseDate(s)
}

// transactionCmd records income or an expense.
type transactionCmd struct {
	app  *App
	kind ledger.Kind

	amount      string
	category    string
	description string
	account     string
	date        string
}

func (c *transactionCmd) Name() string { return string(c.kind) }

func (c *transactionCmd) Synopsis() string {
	if c.kind == ledger.KindIncome {
		return "record income and credit an account"
	}
	return "record an expense and debit an account"
}

func (c *transactionCmd) Usage() string {
	return fmt.Sprintf(`budgetctl %s -a <amount> -c <category> [-d <description>] [-account <id>] [-date <date>]

  Records %s. Without -account, the wallet is used.
`, c.kind, c.kind)
}

func (c *transactionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "amount, must be positive")
	f.StringVar(&c.category, "c", "", "category")
	f.StringVar(&c.description, "d", "", "description")
	f.StringVar(&c.account, "account", ledger.WalletID.String(), "id of the account")
	f.StringVar(&c.date, "date", "", "date of the record, defaults to today")
}

func (c *transactionCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		return c.app.usage("%v", err)
	}

	date, err := parseDate(c.date)
	if err != nil {
		return c.app.usage("%v", err)
	}

	p := ledger.IncomeParams{
		Amount:      amount,
		Category:    c.category,
		Description: c.description,
		Account:     ledger.ID(c.account),
		Date:        date,
	}

	return c.app.run(ctx, func(w *workspace) error {
		var err error
		if c.kind == ledger.KindIncome {
			err = w.service.AddIncome(ctx, p)
		} else {
			err = w.service.AddExpense(ctx, ledger.ExpenseParams(p))
		}
		if err != nil {
			return err
		}

		s := w.service.Snapshot()
		list := s.Income
		if c.kind == ledger.KindExpense {
			list = s.Expenses
		}
		c.app.printf("Recorded %s %s\n", c.kind, list[len(list)-1].ID)
		return nil
	})
}

type transferCmd struct {
	app *App

	amount      string
	from        string
	to          string
	description string
	date        string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two accounts" }
func (*transferCmd) Usage() string {
	return `budgetctl transfer -a <amount> -from <id> -to <id> [-d <description>] [-date <date>]

  Moves money between the wallet and bank accounts. The transfer is recorded
  as an expense of the source account.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "amount, must be positive")
	f.StringVar(&c.from, "from", "", "id of the source account")
	f.StringVar(&c.to, "to", "", "id of the destination account")
	f.StringVar(&c.description, "d", "", "description")
	f.StringVar(&c.date, "date", "", "date of the transfer, defaults to today")
}

func (c *transferCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		return c.app.usage("%v", err)
	}

	date, err := parseDate(c.date)
	if err != nil {
		return c.app.usage("%v", err)
	}

	return c.app.run(ctx, func(w *workspace) error {
		err := w.service.Transfer(ctx, ledger.TransferParams{
			Amount:      amount,
			From:        ledger.ID(c.from),
			To:          ledger.ID(c.to),
			Description: c.description,
			Date:        date,
		})
		if err != nil {
			return err
		}

		s := w.service.Snapshot()
		c.app.printf("Recorded transfer %s\n", s.Expenses[len(s.Expenses)-1].ID)
		return nil
	})
}

type deleteCmd struct {
	app *App
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a record" }
func (*deleteCmd) Usage() string {
	return `budgetctl [-reverse-on-delete] delete <kind> <id>

  Deletes an income, expense, loan or saving. Balances are left as they are
  unless -reverse-on-delete is set.
`
}

func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return c.app.usage("delete takes a kind and an id")
	}

	kind, err := ledger.ParseKind(f.Arg(0))
	if err != nil {
		return c.app.usage("%v", err)
	}
	id := ledger.ID(f.Arg(1))

	return c.app.run(ctx, func(w *workspace) error {
		if err := w.service.Delete(ctx, kind, id); err != nil {
			return err
		}
		c.app.printf("Deleted %s %s\n", kind, id)
		return nil
	})
}
