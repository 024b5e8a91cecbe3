package cli

import (
	"context"
	"flag"

	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/google/subcommands"
)

type loanCmd struct {
	app *App

	received    bool
	amount      string
	contact     string
	category    string
	reason      string
	description string
	notes       string
	account     string
	date        string
}

func (*loanCmd) Name() string     { return "loan" }
func (*loanCmd) Synopsis() string { return "record money lent to or borrowed from a contact" }
func (*loanCmd) Usage() string {
	return `budgetctl loan [-received] -a <amount> -contact <name> [-c <category>] [-reason <reason>] [-account <id>] [-date <date>]

  Records a loan. Lending money debits the account, borrowing (-received)
  credits it.
`
}

func (c *loanCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.received, "received", false, "the money was borrowed instead of lent")
	f.StringVar(&c.amount, "a", "", "amount, must be positive")
	f.StringVar(&c.contact, "contact", "", "name of the contact")
	f.StringVar(&c.category, "c", "Personal", "category")
	f.StringVar(&c.reason, "reason", "", "reason of the loan")
	f.StringVar(&c.description, "d", "", "description")
	f.StringVar(&c.notes, "notes", "", "notes")
	f.StringVar(&c.account, "account", ledger.WalletID.String(), "id of the account")
	f.StringVar(&c.date, "date", "", "date of the loan, defaults to today")
}

func (c *loanCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		return c.app.usage("%v", err)
	}

	date, err := parseDate(c.date)
	if err != nil {
		return c.app.usage("%v", err)
	}

	loanType := ledger.LoanGiven
	if c.received {
		loanType = ledger.LoanReceived
	}

	return c.app.run(ctx, func(w *workspace) error {
		err := w.service.AddLoan(ctx, ledger.LoanParams{
			Type:        loanType,
			Amount:      amount,
			ContactName: c.contact,
			Category:    c.category,
			Reason:      c.reason,
			Description: c.description,
			Notes:       c.notes,
			Account:     ledger.ID(c.account),
			Date:        date,
		})
		if err != nil {
			return err
		}

		s := w.service.Snapshot()
		c.app.printf("Recorded %s loan %s\n", loanType, s.Loans[len(s.Loans)-1].ID)
		return nil
	})
}

type completeLoanCmd struct {
	app *App
}

func (*completeLoanCmd) Name() string     { return "complete-loan" }
func (*completeLoanCmd) Synopsis() string { return "mark a loan as completed" }
func (*completeLoanCmd) Usage() string {
	return `budgetctl complete-loan <id>

  Marks an active loan as completed. Balances do not change.
`
}

func (*completeLoanCmd) SetFlags(*flag.FlagSet) {}

func (c *completeLoanCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage("complete-loan takes the id of the loan")
	}
	id := ledger.ID(f.Arg(0))

	return c.app.run(ctx, func(w *workspace) error {
		if err := w.service.CompleteLoan(ctx, id); err != nil {
			return err
		}
		c.app.printf("Completed loan %s\n", id)
		return nil
	})
}

type savingCmd struct {
	app *App

	amount      string
	goal        string
	category    string
	description string
	notes       string
	account     string
	date        string
}

func (*savingCmd) Name() string     { return "saving" }
func (*savingCmd) Synopsis() string { return "set money aside for a goal" }
func (*savingCmd) Usage() string {
	return `budgetctl saving -a <amount> -goal <goal> [-c <category>] [-account <id>] [-date <date>]

  Records a saving and debits the account.
`
}

func (c *savingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "amount, must be positive")
	f.StringVar(&c.goal, "goal", "", "goal of the saving")
	f.StringVar(&c.category, "c", "Goal-based", "category")
	f.StringVar(&c.description, "d", "", "description")
	f.StringVar(&c.notes, "notes", "", "notes")
	f.StringVar(&c.account, "account", ledger.WalletID.String(), "id of the account")
	f.StringVar(&c.date, "date", "", "date of the saving, defaults to today")
}

func (c *savingCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		return c.app.usage("%v", err)
	}

	date, err := parseDate(c.date)
	if err != nil {
		return c.app.usage("%v", err)
	}

	return c.app.run(ctx, func(w *workspace) error {
		err := w.service.AddSaving(ctx, ledger.SavingParams{
			Amount:      amount,
			Goal:        c.goal,
			Category:    c.category,
			Description: c.description,
			Notes:       c.notes,
			Account:     ledger.ID(c.account),
			Date:        date,
		})
		if err != nil {
			return err
		}

		s := w.service.Snapshot()
		c.app.printf("Recorded saving %s\n", s.Savings[len(s.Savings)-1].ID)
		return nil
	})
}
