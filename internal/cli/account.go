package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/preferences"
	"github.com/google/subcommands"
)

// accountFlags are the descriptive fields of a bank account.
type accountFlags struct {
	name     string
	purpose  string
	currency string
	bank     string
	number   string
	notes    string
}

func (a *accountFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&a.name, "name", "", "name of the account")
	f.StringVar(&a.purpose, "purpose", string(ledger.PurposeChecking), "purpose of the account")
	f.StringVar(&a.currency, "currency", "USD", "ISO 4217 currency code")
	f.StringVar(&a.bank, "bank", "", "name of the bank")
	f.StringVar(&a.number, "number", "", "account number")
	f.StringVar(&a.notes, "notes", "", "notes")
}

func (a *accountFlags) params() ledger.AccountParams {
	return ledger.AccountParams{
		Name:          a.name,
		Purpose:       ledger.Purpose(a.purpose),
		Currency:      a.currency,
		Bank:          a.bank,
		AccountNumber: a.number,
		Notes:         a.notes,
	}
}

type accountsCmd struct {
	app *App
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the wallet, bank accounts, loans and savings" }
func (*accountsCmd) Usage() string {
	return `budgetctl accounts

  Lists the wallet and the bank accounts with their balances, followed by
  loans and savings.
`
}

func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (c *accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.run(ctx, func(w *workspace) error {
		prefs, err := preferences.Load(ctx, w.store)
		if err != nil {
			return err
		}

		c.app.printMarkdown(accountsMarkdown(w.service.Snapshot(), prefs.Settings.Currency))
		return nil
	})
}

type addAccountCmd struct {
	app *App
	accountFlags

	balance string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "create a bank account" }
func (*addAccountCmd) Usage() string {
	return `budgetctl add-account -name <name> [-purpose <purpose>] [-balance <amount>] [-currency <code>]

  Creates a bank account with an opening balance.
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	c.accountFlags.setFlags(f)
	f.StringVar(&c.balance, "balance", "0", "opening balance")
}

func (c *addAccountCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	balance, err := parseAmount(c.balance)
	if err != nil {
		return c.app.usage("%v", err)
	}

	p := c.params()
	p.Balance = balance

	return c.app.run(ctx, func(w *workspace) error {
		if err := w.service.AddAccount(ctx, p); err != nil {
			return err
		}

		s := w.service.Snapshot()
		c.app.printf("Created account %s\n", s.Accounts[len(s.Accounts)-1].ID)
		return nil
	})
}

type updateAccountCmd struct {
	app *App
	accountFlags
}

func (*updateAccountCmd) Name() string     { return "update-account" }
func (*updateAccountCmd) Synopsis() string { return "change the name, purpose or details of a bank account" }
func (*updateAccountCmd) Usage() string {
	return `budgetctl update-account [-name <name>] [-purpose <purpose>] [-currency <code>] [-bank <bank>] [-number <number>] [-notes <notes>] <id>

  Changes the fields given as flags. The balance is changed with the
  balance command.
`
}

func (c *updateAccountCmd) SetFlags(f *flag.FlagSet) {
	c.accountFlags.setFlags(f)
}

func (c *updateAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage("update-account takes the id of the account")
	}
	id := ledger.ID(f.Arg(0))

	set := map[string]bool{}
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	return c.app.run(ctx, func(w *workspace) error {
		account, ok := w.service.Snapshot().Account(id)
		if !ok {
			return &ledger.NotFoundError{Kind: ledger.KindAccount, ID: id}
		}

		p := ledger.AccountParams{
			Name:          account.Name,
			Purpose:       account.Purpose,
			Currency:      account.Currency,
			Bank:          account.Bank,
			AccountNumber: account.AccountNumber,
			Notes:         account.Notes,
		}

		changes := c.params()
		for name, apply := range map[string]func(){
			"name":     func() { p.Name = changes.Name },
			"purpose":  func() { p.Purpose = changes.Purpose },
			"currency": func() { p.Currency = changes.Currency },
			"bank":     func() { p.Bank = changes.Bank },
			"number":   func() { p.AccountNumber = changes.AccountNumber },
			"notes":    func() { p.Notes = changes.Notes },
		} {
			if set[name] {
				apply()
			}
		}

		if err := w.service.UpdateAccount(ctx, id, p); err != nil {
			return err
		}
		c.app.printf("Updated account %s\n", id)
		return nil
	})
}

type balanceCmd struct {
	app *App
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "set the balance of an account" }
func (*balanceCmd) Usage() string {
	return `budgetctl balance <id> <amount>

  Sets the balance of a bank account or of the wallet. The balance may be
  negative.
`
}

func (*balanceCmd) SetFlags(*flag.FlagSet) {}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return c.app.usage("balance takes the id of the account and the new balance")
	}
	id := ledger.ID(f.Arg(0))

	balance, err := parseAmount(f.Arg(1))
	if err != nil {
		return c.app.usage("%v", err)
	}

	return c.app.run(ctx, func(w *workspace) error {
		if err := w.service.UpdateAccountBalance(ctx, id, balance); err != nil {
			return err
		}
		c.app.printf("Balance of %s set to %s\n", id, balance)
		return nil
	})
}

type deleteAccountCmd struct {
	app *App
}

func (*deleteAccountCmd) Name() string     { return "delete-account" }
func (*deleteAccountCmd) Synopsis() string { return "delete a bank account" }
func (*deleteAccountCmd) Usage() string {
	return `budgetctl delete-account <id>

  Deletes a bank account. Records referencing it are kept.
`
}

func (*deleteAccountCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage("delete-account takes the id of the account")
	}
	id := ledger.ID(f.Arg(0))

	return c.app.run(ctx, func(w *workspace) error {
		if err := w.service.DeleteAccount(ctx, id); err != nil {
			return fmt.Errorf("deleting account: %w", err)
		}
		c.app.printf("Deleted account %s\n", id)
		return nil
	})
}
