package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/preferences"
	"github.com/google/subcommands"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
)

type prefsCmd struct {
	app *App

	values map[string]*string
}

// preference flags and how they are applied to the loaded preferences
var preferenceFlags = []struct {
	name  string
	usage string
	apply func(p *preferences.Preferences, value string) error
}{
	{"currency", "ISO 4217 currency code", func(p *preferences.Preferences, v string) error {
		p.Settings.Currency = strings.ToUpper(v)
		return nil
	}},
	{"date-format", "date format shown by clients", func(p *preferences.Preferences, v string) error {
		p.Settings.DateFormat = v
		return nil
	}},
	{"language", "BCP 47 language tag", func(p *preferences.Preferences, v string) error {
		tag, err := language.Parse(v)
		if err != nil {
			return fmt.Errorf("invalid language %q: %w", v, err)
		}
		p.Settings.Language = tag
		return nil
	}},
	{"timezone", "IANA time zone", func(p *preferences.Preferences, v string) error {
		p.Settings.Timezone = v
		return nil
	}},
	{"theme", "light, dark or system", func(p *preferences.Preferences, v string) error {
		p.Settings.Theme = v
		return nil
	}},
	{"font-size", "small, medium or large", func(p *preferences.Preferences, v string) error {
		p.Settings.FontSize = v
		return nil
	}},
	{"auto-logout", "minutes of inactivity before signing out", func(p *preferences.Preferences, v string) error {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid auto logout %q", v)
		}
		p.Settings.AutoLogout = minutes
		return nil
	}},
	{"backup-frequency", "daily, weekly or monthly", func(p *preferences.Preferences, v string) error {
		p.Settings.BackupFrequency = v
		return nil
	}},
	{"name", "profile name", func(p *preferences.Preferences, v string) error {
		p.Profile.Name = v
		return nil
	}},
	{"email", "profile email address", func(p *preferences.Preferences, v string) error {
		p.Profile.Email = v
		return nil
	}},
	{"monthly-budget", "monthly spending budget", func(p *preferences.Preferences, v string) (err error) {
		p.Goals.MonthlyBudget, err = parseAmount(v)
		return
	}},
	{"savings-goal", "savings target", func(p *preferences.Preferences, v string) (err error) {
		p.Goals.SavingsGoal, err = parseAmount(v)
		return
	}},
	{"emergency-fund", "emergency fund target", func(p *preferences.Preferences, v string) (err error) {
		p.Goals.EmergencyFund, err = parseAmount(v)
		return
	}},
}

func (*prefsCmd) Name() string     { return "prefs" }
func (*prefsCmd) Synopsis() string { return "display or change settings, profile and goals" }
func (*prefsCmd) Usage() string {
	return `budgetctl prefs [-currency <code>] [-theme <theme>] [-name <name>] [-monthly-budget <amount>] ...

  Without flags, displays the preferences. Every flag given changes the
  preference of the same name. Invalid values are rejected and nothing is
  saved.
`
}

func (c *prefsCmd) SetFlags(f *flag.FlagSet) {
	c.values = map[string]*string{}
	for _, pf := range preferenceFlags {
		c.values[pf.name] = f.String(pf.name, "", pf.usage)
	}
}

func (c *prefsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var set []string
	f.Visit(func(fl *flag.Flag) { set = append(set, fl.Name) })

	return c.app.run(ctx, func(w *workspace) error {
		p, err := preferences.Load(ctx, w.store)
		if err != nil {
			return err
		}

		if len(set) == 0 {
			c.app.printMarkdown(preferencesMarkdown(p))
			return nil
		}

		for _, pf := range preferenceFlags {
			if !slices.Contains(set, pf.name) {
				continue
			}
			if err := pf.apply(&p, *c.values[pf.name]); err != nil {
				return err
			}
		}

		if err := preferences.Save(ctx, w.store, p); err != nil {
			return err
		}
		c.app.printf("Saved %s\n", strings.Join(set, ", "))
		return nil
	})
}

type categoriesCmd struct {
	app *App

	add string
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list or add categories" }
func (*categoriesCmd) Usage() string {
	return `budgetctl categories [-add <kind>:<name>]

  Lists the categories of income, expenses, loans and savings. With -add,
  a custom category is appended to the list of the kind.
`
}

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.add, "add", "", "category to add, as kind:name")
}

func (c *categoriesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var (
		kind ledger.Kind
		name string
	)

	if c.add != "" {
		k, n, ok := strings.Cut(c.add, ":")
		if !ok {
			return c.app.usage("category must be given as kind:name")
		}

		var err error
		if kind, err = ledger.ParseKind(k); err != nil {
			return c.app.usage("%v", err)
		}
		name = n
	}

	return c.app.run(ctx, func(w *workspace) error {
		p, err := preferences.Load(ctx, w.store)
		if err != nil {
			return err
		}

		if c.add == "" {
			c.app.printMarkdown(categoriesMarkdown(p.Categories))
			return nil
		}

		if err := p.Categories.Add(kind, name); err != nil {
			return err
		}
		if err := preferences.SaveCategories(ctx, w.store, p.Categories); err != nil {
			return err
		}
		c.app.printf("Added %s category %q\n", kind, strings.TrimSpace(name))
		return nil
	})
}
