package cli

import (
	"context"
	"encoding/json"
	"flag"

	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/preferences"
	"github.com/budgetmaster/backend/internal/report"
	"github.com/budgetmaster/backend/internal/types"
	"github.com/google/subcommands"
)

type listCmd struct {
	app *App

	kind     string
	category string
	account  string
	from     string
	to       string
	search   string
	limit    int
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list income and expenses, newest first" }
func (*listCmd) Usage() string {
	return `budgetctl list [-k income|expense] [-c <glob>] [-account <id>] [-from <date>] [-to <date>] [-s <text>] [-n <limit>]

  Lists the income and expense records matching all given filters. The
  category filter is a case-insensitive glob pattern like "food*".
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", "", "kind of record, income or expense")
	f.StringVar(&c.category, "c", "", "category glob pattern")
	f.StringVar(&c.account, "account", "", "id of an account")
	f.StringVar(&c.from, "from", "", "first date")
	f.StringVar(&c.to, "to", "", "last date")
	f.StringVar(&c.search, "s", "", "text in the description or category")
	f.IntVar(&c.limit, "n", 0, "maximum number of records, 0 for all")
}

func (c *listCmd) filter() (report.Filter, error) {
	filter := report.Filter{
		Category: c.category,
		Account:  ledger.ID(c.account),
		Search:   c.search,
	}

	if c.kind != "" {
		kind, err := ledger.ParseKind(c.kind)
		if err != nil {
			return filter, err
		}
		filter.Kind = kind
	}

	var err error
	if filter.From, err = parseDate(c.from); err != nil {
		return filter, err
	}
	if filter.To, err = parseDate(c.to); err != nil {
		return filter, err
	}

	return filter, nil
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := c.filter()
	if err != nil {
		return c.app.usage("%v", err)
	}

	return c.app.run(ctx, func(w *workspace) error {
		prefs, err := preferences.Load(ctx, w.store)
		if err != nil {
			return err
		}

		list := filter.Apply(w.service.Snapshot())
		if c.limit > 0 && len(list) > c.limit {
			list = list[:c.limit]
		}

		c.app.printMarkdown(activityMarkdown(list, prefs.Settings.Currency))
		return nil
	})
}

type summaryCmd struct {
	app *App

	date string
	json bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the dashboard figures" }
func (*summaryCmd) Usage() string {
	return `budgetctl summary [-date <date>] [-json]

  Displays totals, spending of the day, week and month, loans, the top
  categories and the most recent records.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "day of the summary, defaults to today")
	f.BoolVar(&c.json, "json", false, "print the summary as JSON")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	today := types.Today(c.app.Now)
	if c.date != "" {
		d, err := types.ParseDate(c.date)
		if err != nil {
			return c.app.usage("%v", err)
		}
		today = d
	}

	return c.app.run(ctx, func(w *workspace) error {
		prefs, err := preferences.Load(ctx, w.store)
		if err != nil {
			return err
		}

		summary := report.Summarize(w.service.Snapshot(), prefs.Goals.MonthlyBudget, today)

		if c.json {
			enc := json.NewEncoder(c.app.Out)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}

		c.app.printMarkdown(summaryMarkdown(summary, prefs.Settings.Currency))
		return nil
	})
}
