// Package cli implements the budgetctl commands that drive a local ledger.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/budgetmaster/backend/internal/budget"
	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Local storage backends
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// databaseFile is the name of the SQLite database in the data directory.
const databaseFile = "budgetmaster.db"

// App holds the global flags. Every command gets a pointer to it.
type App struct {
	Data            string
	Backend         string
	Remote          string
	Identity        string
	ReverseOnDelete bool
	Plain           bool
	Verbose         bool

	Out io.Writer
	Err io.Writer
	Now func() time.Time
}

func New() *App {
	return &App{
		Out: os.Stdout,
		Err: os.Stderr,
		Now: time.Now,
	}
}

func defaultData() string {
	if dir, ok := os.LookupEnv("BUDGETMASTER_DATA"); ok {
		return dir
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".budgetmaster"
	}
	return filepath.Join(home, ".budgetmaster")
}

// SetFlags registers the global flags with f.
func (a *App) SetFlags(f *flag.FlagSet) {
	f.StringVar(&a.Data, "data", defaultData(), "directory holding the local ledger")
	f.StringVar(&a.Backend, "backend", BackendSQLite, "local storage backend, sqlite or file")
	f.StringVar(&a.Remote, "remote", os.Getenv("BUDGETMASTER_REMOTE"), "base URL of the document server")
	f.StringVar(&a.Identity, "identity", os.Getenv("BUDGETMASTER_IDENTITY"), "identity the ledger is synchronised as")
	f.BoolVar(&a.ReverseOnDelete, "reverse-on-delete", os.Getenv("BUDGETMASTER_REVERSE_ON_DELETE") == "true", "undo the balance effect of deleted records")
	f.BoolVar(&a.Plain, "plain", false, "print markdown without rendering it")
	f.BoolVar(&a.Verbose, "v", false, "log debug messages")
}

// ConfigureLogging writes human readable logs to the error output.
func (a *App) ConfigureLogging() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if a.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: a.Err}).With().Timestamp().Logger()
}

// Register the subcommands.
func (a *App) Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&transactionCmd{app: a, kind: ledger.KindIncome}, "transactions")
	c.Register(&transactionCmd{app: a, kind: ledger.KindExpense}, "transactions")
	c.Register(&transferCmd{app: a}, "transactions")
	c.Register(&loanCmd{app: a}, "transactions")
	c.Register(&completeLoanCmd{app: a}, "transactions")
	c.Register(&savingCmd{app: a}, "transactions")
	c.Register(&deleteCmd{app: a}, "transactions")

	c.Register(&accountsCmd{app: a}, "accounts")
	c.Register(&addAccountCmd{app: a}, "accounts")
	c.Register(&updateAccountCmd{app: a}, "accounts")
	c.Register(&balanceCmd{app: a}, "accounts")
	c.Register(&deleteAccountCmd{app: a}, "accounts")

	c.Register(&listCmd{app: a}, "reports")
	c.Register(&summaryCmd{app: a}, "reports")

	c.Register(&prefsCmd{app: a}, "preferences")
	c.Register(&categoriesCmd{app: a}, "preferences")

	c.Register(&exportCmd{app: a}, "data")
	c.Register(&importCmd{app: a}, "data")
	c.Register(&clearCmd{app: a}, "data")
	c.Register(&syncCmd{app: a}, "data")
}

// workspace is the opened local ledger.
type workspace struct {
	store   *store.Store
	service *budget.Service
	close   func() error
}

func (a *App) backend() (store.Backend, func() error, error) {
	switch a.Backend {
	case BackendSQLite:
		if err := os.MkdirAll(a.Data, 0o700); err != nil {
			return nil, nil, fmt.Errorf("create data directory %q: %w", a.Data, err)
		}

		db, err := store.OpenSQLite(filepath.Join(a.Data, databaseFile))
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil

	case BackendFile:
		dir, err := store.OpenDir(a.Data)
		if err != nil {
			return nil, nil, err
		}
		return dir, func() error { return nil }, nil
	}

	return nil, nil, fmt.Errorf("unknown backend %q, use %s or %s", a.Backend, BackendSQLite, BackendFile)
}

func (a *App) open(ctx context.Context) (*workspace, error) {
	backend, closer, err := a.backend()
	if err != nil {
		return nil, err
	}

	st := store.New(backend)
	l := ledger.New(
		ledger.WithClock(a.Now),
		ledger.WithReverseOnDelete(a.ReverseOnDelete),
	)

	svc, err := budget.Open(ctx, st, l)
	if err != nil {
		return nil, errors.Join(err, closer())
	}

	log.Debug().Str("data", a.Data).Str("backend", a.Backend).Msg("ledger opened")
	return &workspace{store: st, service: svc, close: closer}, nil
}

// run opens the local ledger, calls fn and closes the ledger again.
func (a *App) run(ctx context.Context, fn func(w *workspace) error) subcommands.ExitStatus {
	w, err := a.open(ctx)
	if err != nil {
		return a.fail("opening ledger: %v", err)
	}

	err = fn(w)
	if closeErr := w.close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("closing ledger")
	}

	if err != nil {
		return a.fail("%v", err)
	}
	return subcommands.ExitSuccess
}

func (a *App) fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error "+format+"\n", args...)
	return subcommands.ExitFailure
}

func (a *App) usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, format+"\n", args...)
	return subcommands.ExitUsageError
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}
