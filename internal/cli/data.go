package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/budgetmaster/backend/internal/backup"
	"github.com/budgetmaster/backend/internal/remote"
	"github.com/budgetmaster/backend/internal/session"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// stdio is the location name for standard input and output.
const stdio = "-"

type exportCmd struct {
	app *App
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write a backup file" }
func (*exportCmd) Usage() string {
	return `budgetctl export <file|gs://bucket/object|->

  Writes the ledger, settings, profile and goals into a JSON backup file.
  "-" writes the backup to the standard output.
`
}

func (*exportCmd) SetFlags(*flag.FlagSet) {}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage("export takes the location of the backup")
	}

	var location backup.Location
	if f.Arg(0) != stdio {
		l, err := backup.ParseLocation(f.Arg(0))
		if err != nil {
			return c.app.usage("%v", err)
		}
		location = l
	}

	return c.app.run(ctx, func(w *workspace) error {
		file, err := backup.Export(ctx, w.service, w.store, c.app.Now())
		if err != nil {
			return err
		}

		data, err := file.Encode()
		if err != nil {
			return err
		}

		if location == nil {
			_, err := c.app.Out.Write(append(data, '\n'))
			return err
		}

		if err := location.Write(ctx, data); err != nil {
			return fmt.Errorf("writing backup to %s: %w", location, err)
		}
		c.app.printf("Exported backup to %s\n", location)
		return nil
	})
}

type importCmd struct {
	app *App

	in io.Reader
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "restore a backup file" }
func (*importCmd) Usage() string {
	return `budgetctl import <file|gs://bucket/object|->

  Restores every section of a backup file. Sections that cannot be read
  are reported and skipped, the other sections are still restored.
  "-" reads the backup from the standard input.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (c *importCmd) read(ctx context.Context, uri string) ([]byte, error) {
	if uri == stdio {
		in := c.in
		if in == nil {
			in = os.Stdin
		}
		return io.ReadAll(in)
	}

	location, err := backup.ParseLocation(uri)
	if err != nil {
		return nil, err
	}
	return location.Read(ctx)
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage("import takes the location of the backup")
	}

	data, err := c.read(ctx, f.Arg(0))
	if err != nil {
		return c.app.fail("reading backup: %v", err)
	}

	return c.app.run(ctx, func(w *workspace) error {
		result, err := backup.Import(ctx, w.service, w.store, data)
		if err != nil {
			return err
		}

		for _, s := range result {
			if s.Imported {
				c.app.printf("Imported %s\n", s.Section)
			} else {
				c.app.printf("Skipped %s: %v\n", s.Section, s.Error)
			}
		}
		return result.Err()
	})
}

type clearCmd struct {
	app *App

	yes bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "delete all local data" }
func (*clearCmd) Usage() string {
	return `budgetctl clear -yes

  Deletes the ledger and all preferences of the local store.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "confirm deleting all data")
}

func (c *clearCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		return c.app.usage("clear deletes all local data, confirm with -yes")
	}

	return c.app.run(ctx, func(w *workspace) error {
		if err := w.service.Clear(ctx); err != nil {
			return err
		}
		c.app.printf("Cleared all data\n")
		return nil
	})
}

type syncCmd struct {
	app *App

	pullOnly bool
	watch    bool
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "synchronise the ledger with the document server" }
func (*syncCmd) Usage() string {
	return `budgetctl -remote <url> -identity <identity> sync [-pull-only] [-watch]

  Signs in to the document server. If the remote ledger has income or
  expenses, it replaces the local ledger. The local ledger is then pushed
  back unless -pull-only is set. With -watch, remote changes are applied
  until the command is interrupted.
`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.pullOnly, "pull-only", false, "do not push the local ledger")
	f.BoolVar(&c.watch, "watch", false, "apply remote changes until interrupted")
}

func (c *syncCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.app.Remote == "" || c.app.Identity == "" {
		return c.app.usage("sync needs -remote and -identity")
	}

	client, err := remote.NewClient(c.app.Remote, nil)
	if err != nil {
		return c.app.usage("%v", err)
	}

	return c.app.run(ctx, func(w *workspace) error {
		s := session.New(w.service, client,
			session.WithSubscriptions(c.watch),
			session.WithNotifier(func(err error) {
				log.Warn().Err(err).Msg("synchronisation failed")
			}),
		)
		defer s.SignOut()

		if err := s.SignIn(ctx, c.app.Identity); err != nil {
			return err
		}
		c.app.printf("Signed in as %s\n", c.app.Identity)

		if !c.pullOnly {
			if err := s.Save(ctx); err != nil {
				return err
			}
			c.app.printf("Pushed local ledger\n")
		}

		if !c.watch {
			return nil
		}

		c.app.printf("Watching for remote changes\n")
		unsubscribe := w.service.OnChange(func() {
			c.app.printf("Applied remote change\n")
		})
		defer unsubscribe()

		<-ctx.Done()
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	})
}
