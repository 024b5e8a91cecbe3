// Package pgstore keeps the remote ledger documents in PostgreSQL.
package pgstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/budgetmaster/backend/internal/database"
	"github.com/budgetmaster/backend/internal/models"
	"github.com/budgetmaster/backend/internal/remote"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers the pgx5 scheme
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

const columns = "id, identity, data, version, created_at, updated_at"

// Store implements models.Documents on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ models.Documents = (*Store)(nil)

// IsURL reports whether dsn is a PostgreSQL connection URL.
func IsURL(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open migrates the database at url to the latest schema and connects to it.
func Open(ctx context.Context, url string) (*Store, error) {
	if err := Migrate(url); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Migrate applies all pending migrations.
func Migrate(url string) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("error reading migrations: %w", err)
	}

	_, rest, ok := strings.Cut(url, "://")
	if !ok {
		return fmt.Errorf("%q is not a database URL", url)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, "pgx5://"+rest)
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		log.Debug().Uint("version", version).Bool("dirty", dirty).Msg("database migrated")
	}

	return nil
}

// scan reads one row selected with columns.
func scan(row pgx.Row) (models.Document, error) {
	var (
		id      pgtype.UUID
		created time.Time
		updated time.Time
		doc     models.Document
	)

	err := row.Scan(&id, &doc.Identity, &doc.Data, &doc.Version, &created, &updated)
	if err != nil {
		return models.Document{}, err
	}

	doc.ID = uuid.UUID(id.Bytes)
	doc.CreatedAt = created.In(time.UTC)
	doc.UpdatedAt = updated.In(time.UTC)
	return doc, nil
}

// translate maps driver errors to the errors of the database package.
func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w document matching your query", database.ErrResourceNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsDataException(pgErr.Code) {
		return fmt.Errorf("the document was rejected by the database: %s", pgErr.Message)
	}

	if pgErr != nil || errors.Is(err, pgx.ErrTxClosed) {
		log.Error().Msgf("%T: %v", err, err.Error())
		return database.ErrGeneral
	}

	return err
}

func (s *Store) Get(ctx context.Context, identity string) (models.Document, error) {
	doc, err := scan(s.pool.QueryRow(ctx, "SELECT "+columns+" FROM documents WHERE identity = $1", identity))
	if err != nil {
		return models.Document{}, translate(err)
	}
	return doc, nil
}

func (s *Store) Put(ctx context.Context, identity string, patch []byte) (doc models.Document, keys []string, created bool, err error) {
	if identity == "" {
		return models.Document{}, nil, false, models.ErrEmptyIdentity
	}

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		doc, err = scan(tx.QueryRow(ctx, "SELECT "+columns+" FROM documents WHERE identity = $1 FOR UPDATE", identity))
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		created = err != nil

		data, changed, err := models.Merge(doc.Data, patch)
		if err != nil {
			return err
		}
		keys = changed

		if created {
			doc = models.Document{Identity: identity}
			doc.ID = uuid.New()
		}
		doc.Data = data
		doc.Version = remote.DocumentVersion

		row := tx.QueryRow(ctx, `
			INSERT INTO documents (id, identity, data, version)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (identity) DO UPDATE SET data = EXCLUDED.data, version = EXCLUDED.version, updated_at = NOW()
			RETURNING `+columns,
			pgtype.UUID{Bytes: doc.ID, Valid: true}, identity, string(data), doc.Version)

		doc, err = scan(row)
		return err
	})
	if err != nil {
		return models.Document{}, nil, false, translate(err)
	}

	return doc, keys, created, nil
}

func (s *Store) Delete(ctx context.Context, identity string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM documents WHERE identity = $1", identity)
	if err != nil {
		return translate(err)
	}

	if tag.RowsAffected() == 0 {
		return translate(pgx.ErrNoRows)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", database.ErrGeneral, err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
