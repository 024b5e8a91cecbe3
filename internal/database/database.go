// Package database opens the SQLite databases of the local store and of
// the document server and turns driver errors into errors that can be
// shown to users.
package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// busyTimeout is how long SQLite waits for a lock held by another
// process, e.g. a second budgetctl run on the same data directory.
const busyTimeout = 5 * time.Second

// Connect opens the SQLite database file at path and migrates the schema
// of models.
func Connect(path string, models ...any) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", path, busyTimeout.Milliseconds())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  newLogger(log.Logger),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	if err := db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SQLite allows one writer, a single connection avoids SQLITE_BUSY
	// inside the process
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := registerCallbacks(db); err != nil {
		return nil, err
	}
	return db, nil
}

func registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()

	errs := []error{
		cb.Query().After("*").Register("budgetmaster:not_found", notFound),
		cb.Query().After("*").Register("budgetmaster:query_error", driverError),
		cb.Create().After("*").Register("budgetmaster:create_error", driverError),
		cb.Update().After("*").Register("budgetmaster:update_error", driverError),
		cb.Delete().After("*").Register("budgetmaster:delete_error", driverError),
	}
	return errors.Join(errs...)
}

// notFound names the resource that a query did not find, using the table
// name: "there is no document matching your query".
func notFound(db *gorm.DB) {
	if !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		return
	}

	resource := strings.ReplaceAll(db.Statement.Table, "_", " ")
	if singular, ok := strings.CutSuffix(resource, "ies"); ok {
		resource = singular + "y"
	} else {
		resource = strings.TrimSuffix(resource, "s")
	}
	db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, resource)
}

// driverError replaces errors of the SQLite driver and of a closed
// database with ErrGeneral. The original error is only logged.
func driverError(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	var sqliteErr *go_sqlite.Error
	if errors.As(db.Error, &sqliteErr) || db.Error.Error() == "sql: database is closed" {
		log.Error().Err(db.Error).Str("table", db.Statement.Table).Msg("database error")
		db.Error = ErrGeneral
	}
}
