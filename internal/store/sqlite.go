package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/budgetmaster/backend/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Slot is a row of the slots table.
type Slot struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

// SQLite stores slots in a SQLite database.
type SQLite struct {
	db *gorm.DB
}

var _ Backend = (*SQLite)(nil)

// OpenSQLite opens or creates the database file at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := database.Connect(path, &Slot{})
	if err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var slot Slot
	err := s.db.WithContext(ctx).Where(&Slot{Key: key}).First(&slot).Error
	if errors.Is(err, database.ErrResourceNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, key)
	}
	if err != nil {
		return nil, err
	}

	return slot.Value, nil
}

func (s *SQLite) Put(ctx context.Context, key string, value []byte) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&Slot{Key: key, Value: value}).Error
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&Slot{Key: key}).Error
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
