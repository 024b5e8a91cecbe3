package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgetmaster/backend/internal/database"
	"github.com/budgetmaster/backend/internal/remote"
	"gorm.io/gorm"
)

// Documents stores one document per identity.
type Documents interface {
	// Get returns the document. It returns an error wrapping
	// database.ErrResourceNotFound if there is none.
	Get(ctx context.Context, identity string) (Document, error)

	// Put merges the top-level keys of patch into the document, creating
	// it if necessary. It returns the keys that were written and whether
	// the document was created.
	Put(ctx context.Context, identity string, patch []byte) (doc Document, keys []string, created bool, err error)

	Delete(ctx context.Context, identity string) error
	Ping(ctx context.Context) error
	Close() error
}

// Connect opens the SQLite database at dsn and migrates the document table.
func Connect(dsn string) (*SQLiteDocuments, error) {
	db, err := database.Connect(dsn, &Document{})
	if err != nil {
		return nil, err
	}

	return &SQLiteDocuments{DB: db}, nil
}

// SQLiteDocuments keeps documents in a SQLite database via gorm.
type SQLiteDocuments struct {
	DB *gorm.DB
}

var _ Documents = (*SQLiteDocuments)(nil)

func (s *SQLiteDocuments) Get(ctx context.Context, identity string) (Document, error) {
	var d Document
	err := s.DB.WithContext(ctx).Where("identity = ?", identity).First(&d).Error
	if err != nil {
		return Document{}, err
	}

	return d, nil
}

func (s *SQLiteDocuments) Put(ctx context.Context, identity string, patch []byte) (doc Document, keys []string, created bool, err error) {
	if identity == "" {
		return Document{}, nil, false, ErrEmptyIdentity
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("identity = ?", identity).First(&doc).Error
		if err != nil && !errors.Is(err, database.ErrResourceNotFound) {
			return err
		}
		created = err != nil

		data, changed, err := Merge(doc.Data, patch)
		if err != nil {
			return err
		}
		keys = changed

		doc.Identity = identity
		doc.Data = data
		doc.Version = remote.DocumentVersion

		if created {
			return tx.Create(&doc).Error
		}

		return tx.Save(&doc).Error
	})
	if err != nil {
		return Document{}, nil, false, err
	}

	return doc, keys, created, nil
}

func (s *SQLiteDocuments) Delete(ctx context.Context, identity string) error {
	result := s.DB.WithContext(ctx).Where("identity = ?", identity).Delete(&Document{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w document matching your query", database.ErrResourceNotFound)
	}

	return nil
}

func (s *SQLiteDocuments) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", database.ErrGeneral, err)
	}
	return nil
}

func (s *SQLiteDocuments) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
