package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/remote"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var (
	ErrUnknownKey    = errors.New("unknown snapshot key")
	ErrEmptyIdentity = errors.New("the identity must not be empty")
)

// Document is the stored snapshot of one identity.
type Document struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Identity  string    `gorm:"uniqueIndex;not null"`
	Data      []byte    `gorm:"not null"`
	Version   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns a new ID to documents that have none.
func (d *Document) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// AfterFind converts the timestamps to UTC. SQLite returns them with a
// +0000 offset, which does not compare equal to time.UTC.
func (d *Document) AfterFind(*gorm.DB) error {
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	return nil
}

// Snapshot decodes the stored data.
func (d Document) Snapshot() (ledger.Snapshot, error) {
	var s ledger.Snapshot
	if err := json.Unmarshal(d.Data, &s); err != nil {
		return ledger.Snapshot{}, err
	}
	return s, nil
}

// API returns the representation of the document in API responses.
func (d Document) API() (remote.Document, error) {
	s, err := d.Snapshot()
	if err != nil {
		return remote.Document{}, err
	}

	return remote.Document{
		Snapshot:  s,
		Version:   d.Version,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// snapshotKeys are the top-level keys a document may contain.
var snapshotKeys = map[string]bool{
	"income":       true,
	"expenses":     true,
	"bankAccounts": true,
	"wallet":       true,
	"loans":        true,
	"savings":      true,
}

// Merge replaces the top-level keys of stored with those present in patch.
// Keys missing from patch keep their stored value. The merged snapshot
// must validate.
//
// It returns the normalised merged data and the keys that were written.
func Merge(stored, patch []byte) ([]byte, []string, error) {
	document := map[string]json.RawMessage{}
	if len(stored) > 0 {
		if err := json.Unmarshal(stored, &document); err != nil {
			return nil, nil, fmt.Errorf("stored document is not valid: %w", err)
		}
	}

	var changes map[string]json.RawMessage
	if err := json.Unmarshal(patch, &changes); err != nil {
		return nil, nil, err
	}

	// Older clients send the accounts under "accounts"
	if accounts, ok := changes["accounts"]; ok {
		if _, ok := changes["bankAccounts"]; !ok {
			changes["bankAccounts"] = accounts
		}
		delete(changes, "accounts")
	}

	keys := make([]string, 0, len(changes))
	for key, value := range changes {
		if !snapshotKeys[key] {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
		}
		document[key] = value
		keys = append(keys, key)
	}
	slices.Sort(keys)

	merged, err := json.Marshal(document)
	if err != nil {
		return nil, nil, err
	}

	var s ledger.Snapshot
	if err := json.Unmarshal(merged, &s); err != nil {
		return nil, nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	normalised, err := json.Marshal(s)
	if err != nil {
		return nil, nil, err
	}

	return normalised, keys, nil
}

// Collections returns the collections that contain any of the keys.
func Collections(keys []string) []remote.Collection {
	var collections []remote.Collection
	for _, c := range remote.Collections {
		for _, k := range c.Keys() {
			if slices.Contains(keys, k) {
				collections = append(collections, c)
				break
			}
		}
	}
	return collections
}
