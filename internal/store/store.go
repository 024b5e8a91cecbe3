// Package store persists the ledger snapshot and the preference slots
// in a key-value backend and notifies listeners about every write.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/budgetmaster/backend/internal/ledger"
)

// Slot keys
const (
	KeyData       = "budgetMasterData"
	KeySettings   = "budgetMasterSettings"
	KeyProfile    = "budgetMasterProfile"
	KeyGoals      = "budgetMasterGoals"
	KeyCategories = "budgetMasterCategories"
)

// Keys lists every slot the store manages.
var Keys = []string{KeyData, KeySettings, KeyProfile, KeyGoals, KeyCategories}

type Store struct {
	backend Backend
	changes broadcaster
}

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Load reads the snapshot. A store that was never written yields an empty
// snapshot with a zero wallet.
func (s *Store) Load(ctx context.Context) (ledger.Snapshot, error) {
	data, err := s.backend.Get(ctx, KeyData)
	if errors.Is(err, ErrSlotNotFound) {
		return ledger.Empty(), nil
	}
	if err != nil {
		return ledger.Snapshot{}, &PersistenceError{Op: "load", Key: KeyData, Err: err}
	}

	var snapshot ledger.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return ledger.Snapshot{}, &PersistenceError{Op: "load", Key: KeyData, Err: fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)}
	}

	if err := snapshot.Validate(); err != nil {
		return ledger.Snapshot{}, &PersistenceError{Op: "load", Key: KeyData, Err: fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)}
	}

	return snapshot, nil
}

// Save writes the snapshot and notifies all listeners once it is durable.
func (s *Store) Save(ctx context.Context, snapshot ledger.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return &PersistenceError{Op: "save", Key: KeyData, Err: err}
	}

	if err := s.backend.Put(ctx, KeyData, data); err != nil {
		return &PersistenceError{Op: "save", Key: KeyData, Err: err}
	}

	s.changes.publish()
	return nil
}

// LoadSlot decodes the slot at key into v. It reports whether the slot existed.
func (s *Store) LoadSlot(ctx context.Context, key string, v any) (bool, error) {
	data, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrSlotNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &PersistenceError{Op: "load", Key: key, Err: err}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, &PersistenceError{Op: "load", Key: key, Err: err}
	}

	return true, nil
}

// SaveSlot encodes v into the slot at key.
func (s *Store) SaveSlot(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &PersistenceError{Op: "save", Key: key, Err: err}
	}

	if err := s.backend.Put(ctx, key, data); err != nil {
		return &PersistenceError{Op: "save", Key: key, Err: err}
	}

	s.changes.publish()
	return nil
}

// Clear removes all slots and notifies listeners once.
func (s *Store) Clear(ctx context.Context) error {
	for _, key := range Keys {
		if err := s.backend.Delete(ctx, key); err != nil {
			return &PersistenceError{Op: "clear", Key: key, Err: err}
		}
	}

	s.changes.publish()
	return nil
}

// OnChange registers fn to be called after every successful write.
// The returned function removes the registration.
func (s *Store) OnChange(fn func()) (unsubscribe func()) {
	return s.changes.subscribe(fn)
}
