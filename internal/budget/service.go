// Package budget owns the ledger snapshot of a running process. It
// serialises mutations and commits a new snapshot only once the store
// has persisted it.
package budget

import (
	"context"
	"fmt"
	"sync"

	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/store"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Service struct {
	store  *store.Store
	ledger ledger.Ledger

	// mu serialises mutations
	mu sync.Mutex

	// state guards current and pending
	state   sync.RWMutex
	current ledger.Snapshot
	pending *ledger.Snapshot
}

// Open loads the snapshot from the store.
func Open(ctx context.Context, st *store.Store, l ledger.Ledger) (*Service, error) {
	snapshot, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}

	s := &Service{
		store:   st,
		ledger:  l,
		current: snapshot,
	}

	// Registered before any other listener so that listeners reading
	// Snapshot() during a notification see the committed state.
	st.OnChange(s.commit)

	return s, nil
}

func (s *Service) commit() {
	s.state.Lock()
	defer s.state.Unlock()

	if s.pending != nil {
		s.current = *s.pending
		s.pending = nil
	}
}

// Ledger returns the ledger configuration the service applies.
func (s *Service) Ledger() ledger.Ledger {
	return s.ledger
}

// Snapshot returns a copy of the current snapshot.
func (s *Service) Snapshot() ledger.Snapshot {
	s.state.RLock()
	defer s.state.RUnlock()

	return s.current.Clone()
}

// OnChange registers fn to be called after every write to the store.
func (s *Service) OnChange(fn func()) (unsubscribe func()) {
	return s.store.OnChange(fn)
}

// apply runs op on the current snapshot and persists the result. The
// current snapshot is kept when op or the save fails.
func (s *Service) apply(ctx context.Context, name string, op func(ledger.Snapshot) (ledger.Snapshot, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.Snapshot()
	next, err := op(previous)
	if err != nil {
		log.Debug().Str("operation", name).Err(err).Msg("rejected")
		return err
	}

	return s.save(ctx, name, previous, next)
}

// save must be called with mu held.
func (s *Service) save(ctx context.Context, name string, previous, next ledger.Snapshot) error {
	s.state.Lock()
	s.pending = &next
	s.state.Unlock()

	err := s.store.Save(ctx, next)

	s.state.Lock()
	defer s.state.Unlock()
	s.pending = nil

	if err != nil {
		s.current = previous
		log.Error().Str("operation", name).Err(err).Msg("could not persist snapshot")
		return err
	}

	s.current = next
	return nil
}

func (s *Service) AddIncome(ctx context.Context, p ledger.IncomeParams) error {
	return s.apply(ctx, "add income", func(snapshot ledger.Snapshot) (ledger.Snapshot, error) {
		return s.ledger.AddIncome(snapshot, p)
	})
}

func (s *Service) AddExpense(ctx context.Context, p ledger.ExpenseParams) error {
	return s.apply(ctx, "add expense", func(snapshot ledger.Snapshot) (ledger.Snapshot, error) {
		return s.ledger.AddExpense(snapshot, p)
	})
}

func (s *Service) Transfer(ctx context.Context, p ledger.TransferParams) error {
	return s.apply(ctx, "transfer", func(snapshot ledger.Snapshot) (ledger.Snapshot, error) {
		return s.ledger.Transfer(snapshot, p)
	})
}

func (s *Service) AddLoan(ctx context.Context, p ledger.LoanParams) error {
	return s.apply(ctx, "add loan", func(snapshot ledger.Snapshot) (ledger.Snapshot, error) {
		return s.ledger.AddLoan(snapshot, p)
	})
}

func (s *Service) CompleteLoan(ctx context.Context, id ledger.ID) error {
	return s.apply(ctx, "complete loan", func(snapshot ledger.Snapshot) (ledger.Snapshot, error) {
		return s.ledger.CompleteLoan(snapshot, id)
	})
}

func (s *Service) AddSaving(ctx context.Context, p ledger.SavingParams) error {
	return s.apply(ctx, "add saving", func(snapshot ledger.Snapshot) (ledger.Snapshot, error) {
		return s.ledger.AddSaving(snapshot, p)
	})
}

func (s *Service) Delete(ctx context.Context, kind ledger.Kind, id ledger.ID) error {
	return s.apply(ctx, fmt.Sprintf("delete %s", kind), func(snapshot ledger.Snapshot) (ledger.Snapshot, error) {
		return s.ledger.Delete(snapshot, kind, id)
	})
}

func (s *Service) UpdateAccountBalance(ctx context.Context, id ledger.ID, balance decimal.Decimal) error {
	return s.apply(ctx, "update balance", func(snapshot ledger.Snapshot) (ledger.Snapshot, error) {
		return s.ledger.UpdateAccountBalance(snapshot, id, balance)
	})
}

func (s *Service) AddAccount(ctx context.Context, p ledger.AccountParams) error {
	return s.apply(ctx, "add account", func(snapshot ledger.Snapshot) (ledger.Snapshot, error) {
		return s.ledger.AddAccount(snapshot, p)
	})
}

func (s *Service) UpdateAccount(ctx context.Context, id ledger.ID, p ledger.AccountParams) error {
	return s.apply(ctx, "update account", func(snapshot ledger.Snapshot) (ledger.Snapshot, error) {
		return s.ledger.UpdateAccount(snapshot, id, p)
	})
}

func (s *Service) DeleteAccount(ctx context.Context, id ledger.ID) error {
	return s.apply(ctx, "delete account", func(snapshot ledger.Snapshot) (ledger.Snapshot, error) {
		return s.ledger.DeleteAccount(snapshot, id)
	})
}

// Replace persists a complete snapshot, e.g. one pulled from the remote
// store. Snapshots that do not validate are rejected.
func (s *Service) Replace(ctx context.Context, snapshot ledger.Snapshot) error {
	return s.apply(ctx, "replace", func(ledger.Snapshot) (ledger.Snapshot, error) {
		if err := snapshot.Validate(); err != nil {
			return ledger.Snapshot{}, fmt.Errorf("%w: %w", store.ErrCorruptSnapshot, err)
		}
		return snapshot.Clone(), nil
	})
}

// Clear removes all stored data and resets the snapshot to an empty one.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Lock()
	empty := ledger.Empty()
	s.pending = &empty
	s.state.Unlock()

	err := s.store.Clear(ctx)

	s.state.Lock()
	defer s.state.Unlock()
	s.pending = nil

	if err != nil {
		log.Error().Err(err).Msg("could not clear data")
		return err
	}

	s.current = ledger.Empty()
	return nil
}
