// Package session synchronises the local ledger with the remote document
// store while a user is signed in.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/budgetmaster/backend/internal/budget"
	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/remote"
	"github.com/rs/zerolog/log"
)

var (
	ErrSync      = errors.New("synchronisation failed")
	ErrSignedOut = errors.New("not signed in")
)

// SyncError reports a failed remote operation. The local snapshot is
// never modified by a failed operation.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSync, e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func (e *SyncError) Is(target error) bool {
	return target == ErrSync
}

type State int

const (
	SignedOut State = iota
	Syncing
	Idle
)

func (s State) String() string {
	switch s {
	case SignedOut:
		return "signed out"
	case Syncing:
		return "syncing"
	case Idle:
		return "idle"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Notifier is told about every sync failure.
type Notifier func(error)

type Option func(*Session)

// WithNotifier sets the function sync failures are reported to.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		s.notify = n
	}
}

// WithSubscriptions enables or disables applying remote changes while
// signed in. They are enabled by default.
func WithSubscriptions(enabled bool) Option {
	return func(s *Session) {
		s.subscribe = enabled
	}
}

type Session struct {
	service   *budget.Service
	remote    remote.RemoteLedgerStore
	notify    Notifier
	subscribe bool

	mu       sync.Mutex
	state    State
	identity string
	cancel   context.CancelFunc
	// epoch changes on every sign in and sign out
	epoch uint64
	wg    sync.WaitGroup
}

func New(service *budget.Service, store remote.RemoteLedgerStore, opts ...Option) *Session {
	s := &Session{
		service:   service,
		remote:    store,
		notify:    func(error) {},
		subscribe: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the identity of the signed in user.
func (s *Session) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

func (s *Session) fail(op string, err error) error {
	syncErr := &SyncError{Op: op, Err: err}
	log.Error().Str("operation", op).Err(err).Msg("sync failed")
	s.notify(syncErr)
	return syncErr
}

// hasTransactions decides whether a remote snapshot replaces the local one.
func hasTransactions(s ledger.Snapshot) bool {
	return len(s.Income) > 0 || len(s.Expenses) > 0
}

// SignIn pulls the remote snapshot for identity and replaces the local
// snapshot if the remote one has any income or expenses. It then starts
// applying remote changes. A failed pull leaves the session signed in so
// that Pull can be retried.
func (s *Session) SignIn(ctx context.Context, identity string) error {
	if identity == "" {
		return fmt.Errorf("identity must not be empty")
	}

	s.mu.Lock()
	if s.state != SignedOut {
		s.mu.Unlock()
		return fmt.Errorf("already signed in as %q", s.identity)
	}
	s.state = Syncing
	s.identity = identity
	s.epoch++
	epoch := s.epoch

	subCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	err := s.reconcile(ctx, "sign in", identity)
	if !s.current(epoch) {
		return ErrSignedOut
	}

	if s.subscribe {
		for _, collection := range remote.Collections {
			subErr := s.watch(subCtx, epoch, identity, collection)
			if errors.Is(subErr, ErrSignedOut) {
				return subErr
			}
			if subErr != nil && err == nil {
				err = subErr
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return ErrSignedOut
	}
	s.state = Idle

	return err
}

// current reports whether no sign out happened since the sign in that
// returned epoch.
func (s *Session) current(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch == epoch
}

func (s *Session) reconcile(ctx context.Context, op, identity string) error {
	snapshot, err := s.remote.Pull(ctx, identity)
	if err != nil {
		return s.fail(op, err)
	}

	if !hasTransactions(snapshot) {
		log.Debug().Str("identity", identity).Msg("remote snapshot has no transactions, keeping local data")
		return nil
	}

	if err := s.service.Replace(ctx, snapshot); err != nil {
		return s.fail(op, err)
	}

	log.Info().Str("identity", identity).Msg("replaced local data with remote snapshot")
	return nil
}

// watch applies every snapshot received for the collection until ctx is
// cancelled.
func (s *Session) watch(ctx context.Context, epoch uint64, identity string, collection remote.Collection) error {
	ch, err := s.remote.Subscribe(ctx, identity, collection)
	if err != nil {
		return s.fail("subscribe "+string(collection), err)
	}

	// Add must not race the Wait in SignOut
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return ErrSignedOut
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		for snapshot := range ch {
			// Events that arrive after sign out are dropped
			if ctx.Err() != nil {
				return
			}

			if err := s.service.Replace(ctx, snapshot); err != nil {
				_ = s.fail("apply "+string(collection), err)
			}
		}
	}()

	return nil
}

// Pull pulls the remote snapshot again, using the same rule as SignIn.
func (s *Session) Pull(ctx context.Context) error {
	identity, err := s.begin()
	if err != nil {
		return err
	}
	defer s.end()

	return s.reconcile(ctx, "pull", identity)
}

// Save pushes the local snapshot to the remote store.
func (s *Session) Save(ctx context.Context) error {
	identity, err := s.begin()
	if err != nil {
		return err
	}
	defer s.end()

	if err := s.remote.Push(ctx, identity, s.service.Snapshot()); err != nil {
		return s.fail("save", err)
	}

	log.Info().Str("identity", identity).Msg("saved snapshot to remote store")
	return nil
}

func (s *Session) begin() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SignedOut {
		return "", ErrSignedOut
	}

	s.state = Syncing
	return s.identity, nil
}

func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Syncing {
		s.state = Idle
	}
}

// SignOut stops applying remote changes. The local snapshot is kept.
func (s *Session) SignOut() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.state = SignedOut
	s.identity = ""
	s.epoch++
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}
