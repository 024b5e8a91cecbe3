package remote

import (
	"context"
	"sync"

	"github.com/budgetmaster/backend/internal/ledger"
)

// Memory is a RemoteLedgerStore keeping documents in memory.
type Memory struct {
	mu        sync.Mutex
	documents map[string]ledger.Snapshot
	hub       *Hub
}

var _ RemoteLedgerStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		documents: map[string]ledger.Snapshot{},
		hub:       NewHub(),
	}
}

func (m *Memory) Pull(_ context.Context, identity string) (ledger.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.documents[identity]
	if !ok {
		return ledger.Empty(), nil
	}
	return s.Clone(), nil
}

// Push replaces the document, as every top-level key of the snapshot is
// present. All subscribers of the identity are notified.
func (m *Memory) Push(_ context.Context, identity string, snapshot ledger.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents[identity] = snapshot.Clone()
	m.hub.Publish(identity, Collections, snapshot)

	return nil
}

func (m *Memory) Subscribe(ctx context.Context, identity string, collection Collection) (<-chan ledger.Snapshot, error) {
	return m.hub.Subscribe(ctx, identity, collection)
}
