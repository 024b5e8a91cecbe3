// Package remote talks to the document store that keeps a copy of each
// user's ledger.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/budgetmaster/backend/internal/ledger"
)

var (
	ErrRemote            = errors.New("remote store error")
	ErrUnknownCollection = errors.New("unknown collection")
)

// RemoteLedgerStore is a document store holding one snapshot per identity.
type RemoteLedgerStore interface {
	// Pull returns the stored snapshot. An identity without a document
	// yields an empty snapshot.
	Pull(ctx context.Context, identity string) (ledger.Snapshot, error)

	// Push merges the top-level keys of the snapshot into the stored document.
	Push(ctx context.Context, identity string, snapshot ledger.Snapshot) error

	// Subscribe delivers the full snapshot every time a key of the collection
	// changes. The channel is closed when ctx is done or the stream ends.
	Subscribe(ctx context.Context, identity string, collection Collection) (<-chan ledger.Snapshot, error)
}

// Collection groups the top-level keys of a snapshot that change together.
type Collection string

const (
	CollectionTransactions Collection = "transactions"
	CollectionAccounts     Collection = "accounts"
)

// Collections lists all collections.
var Collections = []Collection{CollectionTransactions, CollectionAccounts}

// Keys returns the top-level snapshot keys of the collection.
func (c Collection) Keys() []string {
	switch c {
	case CollectionTransactions:
		return []string{"income", "expenses", "loans", "savings"}
	case CollectionAccounts:
		return []string{"bankAccounts", "wallet"}
	}
	return nil
}

func ParseCollection(s string) (Collection, error) {
	c := Collection(s)
	if c.Keys() == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, s)
	}
	return c, nil
}

// DocumentVersion is the version of the stored document format.
const DocumentVersion = "1.0"

// Document is the stored representation of a snapshot.
type Document struct {
	Snapshot  ledger.Snapshot `json:"snapshot"`
	Version   string          `json:"version" example:"1.0"`
	UpdatedAt time.Time       `json:"updatedAt" example:"2024-06-05T12:00:00Z"`
}
