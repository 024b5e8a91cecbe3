package pgstore_test

import (
	"context"
	"os"
	"testing"

	"github.com/budgetmaster/backend/internal/database"
	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/pgstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// open connects to the database in TEST_DATABASE_URL and skips the test
// when it is not set.
func open(t *testing.T) *pgstore.Store {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	s, err := pgstore.Open(context.Background(), url)
	require.Nil(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestIsURL(t *testing.T) {
	assert.True(t, pgstore.IsURL("postgres://user@localhost/budget"))
	assert.True(t, pgstore.IsURL("postgresql://localhost"))
	assert.False(t, pgstore.IsURL("data/budgetmaster.db"))
	assert.False(t, pgstore.IsURL("file::memory:"))
}

func TestMigrateInvalidURL(t *testing.T) {
	assert.NotNil(t, pgstore.Migrate("data/budgetmaster.db"))
}

func TestDocuments(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	identity := uuid.NewString()

	_, err := s.Get(ctx, identity)
	assert.ErrorIs(t, err, database.ErrResourceNotFound)

	doc, keys, created, err := s.Put(ctx, identity, []byte(`{"wallet": {"balance": 25}}`))
	require.Nil(t, err)
	assert.True(t, created)
	assert.Equal(t, []string{"wallet"}, keys)
	assert.Equal(t, identity, doc.Identity)

	_, keys, created, err = s.Put(ctx, identity, []byte(`{"savings": [{"id": "s1", "amount": 10, "goal": "Car", "date": "2024-06-01"}]}`))
	require.Nil(t, err)
	assert.False(t, created)
	assert.Equal(t, []string{"savings"}, keys)

	stored, err := s.Get(ctx, identity)
	require.Nil(t, err)
	assert.Equal(t, doc.ID, stored.ID)

	snapshot, err := stored.Snapshot()
	require.Nil(t, err)
	assert.Equal(t, "25", snapshot.Wallet.Balance.String())
	assert.Len(t, snapshot.Savings, 1)

	_, _, _, err = s.Put(ctx, identity, []byte(`{"loans": [{"id": "l1", "amount": -5}]}`))
	assert.ErrorIs(t, err, ledger.ErrInvalidRecord)

	require.Nil(t, s.Delete(ctx, identity))
	assert.ErrorIs(t, s.Delete(ctx, identity), database.ErrResourceNotFound)
}

func TestPing(t *testing.T) {
	s := open(t)
	assert.Nil(t, s.Ping(context.Background()))
}
