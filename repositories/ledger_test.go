package repositories

import (
	"chat-rooms/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Ledger_Append_And_List(t *testing.T) {
	req := require.New(t)
	ledger := NewLedgerRepository(openTestDB(t), slog.Default())
	at := time.Now().UTC()

	req.NoError(ledger.Append("bob", at.Add(time.Second)))
	req.NoError(ledger.Append("alice", at))

	entries, err := ledger.List()
	req.NoError(err)
	req.Len(entries, 2)
	req.Equal("alice", entries[0].Name)
	req.Equal("bob", entries[1].Name)
	req.True(at.Equal(entries[0].RegisteredAt))
}

func Test_Ledger_Append_Duplicate(t *testing.T) {
	req := require.New(t)
	ledger := NewLedgerRepository(openTestDB(t), slog.Default())

	req.NoError(ledger.Append("alice", time.Now()))
	err := ledger.Append("alice", time.Now())

	req.ErrorIs(err, errors.ErrUserAlreadyExists)
	entries, err := ledger.List()
	req.NoError(err)
	req.Len(entries, 1)
}

func Test_Ledger_Contains(t *testing.T) {
	req := require.New(t)
	ledger := NewLedgerRepository(openTestDB(t), slog.Default())
	req.NoError(ledger.Append("alice", time.Now()))

	found, err := ledger.Contains("alice")
	req.NoError(err)
	req.True(found)

	found, err = ledger.Contains("bob")
	req.NoError(err)
	req.False(found)
}

func Test_Ledger_Reset_Truncates(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	ledger := NewLedgerRepository(db, slog.Default())
	req.NoError(ledger.Append("alice", time.Now()))
	req.NoError(ledger.Append("bob", time.Now()))

	// A new run of the service starts from an empty ledger
	req.NoError(NewLedgerRepository(db, slog.Default()).Reset())

	entries, err := ledger.List()
	req.NoError(err)
	req.Empty(entries)
	req.NoError(ledger.Append("alice", time.Now()))
}
