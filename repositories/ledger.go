//go:generate go run go.uber.org/mock/mockgen -source=ledger.go -destination=../mocks/mock_ledger_repository.go -package=mocks
package repositories

import (
	"chat-rooms/errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// LedgerPrefix prefixes every ledger key; the value is a protobuf Timestamp.
const LedgerPrefix = "user:"

// ILedgerRepository is the durable list of usernames registered since process start.
type ILedgerRepository interface {
	Reset() error
	Append(name string, at time.Time) error
	Contains(name string) (bool, error)
	List() ([]LedgerEntry, error)
}

type LedgerRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewLedgerRepository(db *badger.DB, log *slog.Logger) *LedgerRepository {
	return &LedgerRepository{db: db, log: log}
}

// LedgerEntry is one registered username.
type LedgerEntry struct {
	Name         string
	RegisteredAt time.Time
}

// Reset truncates the ledger. Uniqueness is scoped to one server run.
func (l *LedgerRepository) Reset() error {
	if err := l.db.DropPrefix([]byte(LedgerPrefix)); err != nil {
		return fmt.Errorf("ledger reset failed: %w", err)
	}
	l.log.Debug("Username ledger truncated")
	return nil
}

// Append records name inside a single transaction.
// It returns ErrUserAlreadyExists if the name is already in the ledger.
func (l *LedgerRepository) Append(name string, at time.Time) error {
	data, err := proto.Marshal(timestamppb.New(at))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return l.db.Update(func(txn *badger.Txn) error {
		key := []byte(LedgerPrefix + name)
		_, err := txn.Get(key)
		switch {
		case err == nil:
			return errors.ErrUserAlreadyExists
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return txn.Set(key, data)
	})
}

func (l *LedgerRepository) Contains(name string) (bool, error) {
	err := l.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(LedgerPrefix + name))
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}

// List returns every entry ordered by registration time.
func (l *LedgerRepository) List() ([]LedgerEntry, error) {
	var entries []LedgerEntry
	err := l.db.View(func(txn *badger.Txn) error {
		prefix := []byte(LedgerPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			name := strings.TrimPrefix(string(item.Key()), LedgerPrefix)
			err := item.Value(func(val []byte) error {
				var ts timestamppb.Timestamp
				if err := proto.Unmarshal(val, &ts); err != nil {
					return err
				}
				entries = append(entries, LedgerEntry{Name: name, RegisteredAt: ts.AsTime()})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(entries, func(a, b LedgerEntry) int {
		return a.RegisteredAt.Compare(b.RegisteredAt)
	})
	return entries, nil
}
