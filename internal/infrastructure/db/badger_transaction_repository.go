package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/damon-houk/card-transaction-service/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
)

// Key layout:
//
//	tx:<id>                    transaction JSON
//	txcard:<number>:<id>       index entry, empty value
//
// IDs are zero-padded so lexical key order matches numeric order.
const (
	transactionPrefix    = "tx:"
	transactionCardIndex = "txcard:"
	transactionSequence  = "seq:tx"
	idWidth              = 20
)

// BadgerTransactionRepository implements the transaction repository interface using BadgerDB
type BadgerTransactionRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerTransactionRepository creates a new BadgerDB transaction repository
func NewBadgerTransactionRepository(db *badger.DB) (*BadgerTransactionRepository, error) {
	seq, err := db.GetSequence([]byte(transactionSequence), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("failed to lease transaction sequence: %w", err)
	}

	return &BadgerTransactionRepository{db: db, seq: seq}, nil
}

// Close returns unused leased IDs to the database
func (r *BadgerTransactionRepository) Close() error {
	return r.seq.Release()
}

// Store saves a new transaction and returns it with its assigned ID
func (r *BadgerTransactionRepository) Store(ctx context.Context, tx *entity.Transaction) (*entity.Transaction, error) {
	id, err := nextID(r.seq)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate transaction id: %w", err)
	}

	// Serialize with the assigned ID
	stored := *tx
	stored.ID = id

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}

	// Write the record and its card index entry atomically
	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(transactionKey(id), data); err != nil {
			return err
		}
		return txn.Set(cardIndexKey(stored.CardNumber, id), nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	return &stored, nil
}

// FindByCardNumber retrieves every transaction charged against the card
func (r *BadgerTransactionRepository) FindByCardNumber(ctx context.Context, cardNumber string) ([]*entity.Transaction, error) {
	prefix := []byte(transactionCardIndex + cardNumber + ":")
	txs := make([]*entity.Transaction, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			// A card number containing ':' can share a prefix with another;
			// only an exact id suffix belongs to this card
			suffix := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
			if !isPaddedID(suffix) {
				continue
			}

			item, err := txn.Get([]byte(transactionPrefix + suffix))
			if err != nil {
				return fmt.Errorf("index points at missing transaction %s: %w", suffix, err)
			}

			var tx entity.Transaction
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &tx)
			}); err != nil {
				return err
			}
			tx.Date = tx.Date.UTC()
			txs = append(txs, &tx)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	return txs, nil
}

func transactionKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%0*d", transactionPrefix, idWidth, id))
}

func cardIndexKey(cardNumber string, id int64) []byte {
	return []byte(fmt.Sprintf("%s%s:%0*d", transactionCardIndex, cardNumber, idWidth, id))
}

func isPaddedID(s string) bool {
	if len(s) != idWidth {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
