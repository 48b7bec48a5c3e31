package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/damon-houk/card-transaction-service/internal/domain/entity"
	"github.com/damon-houk/card-transaction-service/internal/domain/repository"
	"github.com/dgraph-io/badger/v3"
)

const (
	cardPrefix     = "card:"
	cardSequence   = "seq:card"
	clientPrefix   = "client:"
	clientSequence = "seq:client"
)

// BadgerCardRepository stores cards keyed by card number
type BadgerCardRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerCardRepository creates a new BadgerDB card repository
func NewBadgerCardRepository(db *badger.DB) (*BadgerCardRepository, error) {
	seq, err := db.GetSequence([]byte(cardSequence), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("failed to lease card sequence: %w", err)
	}

	return &BadgerCardRepository{db: db, seq: seq}, nil
}

// Close returns unused leased IDs to the database
func (r *BadgerCardRepository) Close() error {
	return r.seq.Release()
}

// Store saves a new card. Card numbers are unique.
func (r *BadgerCardRepository) Store(ctx context.Context, card *entity.Card) (*entity.Card, error) {
	id, err := nextID(r.seq)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate card id: %w", err)
	}

	stored := *card
	stored.ID = id

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal card: %w", err)
	}

	key := []byte(cardPrefix + stored.Number)
	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("card number %s already exists", stored.Number)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store card: %w", err)
	}

	return &stored, nil
}

// FindByNumber retrieves a card by its number
func (r *BadgerCardRepository) FindByNumber(ctx context.Context, number string) (*entity.Card, error) {
	var card entity.Card

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cardPrefix + number))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &card)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, repository.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve card: %w", err)
	}

	return &card, nil
}

// BadgerClientRepository stores card holders keyed by ID
type BadgerClientRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerClientRepository creates a new BadgerDB client repository
func NewBadgerClientRepository(db *badger.DB) (*BadgerClientRepository, error) {
	seq, err := db.GetSequence([]byte(clientSequence), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("failed to lease client sequence: %w", err)
	}

	return &BadgerClientRepository{db: db, seq: seq}, nil
}

// Close returns unused leased IDs to the database
func (r *BadgerClientRepository) Close() error {
	return r.seq.Release()
}

// Store saves a new client
func (r *BadgerClientRepository) Store(ctx context.Context, client *entity.Client) (*entity.Client, error) {
	id, err := nextID(r.seq)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate client id: %w", err)
	}

	stored := *client
	stored.ID = id

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal client: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(fmt.Sprintf("%s%0*d", clientPrefix, idWidth, id)), data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store client: %w", err)
	}

	return &stored, nil
}
